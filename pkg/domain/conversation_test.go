package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversation_ResetKeepsIdentity(t *testing.T) {
	conv := NewConversation("sess-1")
	conv.State = StateAskAddress
	conv.FallbackStreak = 2
	conv.Draft.Name = "Jane Doe"

	ref := conv
	conv.Reset()

	assert.Same(t, ref, conv)
	assert.Equal(t, StateIdle, conv.State)
	assert.Zero(t, conv.FallbackStreak)
	assert.Equal(t, "Jane Doe", conv.Draft.Name, "reset only rewinds the flow")
}

func TestConversation_Normalize(t *testing.T) {
	conv := &Conversation{State: "SOMETHING_OLD", FallbackStreak: -4}
	conv.Normalize()

	assert.Equal(t, StateIdle, conv.State)
	assert.Zero(t, conv.FallbackStreak)
}

func TestConversation_SnapshotIsDeep(t *testing.T) {
	conv := NewConversation("sess-1")
	conv.Draft.Cart = []CartItem{{Type: ItemWebsite, ProductName: "Poster A", Qty: "2"}}
	conv.Draft.Current = &CartItem{Type: ItemCustom, ProductName: "Custom"}
	conv.Metadata = map[string]string{"k": "v"}

	snap := conv.Snapshot()
	snap.Draft.Cart[0].Qty = "9"
	snap.Draft.Current.ProductName = "changed"
	snap.Metadata["k"] = "changed"

	assert.Equal(t, "2", conv.Draft.Cart[0].Qty)
	assert.Equal(t, "Custom", conv.Draft.Current.ProductName)
	assert.Equal(t, "v", conv.Metadata["k"])
}

func TestStateID_Valid(t *testing.T) {
	for _, s := range States() {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, StateID("").Valid())
	assert.False(t, StateID("idle").Valid(), "state names are case sensitive")
}

func TestNewReply_CopiesOptions(t *testing.T) {
	menu := []string{"a", "b"}
	r := NewReply("hello", menu...)
	menu[0] = "changed"

	assert.Equal(t, []string{"a", "b"}, r.Options)
	assert.False(t, r.ExpectsFreeText())
	assert.True(t, NewReply("name?").ExpectsFreeText())
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	a := LifecycleHooks{OnTransition: func(context.Context, *TransitionEvent) { calls = append(calls, "a") }}
	b := LifecycleHooks{
		OnTransition: func(context.Context, *TransitionEvent) { calls = append(calls, "b") },
		OnTurn:       func(context.Context, *TurnEvent) { calls = append(calls, "turn") },
	}

	merged := a.Merge(b)
	merged.OnTransition(context.Background(), &TransitionEvent{})
	merged.OnTurn(context.Background(), &TurnEvent{})

	assert.Nil(t, merged.OnEscalation)
	assert.Equal(t, []string{"a", "b", "turn"}, calls)
}

func TestOrder_MatchesRef(t *testing.T) {
	order := Order{Ref: "ID1792"}

	assert.True(t, order.MatchesRef("1792"))
	assert.True(t, order.MatchesRef("ID1792"))
	assert.False(t, order.MatchesRef("179"))
	assert.False(t, order.MatchesRef(""))
}
