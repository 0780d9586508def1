package dialogue_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/posterman/orderbot/pkg/adapters/memory"
	"github.com/posterman/orderbot/pkg/dialogue"
	"github.com/posterman/orderbot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func say(t *testing.T, m *dialogue.Machine, conv *domain.Conversation, lines ...string) domain.Reply {
	t.Helper()
	var reply domain.Reply
	for _, line := range lines {
		reply = m.Advance(context.Background(), conv, line)
		require.True(t, conv.State.Valid(), "state %q escaped the closed set after %q", conv.State, line)
	}
	return reply
}

func TestMachine_ResetFromEveryState(t *testing.T) {
	m := dialogue.New()
	for _, state := range domain.States() {
		for _, phrase := range []string{"hi", "  MENU ", "🔙 Main Menu", "restart"} {
			t.Run(string(state)+"/"+phrase, func(t *testing.T) {
				conv := domain.NewConversation("s1")
				conv.State = state
				conv.FallbackStreak = 2

				reply := say(t, m, conv, phrase)

				assert.Equal(t, domain.StateIdle, conv.State)
				assert.Zero(t, conv.FallbackStreak)
				assert.Contains(t, reply.Text, "Welcome to PosterMan")
				assert.Equal(t, dialogue.MainMenu(), reply.Options)
			})
		}
	}
}

func TestMachine_ResetIsIdempotent(t *testing.T) {
	m := dialogue.New()
	conv := domain.NewConversation("s1")

	first := say(t, m, conv, "hi")
	second := say(t, m, conv, "hi")

	assert.Equal(t, first, second)
	assert.Equal(t, domain.StateIdle, conv.State)
}

func TestMachine_TrackOrder(t *testing.T) {
	m := dialogue.New()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Shipped", "#1234", "Order #1234: Shipped 🚚"},
		{"Processing", "555", "Order #555: Processing ⏳"},
		{"Embedded Digits", "my id is PM-1234 thanks", "Order #1234: Shipped"},
		{"No Digits", "#abc", "Order #abc: Processing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := domain.NewConversation("s1")

			prompt := say(t, m, conv, "track my order")
			assert.Equal(t, domain.StateCheckStatus, conv.State)
			assert.Contains(t, prompt.Text, "Order ID")

			reply := say(t, m, conv, tt.input)
			assert.Contains(t, reply.Text, tt.want)
			assert.Equal(t, domain.StateIdle, conv.State)
		})
	}
}

type failingTracker struct{ err error }

func (f failingTracker) Status(ctx context.Context, orderID string) (domain.OrderStatus, error) {
	return "", f.err
}

func TestMachine_TrackOrder_TrackerErrors(t *testing.T) {
	t.Run("Not Found", func(t *testing.T) {
		m := dialogue.New(dialogue.WithTracker(failingTracker{err: domain.ErrOrderNotFound}))
		conv := domain.NewConversation("s1")
		reply := say(t, m, conv, "status", "42")
		assert.Equal(t, "Order ID not found.", reply.Text)
		assert.Equal(t, domain.StateIdle, conv.State)
	})

	t.Run("Backend Failure", func(t *testing.T) {
		m := dialogue.New(dialogue.WithTracker(failingTracker{err: errors.New("boom")}))
		conv := domain.NewConversation("s1")
		reply := say(t, m, conv, "status", "42")
		assert.Contains(t, reply.Text, "couldn't check")
		assert.Equal(t, domain.StateIdle, conv.State)
	})
}

func TestMachine_HappyPath(t *testing.T) {
	book := memory.NewOrderBook()
	m := dialogue.New(
		dialogue.WithOrderSink(book),
		dialogue.WithRefGenerator(func() string { return "ID4242" }),
	)
	conv := domain.NewConversation("web_guest")

	steps := []struct {
		input string
		state domain.StateID
	}{
		{"🛒 Place an order", domain.StateAskOrderCategory},
		{"Website Product", domain.StateWebsiteSelectProduct},
		{"Naruto Poster", domain.StateWebsiteAskQty},
		{"2", domain.StateAskAddMore},
		{"No, Checkout", domain.StateAskName},
		{"Jane Doe", domain.StateAskAddress},
		{"221B Baker Street", domain.StateAskPhone},
	}
	for _, step := range steps {
		say(t, m, conv, step.input)
		require.Equal(t, step.state, conv.State, "after %q", step.input)
	}

	reply := say(t, m, conv, "9876543210")

	assert.Equal(t, domain.StateIdle, conv.State)
	assert.Contains(t, reply.Text, "Order Placed Successfully")
	assert.Contains(t, reply.Text, "#ID4242")
	assert.Contains(t, reply.Text, "Jane Doe")
	assert.Contains(t, reply.Text, "Items: 1")
	assert.Equal(t, []string{dialogue.OptionCheckStatus, dialogue.OptionAnotherOrder}, reply.Options)

	orders := book.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "ID4242", orders[0].Ref)
	assert.Equal(t, "web_guest", orders[0].Session)
	assert.Equal(t, "221B Baker Street", orders[0].Address)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, domain.CartItem{Type: domain.ItemWebsite, ProductName: "Naruto Poster", Size: "NA", Qty: "2"}, orders[0].Items[0])

	// The draft survives confirmation.
	assert.Equal(t, "Jane Doe", conv.Draft.Name)
	assert.Len(t, conv.Draft.Cart, 1)
}

func TestMachine_ClearDraftOnConfirm(t *testing.T) {
	m := dialogue.New(dialogue.WithClearDraftOnConfirm(true))
	conv := domain.NewConversation("s1")

	say(t, m, conv, "place an order", "custom", "A cat in a cape", "1", "no", "Jane Doe", "Somewhere", "9876543210")

	assert.Equal(t, domain.StateIdle, conv.State)
	assert.Equal(t, domain.Draft{}, conv.Draft)
}

func TestMachine_AddMoreLoops(t *testing.T) {
	book := memory.NewOrderBook()
	m := dialogue.New(dialogue.WithOrderSink(book))
	conv := domain.NewConversation("s1")

	say(t, m, conv, "place an order", "website", "Goku Poster", "1")
	reply := say(t, m, conv, "Yes")
	assert.Equal(t, domain.StateAskOrderCategory, conv.State)
	assert.Equal(t, "Category?", reply.Text)

	say(t, m, conv, "Custom Product", "[Image Uploaded] https://cdn.example/cat.png", "3", "No, Checkout", "Jane", "Addr", "9876543210")

	orders := book.Orders()
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 2)
	assert.Equal(t, "Goku Poster", orders[0].Items[0].ProductName)
	assert.Equal(t, domain.ItemCustom, orders[0].Items[1].Type)
	assert.Equal(t, "Image: https://cdn.example/cat.png", orders[0].Items[1].Details)
	assert.Equal(t, "3", orders[0].Items[1].Qty)
}

func TestMachine_CategoryReprompt(t *testing.T) {
	m := dialogue.New()
	conv := domain.NewConversation("s1")

	say(t, m, conv, "place an order")
	reply := say(t, m, conv, "something else")

	assert.Equal(t, domain.StateAskOrderCategory, conv.State)
	assert.Equal(t, "Please choose:", reply.Text)
	assert.Equal(t, []string{dialogue.OptionWebsite, dialogue.OptionCustom}, reply.Options)
}

func TestMachine_ProductOptionsFromCatalog(t *testing.T) {
	t.Run("Empty Catalog", func(t *testing.T) {
		m := dialogue.New()
		conv := domain.NewConversation("s1")
		reply := say(t, m, conv, "place an order", "website")
		assert.Equal(t, []string{dialogue.GenericProduct, dialogue.OptionMainMenu}, reply.Options)
	})

	t.Run("Capped Titles", func(t *testing.T) {
		var products []domain.ProductCard
		for i := 0; i < 15; i++ {
			products = append(products, domain.ProductCard{ID: string(rune('a' + i)), Title: "Poster " + string(rune('A'+i))})
		}
		m := dialogue.New(dialogue.WithCatalog(memory.NewCatalog(products...)))
		conv := domain.NewConversation("s1")
		reply := say(t, m, conv, "place an order", "website")
		require.Len(t, reply.Options, 11)
		assert.Equal(t, "Poster A", reply.Options[0])
		assert.Equal(t, dialogue.OptionMainMenu, reply.Options[10])
	})
}

func TestMachine_Escalation(t *testing.T) {
	var escalations int
	m := dialogue.New(
		dialogue.WithHandoffLink("https://wa.me/1"),
		dialogue.WithLifecycleHooks(domain.LifecycleHooks{
			OnEscalation: func(ctx context.Context, e *domain.EventBase) {
				escalations++
				assert.Equal(t, domain.EventEscalation, e.Type)
			},
		}),
	)
	conv := domain.NewConversation("s1")

	first := say(t, m, conv, "qwerty")
	assert.Contains(t, first.Text, "didn't quite catch")
	assert.Equal(t, dialogue.MainMenu(), first.Options)
	assert.Equal(t, 1, conv.FallbackStreak)

	third := say(t, m, conv, "zxcv", "asdf")
	assert.Contains(t, third.Text, "https://wa.me/1")
	assert.Equal(t, []string{dialogue.OptionMainMenu}, third.Options)
	assert.Zero(t, conv.FallbackStreak)
	assert.Equal(t, 1, escalations)

	fourth := say(t, m, conv, "???")
	assert.Contains(t, fourth.Text, "didn't quite catch")
	assert.Equal(t, 1, conv.FallbackStreak)
	assert.Equal(t, domain.StateIdle, conv.State)
}

func TestMachine_MatchResetsStreak(t *testing.T) {
	m := dialogue.New()
	conv := domain.NewConversation("s1")

	say(t, m, conv, "qwerty", "zxcv")
	require.Equal(t, 2, conv.FallbackStreak)

	say(t, m, conv, "what is your refund policy")
	assert.Zero(t, conv.FallbackStreak)
}

func TestMachine_IdleIntents(t *testing.T) {
	m := dialogue.New()

	tests := []struct {
		input   string
		contain string
		state   domain.StateID
	}{
		{"show me marvel", "products.html?cat=marvel", domain.StateIdle},
		{"any gift ideas", "products.html?cat=all", domain.StateIdle},
		{"custom print please", "240gsm", domain.StateIdle},
		{"[Image Uploaded] https://cdn.example/a.png", "How many copies", domain.StateCustomAskQty},
		{"shipping info", "PosterMan Policies", domain.StateIdle},
		{"go to cart", "Proceed to Checkout", domain.StateIdle},
		{"Chat on WhatsApp", "wa.me", domain.StateIdle},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			conv := domain.NewConversation("s1")
			reply := say(t, m, conv, tt.input)
			assert.Contains(t, reply.Text, tt.contain)
			assert.Equal(t, tt.state, conv.State)
		})
	}
}

func TestMachine_UploadShortcut(t *testing.T) {
	book := memory.NewOrderBook()
	m := dialogue.New(dialogue.WithOrderSink(book))
	conv := domain.NewConversation("s1")

	reply := say(t, m, conv, "[Image Uploaded] https://cdn.example/a.png")
	assert.Equal(t, []string{"1", "2", "3", "5"}, reply.Options)

	say(t, m, conv, "5", "no", "Jane", "Addr", "9876543210")
	orders := book.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "Custom Upload", orders[0].Items[0].ProductName)
	assert.Equal(t, "5", orders[0].Items[0].Qty)
}

func TestMachine_UnknownStateRecovers(t *testing.T) {
	m := dialogue.New()
	conv := domain.NewConversation("s1")
	conv.State = "LEGACY_STATE"

	say(t, m, conv, "status")
	assert.Equal(t, domain.StateCheckStatus, conv.State)
}

func TestMachine_TransitionHook(t *testing.T) {
	var events []domain.TransitionEvent
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	m := dialogue.New(
		dialogue.WithClock(func() time.Time { return now }),
		dialogue.WithLifecycleHooks(domain.LifecycleHooks{
			OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
				events = append(events, *e)
			},
		}),
	)
	conv := domain.NewConversation("s1")

	say(t, m, conv, "place an order", "hi")

	require.Len(t, events, 2)
	assert.Equal(t, domain.StateIdle, events[0].From)
	assert.Equal(t, domain.StateAskOrderCategory, events[0].To)
	assert.Equal(t, domain.IntentPlaceOrder, events[0].Intent)
	assert.Equal(t, domain.IntentReset, events[1].Intent)
	assert.Equal(t, now, conv.UpdatedAt)
}

func TestMachine_NilConversationPanics(t *testing.T) {
	assert.Panics(t, func() {
		dialogue.New().Advance(context.Background(), nil, "hi")
	})
}
