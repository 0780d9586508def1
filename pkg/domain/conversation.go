package domain

import "time"

// ItemType distinguishes catalog purchases from custom prints.
type ItemType string

const (
	ItemWebsite ItemType = "Website"
	ItemCustom  ItemType = "Custom"
)

// CartItem is a single line of the order being drafted.
type CartItem struct {
	Type        ItemType `json:"type"`
	ProductName string   `json:"product_name"`
	Details     string   `json:"details,omitempty"`
	Size        string   `json:"size,omitempty"`
	Qty         string   `json:"qty,omitempty"`
}

// Draft accumulates the order fields gathered across turns.
// A field stays empty until its capture state has been passed.
type Draft struct {
	Name    string     `json:"name,omitempty"`
	Address string     `json:"address,omitempty"`
	Phone   string     `json:"phone,omitempty"`
	Cart    []CartItem `json:"cart,omitempty"`

	// Current is the item being configured (product chosen, quantity pending).
	Current *CartItem `json:"current,omitempty"`
}

// Conversation is the per-session snapshot driven by the dialogue machine.
type Conversation struct {
	SessionID string `json:"session_id"`

	// State is the active node of the flow. Always a member of States().
	State StateID `json:"state"`

	// Draft holds the order data accumulated so far.
	Draft Draft `json:"draft"`

	// FallbackStreak counts consecutive unmatched utterances while idle.
	FallbackStreak int `json:"fallback_streak"`

	UpdatedAt time.Time `json:"updated_at,omitempty"`

	// Metadata holds opaque annotations owned by store adapters and middleware.
	// The dialogue never reads it.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// NewConversation creates an idle conversation for the given session.
func NewConversation(sessionID string) *Conversation {
	return &Conversation{
		SessionID: sessionID,
		State:     StateIdle,
	}
}

// Reset returns the conversation to the entry state in place,
// so external references keep pointing at the same value.
func (c *Conversation) Reset() {
	c.State = StateIdle
	c.FallbackStreak = 0
}

// Normalize repairs values that cannot occur through Advance,
// e.g. an unknown state read back from an older store.
func (c *Conversation) Normalize() {
	if !c.State.Valid() {
		c.State = StateIdle
	}
	if c.FallbackStreak < 0 {
		c.FallbackStreak = 0
	}
}

// Snapshot returns a deep copy, safe to hand to another goroutine or store.
func (c *Conversation) Snapshot() *Conversation {
	if c == nil {
		return nil
	}
	out := *c
	if c.Draft.Cart != nil {
		out.Draft.Cart = make([]CartItem, len(c.Draft.Cart))
		copy(out.Draft.Cart, c.Draft.Cart)
	}
	if c.Metadata != nil {
		out.Metadata = make(map[string]string, len(c.Metadata))
		for k, v := range c.Metadata {
			out.Metadata[k] = v
		}
	}
	if c.Draft.Current != nil {
		item := *c.Draft.Current
		out.Draft.Current = &item
	}
	return &out
}
