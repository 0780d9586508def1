package domain

import (
	"strings"
	"time"
)

// Reply is the canonical bot answer for one turn.
// Empty Options means free text is expected next; otherwise the UI offers
// exactly those choices while still accepting free text.
type Reply struct {
	Text    string   `json:"text" mapstructure:"text"`
	Options []string `json:"options" mapstructure:"options"`
}

// NewReply builds a reply, copying the options so shared menus are never aliased.
func NewReply(text string, options ...string) Reply {
	opts := make([]string, len(options))
	copy(opts, options)
	return Reply{Text: text, Options: opts}
}

// ExpectsFreeText reports whether no quick replies are offered.
func (r Reply) ExpectsFreeText() bool {
	return len(r.Options) == 0
}

// ProductCard is the catalog display shape consumed by renderers.
type ProductCard struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Image    string `json:"image,omitempty"`
	Price    string `json:"price,omitempty"`
	Category string `json:"category,omitempty"`
}

// Order is a confirmed checkout handed to an order sink.
type Order struct {
	Ref      string     `json:"ref"`
	Session  string     `json:"session_id"`
	Name     string     `json:"name"`
	Address  string     `json:"address"`
	Phone    string     `json:"phone"`
	Items    []CartItem `json:"items"`
	PlacedAt time.Time  `json:"placed_at"`
}

// OrderStatus is the result of a tracking lookup.
type OrderStatus string

const (
	OrderShipped    OrderStatus = "Shipped"
	OrderProcessing OrderStatus = "Processing"

	// OrderPaymentPending is reported for recorded orders awaiting payment verification.
	OrderPaymentPending OrderStatus = "Payment Pending"
)

// MatchesRef reports whether a tracking lookup for orderID refers to this order.
// Lookups carry only the digits of a reference, so "1792" matches "ID1792".
func (o Order) MatchesRef(orderID string) bool {
	if orderID == "" {
		return false
	}
	return o.Ref == orderID || refDigits(o.Ref) == orderID
}

func refDigits(ref string) string {
	var b strings.Builder
	for _, r := range ref {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
