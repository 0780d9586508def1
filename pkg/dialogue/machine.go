// Package dialogue implements the PosterBot order flow as a finite-state machine.
//
// The machine holds no per-session data: every call to Advance receives the
// session's Conversation, mutates it in place and returns the Reply for the turn.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"github.com/posterman/orderbot/internal/logging"
	"github.com/posterman/orderbot/pkg/domain"
	"github.com/posterman/orderbot/pkg/intent"
	"github.com/posterman/orderbot/pkg/ports"
)

// EscalationThreshold is the number of consecutive idle misses that triggers a human handoff.
const EscalationThreshold = 3

var orderIDPattern = regexp.MustCompile(`\d+`)

// Machine is the dialogue state machine. It is safe for concurrent use as long
// as each Conversation is advanced by one goroutine at a time.
type Machine struct {
	matcher     *intent.Matcher
	catalog     ports.Catalog
	tracker     ports.OrderTracker
	sink        ports.OrderSink
	newRef      func() string
	now         func() time.Time
	handoffLink string
	clearDraft  bool
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
}

// Option configures the Machine.
type Option func(*Machine)

// WithMatcher replaces the default rule table.
func WithMatcher(m *intent.Matcher) Option {
	return func(mc *Machine) {
		mc.matcher = m
	}
}

// WithCatalog sets the product source offered in WEBSITE_SELECT_PRODUCT.
func WithCatalog(c ports.Catalog) Option {
	return func(m *Machine) {
		m.catalog = c
	}
}

// WithTracker sets the order status lookup used by CHECK_STATUS.
func WithTracker(t ports.OrderTracker) Option {
	return func(m *Machine) {
		m.tracker = t
	}
}

// WithOrderSink registers a receiver for confirmed orders.
func WithOrderSink(s ports.OrderSink) Option {
	return func(m *Machine) {
		m.sink = s
	}
}

// WithRefGenerator overrides the random order reference generator.
func WithRefGenerator(fn func() string) Option {
	return func(m *Machine) {
		m.newRef = fn
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		m.now = now
	}
}

// WithHandoffLink sets the human support link used by escalations.
func WithHandoffLink(link string) Option {
	return func(m *Machine) {
		if link != "" {
			m.handoffLink = link
		}
	}
}

// WithClearDraftOnConfirm empties the draft after an order is confirmed.
// By default the draft is kept, so a second order in the same session
// starts with the previous cart and contact details.
func WithClearDraftOnConfirm(clear bool) Option {
	return func(m *Machine) {
		m.clearDraft = clear
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Machine) {
		m.hooks = hooks
	}
}

// WithLogger configures a logger for the Machine.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// New creates a Machine with the PosterBot defaults.
func New(opts ...Option) *Machine {
	m := &Machine{
		matcher:     intent.New(),
		tracker:     MockTracker{},
		newRef:      randomRef,
		now:         time.Now,
		handoffLink: DefaultHandoffLink,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func randomRef() string {
	return fmt.Sprintf("ID%d", 1000+rand.IntN(9000))
}

// Advance applies one utterance to conv and returns the reply.
// It always produces a reply; a nil conversation is a programming error.
func (m *Machine) Advance(ctx context.Context, conv *domain.Conversation, utterance string) domain.Reply {
	if conv == nil {
		panic("dialogue: Advance called with a nil conversation")
	}
	conv.Normalize()

	from := conv.State
	match := m.matcher.Classify(conv.State, utterance)
	reply := m.step(ctx, conv, match, strings.TrimSpace(utterance))
	conv.UpdatedAt = m.now()

	m.logger.Debug("dialogue: advanced",
		"session_id", conv.SessionID,
		"from", from,
		"to", conv.State,
		"intent", match.Intent,
	)
	if m.hooks.OnTransition != nil {
		m.hooks.OnTransition(ctx, &domain.TransitionEvent{
			EventBase: m.event(domain.EventTransition, conv.SessionID),
			From:      from,
			To:        conv.State,
			Intent:    match.Intent,
		})
	}
	return reply
}

func (m *Machine) event(t domain.EventType, sessionID string) domain.EventBase {
	return domain.EventBase{Timestamp: m.now(), Type: t, SessionID: sessionID}
}

func (m *Machine) step(ctx context.Context, conv *domain.Conversation, match domain.Match, text string) domain.Reply {
	if match.Intent == domain.IntentReset {
		conv.Reset()
		return welcomeReply()
	}

	lower := intent.Normalize(text)

	switch conv.State {
	case domain.StateIdle:
		return m.idle(ctx, conv, match)

	case domain.StateCheckStatus:
		conv.State = domain.StateIdle
		return m.lookup(ctx, text)

	case domain.StateAskOrderCategory:
		switch {
		case strings.Contains(lower, "website"):
			conv.State = domain.StateWebsiteSelectProduct
			return domain.NewReply("Select a product from our catalog:", m.productOptions(ctx)...)
		case strings.Contains(lower, "custom"):
			conv.State = domain.StateCustomUploadDetails
			return domain.NewReply("For custom products, please describe/upload details here.", OptionUploaded, OptionMainMenu)
		}
		// Neither branch matched: stay and ask again rather than dropping the turn.
		return categoryReply("Please choose:")

	case domain.StateWebsiteSelectProduct:
		if strings.Contains(lower, "main menu") {
			conv.Reset()
			return welcomeReply()
		}
		conv.Draft.Current = &domain.CartItem{Type: domain.ItemWebsite, ProductName: text, Size: "NA"}
		conv.State = domain.StateWebsiteAskQty
		return domain.NewReply(fmt.Sprintf("Selected '%s'. Quantity?", text), "1", "2", "3")

	case domain.StateCustomUploadDetails:
		details := text
		if intent.HasUpload(text) {
			details = "Image: " + intent.Attachment(text)
		}
		conv.Draft.Current = &domain.CartItem{Type: domain.ItemCustom, ProductName: "Custom", Details: details}
		conv.State = domain.StateCustomAskQty
		return domain.NewReply("Got it. Quantity?", "1", "2", "3")

	case domain.StateWebsiteAskQty, domain.StateCustomAskQty:
		m.addToCart(conv, text)
		conv.State = domain.StateAskAddMore
		return addedToCartReply()

	case domain.StateAskAddMore:
		if strings.Contains(lower, "yes") {
			conv.State = domain.StateAskOrderCategory
			return categoryReply("Category?")
		}
		conv.State = domain.StateAskName
		return domain.NewReply("Please enter your Full Name:")

	case domain.StateAskName:
		conv.Draft.Name = text
		conv.State = domain.StateAskAddress
		return domain.NewReply("Please enter your Full Address:")

	case domain.StateAskAddress:
		conv.Draft.Address = text
		conv.State = domain.StateAskPhone
		return domain.NewReply("Please enter your 10-digit Mobile Number:")

	case domain.StateAskPhone:
		conv.Draft.Phone = text
		return m.confirm(ctx, conv)
	}

	// Normalize guarantees a known state, so this is unreachable.
	conv.Reset()
	return welcomeReply()
}

func (m *Machine) idle(ctx context.Context, conv *domain.Conversation, match domain.Match) domain.Reply {
	if match.Matched() {
		conv.FallbackStreak = 0
	}

	switch match.Intent {
	case domain.IntentTrackOrder:
		conv.State = domain.StateCheckStatus
		return trackPromptReply()

	case domain.IntentBrowseProducts:
		category := match.Category
		if category == "" {
			category = domain.CategoryAll
		}
		return browseReply(category)

	case domain.IntentCustomPrint:
		if match.Attachment == "" {
			return customInfoReply()
		}
		conv.Draft.Current = &domain.CartItem{
			Type:        domain.ItemCustom,
			ProductName: "Custom Upload",
			Details:     "Image: " + match.Attachment,
		}
		conv.State = domain.StateCustomAskQty
		return uploadReceivedReply()

	case domain.IntentPolicy:
		return policiesReply()

	case domain.IntentCheckout:
		return checkoutReply()

	case domain.IntentHandoff:
		return handoffReply(m.handoffLink)

	case domain.IntentPlaceOrder:
		conv.State = domain.StateAskOrderCategory
		return categoryReply("What would you like to order?")
	}

	conv.FallbackStreak++
	if conv.FallbackStreak >= EscalationThreshold {
		conv.FallbackStreak = 0
		m.logger.Info("dialogue: escalating to human handoff", "session_id", conv.SessionID)
		if m.hooks.OnEscalation != nil {
			ev := m.event(domain.EventEscalation, conv.SessionID)
			m.hooks.OnEscalation(ctx, &ev)
		}
		return escalationReply(m.handoffLink)
	}
	return notUnderstoodReply()
}

func (m *Machine) lookup(ctx context.Context, text string) domain.Reply {
	orderID := orderIDPattern.FindString(text)
	if orderID == "" {
		orderID = strings.TrimSpace(strings.ReplaceAll(text, "#", ""))
	}

	status, err := m.tracker.Status(ctx, orderID)
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		return orderNotFoundReply()
	case err != nil:
		m.logger.Warn("dialogue: order lookup failed", "order_id", orderID, "err", err)
		return trackingFailedReply()
	}
	return statusReply(orderID, status)
}

func (m *Machine) productOptions(ctx context.Context) []string {
	var titles []string
	if m.catalog != nil {
		products, err := m.catalog.Products(ctx)
		if err != nil {
			m.logger.Warn("dialogue: catalog unavailable", "err", err)
		}
		for _, p := range products {
			if p.Title == "" {
				continue
			}
			titles = append(titles, p.Title)
			if len(titles) == maxProductOptions {
				break
			}
		}
	}
	if len(titles) == 0 {
		titles = []string{GenericProduct}
	}
	return append(titles, OptionMainMenu)
}

func (m *Machine) addToCart(conv *domain.Conversation, qty string) {
	item := conv.Draft.Current
	if item == nil {
		// Quantity reached without a selection (e.g. a conversation restored mid-flow).
		item = &domain.CartItem{Type: domain.ItemWebsite, ProductName: GenericProduct, Size: "NA"}
		if conv.State == domain.StateCustomAskQty {
			item = &domain.CartItem{Type: domain.ItemCustom, ProductName: "Custom"}
		}
	}
	item.Qty = qty
	conv.Draft.Cart = append(conv.Draft.Cart, *item)
	conv.Draft.Current = nil
}

func (m *Machine) confirm(ctx context.Context, conv *domain.Conversation) domain.Reply {
	order := domain.Order{
		Ref:      m.newRef(),
		Session:  conv.SessionID,
		Name:     conv.Draft.Name,
		Address:  conv.Draft.Address,
		Phone:    conv.Draft.Phone,
		Items:    append([]domain.CartItem(nil), conv.Draft.Cart...),
		PlacedAt: m.now(),
	}

	if m.sink != nil {
		if err := m.sink.Record(ctx, order); err != nil {
			m.logger.Error("dialogue: failed to record order", "session_id", conv.SessionID, "ref", order.Ref, "err", err)
		}
	}
	m.logger.Info("dialogue: order confirmed", "session_id", conv.SessionID, "ref", order.Ref, "items", len(order.Items))

	conv.State = domain.StateIdle
	conv.FallbackStreak = 0
	if m.clearDraft {
		conv.Draft = domain.Draft{}
	}
	return confirmationReply(order)
}
