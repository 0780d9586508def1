package orderbot

import (
	"context"
	"log/slog"
	"time"

	"github.com/posterman/orderbot/internal/logging"
	"github.com/posterman/orderbot/pkg/adapters/memory"
	"github.com/posterman/orderbot/pkg/dialogue"
	"github.com/posterman/orderbot/pkg/domain"
	"github.com/posterman/orderbot/pkg/orchestrator"
	"github.com/posterman/orderbot/pkg/ports"
	"github.com/posterman/orderbot/pkg/session"
)

// Bot is the high-level entry point of the library.
// It wires the dialogue machine, the session manager and the fallback orchestrator.
type Bot struct {
	orchestrator *orchestrator.Orchestrator
	sessions     *session.Manager
}

type config struct {
	store       ports.ConversationStore
	locker      ports.DistributedLocker
	lockTTL     time.Duration
	remote      ports.RemoteDialogue
	replyDelay  time.Duration
	catalog     ports.Catalog
	tracker     ports.OrderTracker
	sink        ports.OrderSink
	handoffLink string
	clearDraft  bool
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
}

// Option defines a functional option for configuring the Bot.
type Option func(*config)

// WithStore sets the conversation store. Defaults to an in-memory store.
func WithStore(store ports.ConversationStore) Option {
	return func(c *config) {
		c.store = store
	}
}

// WithLocker adds a distributed lock around each turn, for multi-replica deployments.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(c *config) {
		c.locker = locker
		c.lockTTL = ttl
	}
}

// WithRemote enables the remote dialogue service. Without it every turn is local.
func WithRemote(remote ports.RemoteDialogue) Option {
	return func(c *config) {
		c.remote = remote
	}
}

// WithReplyDelay waits d before returning each reply.
func WithReplyDelay(d time.Duration) Option {
	return func(c *config) {
		c.replyDelay = d
	}
}

// WithCatalog sets the product catalog offered in WEBSITE_SELECT_PRODUCT.
func WithCatalog(catalog ports.Catalog) Option {
	return func(c *config) {
		c.catalog = catalog
	}
}

// WithTracker sets the order tracking backend.
func WithTracker(tracker ports.OrderTracker) Option {
	return func(c *config) {
		c.tracker = tracker
	}
}

// WithOrderSink receives every confirmed order.
func WithOrderSink(sink ports.OrderSink) Option {
	return func(c *config) {
		c.sink = sink
	}
}

// WithHandoffLink sets the human handoff URL.
func WithHandoffLink(link string) Option {
	return func(c *config) {
		c.handoffLink = link
	}
}

// WithClearDraftOnConfirm empties the draft once an order is confirmed.
func WithClearDraftOnConfirm(clear bool) Option {
	return func(c *config) {
		c.clearDraft = clear
	}
}

// WithLifecycleHooks registers observability hooks. Multiple calls are merged.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *config) {
		c.hooks = c.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger shared by all components.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// New builds a Bot. With no options it is local-only and keeps sessions in memory.
func New(opts ...Option) *Bot {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}
	if cfg.store == nil {
		cfg.store = memory.NewStore()
	}

	machineOpts := []dialogue.Option{
		dialogue.WithLifecycleHooks(cfg.hooks),
		dialogue.WithClearDraftOnConfirm(cfg.clearDraft),
		dialogue.WithLogger(cfg.logger),
	}
	if cfg.catalog != nil {
		machineOpts = append(machineOpts, dialogue.WithCatalog(cfg.catalog))
	}
	if cfg.tracker != nil {
		machineOpts = append(machineOpts, dialogue.WithTracker(cfg.tracker))
	}
	if cfg.sink != nil {
		machineOpts = append(machineOpts, dialogue.WithOrderSink(cfg.sink))
	}
	if cfg.handoffLink != "" {
		machineOpts = append(machineOpts, dialogue.WithHandoffLink(cfg.handoffLink))
	}
	machine := dialogue.New(machineOpts...)

	sessionOpts := []session.Option{session.WithLogger(cfg.logger)}
	if cfg.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(cfg.locker), session.WithLockTTL(cfg.lockTTL))
	}
	sessions := session.NewManager(cfg.store, sessionOpts...)

	orchOpts := []orchestrator.Option{
		orchestrator.WithReplyDelay(cfg.replyDelay),
		orchestrator.WithLifecycleHooks(cfg.hooks),
		orchestrator.WithLogger(cfg.logger),
	}
	if cfg.remote != nil {
		orchOpts = append(orchOpts, orchestrator.WithRemote(cfg.remote))
	}

	return &Bot{
		orchestrator: orchestrator.New(machine, sessions, orchOpts...),
		sessions:     sessions,
	}
}

// Respond produces the single reply for one user turn.
func (b *Bot) Respond(ctx context.Context, sessionID, utterance string) (domain.Turn, error) {
	return b.orchestrator.Respond(ctx, sessionID, utterance)
}

// Reset returns a session to IDLE.
func (b *Bot) Reset(ctx context.Context, sessionID string) error {
	return b.orchestrator.Reset(ctx, sessionID)
}

// Conversation returns the stored conversation, creating it if needed.
func (b *Bot) Conversation(ctx context.Context, sessionID string) (*domain.Conversation, error) {
	return b.orchestrator.Conversation(ctx, sessionID)
}

// Sessions exposes the session manager, e.g. for listing or deleting sessions.
func (b *Bot) Sessions() *session.Manager {
	return b.sessions
}
