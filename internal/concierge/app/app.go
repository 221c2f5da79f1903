// Package app wires the concierge components together: the NLU provider,
// the session store, the dialogue manager, persistence and staff
// notification. The transports (HTTP API and Matrix gateway) both drive it
// through HandleTurn.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/orderdesk/concierge/common/trace"
	"github.com/orderdesk/concierge/internal/concierge/dialog"
	"github.com/orderdesk/concierge/internal/concierge/nlu"
	"github.com/orderdesk/concierge/internal/concierge/observability"
	"github.com/orderdesk/concierge/internal/concierge/order"
	"github.com/orderdesk/concierge/internal/concierge/profile"
	"github.com/orderdesk/concierge/internal/concierge/session"
	"github.com/orderdesk/concierge/internal/concierge/store"
)

// replyRateLimited is returned without consulting the NLU service when a
// conversation exceeds its per-minute budget.
const replyRateLimited = "You're sending messages too quickly. Please wait a moment and try again."

// Notifier receives order lifecycle events for staff alerting.
type Notifier interface {
	OrderConfirmed(o order.Order)
	OrderCancelled(o order.Order)
}

// Config holds application configuration.
type Config struct {
	// Profile carries the operator-tunable wording and business windows.
	Profile profile.Profile
	// NLU analyzes raw turn text. Required.
	NLU nlu.Provider
	// Store persists confirmed orders and the turn audit trail. Optional;
	// when nil the bot runs memory-only.
	Store *store.Store
	// Notifier alerts staff of confirmations and cancellations. Optional.
	Notifier Notifier
	// SessionTTL is how long an inactive conversation keeps its draft.
	// Zero means session.DefaultTTL.
	SessionTTL time.Duration
	// RateLimit is the per-conversation NLU calls per minute. Zero means
	// nlu.DefaultRateLimit.
	RateLimit int
}

// App is the assembled concierge application.
type App struct {
	manager  *dialog.Manager
	sessions *session.Store
	nlu      nlu.Provider
	store    *store.Store
	notifier Notifier
	limiter  *nlu.RateLimiter
	profile  profile.Profile
}

// New assembles the application. The returned App is ready to serve turns;
// transports are attached by the caller.
func New(cfg Config) (*App, error) {
	if cfg.NLU == nil {
		return nil, fmt.Errorf("app: NLU provider is required")
	}

	validator := dialog.NewValidator()
	if cfg.Profile.PickupWindowHours > 0 {
		validator.MaxAdvance = time.Duration(cfg.Profile.PickupWindowHours) * time.Hour
	}
	if cfg.Profile.CancelCutoffHours > 0 {
		validator.CancelCutoff = time.Duration(cfg.Profile.CancelCutoffHours) * time.Hour
	}

	a := &App{
		sessions: session.NewStore(cfg.SessionTTL),
		nlu:      cfg.NLU,
		store:    cfg.Store,
		notifier: cfg.Notifier,
		limiter:  nlu.NewRateLimiter(cfg.RateLimit, 0),
		profile:  cfg.Profile,
	}
	a.manager = dialog.New(dialog.Config{
		Validator:       validator,
		Recommendations: cfg.Profile.Recommendations,
		Events:          a,
	})
	return a, nil
}

// SetNotifier attaches the staff notifier after construction. The Matrix
// gateway is built around the app, so the notifier arrives after New.
// Call it before the first turn is served.
func (a *App) SetNotifier(n Notifier) {
	a.notifier = n
}

// Greeting is the message shown when a conversation starts.
func (a *App) Greeting() string {
	return a.profile.Greeting
}

// HandleTurn processes one customer turn: rate limiting, NLU analysis, the
// dialogue state machine, and the audit trail. It always returns a reply
// when err is nil.
func (a *App) HandleTurn(ctx context.Context, conversationID, text string) (string, error) {
	ctx = trace.Ensure(ctx)
	logger := observability.WithTrace(ctx)

	if !a.limiter.Allow(conversationID) {
		logger.Warn("turn rate limited", "conversation", conversationID)
		return replyRateLimited, nil
	}

	result, err := a.nlu.Analyze(ctx, text)
	if err != nil {
		return "", fmt.Errorf("analyze turn: %w", err)
	}

	var state session.State
	reply := a.sessions.WithSession(conversationID, func(sess *session.Session) string {
		r := a.manager.ProcessTurn(sess, result, text)
		state = sess.State
		return r
	})

	logger.Info("turn processed",
		"conversation", conversationID,
		"intent", string(result.TopIntent),
		"state", string(state))

	a.recordTurn(ctx, store.TurnRecord{
		TraceID:        trace.FromContext(ctx),
		ConversationID: conversationID,
		UserText:       text,
		Intent:         string(result.TopIntent),
		Reply:          reply,
		State:          string(state),
	})

	return reply, nil
}

// Snapshot returns a read-only copy of a conversation's session, or nil
// when the conversation is unknown.
func (a *App) Snapshot(conversationID string) *session.Session {
	return a.sessions.Snapshot(conversationID)
}

// Reset wipes a conversation's session and returns the greeting.
func (a *App) Reset(conversationID string) string {
	a.sessions.Reset(conversationID)
	return a.profile.Greeting
}

// Prompts returns canned utterances the web UI offers as quick-test
// buttons.
func (a *App) Prompts() map[string]string {
	return map[string]string{
		"placeOrder":  "I want 2 burgers and 1 soda in Madrid for tomorrow at 8pm. I am Juan with j@gmail.com as my email.",
		"checkStatus": "I want to check the status of my order.",
		"cancelOrder": "I want to cancel my order.",
	}
}

// PruneSessions drops expired conversations. Run it periodically from the
// host.
func (a *App) PruneSessions() int {
	return a.sessions.PruneExpired()
}

// OrderConfirmed persists the confirmed order and alerts staff. Failures
// are logged, never surfaced to the customer: the order lives on in the
// session either way.
func (a *App) OrderConfirmed(conversationID string, o order.Order) {
	if a.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.store.SaveConfirmed(ctx, conversationID, o); err != nil {
			slog.Error("failed to persist confirmed order", "order_id", o.ID, "err", err)
		}
	}
	if a.notifier != nil {
		a.notifier.OrderConfirmed(o)
	}
}

// OrderCancelled marks the order cancelled and alerts staff.
func (a *App) OrderCancelled(conversationID string, o order.Order) {
	if a.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.store.MarkCancelled(ctx, o.ID); err != nil {
			slog.Error("failed to persist order cancellation", "order_id", o.ID, "err", err)
		}
	}
	if a.notifier != nil {
		a.notifier.OrderCancelled(o)
	}
}

// recordTurn appends the turn to the audit trail, best effort.
func (a *App) recordTurn(ctx context.Context, rec store.TurnRecord) {
	if a.store == nil {
		return
	}
	if err := a.store.RecordTurn(ctx, rec); err != nil {
		slog.Warn("failed to record turn", "conversation", rec.ConversationID, "err", err)
	}
}
