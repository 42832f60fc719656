// Package store keeps the local cache of subscriptions consistent with the remote API.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"subtrack/internal/models"
	"subtrack/internal/notify"
)

var (
	// ErrMutationInFlight is returned when a record already has a change awaiting the server
	ErrMutationInFlight = errors.New("a change to this subscription is already in progress")

	// ErrCancelled is returned when the user declines a confirmation
	ErrCancelled = errors.New("cancelled")
)

// DeletePrompt is the question asked before a subscription is deleted
const DeletePrompt = "Are you sure you want to delete this subscription?"

// API is the subset of the REST client the store relies on
type API interface {
	ListSubscriptions(ctx context.Context) (json.RawMessage, error)
	CreateSubscription(ctx context.Context, in models.SubscriptionInput) (json.RawMessage, error)
	UpdateSubscription(ctx context.Context, id string, in models.SubscriptionInput) (json.RawMessage, error)
	DeleteSubscription(ctx context.Context, id string) (json.RawMessage, error)
	TriggerReminders(ctx context.Context, subscriptionID string) (json.RawMessage, error)
}

// Store owns the cached, insertion-ordered subscription list and its statistics.
// Every mutation is followed by a full reload rather than a local patch.
type Store struct {
	api      API
	notifier notify.Notifier
	busy     notify.Busy
	now      func() time.Time

	mu         sync.Mutex
	subs       []models.Subscription
	stats      Stats
	loadFailed bool
	issued     uint64
	applied    uint64
	inflight   map[string]struct{}
}

// Option configures a Store
type Option func(*Store)

// WithNotifier routes notifications to n
func WithNotifier(n notify.Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithBusy shows b while requests are in flight
func WithBusy(b notify.Busy) Option {
	return func(s *Store) { s.busy = b }
}

// WithClock overrides the time source used for renewal arithmetic
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an empty store
func New(api API, opts ...Option) *Store {
	s := &Store{
		api:      api,
		notifier: notify.Discard,
		busy:     notify.NopBusy,
		now:      time.Now,
		inflight: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the cache with the server's list. A failed load empties the cache.
// Results from a load issued before the most recently applied one are discarded.
func (s *Store) Load(ctx context.Context) error {
	s.busy.Start("Loading subscriptions...")
	defer s.busy.Stop()

	s.mu.Lock()
	s.issued++
	generation := s.issued
	s.mu.Unlock()

	body, err := s.api.ListSubscriptions(ctx)
	var subs []models.Subscription
	if err == nil {
		subs, err = models.DecodeSubscriptionList(body)
	}

	if !s.apply(generation, subs, err) {
		slog.Debug("Discarding stale subscription list", "generation", generation)
		return nil
	}

	if err != nil {
		slog.Warn("Failed to load subscriptions", "error", err)
		notify.Error(s.notifier, "Failed to load subscriptions")
		return fmt.Errorf("error loading subscriptions: %w", err)
	}

	slog.Debug("Loaded subscriptions", "count", len(subs), "generation", generation)
	return nil
}

func (s *Store) apply(generation uint64, subs []models.Subscription, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation < s.applied {
		return false
	}
	s.applied = generation

	if err != nil {
		s.subs = nil
		s.loadFailed = true
	} else {
		s.subs = subs
		s.loadFailed = false
	}
	s.stats = ComputeStats(s.subs, s.now())

	return true
}

// Create adds a subscription on the server and reloads
func (s *Store) Create(ctx context.Context, in models.SubscriptionInput) error {
	if err := in.Validate(); err != nil {
		notify.Error(s.notifier, err.Error())
		return err
	}

	return s.mutate(ctx, "", "Saving subscription...", "Subscription added successfully", "", func(ctx context.Context) error {
		_, err := s.api.CreateSubscription(ctx, in)
		return err
	})
}

// Update replaces a subscription on the server and reloads
func (s *Store) Update(ctx context.Context, id string, in models.SubscriptionInput) error {
	if err := in.Validate(); err != nil {
		notify.Error(s.notifier, err.Error())
		return err
	}

	return s.mutate(ctx, id, "Saving subscription...", "Subscription updated successfully", "", func(ctx context.Context) error {
		_, err := s.api.UpdateSubscription(ctx, id, in)
		return err
	})
}

// Delete removes a subscription once the user confirms, then reloads
func (s *Store) Delete(ctx context.Context, id string, confirm notify.Confirmer) error {
	if confirm == nil || !confirm.Confirm(DeletePrompt) {
		slog.Debug("Delete not confirmed", "id", id)
		return ErrCancelled
	}

	return s.mutate(ctx, id, "Deleting subscription...", "Subscription deleted successfully", "Failed to delete subscription", func(ctx context.Context) error {
		_, err := s.api.DeleteSubscription(ctx, id)
		return err
	})
}

// Remind asks the server to send renewal reminders for a subscription. The cache is unchanged.
func (s *Store) Remind(ctx context.Context, id string) error {
	s.busy.Start("Triggering reminders...")
	_, err := s.api.TriggerReminders(ctx, id)
	s.busy.Stop()

	if err != nil {
		notify.Error(s.notifier, err.Error())
		return fmt.Errorf("error triggering reminders: %w", err)
	}

	notify.Success(s.notifier, "Reminders triggered")
	return nil
}

// mutate runs call under the busy indicator, reports the outcome and reloads the cache
// whatever the outcome. A non-empty id is guarded against concurrent changes.
func (s *Store) mutate(ctx context.Context, id, busyMessage, successMessage, failureMessage string, call func(context.Context) error) error {
	if id != "" {
		if !s.acquire(id) {
			notify.Error(s.notifier, ErrMutationInFlight.Error())
			return ErrMutationInFlight
		}
		defer s.release(id)
	}

	s.busy.Start(busyMessage)
	err := call(ctx)
	s.busy.Stop()

	if err != nil {
		slog.Warn("Subscription change failed", "id", id, "error", err)
		message := failureMessage
		if message == "" {
			message = err.Error()
		}
		notify.Error(s.notifier, message)
	} else {
		notify.Success(s.notifier, successMessage)
	}

	// A reload failure is already reported by Load
	_ = s.Load(ctx)

	return err
}

func (s *Store) acquire(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inflight[id]; busy {
		return false
	}
	s.inflight[id] = struct{}{}
	return true
}

func (s *Store) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, id)
}

// Subscriptions returns a copy of the cached list in server order
func (s *Store) Subscriptions() []models.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Subscription(nil), s.subs...)
}

// Find looks up a cached subscription by id
func (s *Store) Find(id string) (models.Subscription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.subs {
		if sub.ID == id {
			return sub, true
		}
	}
	return models.Subscription{}, false
}

// Stats recomputes the derived statistics from the current cache
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = ComputeStats(s.subs, s.now())
	return s.stats
}

// Empty reports whether there is nothing to show
func (s *Store) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs) == 0
}

// LoadFailed reports whether the most recent applied load failed
func (s *Store) LoadFailed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadFailed
}

// Reset clears the cache. Loads issued before the reset are discarded.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subs = nil
	s.loadFailed = false
	s.applied = s.issued + 1
	s.issued = s.applied
	s.stats = ComputeStats(nil, s.now())
}

// SessionStarted loads the list for a newly authenticated user
func (s *Store) SessionStarted(ctx context.Context) {
	_ = s.Load(ctx)
}

// SessionEnded drops everything cached for the previous user
func (s *Store) SessionEnded() {
	s.Reset()
}
