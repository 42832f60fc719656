// Package view translates session and store state into view-data and routes
// user actions back to them.
package view

import (
	"context"
	"sync"
	"time"

	"subtrack/internal/models"
	"subtrack/internal/notify"
	"subtrack/internal/session"
	"subtrack/internal/store"
)

// Store is the subscription state the controller reads and mutates
type Store interface {
	Create(ctx context.Context, in models.SubscriptionInput) error
	Update(ctx context.Context, id string, in models.SubscriptionInput) error
	Delete(ctx context.Context, id string, confirm notify.Confirmer) error
	Find(id string) (models.Subscription, bool)
	Subscriptions() []models.Subscription
	Stats() store.Stats
	LoadFailed() bool
}

// Session is the authentication state the controller reads
type Session interface {
	User() *models.User
	Logout()
}

// Controller holds the editor state for the lifetime of an open editor
type Controller struct {
	store    Store
	session  Session
	notifier notify.Notifier
	now      func() time.Time

	mu            sync.Mutex
	open          bool
	editMode      bool
	currentEditID string
}

func NewController(st Store, sess Session, notifier notify.Notifier, now func() time.Time) *Controller {
	if notifier == nil {
		notifier = notify.Discard
	}
	if now == nil {
		now = time.Now
	}
	return &Controller{store: st, session: sess, notifier: notifier, now: now}
}

// OpenEditor enters create mode when sub is nil and edit mode otherwise,
// and returns the form to show
func (c *Controller) OpenEditor(sub *models.Subscription) Form {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.open = true
	if sub == nil {
		c.editMode = false
		c.currentEditID = ""
		return NewForm(c.now())
	}

	c.editMode = true
	c.currentEditID = sub.ID
	return FormFor(*sub)
}

// CloseEditor clears the editor state
func (c *Controller) CloseEditor() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
	c.editMode = false
	c.currentEditID = ""
}

// EditorState reports whether the editor is open, whether it edits an existing
// record and which one
func (c *Controller) EditorState() (open, editMode bool, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open, c.editMode, c.currentEditID
}

// SubmitEditor saves the form and closes the editor only when the save succeeds
func (c *Controller) SubmitEditor(ctx context.Context, form Form) error {
	in, err := form.ToInput()
	if err != nil {
		notify.Error(c.notifier, err.Error())
		return err
	}

	_, editMode, id := c.EditorState()
	if editMode {
		err = c.store.Update(ctx, id, in)
	} else {
		err = c.store.Create(ctx, in)
	}
	if err != nil {
		return err
	}

	c.CloseEditor()
	return nil
}

// Edit opens the editor for a cached record
func (c *Controller) Edit(id string) (Form, error) {
	sub, ok := c.store.Find(id)
	if !ok {
		notify.Error(c.notifier, "Subscription not found")
		return Form{}, models.ErrSubscriptionNotFound
	}
	return c.OpenEditor(&sub), nil
}

// Delete removes a record after confirm agrees
func (c *Controller) Delete(ctx context.Context, id string, confirm notify.Confirmer) error {
	return c.store.Delete(ctx, id, confirm)
}

// Logout ends the session once confirm agrees and reports whether it did
func (c *Controller) Logout(confirm notify.Confirmer) bool {
	if confirm == nil || !confirm.Confirm(session.LogoutPrompt) {
		return false
	}
	c.CloseEditor()
	c.session.Logout()
	return true
}

// Dashboard builds the main screen from the current cache
func (c *Controller) Dashboard() Dashboard {
	now := c.now()
	subs := c.store.Subscriptions()

	d := Dashboard{
		Welcome:    Welcome(c.session.User()),
		Stats:      NewStatsPanel(c.store.Stats()),
		Empty:      len(subs) == 0,
		LoadFailed: c.store.LoadFailed(),
		Cards:      make([]Card, 0, len(subs)),
	}
	for _, sub := range subs {
		d.Cards = append(d.Cards, NewCard(sub, now))
	}
	return d
}
