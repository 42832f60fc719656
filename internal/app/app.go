// Package app wires the client, credential store, session, store and view
// into one application state.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"subtrack/internal/api"
	"subtrack/internal/common"
	"subtrack/internal/config"
	"subtrack/internal/models"
	"subtrack/internal/notify"
	"subtrack/internal/session"
	"subtrack/internal/store"
	"subtrack/internal/view"
)

// ErrNotLoggedIn is returned by commands that need a session
var ErrNotLoggedIn = common.NewUserError("You are not logged in. Run 'subtrack account login' first.", nil)

// Messages shown when saved credentials are discarded at startup
const (
	InvalidSessionMessage = "Your saved session was invalid, please sign in again"
	ExpiredSessionMessage = "Your session has expired, please sign in again"
)

// Options configures New. Zero values fall back to the file credential store in
// ConfigDir, a discarding notifier and the wall clock.
type Options struct {
	Config      *config.Config
	ConfigDir   string
	Credentials models.CredentialStore
	HTTPClient  *http.Client
	Notifier    notify.Notifier
	Busy        notify.Busy
	Now         func() time.Time

	// Lazy skips the automatic subscription load when a session starts
	Lazy bool
}

// App is the application state for one process
type App struct {
	Config      *config.Config
	ConfigDir   string
	Client      *api.Client
	Credentials models.CredentialStore
	Session     *session.Manager
	Store       *store.Store
	View        *view.Controller
	Notifier    notify.Notifier
}

func New(opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	creds := opts.Credentials
	if creds == nil {
		creds = models.NewFileCredentialStore(opts.ConfigDir)
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Discard
	}
	busy := opts.Busy
	if busy == nil {
		busy = notify.NopBusy
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	client := api.NewClient(cfg.ServerURL, httpClient)
	subs := store.New(client,
		store.WithNotifier(notifier),
		store.WithBusy(busy),
		store.WithClock(now),
	)

	var listener session.Listener = subs
	if opts.Lazy {
		listener = resetOnly{subs}
	}

	sess := session.New(client, creds,
		session.WithNotifier(notifier),
		session.WithBusy(busy),
		session.WithClock(now),
		session.WithListener(listener),
	)

	return &App{
		Config:      cfg,
		ConfigDir:   opts.ConfigDir,
		Client:      client,
		Credentials: creds,
		Session:     sess,
		Store:       subs,
		View:        view.NewController(subs, sess, notifier, now),
		Notifier:    notifier,
	}
}

// Start restores any persisted session. Discarded credentials are reported to the
// notifier rather than returned.
func (a *App) Start(ctx context.Context) error {
	err := a.Session.Init(ctx)
	if err == nil || !session.IsSessionError(err) {
		return err
	}

	slog.Info("Persisted session discarded", "reason", err)
	if errors.Is(err, models.ErrSessionExpired) {
		notify.Info(a.Notifier, ExpiredSessionMessage)
	} else {
		notify.Error(a.Notifier, InvalidSessionMessage)
	}
	return nil
}

// RequireSession fails unless a user is logged in
func (a *App) RequireSession() error {
	if a.Session.State() != session.Authenticated {
		return ErrNotLoggedIn
	}
	return nil
}

type resetOnly struct {
	store *store.Store
}

func (r resetOnly) SessionStarted(context.Context) {}

func (r resetOnly) SessionEnded() {
	r.store.SessionEnded()
}
