// Package session owns the lifecycle of the authenticated user and bearer token.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"subtrack/internal/models"
	"subtrack/internal/notify"
)

// State is the position of the session state machine
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Notification messages shown on session transitions
const (
	SignUpMessage = "Account created successfully!"
	SignInMessage = "Welcome back!"
	LogoutMessage = "Logged out successfully"
	LogoutPrompt  = "Are you sure you want to logout?"
)

// API is the subset of the REST client used for authentication
type API interface {
	SignUp(ctx context.Context, req models.SignUpRequest) (json.RawMessage, error)
	SignIn(ctx context.Context, creds models.Credentials) (json.RawMessage, error)
	SetAuthToken(token string)
}

// Listener is told when a session begins and ends
type Listener interface {
	SessionStarted(ctx context.Context)
	SessionEnded()
}

// Manager moves between Unauthenticated and Authenticated. Credentials are either
// both persisted or both absent.
type Manager struct {
	api      API
	creds    models.CredentialStore
	notifier notify.Notifier
	busy     notify.Busy
	now      func() time.Time

	mu        sync.Mutex
	session   *models.Session
	listeners []Listener
}

type Option func(*Manager)

func WithNotifier(n notify.Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

func WithBusy(b notify.Busy) Option {
	return func(m *Manager) { m.busy = b }
}

// WithClock overrides the time used to check token expiry
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithListener(l Listener) Option {
	return func(m *Manager) { m.listeners = append(m.listeners, l) }
}

func New(api API, creds models.CredentialStore, opts ...Option) *Manager {
	m := &Manager{
		api:      api,
		creds:    creds,
		notifier: notify.Discard,
		busy:     notify.NopBusy,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddListener registers l for future transitions
func (m *Manager) AddListener(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// Init restores a persisted session. Malformed or expired credentials are cleared and
// reported as ErrCorruptSession or ErrSessionExpired; the manager stays Unauthenticated.
func (m *Manager) Init(ctx context.Context) error {
	sess, err := m.restore()
	if err != nil {
		slog.Warn("Discarding persisted session", "error", err)
		m.clearPersisted()
		return err
	}
	if sess == nil {
		slog.Debug("No persisted session")
		return nil
	}

	m.start(ctx, sess)
	slog.Debug("Restored persisted session", "user", sess.User.ID)
	return nil
}

func (m *Manager) restore() (*models.Session, error) {
	token, err := m.creds.Get(models.TokenKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrCorruptSession, err)
	}
	rawUser, err := m.creds.Get(models.UserKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrCorruptSession, err)
	}

	token = strings.TrimSpace(token)
	if token == "" && strings.TrimSpace(rawUser) == "" {
		return nil, nil
	}
	if isPlaceholder(token) {
		return nil, fmt.Errorf("%w: token missing", models.ErrCorruptSession)
	}
	if isPlaceholder(rawUser) {
		return nil, fmt.Errorf("%w: user missing", models.ErrCorruptSession)
	}

	user, err := models.ParseUser([]byte(rawUser))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrCorruptSession, err)
	}

	if tokenExpired(token, m.now()) {
		return nil, models.ErrSessionExpired
	}

	return &models.Session{Token: token, User: user}, nil
}

// isPlaceholder matches values left behind by serializing an absent value
func isPlaceholder(v string) bool {
	switch strings.TrimSpace(v) {
	case "", "undefined", "null":
		return true
	}
	return false
}

// tokenExpired reports whether token is a JWT whose exp claim has passed.
// Tokens that are not JWTs are opaque and never considered expired.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}

// SignUp creates an account and starts a session for it
func (m *Manager) SignUp(ctx context.Context, req models.SignUpRequest) error {
	return m.authenticate(ctx, "Creating account...", SignUpMessage, func(ctx context.Context) (json.RawMessage, error) {
		return m.api.SignUp(ctx, req)
	})
}

// SignIn authenticates an existing account and starts a session for it
func (m *Manager) SignIn(ctx context.Context, creds models.Credentials) error {
	return m.authenticate(ctx, "Signing in...", SignInMessage, func(ctx context.Context) (json.RawMessage, error) {
		return m.api.SignIn(ctx, creds)
	})
}

func (m *Manager) authenticate(ctx context.Context, busyMessage, successMessage string, call func(context.Context) (json.RawMessage, error)) error {
	m.busy.Start(busyMessage)
	body, err := call(ctx)
	m.busy.Stop()

	if err != nil {
		notify.Error(m.notifier, err.Error())
		return fmt.Errorf("error authenticating: %w", err)
	}

	sess, err := models.DecodeAuthResponse(body)
	if err != nil {
		notify.Error(m.notifier, models.ErrInvalidResponse.Error())
		return err
	}

	if err := m.persist(sess); err != nil {
		notify.Error(m.notifier, "Failed to save session")
		return err
	}

	m.start(ctx, sess)
	notify.Success(m.notifier, successMessage)
	return nil
}

// persist writes the user before the token and rolls both back on failure
func (m *Manager) persist(sess *models.Session) error {
	userJSON, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("error encoding user: %w", err)
	}

	if err := m.creds.Set(models.UserKey, string(userJSON)); err != nil {
		m.clearPersisted()
		return fmt.Errorf("error saving user: %w", err)
	}
	if err := m.creds.Set(models.TokenKey, sess.Token); err != nil {
		m.clearPersisted()
		return fmt.Errorf("error saving token: %w", err)
	}
	return nil
}

func (m *Manager) clearPersisted() {
	for _, key := range []string{models.TokenKey, models.UserKey} {
		if err := m.creds.Remove(key); err != nil {
			slog.Warn("Failed to remove credential", "key", key, "error", err)
		}
	}
}

func (m *Manager) start(ctx context.Context, sess *models.Session) {
	m.mu.Lock()
	m.session = sess
	listeners := append([]Listener(nil), m.listeners...)
	m.mu.Unlock()

	m.api.SetAuthToken(sess.Token)
	for _, l := range listeners {
		l.SessionStarted(ctx)
	}
}

// Logout clears the persisted credentials and everything cached for the user
func (m *Manager) Logout() {
	m.clearPersisted()

	m.mu.Lock()
	m.session = nil
	listeners := append([]Listener(nil), m.listeners...)
	m.mu.Unlock()

	m.api.SetAuthToken("")
	for _, l := range listeners {
		l.SessionEnded()
	}

	notify.Success(m.notifier, LogoutMessage)
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return Unauthenticated
	}
	return Authenticated
}

// User returns the signed-in user, or nil
func (m *Manager) User() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	return m.session.User
}

// Session returns a copy of the current session, or nil
func (m *Manager) Session() *models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	sess := *m.session
	return &sess
}

// IsSessionError reports whether err came from discarding persisted credentials
func IsSessionError(err error) bool {
	return errors.Is(err, models.ErrCorruptSession) || errors.Is(err, models.ErrSessionExpired)
}
