package ui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subtrack/internal/app"
	"subtrack/internal/apitest"
	"subtrack/internal/config"
	"subtrack/internal/notify"
	"subtrack/internal/session"
	"subtrack/internal/view"
)

// sink collects bridge messages. A real program delivers them through the event
// loop, so a message sent while Update is running would never be received.
type sink struct {
	t        *testing.T
	mu       sync.Mutex
	msgs     []tea.Msg
	updating bool
}

func (s *sink) send(msg tea.Msg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updating {
		s.t.Errorf("message %T sent from inside Update", msg)
	}
	s.msgs = append(s.msgs, msg)
}

func (s *sink) setUpdating(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updating = on
}

func (s *sink) drain() []tea.Msg {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.msgs
	s.msgs = nil
	return msgs
}

type harness struct {
	t     *testing.T
	srv   *apitest.Server
	token string
	app   *app.App
	sink  *sink
	model Model
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	srv := apitest.NewServer(t)
	token := srv.RegisterUser("Ada", "ada@example.com", "pw")

	cfg := config.Default()
	require.NoError(t, cfg.Set(config.KeyServerURL, srv.BaseURL()))

	s := &sink{t: t}
	bridge := &Bridge{}
	bridge.Attach(s.send)

	a := app.New(app.Options{
		Config:    cfg,
		ConfigDir: t.TempDir(),
		Notifier:  bridge,
		Busy:      bridge,
		Now:       func() time.Time { return time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC) },
	})

	h := &harness{t: t, srv: srv, token: token, app: a, sink: s, model: NewModel(context.Background(), a)}
	h.update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

// update feeds msg to the model, then runs any returned command and the
// messages the bridge collected while it ran
func (h *harness) update(msg tea.Msg) {
	h.t.Helper()

	next, cmd := h.step(msg)
	h.model = next

	for _, m := range h.sink.drain() {
		h.model, _ = h.step(m)
	}

	if cmd == nil {
		return
	}
	if result := cmd(); result != nil {
		if _, quit := result.(tea.QuitMsg); quit {
			return
		}
		h.update(result)
	}
}

func (h *harness) step(msg tea.Msg) (Model, tea.Cmd) {
	h.sink.setUpdating(true)
	defer h.sink.setUpdating(false)

	next, cmd := h.model.Update(msg)
	return next.(Model), cmd
}

func (h *harness) key(s string) {
	h.t.Helper()
	switch s {
	case "enter":
		h.update(tea.KeyMsg{Type: tea.KeyEnter})
	case "tab":
		h.update(tea.KeyMsg{Type: tea.KeyTab})
	case "esc":
		h.update(tea.KeyMsg{Type: tea.KeyEsc})
	case "ctrl+s":
		h.update(tea.KeyMsg{Type: tea.KeyCtrlS})
	case "ctrl+r":
		h.update(tea.KeyMsg{Type: tea.KeyCtrlR})
	default:
		h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	}
}

func (h *harness) start() {
	h.t.Helper()
	h.update(startSession(context.Background(), h.app)())
}

func (h *harness) signIn() {
	h.t.Helper()
	h.start()
	require.Equal(h.t, screenAuth, h.model.screen)

	h.model.auth.inputs[authEmail].SetValue("ada@example.com")
	h.model.auth.inputs[authPassword].SetValue("pw")
	h.key("tab")
	h.key("enter")
	require.Equal(h.t, screenDashboard, h.model.screen)
}

func TestModel_SignInShowsDashboard(t *testing.T) {
	h := newHarness(t)
	h.srv.Seed(h.token,
		gin.H{"_id": "a", "serviceName": "Netflix", "price": 12},
		gin.H{"_id": "b", "serviceName": "iCloud", "price": 120, "frequency": "yearly"},
	)

	h.signIn()

	assert.Equal(t, "Welcome, Ada", h.model.dashboard.Welcome)
	assert.Equal(t, "$22.00", h.model.dashboard.Stats.MonthlyCost)
	assert.Len(t, h.model.list.List.Items(), 2)
	require.NotNil(t, h.model.notice)
	assert.Equal(t, notify.Notification{Kind: notify.KindSuccess, Message: session.SignInMessage}, *h.model.notice)
	assert.Zero(t, h.model.busy)

	out := h.model.View()
	assert.Contains(t, out, "Welcome, Ada")
	assert.Contains(t, out, "Netflix")
}

func TestModel_SignInFailureStaysOnAuth(t *testing.T) {
	h := newHarness(t)
	h.start()

	h.model.auth.inputs[authEmail].SetValue("ada@example.com")
	h.model.auth.inputs[authPassword].SetValue("nope")
	h.key("tab")
	h.key("enter")

	assert.Equal(t, screenAuth, h.model.screen)
	require.NotNil(t, h.model.notice)
	assert.Equal(t, "Invalid password", h.model.notice.Message)
}

func TestModel_SignUp(t *testing.T) {
	h := newHarness(t)
	h.start()

	h.key("ctrl+r")
	require.True(t, h.model.auth.register)
	h.model.auth.inputs[authName].SetValue("Grace")
	h.model.auth.inputs[authEmail].SetValue("grace@example.com")
	h.model.auth.inputs[authPassword].SetValue("pw")
	h.key("tab")
	h.key("tab")
	h.key("enter")

	assert.Equal(t, screenDashboard, h.model.screen)
	assert.Equal(t, "Welcome, Grace", h.model.dashboard.Welcome)
	assert.True(t, h.model.dashboard.Empty)
	assert.Contains(t, h.model.View(), "No subscriptions yet")
}

func TestModel_AddSubscription(t *testing.T) {
	h := newHarness(t)
	h.signIn()

	h.key("a")
	require.Equal(t, screenEditor, h.model.screen)
	assert.Equal(t, "2025-06-10", h.model.editor.inputs[editStartDate].Value())

	h.model.editor.inputs[editService].SetValue("Spotify")
	h.model.editor.inputs[editPrice].SetValue("9.99")
	h.key("ctrl+s")

	assert.Equal(t, screenDashboard, h.model.screen)
	require.Len(t, h.model.dashboard.Cards, 1)
	assert.Equal(t, "Spotify", h.model.dashboard.Cards[0].Name)
	assert.Equal(t, "Subscription added successfully", h.model.notice.Message)
}

func TestModel_InvalidEditorInputStaysOpen(t *testing.T) {
	h := newHarness(t)
	h.signIn()

	h.key("a")
	h.model.editor.inputs[editPrice].SetValue("ten")
	h.key("ctrl+s")

	assert.Equal(t, screenEditor, h.model.screen)
	assert.Equal(t, notify.KindError, h.model.notice.Kind)

	h.key("esc")
	assert.Equal(t, screenDashboard, h.model.screen)
	open, _, _ := h.app.View.EditorState()
	assert.False(t, open)
}

func TestModel_EditSubscription(t *testing.T) {
	h := newHarness(t)
	h.srv.Seed(h.token, gin.H{"_id": "a", "serviceName": "Netflix", "price": 12, "startDate": "2024-01-15T00:00:00.000Z"})
	h.signIn()

	h.key("e")
	require.Equal(t, screenEditor, h.model.screen)
	assert.True(t, h.model.editor.editMode)
	assert.Equal(t, "Netflix", h.model.editor.inputs[editService].Value())

	h.model.editor.inputs[editPrice].SetValue("15")
	h.key("ctrl+s")

	assert.Equal(t, screenDashboard, h.model.screen)
	assert.Equal(t, "$15.00", h.model.dashboard.Cards[0].Price)
}

func TestModel_DeleteAsksFirst(t *testing.T) {
	h := newHarness(t)
	h.srv.Seed(h.token, gin.H{"_id": "a", "serviceName": "Netflix", "price": 12})
	h.signIn()

	h.key("d")
	require.Equal(t, screenConfirm, h.model.screen)
	assert.Contains(t, h.model.View(), "Are you sure you want to delete this subscription?")

	h.key("n")
	assert.Equal(t, screenDashboard, h.model.screen)
	assert.Len(t, h.model.dashboard.Cards, 1)

	h.key("d")
	h.key("y")
	assert.Equal(t, screenDashboard, h.model.screen)
	assert.True(t, h.model.dashboard.Empty)
	assert.Equal(t, 0, h.model.dashboard.Stats.Total)
	assert.Equal(t, "$0.00", h.model.dashboard.Stats.MonthlyCost)
	assert.Equal(t, "Subscription deleted successfully", h.model.notice.Message)
}

func TestModel_Remind(t *testing.T) {
	h := newHarness(t)
	h.srv.Seed(h.token, gin.H{"_id": "a", "serviceName": "Netflix"})
	h.signIn()

	h.key("R")
	assert.Equal(t, []string{"a"}, h.srv.Reminders())
	assert.Equal(t, "Reminders triggered", h.model.notice.Message)
}

func TestModel_Logout(t *testing.T) {
	h := newHarness(t)
	h.signIn()

	h.key("L")
	require.Equal(t, screenConfirm, h.model.screen)
	h.key("y")

	assert.Equal(t, screenAuth, h.model.screen)
	assert.Equal(t, session.Unauthenticated, h.app.Session.State())
	assert.Equal(t, session.LogoutMessage, h.model.notice.Message)
}

func TestModel_RestoredSessionSkipsAuth(t *testing.T) {
	h := newHarness(t)
	h.signIn()

	again := newHarness(t)
	again.app = app.New(app.Options{Config: h.app.Config, ConfigDir: h.app.ConfigDir})
	again.model = NewModel(context.Background(), again.app)
	again.update(tea.WindowSizeMsg{Width: 120, Height: 40})
	again.start()

	assert.Equal(t, screenDashboard, again.model.screen)
}

func TestModel_EditUnknownSubscriptionNotifies(t *testing.T) {
	h := newHarness(t)
	h.srv.Seed(h.token, gin.H{"_id": "a", "serviceName": "Netflix"})
	h.signIn()

	h.model.list.Selected = &view.Card{ID: "gone"}
	h.key("e")

	assert.Equal(t, screenDashboard, h.model.screen)
	require.NotNil(t, h.model.notice)
	assert.Equal(t, notify.Notification{Kind: notify.KindError, Message: "Subscription not found"}, *h.model.notice)
}
