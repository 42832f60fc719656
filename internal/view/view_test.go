package view

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subtrack/internal/api"
	"subtrack/internal/apitest"
	"subtrack/internal/models"
	"subtrack/internal/notify"
	"subtrack/internal/store"
)

var now = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

type stubSession struct {
	user      *models.User
	loggedOut bool
}

func (s *stubSession) User() *models.User { return s.user }
func (s *stubSession) Logout()            { s.loggedOut = true }

type fixture struct {
	srv   *apitest.Server
	token string
	store *store.Store
	sess  *stubSession
	rec   *notify.Recorder
	ctrl  *Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	srv := apitest.NewServer(t)
	token := srv.RegisterUser("Ada", "ada@example.com", "pw")
	client := api.NewClient(srv.BaseURL(), nil)
	client.SetAuthToken(token)

	user, err := models.ParseUser([]byte(`{"_id":"u1","name":"Ada"}`))
	require.NoError(t, err)

	rec := &notify.Recorder{}
	st := store.New(client, store.WithNotifier(rec), store.WithClock(clock))
	sess := &stubSession{user: user}

	return &fixture{
		srv:   srv,
		token: token,
		store: st,
		sess:  sess,
		rec:   rec,
		ctrl:  NewController(st, sess, rec, clock),
	}
}

func TestOpenEditor_CreateModeDefaults(t *testing.T) {
	f := newFixture(t)

	form := f.ctrl.OpenEditor(nil)
	assert.Equal(t, Form{
		Currency:  "USD",
		Frequency: "monthly",
		Category:  "entertainment",
		Status:    "active",
		StartDate: "2025-06-10",
	}, form)

	open, editMode, id := f.ctrl.EditorState()
	assert.True(t, open)
	assert.False(t, editMode)
	assert.Empty(t, id)
}

func TestOpenEditor_EditModePrepopulates(t *testing.T) {
	f := newFixture(t)
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	form := f.ctrl.OpenEditor(&models.Subscription{
		ID:            "s1",
		Name:          "Netflix",
		Price:         15.49,
		Currency:      "EUR",
		Frequency:     models.FrequencyYearly,
		Category:      models.CategoryMusic,
		Status:        models.StatusActive,
		PaymentMethod: "Visa",
		StartDate:     &start,
	})

	assert.Equal(t, "Netflix", form.ServiceName)
	assert.Equal(t, "15.49", form.Price)
	assert.Equal(t, "EUR", form.Currency)
	assert.Equal(t, "yearly", form.Frequency)
	assert.Equal(t, "2024-01-15", form.StartDate)

	open, editMode, id := f.ctrl.EditorState()
	assert.True(t, open)
	assert.True(t, editMode)
	assert.Equal(t, "s1", id)

	f.ctrl.CloseEditor()
	open, editMode, id = f.ctrl.EditorState()
	assert.False(t, open)
	assert.False(t, editMode)
	assert.Empty(t, id)
}

func TestEdit_UsesSynonymFromServer(t *testing.T) {
	f := newFixture(t)
	f.srv.Seed(f.token, gin.H{"_id": "s1", "name": "Only Name", "price": "9.5"})
	require.NoError(t, f.store.Load(context.Background()))

	form, err := f.ctrl.Edit("s1")
	require.NoError(t, err)
	assert.Equal(t, "Only Name", form.ServiceName)
	assert.Equal(t, "9.5", form.Price)

	_, err = f.ctrl.Edit("missing")
	assert.ErrorIs(t, err, models.ErrSubscriptionNotFound)
}

func TestForm_ToInput(t *testing.T) {
	form := NewForm(now)
	form.ServiceName = "  Spotify "
	form.Price = "9.99"
	form.Currency = "eur"

	in, err := form.ToInput()
	require.NoError(t, err)
	assert.Equal(t, "Spotify", in.ServiceName)
	assert.Equal(t, "Spotify", in.Name)
	assert.InDelta(t, 9.99, in.Price, 1e-9)
	assert.Equal(t, "EUR", in.Currency)
	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), in.StartDate)
}

func TestForm_ToInputErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Form)
	}{
		{"missing name", func(f *Form) { f.ServiceName = "" }},
		{"bad price", func(f *Form) { f.Price = "ten" }},
		{"negative price", func(f *Form) { f.Price = "-1" }},
		{"bad date", func(f *Form) { f.StartDate = "10/06/2025" }},
		{"unknown frequency", func(f *Form) { f.Frequency = "daily" }},
		{"unknown category", func(f *Form) { f.Category = "games" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := NewForm(now)
			form.ServiceName = "Netflix"
			tt.mutate(&form)

			_, err := form.ToInput()
			assert.ErrorIs(t, err, models.ErrInvalidSubscription)
		})
	}
}

func TestSubmitEditor_CreateClosesOnSuccess(t *testing.T) {
	f := newFixture(t)
	form := f.ctrl.OpenEditor(nil)
	form.ServiceName = "Spotify"
	form.Price = "10"

	require.NoError(t, f.ctrl.SubmitEditor(context.Background(), form))

	open, _, _ := f.ctrl.EditorState()
	assert.False(t, open)
	require.Len(t, f.store.Subscriptions(), 1)
	assert.Equal(t, "Spotify", f.store.Subscriptions()[0].Name)
}

func TestSubmitEditor_StaysOpenOnFailure(t *testing.T) {
	f := newFixture(t)
	form := f.ctrl.OpenEditor(nil)
	form.ServiceName = "Spotify"
	f.srv.FailNext("POST /subscriptions", http.StatusBadRequest, "Invalid subscription")

	require.Error(t, f.ctrl.SubmitEditor(context.Background(), form))

	open, editMode, _ := f.ctrl.EditorState()
	assert.True(t, open)
	assert.False(t, editMode)
}

func TestSubmitEditor_InvalidFormStaysOpen(t *testing.T) {
	f := newFixture(t)
	form := f.ctrl.OpenEditor(nil)

	err := f.ctrl.SubmitEditor(context.Background(), form)
	assert.ErrorIs(t, err, models.ErrInvalidSubscription)

	open, _, _ := f.ctrl.EditorState()
	assert.True(t, open)
	assert.Empty(t, f.srv.Requests())

	last, ok := f.rec.Last()
	require.True(t, ok)
	assert.Equal(t, notify.KindError, last.Kind)
}

func TestSubmitEditor_EditModeUpdates(t *testing.T) {
	f := newFixture(t)
	f.srv.Seed(f.token, gin.H{"_id": "s1", "serviceName": "Netflix", "price": 12, "startDate": "2024-01-15T00:00:00.000Z"})
	require.NoError(t, f.store.Load(context.Background()))

	form, err := f.ctrl.Edit("s1")
	require.NoError(t, err)
	form.Price = "15"

	require.NoError(t, f.ctrl.SubmitEditor(context.Background(), form))

	sub, ok := f.store.Find("s1")
	require.True(t, ok)
	assert.InDelta(t, 15, sub.Price, 1e-9)
	assert.Len(t, f.store.Subscriptions(), 1)

	requests := f.srv.Requests()
	var methods []string
	for _, r := range requests {
		methods = append(methods, r.Method)
	}
	assert.Contains(t, methods, http.MethodPut)
	assert.NotContains(t, methods, http.MethodPost)
}

func TestDashboard_AfterDeleteShowsEmptyState(t *testing.T) {
	f := newFixture(t)
	f.srv.Seed(f.token, gin.H{"_id": "s1", "serviceName": "Netflix", "price": 12, "renewalDate": now.AddDate(0, 0, 1).Format(time.RFC3339)})
	require.NoError(t, f.store.Load(context.Background()))
	require.False(t, f.ctrl.Dashboard().Empty)

	require.NoError(t, f.ctrl.Delete(context.Background(), "s1", notify.AlwaysConfirm))

	d := f.ctrl.Dashboard()
	assert.True(t, d.Empty)
	assert.Empty(t, d.Cards)
	assert.Equal(t, StatsPanel{Total: 0, MonthlyCost: "$0.00", YearlyCost: "$0.00", UpcomingRenewals: 0}, d.Stats)
	assert.Equal(t, "Welcome, Ada", d.Welcome)
}

func TestDashboard_Cards(t *testing.T) {
	f := newFixture(t)
	f.srv.Seed(f.token,
		gin.H{"_id": "a", "serviceName": "Netflix", "planName": "Premium", "price": 12, "category": "entertainment", "paymentMethod": "Visa", "renewalDate": "2025-06-13T09:00:00Z"},
		gin.H{"_id": "b", "price": 120, "frequency": "yearly", "category": "cloud", "renewalDate": "2025-07-01T09:00:00Z"},
		gin.H{"_id": "c", "name": "Gym", "renewalDate": "not a date"},
	)
	require.NoError(t, f.store.Load(context.Background()))

	d := f.ctrl.Dashboard()
	require.Len(t, d.Cards, 3)
	assert.False(t, d.Empty)

	assert.Equal(t, Card{
		ID:            "a",
		Icon:          "📺",
		Name:          "Netflix",
		Plan:          "Premium",
		Price:         "$12.00",
		Frequency:     "monthly",
		Category:      "entertainment",
		Status:        "active",
		PaymentMethod: "Visa",
		RenewalText:   "Renews June 13, 2025 (3 days)",
		Upcoming:      true,
	}, d.Cards[0])

	assert.Equal(t, "Unknown Service", d.Cards[1].Name)
	assert.Equal(t, "Standard Plan", d.Cards[1].Plan)
	assert.Equal(t, "Renews July 1, 2025", d.Cards[1].RenewalText)
	assert.False(t, d.Cards[1].Upcoming)
	assert.Equal(t, "☁", d.Cards[1].Icon)

	assert.Equal(t, "Gym", d.Cards[2].Name)
	assert.Equal(t, "No renewal date set", d.Cards[2].RenewalText)

	assert.Equal(t, StatsPanel{Total: 3, MonthlyCost: "$22.00", YearlyCost: "$264.00", UpcomingRenewals: 1}, d.Stats)
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	f.ctrl.OpenEditor(nil)

	declined := f.ctrl.Logout(notify.ConfirmFunc(func(string) bool { return false }))
	assert.False(t, declined)
	assert.False(t, f.sess.loggedOut)

	var prompt string
	accepted := f.ctrl.Logout(notify.ConfirmFunc(func(p string) bool {
		prompt = p
		return true
	}))
	assert.True(t, accepted)
	assert.True(t, f.sess.loggedOut)
	assert.Equal(t, "Are you sure you want to logout?", prompt)

	open, _, _ := f.ctrl.EditorState()
	assert.False(t, open)
}

func TestWelcome(t *testing.T) {
	assert.Equal(t, "Welcome, User", Welcome(nil))
	assert.Equal(t, "Welcome, User", Welcome(&models.User{ID: "x"}))
}
