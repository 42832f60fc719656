package app

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subtrack/internal/apitest"
	"subtrack/internal/config"
	"subtrack/internal/models"
	"subtrack/internal/notify"
	"subtrack/internal/session"
)

func newApp(t *testing.T, srv *apitest.Server, lazy bool) (*App, *notify.Recorder) {
	t.Helper()

	cfg := config.Default()
	require.NoError(t, cfg.Set(config.KeyServerURL, srv.BaseURL()))

	rec := &notify.Recorder{}
	a := New(Options{
		Config:    cfg,
		ConfigDir: t.TempDir(),
		Notifier:  rec,
		Busy:      rec,
		Now:       func() time.Time { return time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC) },
		Lazy:      lazy,
	})
	return a, rec
}

func TestApp_LoginLoadsSubscriptionsAndPersists(t *testing.T) {
	srv := apitest.NewServer(t)
	token := srv.RegisterUser("Ada", "ada@example.com", "pw")
	srv.Seed(token, gin.H{"serviceName": "Netflix", "price": 12})

	a, _ := newApp(t, srv, false)
	require.NoError(t, a.Start(context.Background()))
	assert.ErrorIs(t, a.RequireSession(), ErrNotLoggedIn)

	require.NoError(t, a.Session.SignIn(context.Background(), models.Credentials{Email: "ada@example.com", Password: "pw"}))
	require.NoError(t, a.RequireSession())
	assert.Len(t, a.Store.Subscriptions(), 1)

	// A second process sharing the config dir restores the session from disk
	restored := New(Options{Config: a.Config, ConfigDir: a.ConfigDir})
	require.NoError(t, restored.Start(context.Background()))
	assert.Equal(t, session.Authenticated, restored.Session.State())
	assert.Equal(t, "Welcome, Ada", restored.View.Dashboard().Welcome)
	assert.Len(t, restored.Store.Subscriptions(), 1)
}

func TestApp_LogoutClearsStore(t *testing.T) {
	srv := apitest.NewServer(t)
	token := srv.RegisterUser("Ada", "ada@example.com", "pw")
	srv.Seed(token, gin.H{"serviceName": "Netflix", "price": 12})

	a, _ := newApp(t, srv, false)
	require.NoError(t, a.Session.SignIn(context.Background(), models.Credentials{Email: "ada@example.com", Password: "pw"}))
	require.False(t, a.Store.Empty())

	require.True(t, a.View.Logout(notify.AlwaysConfirm))
	assert.True(t, a.Store.Empty())
	assert.Equal(t, session.Unauthenticated, a.Session.State())
	assert.ErrorIs(t, a.RequireSession(), ErrNotLoggedIn)
}

func TestApp_LazySkipsInitialLoad(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.RegisterUser("Ada", "ada@example.com", "pw")

	a, _ := newApp(t, srv, true)
	require.NoError(t, a.Session.SignIn(context.Background(), models.Credentials{Email: "ada@example.com", Password: "pw"}))

	for _, r := range srv.Requests() {
		assert.NotEqual(t, "GET", r.Method)
	}
}

func TestApp_StartDiscardsCorruptSession(t *testing.T) {
	srv := apitest.NewServer(t)
	tests := []struct {
		name string
		user string
	}{
		{name: "placeholder user", user: "undefined"},
		{name: "truncated user", user: "{not json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, rec := newApp(t, srv, false)
			require.NoError(t, a.Credentials.Set(models.TokenKey, "tok"))
			require.NoError(t, a.Credentials.Set(models.UserKey, tt.user))

			require.NoError(t, a.Start(context.Background()))
			assert.Equal(t, session.Unauthenticated, a.Session.State())

			token, err := a.Credentials.Get(models.TokenKey)
			require.NoError(t, err)
			assert.Empty(t, token)

			assert.Equal(t, []notify.Notification{{Kind: notify.KindError, Message: InvalidSessionMessage}}, rec.Notifications())
		})
	}
}

func TestApp_StartReportsExpiredSession(t *testing.T) {
	srv := apitest.NewServer(t)
	a, rec := newApp(t, srv, false)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	require.NoError(t, a.Credentials.Set(models.UserKey, `{"_id":"u1","name":"Ada"}`))
	require.NoError(t, a.Credentials.Set(models.TokenKey, token))

	require.NoError(t, a.Start(context.Background()))
	assert.Equal(t, session.Unauthenticated, a.Session.State())
	assert.Equal(t, []notify.Notification{{Kind: notify.KindInfo, Message: ExpiredSessionMessage}}, rec.Notifications())
}

func TestApp_StartWithoutSavedSessionIsQuiet(t *testing.T) {
	srv := apitest.NewServer(t)
	a, rec := newApp(t, srv, false)

	require.NoError(t, a.Start(context.Background()))
	assert.Empty(t, rec.Notifications())
}
