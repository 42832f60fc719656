package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSubscriptionList(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantIDs []string
		wantErr bool
	}{
		{name: "data field", body: `{"success":true,"data":[{"_id":"1"},{"_id":"2"}]}`, wantIDs: []string{"1", "2"}},
		{name: "subscriptions field", body: `{"subscriptions":[{"_id":"3"}]}`, wantIDs: []string{"3"}},
		{name: "null data falls through", body: `{"data":null,"subscriptions":[{"_id":"4"}]}`, wantIDs: []string{"4"}},
		{name: "neither present", body: `{"success":true}`, wantIDs: []string{}},
		{name: "empty array", body: `{"data":[]}`, wantIDs: []string{}},
		{name: "non-object record skipped", body: `{"data":[{"_id":"5"},"junk",7,{"_id":"6"}]}`, wantIDs: []string{"5", "6"}},
		{name: "not json", body: `<html>`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subs, err := DecodeSubscriptionList([]byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidResponse)
				return
			}
			require.NoError(t, err)

			ids := make([]string, 0, len(subs))
			for _, s := range subs {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestDecodeSubscriptionList_PreservesOrder(t *testing.T) {
	subs, err := DecodeSubscriptionList([]byte(`{"data":[{"_id":"z"},{"_id":"a"},{"_id":"m"}]}`))
	require.NoError(t, err)
	require.Len(t, subs, 3)
	assert.Equal(t, "z", subs[0].ID)
	assert.Equal(t, "a", subs[1].ID)
	assert.Equal(t, "m", subs[2].ID)
}

func TestDecodeAuthResponse(t *testing.T) {
	session, err := DecodeAuthResponse([]byte(`{"success":true,"data":{"token":"tok","user":{"_id":"u1","name":"Ada","email":"ada@example.com","extra":true}}}`))
	require.NoError(t, err)
	assert.Equal(t, "tok", session.Token)
	assert.Equal(t, "u1", session.User.ID)
	assert.Equal(t, "Ada", session.User.Name)

	raw, err := json.Marshal(session.User)
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"u1","name":"Ada","email":"ada@example.com","extra":true}`, string(raw))

	for name, body := range map[string]string{
		"missing user":   `{"data":{"token":"tok"}}`,
		"missing token":  `{"data":{"user":{"name":"Ada"}}}`,
		"empty token":    `{"data":{"token":"","user":{"name":"Ada"}}}`,
		"user is string": `{"data":{"token":"tok","user":"Ada"}}`,
		"user is null":   `{"data":{"token":"tok","user":null}}`,
		"flat shape":     `{"token":"tok","user":{"name":"Ada"}}`,
		"not json":       `oops`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeAuthResponse([]byte(body))
			assert.ErrorIs(t, err, ErrInvalidResponse)
		})
	}
}

func TestParseUser(t *testing.T) {
	for _, bad := range []string{"undefined", "null", "", "[]", `"Ada"`, "{broken"} {
		_, err := ParseUser([]byte(bad))
		assert.Error(t, err, bad)
	}

	user, err := ParseUser([]byte(`{"id":"u2","name":""}`))
	require.NoError(t, err)
	assert.Equal(t, "User", user.DisplayName())
}
