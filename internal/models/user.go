package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// User is the authenticated account as reported by the server. The server's
// JSON object is retained so that it can be persisted unchanged.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`

	raw json.RawMessage
}

// ParseUser decodes a user object. Anything other than a JSON object is rejected.
func ParseUser(data []byte) (*User, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("user value is not an object")
	}

	var wire struct {
		MongoID flexString `json:"_id"`
		ID      flexString `json:"id"`
		Name    flexString `json:"name"`
		Email   flexString `json:"email"`
	}
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return nil, fmt.Errorf("error parsing user: %w", err)
	}

	return &User{
		ID:    firstNonEmpty(string(wire.MongoID), string(wire.ID)),
		Name:  string(wire.Name),
		Email: string(wire.Email),
		raw:   append(json.RawMessage(nil), trimmed...),
	}, nil
}

// MarshalJSON returns the object exactly as the server sent it when available
func (u User) MarshalJSON() ([]byte, error) {
	if len(u.raw) > 0 {
		return u.raw, nil
	}
	type alias User
	return json.Marshal(alias(u))
}

// DisplayName is the name shown in the welcome line
func (u *User) DisplayName() string {
	if u == nil || u.Name == "" {
		return "User"
	}
	return u.Name
}
