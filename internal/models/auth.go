package models

import (
	"encoding/json"
	"fmt"
)

// Credentials are sent to the sign-in endpoint
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpRequest is sent to the sign-up endpoint
type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the token and user held for the current login
type Session struct {
	Token string
	User  *User
}

// DecodeAuthResponse extracts a session from a {"data": {"token", "user"}} envelope
func DecodeAuthResponse(body []byte) (*Session, error) {
	var envelope struct {
		Data *struct {
			Token json.RawMessage `json:"token"`
			User  json.RawMessage `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if envelope.Data == nil {
		return nil, ErrInvalidResponse
	}

	var token string
	if err := json.Unmarshal(envelope.Data.Token, &token); err != nil || token == "" {
		return nil, ErrInvalidResponse
	}

	user, err := ParseUser(envelope.Data.User)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return &Session{Token: token, User: user}, nil
}
