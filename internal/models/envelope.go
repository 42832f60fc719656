package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
)

// DecodeSubscriptionList reads the list endpoint's response. The records may sit
// under "data" or "subscriptions"; when neither holds an array the list is empty.
// Individual records that are not objects are skipped.
func DecodeSubscriptionList(body []byte) ([]Subscription, error) {
	var envelope struct {
		Data          json.RawMessage `json:"data"`
		Subscriptions json.RawMessage `json:"subscriptions"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	var items []json.RawMessage
	for _, candidate := range []json.RawMessage{envelope.Data, envelope.Subscriptions} {
		if isArray(candidate) {
			if err := json.Unmarshal(candidate, &items); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
			}
			break
		}
	}

	subs := make([]Subscription, 0, len(items))
	for i, item := range items {
		var sub Subscription
		if err := json.Unmarshal(item, &sub); err != nil {
			slog.Warn("Skipping malformed subscription record", "index", i, "error", err)
			continue
		}
		subs = append(subs, sub)
	}

	return subs, nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
