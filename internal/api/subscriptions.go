package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"subtrack/internal/models"
)

// ListSubscriptions fetches the user's subscriptions
func (c *Client) ListSubscriptions(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/subscriptions", nil)
}

// CreateSubscription creates a new subscription
func (c *Client) CreateSubscription(ctx context.Context, in models.SubscriptionInput) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/subscriptions", in)
}

// UpdateSubscription replaces the subscription with the given id
func (c *Client) UpdateSubscription(ctx context.Context, id string, in models.SubscriptionInput) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, "/subscriptions/"+url.PathEscape(id), in)
}

// DeleteSubscription removes the subscription with the given id
func (c *Client) DeleteSubscription(ctx context.Context, id string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, "/subscriptions/"+url.PathEscape(id), nil)
}

// TriggerReminders asks the server to send renewal reminders for a subscription
func (c *Client) TriggerReminders(ctx context.Context, subscriptionID string) (json.RawMessage, error) {
	body := struct {
		SubscriptionID string `json:"subscriptionId"`
	}{SubscriptionID: subscriptionID}

	return c.do(ctx, http.MethodPost, "/subscriptions/reminders", body)
}
