package models

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"subtrack/internal/util"
)

// Frequency is the billing cadence of a subscription
type Frequency string

const (
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
	FrequencyWeekly  Frequency = "weekly"
)

// Frequencies lists the cadences the service accepts
var Frequencies = []Frequency{FrequencyMonthly, FrequencyYearly, FrequencyWeekly}

// Category groups subscriptions for display
type Category string

const (
	CategoryEntertainment Category = "entertainment"
	CategoryProductivity  Category = "productivity"
	CategoryEducation     Category = "education"
	CategoryFitness       Category = "fitness"
	CategoryMusic         Category = "music"
	CategoryCloud         Category = "cloud"
	CategoryOther         Category = "other"
)

// Categories lists every category the service accepts
var Categories = []Category{
	CategoryEntertainment,
	CategoryProductivity,
	CategoryEducation,
	CategoryFitness,
	CategoryMusic,
	CategoryCloud,
	CategoryOther,
}

// Status is the lifecycle state reported by the service
type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// Defaults applied when the server omits a field
const (
	DefaultCurrency  = util.DefaultCurrency
	DefaultFrequency = FrequencyMonthly
	DefaultCategory  = CategoryEntertainment
	DefaultStatus    = StatusActive
)

// Subscription is the canonical, normalized form of a subscription record.
// Every field already carries its default, so render code never re-resolves them.
type Subscription struct {
	ID            string     `json:"id" yaml:"id"`
	Name          string     `json:"name" yaml:"name"`
	PlanName      string     `json:"planName,omitempty" yaml:"planName,omitempty"`
	Price         float64    `json:"price" yaml:"price"`
	Currency      string     `json:"currency" yaml:"currency"`
	Frequency     Frequency  `json:"frequency" yaml:"frequency"`
	Category      Category   `json:"category" yaml:"category"`
	Status        Status     `json:"status" yaml:"status"`
	PaymentMethod string     `json:"paymentMethod,omitempty" yaml:"paymentMethod,omitempty"`
	StartDate     *time.Time `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	RenewalDate   *time.Time `json:"renewalDate,omitempty" yaml:"renewalDate,omitempty"`
}

// wireSubscription mirrors the record as the server sends it. name and serviceName
// are synonyms, and ids arrive as either _id or id.
type wireSubscription struct {
	MongoID       flexString `json:"_id"`
	ID            flexString `json:"id"`
	Name          flexString `json:"name"`
	ServiceName   flexString `json:"serviceName"`
	PlanName      flexString `json:"planName"`
	Price         flexFloat  `json:"price"`
	Currency      flexString `json:"currency"`
	Frequency     flexString `json:"frequency"`
	Category      flexString `json:"category"`
	Status        flexString `json:"status"`
	PaymentMethod flexString `json:"paymentMethod"`
	StartDate     flexString `json:"startDate"`
	RenewalDate   flexString `json:"renewalDate"`
}

// normalize applies the field defaults. A missing frequency becomes monthly, which
// is also how the record is shown and edited, so totals count it at full price.
func (w wireSubscription) normalize() Subscription {
	sub := Subscription{
		ID:            firstNonEmpty(string(w.MongoID), string(w.ID)),
		Name:          firstNonEmpty(string(w.ServiceName), string(w.Name)),
		PlanName:      string(w.PlanName),
		Price:         float64(w.Price),
		Currency:      strings.ToUpper(firstNonEmpty(string(w.Currency), DefaultCurrency)),
		Frequency:     Frequency(firstNonEmpty(string(w.Frequency), string(DefaultFrequency))),
		Category:      Category(firstNonEmpty(string(w.Category), string(DefaultCategory))),
		Status:        Status(firstNonEmpty(string(w.Status), string(DefaultStatus))),
		PaymentMethod: string(w.PaymentMethod),
	}

	sub.StartDate = parseOptionalDate(sub.ID, "startDate", string(w.StartDate))
	sub.RenewalDate = parseOptionalDate(sub.ID, "renewalDate", string(w.RenewalDate))

	return sub
}

func parseOptionalDate(id, field, value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := util.ParseDate(value)
	if err != nil {
		slog.Warn("Ignoring unparseable date on subscription", "id", id, "field", field, "error", err)
		return nil
	}
	return &t
}

// UnmarshalJSON accepts the server's wire shape and normalizes it
func (s *Subscription) UnmarshalJSON(data []byte) error {
	var w wireSubscription
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = w.normalize()
	return nil
}

// DaysUntilRenewal reports the days until the renewal date, and false if no date is known
func (s Subscription) DaysUntilRenewal(now time.Time) (int, bool) {
	if s.RenewalDate == nil {
		return 0, false
	}
	return util.DaysUntil(*s.RenewalDate, now), true
}

// SubscriptionInput is the payload sent when creating or updating a subscription
type SubscriptionInput struct {
	Name          string    `json:"name"`
	ServiceName   string    `json:"serviceName"`
	PlanName      string    `json:"planName"`
	Price         float64   `json:"price"`
	Currency      string    `json:"currency"`
	Frequency     Frequency `json:"frequency"`
	Category      Category  `json:"category"`
	PaymentMethod string    `json:"paymentMethod"`
	Status        Status    `json:"status"`
	StartDate     time.Time `json:"startDate"`
}

// Validate checks the input before it is sent to the server
func (in *SubscriptionInput) Validate() error {
	if strings.TrimSpace(in.ServiceName) == "" {
		return fmt.Errorf("%w: service name is required", ErrInvalidSubscription)
	}
	if in.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidSubscription)
	}
	if !validFrequency(in.Frequency) {
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidSubscription, in.Frequency)
	}
	if !validCategory(in.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidSubscription, in.Category)
	}
	if in.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidSubscription)
	}
	return nil
}

// MarshalJSON keeps name and serviceName in step and formats the start date the way the service expects
func (in SubscriptionInput) MarshalJSON() ([]byte, error) {
	type alias SubscriptionInput
	out := struct {
		alias
		StartDate string `json:"startDate"`
	}{
		alias:     alias(in),
		StartDate: in.StartDate.UTC().Format("2006-01-02T15:04:05.000Z"),
	}
	if out.Name == "" {
		out.Name = out.ServiceName
	}
	if out.ServiceName == "" {
		out.ServiceName = out.Name
	}
	return json.Marshal(out)
}

func validFrequency(f Frequency) bool {
	for _, known := range Frequencies {
		if f == known {
			return true
		}
	}
	return false
}

func validCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// flexString accepts strings and numbers, and treats anything else as empty
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexString(n.String())
		return nil
	}
	*f = ""
	return nil
}

// flexFloat accepts numbers and numeric strings; anything else is zero
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			*f = flexFloat(v)
			return nil
		}
	}
	*f = 0
	return nil
}
