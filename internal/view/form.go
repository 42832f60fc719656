package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"subtrack/internal/models"
	"subtrack/internal/util"
)

// Form is the editable, string-valued state of the subscription editor
type Form struct {
	ServiceName   string
	PlanName      string
	Price         string
	Currency      string
	Frequency     string
	Category      string
	PaymentMethod string
	Status        string
	StartDate     string // YYYY-MM-DD
}

// NewForm returns the form shown when adding a subscription
func NewForm(today time.Time) Form {
	return Form{
		Currency:  models.DefaultCurrency,
		Frequency: string(models.DefaultFrequency),
		Category:  string(models.DefaultCategory),
		Status:    string(models.DefaultStatus),
		StartDate: util.FormatISODate(today),
	}
}

// FormFor pre-populates the editor from an existing record
func FormFor(sub models.Subscription) Form {
	f := Form{
		ServiceName:   sub.Name,
		PlanName:      sub.PlanName,
		Currency:      sub.Currency,
		Frequency:     string(sub.Frequency),
		Category:      string(sub.Category),
		PaymentMethod: sub.PaymentMethod,
		Status:        string(sub.Status),
	}
	if sub.Price != 0 {
		f.Price = strconv.FormatFloat(sub.Price, 'f', -1, 64)
	}
	if sub.StartDate != nil {
		f.StartDate = util.FormatISODate(sub.StartDate.UTC())
	}
	return f
}

// ToInput parses the form into the payload sent to the server
func (f Form) ToInput() (models.SubscriptionInput, error) {
	in := models.SubscriptionInput{
		ServiceName:   strings.TrimSpace(f.ServiceName),
		PlanName:      strings.TrimSpace(f.PlanName),
		Currency:      strings.ToUpper(strings.TrimSpace(f.Currency)),
		Frequency:     models.Frequency(strings.TrimSpace(f.Frequency)),
		Category:      models.Category(strings.TrimSpace(f.Category)),
		PaymentMethod: strings.TrimSpace(f.PaymentMethod),
		Status:        models.Status(strings.TrimSpace(f.Status)),
	}
	in.Name = in.ServiceName

	if in.Currency == "" {
		in.Currency = models.DefaultCurrency
	}
	if in.Status == "" {
		in.Status = models.DefaultStatus
	}

	if price := strings.TrimSpace(f.Price); price != "" {
		p, err := strconv.ParseFloat(price, 64)
		if err != nil {
			return in, fmt.Errorf("%w: price %q is not a number", models.ErrInvalidSubscription, price)
		}
		in.Price = p
	}

	start, err := time.Parse(time.DateOnly, strings.TrimSpace(f.StartDate))
	if err != nil {
		return in, fmt.Errorf("%w: start date must be YYYY-MM-DD", models.ErrInvalidSubscription)
	}
	in.StartDate = start

	return in, in.Validate()
}
