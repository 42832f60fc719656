package view

import (
	"fmt"
	"log/slog"
	"time"

	"subtrack/internal/models"
	"subtrack/internal/store"
	"subtrack/internal/util"
)

const (
	unknownService = "Unknown Service"
	standardPlan   = "Standard Plan"
	noRenewal      = "No renewal date set"
)

// Dashboard is everything the presentation layer needs to draw the main screen
type Dashboard struct {
	Welcome    string
	Stats      StatsPanel
	Cards      []Card
	Empty      bool
	LoadFailed bool
}

// StatsPanel holds the formatted statistics
type StatsPanel struct {
	Total            int
	MonthlyCost      string
	YearlyCost       string
	UpcomingRenewals int
}

// Card is the view-data for one subscription
type Card struct {
	ID            string
	Icon          string
	Name          string
	Plan          string
	Price         string
	Frequency     string
	Category      string
	Status        string
	PaymentMethod string
	RenewalText   string
	Upcoming      bool
}

// NewStatsPanel formats stats for display. Totals are shown in the default currency.
func NewStatsPanel(stats store.Stats) StatsPanel {
	return StatsPanel{
		Total:            stats.Total,
		MonthlyCost:      util.FormatCurrency(stats.MonthlyCost, util.DefaultCurrency),
		YearlyCost:       util.FormatCurrency(stats.YearlyCost, util.DefaultCurrency),
		UpcomingRenewals: stats.UpcomingRenewals,
	}
}

// NewCard builds the view-data for sub. A record that cannot be rendered degrades
// to a placeholder card instead of failing the whole list.
func NewCard(sub models.Subscription, now time.Time) (card Card) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("Failed to render subscription", "id", sub.ID, "error", r)
			card = placeholderCard(sub.ID)
		}
	}()

	card = Card{
		ID:            sub.ID,
		Icon:          util.CategoryIcon(string(sub.Category)),
		Name:          orDefault(sub.Name, unknownService),
		Plan:          orDefault(sub.PlanName, standardPlan),
		Price:         util.FormatCurrency(sub.Price, sub.Currency),
		Frequency:     orDefault(string(sub.Frequency), string(models.DefaultFrequency)),
		Category:      orDefault(string(sub.Category), string(models.DefaultCategory)),
		Status:        orDefault(string(sub.Status), string(models.DefaultStatus)),
		PaymentMethod: sub.PaymentMethod,
		RenewalText:   noRenewal,
	}

	if days, ok := sub.DaysUntilRenewal(now); ok {
		card.RenewalText = "Renews " + util.FormatDate(*sub.RenewalDate)
		card.Upcoming = store.IsUpcoming(sub, now)
		if card.Upcoming {
			card.RenewalText += fmt.Sprintf(" (%d days)", days)
		}
	}

	return card
}

func placeholderCard(id string) Card {
	return Card{
		ID:          id,
		Icon:        util.CategoryIcon(string(models.CategoryOther)),
		Name:        unknownService,
		Plan:        standardPlan,
		Price:       util.FormatCurrency(0, util.DefaultCurrency),
		Frequency:   string(models.DefaultFrequency),
		Category:    string(models.DefaultCategory),
		Status:      string(models.DefaultStatus),
		RenewalText: noRenewal,
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// Welcome is the greeting shown above the dashboard
func Welcome(user *models.User) string {
	return "Welcome, " + user.DisplayName()
}
