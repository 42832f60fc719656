package store

import (
	"time"

	"subtrack/internal/models"
)

// WeeksPerMonth converts weekly prices to a monthly basis
const WeeksPerMonth = 4.33

// UpcomingWindowDays is the inclusive horizon for upcoming renewals
const UpcomingWindowDays = 7

// Stats are aggregates derived from the cached subscription list
type Stats struct {
	Total            int     `json:"total" yaml:"total"`
	MonthlyCost      float64 `json:"monthlyCost" yaml:"monthlyCost"`
	YearlyCost       float64 `json:"yearlyCost" yaml:"yearlyCost"`
	UpcomingRenewals int     `json:"upcomingRenewals" yaml:"upcomingRenewals"`
}

// MonthlyEquivalent normalizes a subscription's price to a monthly cost.
// Unrecognised frequencies contribute nothing. A record the server sent without
// a frequency was already given the monthly default when it was decoded, so it
// counts at full price here rather than as zero.
func MonthlyEquivalent(sub models.Subscription) float64 {
	switch sub.Frequency {
	case models.FrequencyMonthly:
		return sub.Price
	case models.FrequencyYearly:
		return sub.Price / 12
	case models.FrequencyWeekly:
		return sub.Price * WeeksPerMonth
	default:
		return 0
	}
}

// IsUpcoming reports whether the renewal falls between today and a week from now, inclusive
func IsUpcoming(sub models.Subscription, now time.Time) bool {
	days, ok := sub.DaysUntilRenewal(now)
	return ok && days >= 0 && days <= UpcomingWindowDays
}

// ComputeStats derives the aggregate statistics for subs
func ComputeStats(subs []models.Subscription, now time.Time) Stats {
	stats := Stats{Total: len(subs)}

	for _, sub := range subs {
		stats.MonthlyCost += MonthlyEquivalent(sub)
		if IsUpcoming(sub, now) {
			stats.UpcomingRenewals++
		}
	}
	stats.YearlyCost = stats.MonthlyCost * 12

	return stats
}
