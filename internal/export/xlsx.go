// Package export renders the subscription list as tables, JSON, YAML and spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"subtrack/internal/models"
	"subtrack/internal/store"
	"subtrack/internal/util"
)

const (
	SubscriptionsSheet = "Subscriptions"
	SummarySheet       = "Summary"
)

var xlsxHeader = []string{
	"ID", "Service", "Plan", "Price", "Currency", "Frequency", "Monthly Equivalent",
	"Category", "Status", "Payment Method", "Start Date", "Renewal Date", "Days Until Renewal",
}

// BuildWorkbook lays out subscriptions on one sheet and the statistics on another
func BuildWorkbook(subs []models.Subscription, stats store.Stats, now time.Time) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), SubscriptionsSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("error naming sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("error adding sheet: %w", err)
	}

	if err := writeRow(f, SubscriptionsSheet, 1, toCells(xlsxHeader)); err != nil {
		_ = f.Close()
		return nil, err
	}

	for i, sub := range subs {
		days := ""
		if d, ok := sub.DaysUntilRenewal(now); ok {
			days = fmt.Sprint(d)
		}

		row := []any{
			sub.ID,
			sub.Name,
			sub.PlanName,
			sub.Price,
			sub.Currency,
			string(sub.Frequency),
			store.MonthlyEquivalent(sub),
			string(sub.Category),
			string(sub.Status),
			sub.PaymentMethod,
			isoDate(sub.StartDate),
			isoDate(sub.RenewalDate),
			days,
		}
		if err := writeRow(f, SubscriptionsSheet, i+2, row); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	summary := [][]any{
		{"Total Subscriptions", stats.Total},
		{"Monthly Cost", util.FormatCurrency(stats.MonthlyCost, util.DefaultCurrency)},
		{"Yearly Cost", util.FormatCurrency(stats.YearlyCost, util.DefaultCurrency)},
		{"Upcoming Renewals", stats.UpcomingRenewals},
		{"Generated", now.Format(time.RFC3339)},
	}
	for i, row := range summary {
		if err := writeRow(f, SummarySheet, i+1, row); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	return f, nil
}

// WriteXLSX writes the workbook to w
func WriteXLSX(w io.Writer, subs []models.Subscription, stats store.Stats, now time.Time) error {
	f, err := BuildWorkbook(subs, stats, now)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}

// SaveXLSX writes the workbook to path
func SaveXLSX(path string, subs []models.Subscription, stats store.Stats, now time.Time) error {
	f, err := BuildWorkbook(subs, stats, now)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("error saving workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("error addressing cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("error writing cell %s: %w", cell, err)
		}
	}
	return nil
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func isoDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return util.FormatISODate(*t)
}
