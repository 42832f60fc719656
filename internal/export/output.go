package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"subtrack/internal/models"
	"subtrack/internal/store"
	"subtrack/internal/util"
)

// Output formats accepted by the list command
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Report is the machine-readable form of the list
type Report struct {
	Subscriptions []models.Subscription `json:"subscriptions" yaml:"subscriptions"`
	Stats         store.Stats           `json:"stats" yaml:"stats"`
}

// Write renders subs in the named format
func Write(w io.Writer, format string, subs []models.Subscription, stats store.Stats, now time.Time) error {
	switch format {
	case "", FormatTable:
		WriteTable(w, subs, stats, now)
		return nil
	case FormatJSON:
		return WriteJSON(w, subs, stats)
	case FormatYAML:
		return WriteYAML(w, subs, stats)
	}
	return fmt.Errorf("unknown output format %q (use table, json or yaml)", format)
}

func WriteJSON(w io.Writer, subs []models.Subscription, stats store.Stats) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report(subs, stats))
}

func WriteYAML(w io.Writer, subs []models.Subscription, stats store.Stats) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report(subs, stats)); err != nil {
		return err
	}
	return enc.Close()
}

func report(subs []models.Subscription, stats store.Stats) Report {
	if subs == nil {
		subs = []models.Subscription{}
	}
	return Report{Subscriptions: subs, Stats: stats}
}

// WriteTable renders a rounded table with cost totals in the footer
func WriteTable(w io.Writer, subs []models.Subscription, stats store.Stats, now time.Time) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := table.Row{"ID", "", "Service", "Plan", "Price", "Frequency", "Renewal", "Status"}
	t.AppendHeader(header)

	for _, sub := range subs {
		renewal := text.FgHiBlack.Sprint("-")
		if sub.RenewalDate != nil {
			renewal = util.FormatDate(*sub.RenewalDate)
			if store.IsUpcoming(sub, now) {
				days, _ := sub.DaysUntilRenewal(now)
				renewal = text.FgYellow.Sprintf("%s (%d days)", renewal, days)
			}
		}

		status := string(sub.Status)
		if sub.Status == models.StatusActive {
			status = text.FgGreen.Sprint(status)
		} else {
			status = text.FgRed.Sprint(status)
		}

		t.AppendRow(table.Row{
			sub.ID,
			util.CategoryIcon(string(sub.Category)),
			sub.Name,
			sub.PlanName,
			util.FormatCurrency(sub.Price, sub.Currency),
			string(sub.Frequency),
			renewal,
			status,
		})
	}

	t.AppendSeparator()
	t.AppendFooter(table.Row{
		"", "", text.Bold.Sprintf("%d subscriptions", stats.Total), "",
		text.Bold.Sprint(util.FormatCurrency(stats.MonthlyCost, util.DefaultCurrency) + "/mo"),
		text.Bold.Sprint(util.FormatCurrency(stats.YearlyCost, util.DefaultCurrency) + "/yr"),
		text.Bold.Sprintf("%d upcoming", stats.UpcomingRenewals), "",
	})

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
	})

	t.Render()
}

// WriteStats renders the statistics panel as a two-column table
func WriteStats(w io.Writer, stats store.Stats) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	t.AppendRows([]table.Row{
		{"Total Subscriptions", stats.Total},
		{"Monthly Cost", util.FormatCurrency(stats.MonthlyCost, util.DefaultCurrency)},
		{"Yearly Cost", util.FormatCurrency(stats.YearlyCost, util.DefaultCurrency)},
		{"Upcoming Renewals", stats.UpcomingRenewals},
	})

	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})

	t.Render()
}
