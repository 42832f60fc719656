package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"subtrack/internal/common"
	"subtrack/internal/export"
	"subtrack/internal/models"
	"subtrack/internal/store"
	"subtrack/internal/view"
)

var subsCmd = &cobra.Command{
	Use:     "subs",
	Aliases: []string{"subscriptions"},
	Short:   "Manage your subscriptions",
	Long:    "List, add, edit and delete the subscriptions tracked for your account",
}

var subsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List subscriptions",
	Long:  "Show every subscription with its price, next renewal and the monthly and yearly totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loggedInApp(cmd, false)
		if err != nil {
			return err
		}
		if a.Store.LoadFailed() {
			return reported(errors.New("failed to load subscriptions"))
		}

		format, _ := cmd.Flags().GetString("output")
		out := cmd.OutOrStdout()

		if format == export.FormatTable && a.Store.Empty() {
			writeln(out, "No subscriptions yet. Add one with 'subtrack subs add'.")
			return nil
		}

		return export.Write(out, format, a.Store.Subscriptions(), a.Store.Stats(), time.Now())
	},
}

var subsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one subscription",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loggedInApp(cmd, false)
		if err != nil {
			return err
		}

		sub, ok := a.Store.Find(args[0])
		if !ok {
			return common.NewUserError(fmt.Sprintf("subscription %s not found", args[0]), models.ErrSubscriptionNotFound)
		}

		card := view.NewCard(sub, time.Now())
		out := cmd.OutOrStdout()
		writef(out, "%s %s\n", card.Icon, card.Name)
		writef(out, "Plan: %s\n", card.Plan)
		writef(out, "Price: %s/%s\n", card.Price, card.Frequency)
		writef(out, "Renewal: %s\n", card.RenewalText)
		if card.PaymentMethod != "" {
			writef(out, "Payment method: %s\n", card.PaymentMethod)
		}
		writef(out, "Category: %s\n", card.Category)
		writef(out, "Status: %s\n", card.Status)
		return nil
	},
}

var subsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a subscription",
	Long:  "Add a subscription. Currency defaults to USD, frequency to monthly, category to entertainment and the start date to today.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loggedInApp(cmd, true)
		if err != nil {
			return err
		}

		form := a.View.OpenEditor(nil)
		applyFormFlags(cmd.Flags(), &form)

		return reported(a.View.SubmitEditor(cmd.Context(), form))
	},
}

var subsEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a subscription",
	Long:  "Change the fields given as flags, keeping every other field as it is",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loggedInApp(cmd, false)
		if err != nil {
			return err
		}

		form, err := a.View.Edit(args[0])
		if err != nil {
			return reported(err)
		}
		applyFormFlags(cmd.Flags(), &form)

		return reported(a.View.SubmitEditor(cmd.Context(), form))
	},
}

var subsDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a subscription",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loggedInApp(cmd, true)
		if err != nil {
			return err
		}

		err = a.View.Delete(cmd.Context(), args[0], confirmer(cmd))
		if errors.Is(err, store.ErrCancelled) {
			writeln(cmd.OutOrStdout(), "Delete cancelled")
			return nil
		}
		return reported(err)
	},
}

var subsRemindCmd = &cobra.Command{
	Use:   "remind <id>",
	Short: "Send renewal reminders for a subscription",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loggedInApp(cmd, true)
		if err != nil {
			return err
		}
		return reported(a.Store.Remind(cmd.Context(), args[0]))
	},
}

var subsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show subscription statistics",
	Long:  "Show the number of subscriptions, the monthly and yearly cost and the renewals due within a week",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loggedInApp(cmd, false)
		if err != nil {
			return err
		}
		if a.Store.LoadFailed() {
			return reported(errors.New("failed to load subscriptions"))
		}

		export.WriteStats(cmd.OutOrStdout(), a.Store.Stats())
		return nil
	},
}

var subsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export subscriptions to a spreadsheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loggedInApp(cmd, false)
		if err != nil {
			return err
		}
		if a.Store.LoadFailed() {
			return reported(errors.New("failed to load subscriptions"))
		}

		path, _ := cmd.Flags().GetString("file")
		if err := export.SaveXLSX(path, a.Store.Subscriptions(), a.Store.Stats(), time.Now()); err != nil {
			return err
		}

		writef(cmd.OutOrStdout(), "Exported %d subscriptions to %s\n", a.Store.Stats().Total, path)
		return nil
	},
}

// formFlags maps editor flags onto form fields
var formFlags = map[string]func(*view.Form) *string{
	"name":           func(f *view.Form) *string { return &f.ServiceName },
	"plan":           func(f *view.Form) *string { return &f.PlanName },
	"price":          func(f *view.Form) *string { return &f.Price },
	"currency":       func(f *view.Form) *string { return &f.Currency },
	"frequency":      func(f *view.Form) *string { return &f.Frequency },
	"category":       func(f *view.Form) *string { return &f.Category },
	"payment-method": func(f *view.Form) *string { return &f.PaymentMethod },
	"status":         func(f *view.Form) *string { return &f.Status },
	"start-date":     func(f *view.Form) *string { return &f.StartDate },
}

func applyFormFlags(flags *pflag.FlagSet, form *view.Form) {
	for name, field := range formFlags {
		if flags.Changed(name) {
			value, _ := flags.GetString(name)
			*field(form) = value
		}
	}
}

func addFormFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Service name")
	cmd.Flags().String("plan", "", "Plan name")
	cmd.Flags().String("price", "", "Price per billing period")
	cmd.Flags().String("currency", "", "ISO currency code")
	cmd.Flags().String("frequency", "", "Billing frequency (monthly, yearly, weekly)")
	cmd.Flags().String("category", "", "Category (entertainment, productivity, education, fitness, music, cloud, other)")
	cmd.Flags().String("payment-method", "", "Payment method")
	cmd.Flags().String("status", "", "Status")
	cmd.Flags().String("start-date", "", "Start date (YYYY-MM-DD)")
}

func init() {
	rootCmd.AddCommand(subsCmd)

	subsCmd.AddCommand(subsListCmd)
	subsCmd.AddCommand(subsShowCmd)
	subsCmd.AddCommand(subsAddCmd)
	subsCmd.AddCommand(subsEditCmd)
	subsCmd.AddCommand(subsDeleteCmd)
	subsCmd.AddCommand(subsRemindCmd)
	subsCmd.AddCommand(subsStatsCmd)
	subsCmd.AddCommand(subsExportCmd)

	subsListCmd.Flags().StringP("output", "o", export.FormatTable, "Output format (table, json, yaml)")

	addFormFlags(subsAddCmd)
	addFormFlags(subsEditCmd)
	_ = subsAddCmd.MarkFlagRequired("name")

	subsDeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	subsExportCmd.Flags().StringP("file", "f", "subscriptions.xlsx", "Destination .xlsx file")
}
