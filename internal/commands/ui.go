package commands

import (
	"github.com/spf13/cobra"

	"subtrack/internal/ui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive dashboard",
	Long:  "Sign in, browse the dashboard and add, edit or delete subscriptions in a full screen terminal interface",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return ui.Run(cmd.Context(), globalConfig, globalConfigDir)
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
