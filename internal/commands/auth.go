package commands

import (
	"github.com/spf13/cobra"
)

// Top-level shortcuts for the account commands used most often

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the subscription tracking service",
	Long:  "Authenticate with the service and remember the session for later commands",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out from the subscription tracking service",
	Long:  "Remove the saved session credentials",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show current user information",
	Long:  "Display information about the currently logged in user",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().String("email", "", "Email address")
	logoutCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
