package commands

import (
	"github.com/spf13/cobra"

	"subtrack/internal/common"
	"subtrack/internal/models"
	"subtrack/internal/session"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage your account",
	Long:  "Manage your account, including registration, login, logout and viewing account details",
}

var accountCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new account",
	Long:  "Register a new account with the subscription tracking service and log in",
	RunE:  runAccountCreate,
}

var accountLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to your account",
	Long:  "Authenticate with the service and remember the session for later commands",
	RunE:  runLogin,
}

var accountLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out from your account",
	Long:  "Remove the saved session credentials",
	RunE:  runLogout,
}

var accountInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show current account information",
	Long:  "Display basic information about the currently logged in user",
	RunE:  runWhoami,
}

func runAccountCreate(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}

	p := newPrompter(cmd)

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		if name, err = p.line("Name"); err != nil {
			return err
		}
	}

	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		if email, err = p.line("Email"); err != nil {
			return err
		}
	}

	password, err := p.password("Password")
	if err != nil {
		return err
	}
	confirmPassword, err := p.password("Confirm password")
	if err != nil {
		return err
	}
	if password != confirmPassword {
		return common.NewUserError("Passwords do not match", nil)
	}

	err = a.Session.SignUp(cmd.Context(), models.SignUpRequest{Name: name, Email: email, Password: password})
	return reported(err)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}

	p := newPrompter(cmd)

	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		if email, err = p.line("Email"); err != nil {
			return err
		}
	}

	password, err := p.password("Password")
	if err != nil {
		return err
	}

	err = a.Session.SignIn(cmd.Context(), models.Credentials{Email: email, Password: password})
	return reported(err)
}

func runLogout(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}

	if a.Session.State() != session.Authenticated {
		writeln(cmd.OutOrStdout(), "You are not logged in")
		return nil
	}

	if !a.View.Logout(confirmer(cmd)) {
		writeln(cmd.OutOrStdout(), "Logout cancelled")
	}
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	user := a.Session.User()
	if user == nil {
		writeln(out, "You are not logged in")
		return nil
	}

	writef(out, "Logged in as: %s\n", user.DisplayName())
	if user.Email != "" {
		writef(out, "Email: %s\n", user.Email)
	}
	if user.ID != "" {
		writef(out, "User ID: %s\n", user.ID)
	}
	writef(out, "Server: %s\n", a.Config.ServerURL)
	return nil
}

func init() {
	rootCmd.AddCommand(accountCmd)

	accountCmd.AddCommand(accountCreateCmd)
	accountCmd.AddCommand(accountLoginCmd)
	accountCmd.AddCommand(accountLogoutCmd)
	accountCmd.AddCommand(accountInfoCmd)

	accountCreateCmd.Flags().String("name", "", "Your name")
	accountCreateCmd.Flags().String("email", "", "Email address")
	accountLoginCmd.Flags().String("email", "", "Email address")
	accountLogoutCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
