package cli

import (
	"fmt"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/corops/cordash/internal/auth"
)

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)

	loginCmd.Flags().StringP("username", "u", "", "Username")
	loginCmd.Flags().StringP("password", "p", "", "Password (not recommended, use interactive prompt)")
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Manage the stored session for the metrics backend.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to the metrics backend",
	Long: `Authenticate with the metrics backend using username and password.

This command will prompt for credentials if not provided via flags.
The token pair is stored for future use and renewed automatically.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		if username == "" {
			fmt.Print("Username: ")
			_, _ = fmt.Scanln(&username)
		}
		if password == "" {
			fmt.Print("Password: ")
			bytePassword, err := term.ReadPassword(syscall.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = string(bytePassword)
			fmt.Println()
		}

		username = strings.TrimSpace(username)
		if username == "" {
			return fmt.Errorf("username is required")
		}
		if password == "" {
			return fmt.Errorf("password is required")
		}

		ctrl, _, err := newController(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Authenticating with %s...\n", serverURL())
		ok, err := ctrl.Login(cmd.Context(), username, password)
		if !ok {
			return fmt.Errorf("login failed: %w", err)
		}

		if err := saveServer(serverURL()); err != nil && verbose {
			fmt.Printf("warning: %v\n", err)
		}

		fmt.Printf("✓ Successfully authenticated as %s\n", username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout and remove the stored session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctrl, _, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		if err := ctrl.Logout(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		fmt.Println("✓ Logged out")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctrl, _, err := newController(cmd.Context())
		if err != nil {
			return err
		}

		if !ctrl.Signed() {
			fmt.Println("Not logged in")
			return nil
		}

		s := ctrl.Session()
		fmt.Printf("Logged in as:  %s\n", s.User.Username)
		fmt.Printf("Server:        %s\n", serverURL())

		if exp := auth.TokenExpiry(s.AccessToken); !exp.IsZero() {
			if time.Now().After(exp) {
				fmt.Println("Access token:  expired (renewed on next request)")
			} else {
				fmt.Printf("Access token:  valid until %s\n", exp.Local().Format(time.RFC1123))
			}
		}
		return nil
	},
}
