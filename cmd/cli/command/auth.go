package command

import (
	"fmt"
	"time"

	"bookrating/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

// auth.go handles account commands: register, login, logout and whoami.

// authCmd represents the auth command for authentication related subcommands
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Authenticate with the bookrating API server. Supports registration, login, logout and whoami.`,
}

// registerCmd represents the register command
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.RegisterRequest
		req.Name, _ = cmd.Flags().GetString("name")
		req.Username, _ = cmd.Flags().GetString("username")
		req.Password, _ = cmd.Flags().GetString("password")
		req.Email, _ = cmd.Flags().GetString("email")
		if req.Name == "" {
			req.Name = req.Username
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		response, err := newClient().Register(ctx, req)
		if err != nil {
			return describeAPIError(fmt.Errorf("registration failed: %w", err))
		}

		fmt.Println(success("✓ Registration successful! Please login to continue."))
		fmt.Printf("UserID: %s\n", response.UserID)
		return nil
	},
}

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to your account",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		ctx, cancel := commandContext(cmd)
		defer cancel()

		response, err := newClient().Login(ctx, username, password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		fmt.Println(success("✓ Successfully logged in as " + response.Username))
		fmt.Println(faint(fmt.Sprintf("session valid for %s", time.Duration(response.ExpiresIn)*time.Second)))
		return nil
	},
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout and revoke the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if err := newClient().Logout(ctx); err != nil {
			fmt.Println(warn("Server did not confirm the logout: " + err.Error()))
		}
		fmt.Println(success("✓ Successfully logged out."))
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := newClient().Session()
		if err != nil {
			return err
		}
		if creds == nil {
			fmt.Println(warn("Not logged in."))
			return nil
		}
		fmt.Printf("Logged in as %s\n", title(creds.Username))
		if creds.Expired(time.Now()) {
			fmt.Println(faint("access token expired, it will be refreshed on the next request"))
		}
		return nil
	},
}

func init() {
	authCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd)

	registerCmd.Flags().StringP("name", "n", "", "Display name (defaults to the username)")
	registerCmd.Flags().StringP("username", "u", "", "Username for the new account")
	registerCmd.Flags().StringP("password", "p", "", "Password for the new account")
	registerCmd.Flags().StringP("email", "e", "", "Email address for the new account")
	registerCmd.MarkFlagRequired("username")
	registerCmd.MarkFlagRequired("password")
	registerCmd.MarkFlagRequired("email")

	loginCmd.Flags().StringP("username", "u", "", "Username for the account")
	loginCmd.Flags().StringP("password", "p", "", "Password for the account")
	loginCmd.MarkFlagRequired("username")
	loginCmd.MarkFlagRequired("password")
}
