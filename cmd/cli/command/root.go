package command

// root.go defines the root command for bookrating-cli and the shared client wiring.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"bookrating/cmd/cli/authentication"
	"bookrating/cmd/cli/command/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	apiURL  string        // Global flag for API server URL
	timeout time.Duration // per command deadline
)

var (
	success = color.New(color.FgGreen).SprintFunc()
	warn    = color.New(color.FgYellow).SprintFunc()
	faint   = color.New(color.Faint).SprintFunc()
	title   = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bookrating",
	Short: "bookrating - command line client for the book rating API",
	Long: `bookrating lets you browse the catalogue and manage your reviews from a terminal:
- Browse, search and list trending books
- Read, write, edit, like and delete reviews
- Browse authors and follow authors or readers

Use "bookrating [command] --help" to see all available commands.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, client.ErrSessionExpired) {
			fmt.Fprintln(os.Stderr, warn("Your session has expired. Run `bookrating auth login` to continue."))
		} else {
			fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		}
		os.Exit(1)
	}
}

func init() {
	defaultAPI := os.Getenv("BOOKRATING_API")
	if defaultAPI == "" {
		defaultAPI = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultAPI, "API server URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 20*time.Second, "request timeout")

	rootCmd.AddCommand(authCmd, booksCmd, reviewsCmd, authorsCmd, followCmd)
}

// newClient builds the API client over the keyring session
func newClient() *client.HTTPClient {
	c := client.NewHTTPClient(apiURL, authentication.NewKeyringStore())
	c.OnSessionReset(func() {
		fmt.Fprintln(os.Stderr, faint("local session cleared"))
	})
	return c
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

// describeAPIError prints field level validation failures under the main message
func describeAPIError(err error) error {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || len(apiErr.Fields) == 0 {
		return err
	}
	for field, msg := range apiErr.Fields {
		fmt.Fprintf(os.Stderr, "  %s %s\n", color.YellowString(field), msg)
	}
	return err
}
