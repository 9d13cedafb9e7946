package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to LinkedIn and save the session",
	Long: `Open a browser window on the LinkedIn login page and wait for you to
log in. The session is stored in the browser state directory, so scan and
scrape runs afterwards work without logging in again.

Examples:
  # Log in interactively
  linkedin-postscraper login`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := newSession()
	if err != nil {
		return err
	}
	defer session.Close()

	profileURL, err := session.OpenLogin(ctx, consoleCallbacks())
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if ctx.Err() != nil {
		fmt.Println("\nLogin cancelled.")
		return nil
	}

	if profileURL != "" {
		fmt.Printf("Your profile: %s\n", profileURL)
		fmt.Printf("Archive your posts with:\n  linkedin-postscraper scrape %s\n", profileURL)
	}
	return nil
}
