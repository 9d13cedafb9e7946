package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tradmangh/LinkedIn-PostScraper/internal/scraper"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [profile-url-or-username]",
	Short: "Check the saved session and profile reachability",
	Long: `Check whether the saved LinkedIn session is still logged in, and
optionally whether a profile is reachable with it.

Examples:
  # Is the saved session still valid?
  linkedin-postscraper check

  # Can this profile be reached?
  linkedin-postscraper check https://www.linkedin.com/in/johndoe/
  linkedin-postscraper check johndoe`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := newSession()
	if err != nil {
		return err
	}
	defer session.Close()

	fmt.Println("Checking saved session...")
	if !session.IsLoggedIn(ctx) {
		fmt.Println("Not logged in. Run 'linkedin-postscraper login' first.")
		return nil
	}
	fmt.Println("Session is valid.")

	if len(args) == 0 {
		return nil
	}

	profileURL := scraper.NormalizeProfileURL(args[0])
	fmt.Printf("Checking profile %s\n", profileURL)
	exists, err := session.CheckProfileExists(ctx, args[0])
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("profile check failed: %w", err)
	}
	if exists {
		fmt.Println("Profile is reachable.")
	} else {
		fmt.Println("Profile not found or not accessible.")
	}
	return nil
}
