package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var scanJSON bool

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [profile-url-or-username]",
	Short: "Preview the posts of a LinkedIn profile",
	Long: `Scan a profile's activity feed and list its posts, newest first, without
saving anything. Use the listed indices with 'scrape --select' to archive
specific posts.

The profile can also come from LINKEDIN_PROFILE_URL in the environment or a
local .env file.

Examples:
  # List a profile's posts
  linkedin-postscraper scan https://www.linkedin.com/in/johndoe/

  # Bare usernames work too
  linkedin-postscraper scan johndoe

  # Machine-readable output
  linkedin-postscraper scan johndoe --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "print previews as JSON")
}

func runScan(cmd *cobra.Command, args []string) error {
	profileRef := resolveProfile(args)
	if profileRef == "" {
		return fmt.Errorf("provide a profile URL or username, or set LINKEDIN_PROFILE_URL")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := newSession()
	if err != nil {
		return err
	}
	defer session.Close()

	previews, err := session.ScanPosts(ctx, profileRef, consoleCallbacks())
	if err != nil {
		return describeScrapeError(err)
	}
	if ctx.Err() != nil {
		fmt.Println("\nScan cancelled.")
		return nil
	}

	fmt.Println()
	if len(previews) == 0 {
		fmt.Println("No posts found.")
		return nil
	}

	if scanJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(previews)
	}

	fmt.Printf("Found %d posts:\n\n", len(previews))
	fmt.Printf("%4s  %-16s  %s\n", "#", "Date", "Preview")
	for _, p := range previews {
		date := p.DateText
		if date == "" {
			date = "(no date)"
		}
		fmt.Printf("%4d  %-16s  %s\n", p.Index, date, p.Headline)
	}
	fmt.Printf("\nArchive specific posts with:\n  linkedin-postscraper scrape %s --select 0,2,5\n", profileRef)
	return nil
}
