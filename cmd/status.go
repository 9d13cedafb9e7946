package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tradmangh/LinkedIn-PostScraper/internal/index"
	"github.com/tradmangh/LinkedIn-PostScraper/internal/scraper"
	"github.com/tradmangh/LinkedIn-PostScraper/internal/storage"
)

var recentLimit int

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status [profile-url-or-username]",
	Short: "Show what has been archived",
	Long: `Show archive totals and the most recently saved posts. With a profile
argument, also show the date of that profile's latest archived post, which
tells you where an incremental scrape would pick up.

Examples:
  # Overall archive status
  linkedin-postscraper status

  # Status for one profile's subfolder
  linkedin-postscraper status johndoe`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().IntVar(&recentLimit, "recent", 10, "number of recent posts to list")
}

func runStatus(cmd *cobra.Command, args []string) error {
	outputPath := viper.GetString("output")

	if len(args) == 1 {
		if err := showProfileStatus(outputPath, args[0]); err != nil {
			return err
		}
		fmt.Println()
	}

	dbPath := filepath.Join(outputPath, "archive.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No archive index yet. Run 'linkedin-postscraper scrape' first.")
		return nil
	}

	ix, err := index.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open archive index: %w", err)
	}
	defer ix.Close()

	stats, err := ix.Stats()
	if err != nil {
		return err
	}

	fmt.Printf("=== Archive: %s ===\n", outputPath)
	fmt.Printf("Posts:   %d\n", stats.Posts)
	fmt.Printf("Authors: %d\n", stats.Authors)
	if stats.LatestDate != "" {
		fmt.Printf("Latest:  %s\n", stats.LatestDate)
	}

	if recentLimit <= 0 || stats.Posts == 0 {
		return nil
	}

	entries, err := ix.Recent(recentLimit)
	if err != nil {
		return err
	}
	fmt.Printf("\nRecent posts:\n")
	for _, e := range entries {
		media := e.MediaType
		if media == "" {
			media = "text"
		}
		fmt.Printf("  %s  %-20s %-12s %s\n", e.Date, e.Author, media, filepath.Base(e.Path))
	}
	return nil
}

// showProfileStatus reports on one profile's subfolder from the markdown
// files themselves, so it works even without the index.
func showProfileStatus(outputPath, profileRef string) error {
	slug := scraper.ProfileSlug(profileRef)
	if slug == "" {
		return fmt.Errorf("could not extract a username from %q", profileRef)
	}

	dir := filepath.Join(outputPath, slug)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		fmt.Printf("No archived posts for %s yet.\n", slug)
		return nil
	}

	fmt.Printf("=== Profile: %s ===\n", slug)
	fmt.Printf("Folder: %s\n", dir)
	if date, ok := storage.LatestPostDate(dir); ok {
		fmt.Printf("Latest archived post: %s\n", date)
	} else {
		fmt.Println("No dated posts archived yet.")
	}
	return nil
}
