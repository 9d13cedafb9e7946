package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tradmangh/LinkedIn-PostScraper/internal/index"
	"github.com/tradmangh/LinkedIn-PostScraper/internal/parser"
	"github.com/tradmangh/LinkedIn-PostScraper/internal/scraper"
	"github.com/tradmangh/LinkedIn-PostScraper/internal/storage"
)

var (
	startIndex   int
	maxPosts     int
	selectSpec   string
	scrapeAll    bool
	forcedAuthor string
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape [profile-url-or-username]",
	Short: "Archive a profile's posts as markdown",
	Long: `Scrape a profile's posts into markdown files, saved oldest first so the
archive grows chronologically. Posts that were already saved are skipped,
which makes repeated runs incremental.

The profile can also come from LINKEDIN_PROFILE_URL in the environment or a
local .env file.

Examples:
  # Archive the newest posts (up to --max-posts)
  linkedin-postscraper scrape https://www.linkedin.com/in/johndoe/

  # Archive everything the feed still exposes
  linkedin-postscraper scrape johndoe --all

  # Archive specific posts by their scan index
  linkedin-postscraper scrape johndoe --select 0,2,5

  # Go deeper into the feed
  linkedin-postscraper scrape johndoe --start-index 40 --max-posts 20`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	// Scrape-specific flags
	scrapeCmd.Flags().IntVar(&startIndex, "start-index", 0, "deepest feed position to load (0 = newest post only)")
	scrapeCmd.Flags().IntVar(&maxPosts, "max-posts", 50, "maximum number of posts to save (0 = unlimited)")
	scrapeCmd.Flags().StringVar(&selectSpec, "select", "", "comma-separated scan indices to archive (e.g. 0,2,5)")
	scrapeCmd.Flags().BoolVar(&scrapeAll, "all", false, "archive every post the feed exposes")
	scrapeCmd.Flags().StringVar(&forcedAuthor, "author", "", "subfolder name (default: the profile's username)")

	// Bind flags to viper
	viper.BindPFlag("max-posts", scrapeCmd.Flags().Lookup("max-posts"))
}

func runScrape(cmd *cobra.Command, args []string) error {
	profileRef := resolveProfile(args)
	if profileRef == "" {
		return fmt.Errorf("provide a profile URL or username, or set LINKEDIN_PROFILE_URL")
	}
	if selectSpec != "" && scrapeAll {
		return fmt.Errorf("--select and --all are mutually exclusive")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := newSession()
	if err != nil {
		return err
	}
	defer session.Close()

	cb := consoleCallbacks()
	depth := startIndex
	limit := viper.GetInt("max-posts")
	var selection parser.Selection
	useSelection := false

	// Both --select and --all need a scan pass first to learn what the feed
	// holds; --select additionally pins post identities so a feed that
	// shifted between the two passes does not swap in the wrong posts.
	if selectSpec != "" || scrapeAll {
		indices, err := parseIndices(selectSpec)
		if err != nil {
			return err
		}

		previews, err := session.ScanPosts(ctx, profileRef, cb)
		if err != nil {
			return describeScrapeError(err)
		}
		if ctx.Err() != nil {
			fmt.Println("\nScrape cancelled.")
			return nil
		}
		if len(previews) == 0 {
			fmt.Println("\nNo posts found.")
			return nil
		}

		if scrapeAll {
			depth = len(previews) - 1
			limit = 0
		} else {
			selection = parser.NewSelection(previews, indices)
			if selection.Len() == 0 {
				return fmt.Errorf("none of the selected indices exist (feed has %d posts)", len(previews))
			}
			useSelection = true
			depth = 0
			for _, i := range indices {
				if i > depth && i < len(previews) {
					depth = i
				}
			}
			limit = 0
		}
	}

	raw, err := session.ScrapePosts(ctx, profileRef, depth, limit, cb)
	if err != nil {
		return describeScrapeError(err)
	}
	if ctx.Err() != nil {
		fmt.Println("\nScrape cancelled.")
		return nil
	}
	if useSelection {
		raw = parser.FilterBySelection(raw, selection)
	}
	if len(raw) == 0 {
		fmt.Println("\nNothing to save.")
		return nil
	}

	posts := make([]parser.Post, 0, len(raw))
	for _, r := range raw {
		posts = append(posts, parser.ParsePost(r.HTML, r.DateText, r.ElementID))
	}

	outDir := viper.GetString("output")
	author := forcedAuthor
	if author == "" {
		author = scraper.ProfileSlug(profileRef)
	}
	if author != "" {
		outDir = filepath.Join(outDir, author)
	}

	ix := openIndex()
	if ix != nil {
		defer ix.Close()
	}

	fmt.Printf("\nSaving %d posts to %s\n", len(posts), outDir)
	saved, err := storage.SaveAll(posts, outDir, func(current, total int, path string) {
		if path == "" {
			fmt.Printf("  [%d/%d] already archived, skipped\n", current, total)
			return
		}
		fmt.Printf("  [%d/%d] %s\n", current, total, filepath.Base(path))
		if ix != nil {
			if err := ix.RecordPost(posts[current-1], path); err != nil {
				slog.Warn("could not record post in index", "error", err)
			}
		}
	})
	if err != nil {
		return fmt.Errorf("saving posts failed: %w", err)
	}

	fmt.Printf("\nDone. Saved %d new posts (%d duplicates skipped).\n", len(saved), len(posts)-len(saved))
	return nil
}

// parseIndices parses a comma-separated index list. Empty input is an empty
// selection, not an error.
func parseIndices(spec string) ([]int, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}
	var indices []int
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid post index %q", part)
		}
		indices = append(indices, n)
	}
	return indices, nil
}

// openIndex opens the archive index next to the output tree. The index is
// advisory, so failures only cost the status command its data.
func openIndex() *index.Index {
	path := filepath.Join(viper.GetString("output"), "archive.db")
	if err := os.MkdirAll(viper.GetString("output"), 0755); err != nil {
		slog.Warn("could not create output directory for index", "error", err)
		return nil
	}
	ix, err := index.Open(path)
	if err != nil {
		slog.Warn("could not open archive index", "error", err)
		return nil
	}
	return ix
}

// describeScrapeError turns a login-wall redirect into actionable advice.
func describeScrapeError(err error) error {
	if scraper.IsAuthRequired(err) {
		return fmt.Errorf("%w\nRun 'linkedin-postscraper login' and try again", err)
	}
	return err
}
