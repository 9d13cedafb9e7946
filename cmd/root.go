package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tradmangh/LinkedIn-PostScraper/internal/scraper"
)

var (
	cfgFile     string
	outputDir   string
	stateDir    string
	rateLimitMs int
	userAgent   string
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "linkedin-postscraper",
	Short: "Archive LinkedIn profile posts as markdown files",
	Long: `Archive the posts of a LinkedIn profile into local markdown files.

The tool drives a real browser session, so it works with your own logged-in
LinkedIn account:
- One-time login that persists across runs
- Scan a profile's activity feed for a quick preview of its posts
- Scrape full posts into markdown, oldest first, skipping already-saved ones
- Select exactly which posts to archive by index`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.linkedin-postscraper.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "output directory (default: ~/Documents/linkedin-archive)")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "browser state directory (default: ~/.linkedin-postscraper/browser)")
	rootCmd.PersistentFlags().IntVar(&rateLimitMs, "rate-limit", 1000, "rate limit between page navigations in milliseconds")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "custom user agent (default: random)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// Bind flags to viper
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("state-dir", rootCmd.PersistentFlags().Lookup("state-dir"))
	viper.BindPFlag("rate-limit", rootCmd.PersistentFlags().Lookup("rate-limit"))
	viper.BindPFlag("user-agent", rootCmd.PersistentFlags().Lookup("user-agent"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A local .env file may carry settings like LINKEDIN_PROFILE_URL.
	godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".linkedin-postscraper" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".linkedin-postscraper")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// Set default values
	home, _ := os.UserHomeDir()
	viper.SetDefault("output", filepath.Join(home, "Documents", "linkedin-archive"))
	viper.SetDefault("state-dir", filepath.Join(home, ".linkedin-postscraper", "browser"))
	viper.SetDefault("rate-limit", 1000)
	viper.SetDefault("max-posts", 50)
	viper.SetDefault("verbose", false)

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	level := slog.LevelWarn
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// newSession builds a browser session from the resolved configuration.
func newSession() (*scraper.Session, error) {
	dir := viper.GetString("state-dir")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return scraper.New(scraper.Config{
		StateDir:    dir,
		RateLimitMs: viper.GetInt("rate-limit"),
		UserAgent:   viper.GetString("user-agent"),
	}, slog.Default()), nil
}

// consoleCallbacks streams scraper progress to stdout.
func consoleCallbacks() scraper.Callbacks {
	return scraper.Callbacks{
		Status: func(msg string) {
			fmt.Println(msg)
		},
		DataCount: func(n int) {
			fmt.Printf("\rPosts loaded: %d", n)
		},
	}
}

// resolveProfile picks the profile reference from the command arguments,
// falling back to the LINKEDIN_PROFILE_URL environment variable (which a
// local .env file can provide).
func resolveProfile(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return os.Getenv("LINKEDIN_PROFILE_URL")
}
