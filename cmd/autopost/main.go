package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kalebv467-cell/auto-posting/internal/config"
	"github.com/kalebv467-cell/auto-posting/internal/ledger"
	"github.com/kalebv467-cell/auto-posting/internal/pipeline"
	"github.com/kalebv467-cell/auto-posting/internal/schedule"
	"github.com/kalebv467-cell/auto-posting/internal/scrape"
	"github.com/kalebv467-cell/auto-posting/internal/wordpress"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "autopost",
	Short:   "Automated cannabis news publishing",
	Long:    "Autopost scrapes cannabis news sources, rewrites one fresh unused article per cycle, and publishes it to WordPress.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scheduleCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("autopost", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/autopost/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to configure sources, the WordPress site, and API key env vars.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show ledger and CMS connectivity status",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := openLedger()
		if err != nil {
			return err
		}
		defer l.Close()

		stats, err := l.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("reading ledger: %w", err)
		}

		fmt.Printf("Ledger: %s (%s)\n", cfg.LedgerPath(), cfg.Ledger.Backend)
		fmt.Printf("  Articles used: %d\n", stats.Total)

		fmt.Printf("\nSources: %d configured\n", len(cfg.Sources))
		for _, src := range cfg.Sources {
			mode := "listing"
			if src.Feed != "" {
				mode = "feed"
			}
			fmt.Printf("  %s (%s, %s)\n", src.Name, src.Category, mode)
		}

		fmt.Printf("\nWordPress: %s\n", cfg.WordPress.URL)
		wp := wordpress.New(cfg.WordPress.URL, cfg.WordPress.Username, cfg.WordPressPassword())
		if err := wp.Ping(context.Background(), cfg.WordPress.PostType); err != nil {
			fmt.Printf("  %s endpoint: UNREACHABLE (%v)\n", cfg.WordPress.PostType, err)
		} else {
			fmt.Printf("  %s endpoint: ok\n", cfg.WordPress.PostType)
		}

		if cfg.AnthropicKey() == "" {
			fmt.Printf("\nAnthropic: %s not set\n", cfg.Anthropic.APIKeyEnv)
		} else {
			fmt.Printf("\nAnthropic: configured (%s)\n", cfg.Anthropic.Model)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-category usage counts from the ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := openLedger()
		if err != nil {
			return err
		}
		defer l.Close()

		stats, err := l.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("reading ledger: %w", err)
		}

		fmt.Printf("Articles used: %d\n", stats.Total)
		if len(stats.ByCategory) == 0 {
			return nil
		}

		type kv struct {
			key string
			val int
		}
		var sorted []kv
		for k, v := range stats.ByCategory {
			sorted = append(sorted, kv{k, v})
		}
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].val > sorted[j].val })

		fmt.Println("\nBy category:")
		for _, s := range sorted {
			fmt.Printf("  %s: %d\n", s.key, s.val)
		}
		return nil
	},
}

// --- scrape command ---

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape sources and list candidates without publishing",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Scraping configured sources...")

		scraper := scrape.New(cfg.Sources)
		result := scraper.ScrapeAll(context.Background())

		fmt.Println("\nScrape complete:")
		fmt.Printf("  Links found: %d\n", result.LinksFound)
		fmt.Printf("  Candidates: %d\n", len(result.Candidates))
		fmt.Printf("  Skipped: %d\n", result.Skipped)

		if len(result.Candidates) > 0 {
			fmt.Println("\nCandidates:")
			for _, c := range result.Candidates {
				fmt.Printf("  [%s] %s (%d words)\n", c.Category, c.Title, c.WordCount)
			}
		}
		return nil
	},
}

// --- run command ---

var dryRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one publishing cycle: scrape -> select -> rewrite -> link -> publish",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := openLedger()
		if err != nil {
			return err
		}
		defer l.Close()

		pipe := pipeline.New(cfg, l)
		ctx := cmd.Context()

		var result *pipeline.Result
		if dryRun {
			result = pipe.DryRun(ctx)
		} else {
			result = pipe.Run(ctx)
		}

		for i, step := range result.Steps {
			fmt.Printf("\nStep %d: %s\n", i+1, step.Name)
			if step.Err != nil {
				fmt.Printf("  Error: %v\n", step.Err)
			} else {
				fmt.Printf("  %s\n", step.Summary)
			}
		}

		if result.Published() {
			fmt.Printf("\nPublished: %s\n", result.PostURL)
		} else if !dryRun {
			fmt.Println("\nNothing published this cycle.")
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Scrape and select without marking, rewriting, or publishing")
}

// --- schedule command ---

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run continuously, publishing at the configured hours",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := openLedger()
		if err != nil {
			return err
		}
		defer l.Close()

		pipe := pipeline.New(cfg, l)
		sched := schedule.New(cfg.Posting.Hours, cfg.Posting.DailyLimit, func(ctx context.Context) bool {
			return pipe.Run(ctx).Published()
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Scheduling %d posting hours per day (limit %d posts)\n", len(cfg.Posting.Hours), cfg.Posting.DailyLimit)
		fmt.Println("Press Ctrl+C to stop")

		if err := sched.Run(ctx); err != context.Canceled {
			return err
		}
		fmt.Println("\nScheduler stopped.")
		return nil
	},
}

func openLedger() (ledger.Ledger, error) {
	path := cfg.LedgerPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	if cfg.Ledger.Backend == "file" {
		return ledger.OpenFile(path)
	}
	return ledger.OpenSQLite(path)
}
