package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kalebv467-cell/auto-posting/internal/linker"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	WordPress WordPress `yaml:"wordpress"`
	Anthropic Anthropic `yaml:"anthropic"`
	Sources   []Source  `yaml:"sources"`
	Freshness Freshness `yaml:"freshness"`
	Linking   Linking   `yaml:"linking"`
	Images    Images    `yaml:"images"`
	Posting   Posting   `yaml:"posting"`
	Ledger    Ledger    `yaml:"ledger"`
	Output    Output    `yaml:"output"`
}

type WordPress struct {
	URL         string `yaml:"url"`
	Username    string `yaml:"username"`
	PasswordEnv string `yaml:"password_env"`
	PostType    string `yaml:"post_type"`
	Category    string `yaml:"category"`
}

type Anthropic struct {
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

// Source is one scraped site section. Feed, when set, collects via RSS
// instead of listing-page scraping.
type Source struct {
	Name       string `yaml:"name"`
	URL        string `yaml:"url"`
	Feed       string `yaml:"feed"`
	Category   string `yaml:"category"`
	MinWords   int    `yaml:"min_words"`
	Author     string `yaml:"author"`
	PrimaryTag string `yaml:"primary_tag"`
}

type Freshness struct {
	MaxAgeDays int    `yaml:"max_age_days"`
	Cutoff     string `yaml:"cutoff"` // optional absolute YYYY-MM-DD floor
}

type Linking struct {
	Rules            []linker.Rule `yaml:"rules"`
	ExcludedDomains  []string      `yaml:"excluded_domains"`
	MaxExternalLinks int           `yaml:"max_external_links"`
}

type Images struct {
	Dir string `yaml:"dir"`
}

type Posting struct {
	Hours      []int `yaml:"hours"`
	DailyLimit int   `yaml:"daily_limit"`
}

type Ledger struct {
	Backend string `yaml:"backend"` // sqlite or file
	Path    string `yaml:"path"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

// ConfigDir returns the XDG config directory for autopost.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "autopost")
}

// DataDir returns the XDG data directory for autopost.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "autopost")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/autopost/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'autopost init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		WordPress: WordPress{
			PasswordEnv: "WORDPRESS_PASSWORD",
			PostType:    "news",
			Category:    "Cannabis News",
		},
		Anthropic: Anthropic{
			APIKeyEnv: "ANTHROPIC_API_KEY",
			Model:     "claude-sonnet-4-20250514",
			MaxTokens: 3000,
		},
		Freshness: Freshness{MaxAgeDays: 14},
		Linking:   Linking{MaxExternalLinks: 3},
		Images:    Images{Dir: "images"},
		Posting: Posting{
			Hours:      []int{9, 12, 15, 18, 21},
			DailyLimit: 5,
		},
		Ledger: Ledger{Backend: "sqlite"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// LedgerPath returns the configured ledger location, defaulting into the
// data directory with a backend-appropriate filename.
func (c *Config) LedgerPath() string {
	if c.Ledger.Path != "" {
		return c.Ledger.Path
	}
	name := "used_articles.db"
	if c.Ledger.Backend == "file" {
		name = "used_articles.jsonl"
	}
	return filepath.Join(c.GetDataDir(), name)
}

// FreshnessCutoff resolves the freshness boundary: the optional absolute
// cutoff date when configured, otherwise now minus max_age_days.
func (c *Config) FreshnessCutoff(now time.Time) (time.Time, error) {
	if c.Freshness.Cutoff != "" {
		d, err := time.Parse("2006-01-02", c.Freshness.Cutoff)
		if err != nil {
			return time.Time{}, fmt.Errorf("parsing freshness cutoff: %w", err)
		}
		return d, nil
	}
	days := c.Freshness.MaxAgeDays
	if days <= 0 {
		days = 14
	}
	return now.AddDate(0, 0, -days), nil
}

// AnthropicKey reads the API key from the configured environment variable.
func (c *Config) AnthropicKey() string {
	return os.Getenv(c.Anthropic.APIKeyEnv)
}

// WordPressPassword reads the CMS password from the configured environment
// variable.
func (c *Config) WordPressPassword() string {
	return os.Getenv(c.WordPress.PasswordEnv)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
