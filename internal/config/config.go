package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EmailConfig holds SMTP delivery settings. Alerts are sent from and to
// the same address unless a separate recipient is configured.
type EmailConfig struct {
	Address  string `yaml:"address"`
	To       string `yaml:"to"`
	Password string `yaml:"password"`
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort int    `yaml:"smtp_port"`
}

// ThresholdConfig holds all alert rule parameters. Immutable for the
// lifetime of a run.
type ThresholdConfig struct {
	BTCDominanceFloor  float64 `yaml:"btc_dominance_floor"`
	M2FlatEpsilon      float64 `yaml:"m2_flat_epsilon"`
	AltPullbackRatio   float64 `yaml:"alt_pullback_ratio"`
	TrendHitsRequired  int     `yaml:"trend_hits_required"`
	M2Window           int     `yaml:"m2_window"`
	PullbackWindow     int     `yaml:"pullback_window"`
	PullbackMinSamples int     `yaml:"pullback_min_samples"`
}

// SourceConfig holds provider endpoints.
type SourceConfig struct {
	CoinGeckoURL string `yaml:"coingecko_url"`
	FredURL      string `yaml:"fred_url"`
	FredAPIKey   string `yaml:"fred_api_key"`
	AppStoreRSS  string `yaml:"app_store_rss"`
	FearGreedAPI string `yaml:"fear_greed_api"`
	TrendsURL    string `yaml:"trends_url"`
	TimeoutSec   int    `yaml:"timeout_sec"`
}

// HistoryConfig holds the flat-file store settings.
type HistoryConfig struct {
	File       string `yaml:"file"`
	MaxEntries int    `yaml:"max_entries"`
}

// Config holds all application configuration.
type Config struct {
	Email       EmailConfig     `yaml:"email"`
	Thresholds  ThresholdConfig `yaml:"thresholds"`
	Sources     SourceConfig    `yaml:"sources"`
	SocialTerms []string        `yaml:"social_terms"`
	History     HistoryConfig   `yaml:"history"`
	Schedule    struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
}

// Timeout returns the per-request timeout for outbound calls.
func (s SourceConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSec) * time.Second
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("EMAIL_ADDRESS"); v != "" {
		cfg.Email.Address = v
	}
	if v := os.Getenv("EMAIL_TO"); v != "" {
		cfg.Email.To = v
	}
	if v := os.Getenv("EMAIL_PASSWORD"); v != "" {
		cfg.Email.Password = v
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.Email.SMTPHost = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Email.SMTPPort = p
		}
	}
	if v := os.Getenv("FRED_API_KEY"); v != "" {
		cfg.Sources.FredAPIKey = v
	}
	if v := os.Getenv("BTC_DOM_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Thresholds.BTCDominanceFloor = f
		}
	}
	if v := os.Getenv("M2_FLAT_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Thresholds.M2FlatEpsilon = f
		}
	}
	if v := os.Getenv("ALT_PULLBACK"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Thresholds.AltPullbackRatio = f
		}
	}
	if v := os.Getenv("TRENDS_HITS_REQ"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Thresholds.TrendHitsRequired = n
		}
	}
	if v := os.Getenv("SOCIAL_TERMS"); v != "" {
		terms := strings.Split(v, ",")
		for i := range terms {
			terms[i] = strings.TrimSpace(terms[i])
		}
		cfg.SocialTerms = terms
	}
	if v := os.Getenv("APP_STORE_RSS"); v != "" {
		cfg.Sources.AppStoreRSS = v
	}
	if v := os.Getenv("FEAR_GREED_API"); v != "" {
		cfg.Sources.FearGreedAPI = v
	}
	if v := os.Getenv("HISTORY_FILE"); v != "" {
		cfg.History.File = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		cfg.Schedule.Cron = v
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Email.To == "" {
		cfg.Email.To = cfg.Email.Address
	}
	if cfg.Email.SMTPHost == "" {
		cfg.Email.SMTPHost = "smtp.gmail.com"
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}
	if cfg.Thresholds.BTCDominanceFloor == 0 {
		cfg.Thresholds.BTCDominanceFloor = 45.0
	}
	if cfg.Thresholds.M2FlatEpsilon == 0 {
		cfg.Thresholds.M2FlatEpsilon = 0.001
	}
	if cfg.Thresholds.AltPullbackRatio == 0 {
		cfg.Thresholds.AltPullbackRatio = 0.90
	}
	if cfg.Thresholds.TrendHitsRequired == 0 {
		cfg.Thresholds.TrendHitsRequired = 2
	}
	if cfg.Thresholds.M2Window == 0 {
		cfg.Thresholds.M2Window = 3
	}
	if cfg.Thresholds.PullbackWindow == 0 {
		cfg.Thresholds.PullbackWindow = 30
	}
	if cfg.Thresholds.PullbackMinSamples == 0 {
		cfg.Thresholds.PullbackMinSamples = 5
	}
	if len(cfg.SocialTerms) == 0 {
		cfg.SocialTerms = []string{"bitcoin", "crypto", "ethereum", "altcoin", "nft"}
	}
	if cfg.Sources.CoinGeckoURL == "" {
		cfg.Sources.CoinGeckoURL = "https://api.coingecko.com/api/v3/global"
	}
	if cfg.Sources.FredURL == "" {
		cfg.Sources.FredURL = "https://api.stlouisfed.org/fred/series/observations"
	}
	if cfg.Sources.AppStoreRSS == "" {
		cfg.Sources.AppStoreRSS = "https://rss.applemarketingtools.com/api/v2/us/apps/top-free/10/apps.json"
	}
	if cfg.Sources.FearGreedAPI == "" {
		cfg.Sources.FearGreedAPI = "https://api.alternative.me/fng/?limit=1"
	}
	if cfg.Sources.TrendsURL == "" {
		cfg.Sources.TrendsURL = "https://trends.google.com/trends/api/dailytrends"
	}
	if cfg.Sources.TimeoutSec == 0 {
		cfg.Sources.TimeoutSec = 10
	}
	if cfg.History.File == "" {
		cfg.History.File = "alt_history.json"
	}
	if cfg.History.MaxEntries == 0 {
		cfg.History.MaxEntries = 90
	}
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = "0 0 8,20 * * *"
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Email.Address == "" {
		return fmt.Errorf("email.address is required")
	}
	if c.Email.Password == "" {
		return fmt.Errorf("email.password is required")
	}
	if c.Thresholds.BTCDominanceFloor <= 0 || c.Thresholds.BTCDominanceFloor > 100 {
		return fmt.Errorf("thresholds.btc_dominance_floor must be in (0, 100]")
	}
	if c.Thresholds.AltPullbackRatio <= 0 || c.Thresholds.AltPullbackRatio > 1 {
		return fmt.Errorf("thresholds.alt_pullback_ratio must be in (0, 1]")
	}
	if c.Thresholds.M2FlatEpsilon <= 0 {
		return fmt.Errorf("thresholds.m2_flat_epsilon must be positive")
	}
	if c.Thresholds.TrendHitsRequired <= 0 {
		return fmt.Errorf("thresholds.trend_hits_required must be positive")
	}
	return nil
}
