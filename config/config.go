// Package config builds the explicit configuration handed to every component at process entry.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrNoFeeds               = errors.New("at least one feed is required")
	ErrFeedMissingURL        = errors.New("feed url is required")
	ErrInvalidEntriesPerFeed = errors.New("entries_per_feed must be at least 1")
	ErrInvalidArchiveLimit   = errors.New("archive_limit must be at least 1")
	ErrInvalidWorkers        = errors.New("enrich_workers must be at least 1")
	ErrUnknownProvider       = errors.New("summarizer.provider must be 'openai' or 'cohere'")
	ErrInvalidMaxTokens      = errors.New("summarizer.max_tokens must be at least 1")
	ErrUnknownStoreBackend   = errors.New("store.backend must be 'file', 's3' or 'redis'")
	ErrMissingArchivePath    = errors.New("store.path is required for the file backend")
	ErrMissingBucket         = errors.New("store.s3.bucket is required for the s3 backend")
	ErrInvalidLogLevel       = errors.New("log_level must be one of: debug, info, warn, error")
	ErrInvalidTimeout        = errors.New("timeouts must be positive")
	ErrMissingPlaceholder    = errors.New("image.placeholder is required")
)

// FeedConfig is a single RSS/Atom source.
type FeedConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// SummarizerConfig selects and configures the text-generation backend.
// APIKey is normally supplied through the environment, never through the YAML file.
type SummarizerConfig struct {
	Provider  string        `yaml:"provider"`
	APIKey    string        `yaml:"-"`
	BaseURL   string        `yaml:"base_url"`
	Model     string        `yaml:"model"`
	MaxTokens int           `yaml:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout"`
	Language  string        `yaml:"language"`
}

// ImageConfig configures og:image extraction.
type ImageConfig struct {
	Timeout             time.Duration `yaml:"timeout"`
	UserAgent           string        `yaml:"user_agent"`
	Placeholder         string        `yaml:"placeholder"`
	ReadabilityFallback bool          `yaml:"readability_fallback"`
}

type S3Config struct {
	Bucket       string `yaml:"bucket"`
	Key          string `yaml:"key"`
	Region       string `yaml:"region"`
	Profile      string `yaml:"profile"`
	UsePathStyle bool   `yaml:"use_path_style"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"-"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

// StoreConfig selects where the archive document lives.
type StoreConfig struct {
	Backend string      `yaml:"backend"`
	Path    string      `yaml:"path"`
	S3      S3Config    `yaml:"s3"`
	Redis   RedisConfig `yaml:"redis"`
}

// KafkaConfig enables new-item notifications when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Config is the complete process configuration.
type Config struct {
	Feeds          []FeedConfig     `yaml:"feeds"`
	EntriesPerFeed int              `yaml:"entries_per_feed"`
	ArchiveLimit   int              `yaml:"archive_limit"`
	EnrichWorkers  int              `yaml:"enrich_workers"`
	FeedTimeout    time.Duration    `yaml:"feed_timeout"`
	Summarizer     SummarizerConfig `yaml:"summarizer"`
	Image          ImageConfig      `yaml:"image"`
	Store          StoreConfig      `yaml:"store"`
	Kafka          KafkaConfig      `yaml:"kafka"`
	LogLevel       string           `yaml:"log_level"`
	HTTPAddr       string           `yaml:"http_addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	feeds := make([]FeedConfig, len(DefaultFeeds))
	copy(feeds, DefaultFeeds)

	return &Config{
		Feeds:          feeds,
		EntriesPerFeed: DefaultEntriesPerFeed,
		ArchiveLimit:   DefaultArchiveLimit,
		EnrichWorkers:  DefaultEnrichWorkers,
		FeedTimeout:    DefaultFeedTimeout,
		Summarizer: SummarizerConfig{
			Provider:  DefaultProvider,
			BaseURL:   DefaultOpenAIBaseURL,
			MaxTokens: DefaultMaxTokens,
			Timeout:   DefaultSummaryTimeout,
			Language:  DefaultSummaryLanguage,
		},
		Image: ImageConfig{
			Timeout:     DefaultImageTimeout,
			UserAgent:   DefaultUserAgent,
			Placeholder: DefaultPlaceholderImage,
		},
		Store: StoreConfig{
			Backend: DefaultStoreBackend,
			Path:    DefaultArchivePath,
			S3:      S3Config{Key: DefaultS3Key},
			Redis:   RedisConfig{Addr: DefaultRedisAddr, Key: DefaultRedisKey},
		},
		Kafka:    KafkaConfig{Topic: DefaultKafkaTopic},
		LogLevel: DefaultLogLevel,
		HTTPAddr: DefaultHTTPAddr,
	}
}

// Load builds the configuration from defaults, an optional YAML file, a .env file and
// the process environment, in increasing precedence. An empty path falls back to
// NEWSDIGEST_CONFIG; when both are empty no file is read.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv("NEWSDIGEST_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.resolveModel()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveModel picks a provider-appropriate model when none was configured.
func (c *Config) resolveModel() {
	if c.Summarizer.Model != "" {
		return
	}
	switch c.Summarizer.Provider {
	case ProviderCohere:
		c.Summarizer.Model = DefaultCohereModel
	default:
		c.Summarizer.Model = DefaultOpenAIModel
	}
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if len(c.Feeds) == 0 {
		return ErrNoFeeds
	}
	for i, f := range c.Feeds {
		if strings.TrimSpace(f.URL) == "" {
			return fmt.Errorf("feed %d (%s): %w", i, f.Name, ErrFeedMissingURL)
		}
	}
	if c.EntriesPerFeed < 1 {
		return ErrInvalidEntriesPerFeed
	}
	if c.ArchiveLimit < 1 {
		return ErrInvalidArchiveLimit
	}
	if c.EnrichWorkers < 1 {
		return ErrInvalidWorkers
	}

	switch c.Summarizer.Provider {
	case ProviderOpenAI, ProviderCohere:
	default:
		return fmt.Errorf("%w, got %q", ErrUnknownProvider, c.Summarizer.Provider)
	}
	if c.Summarizer.MaxTokens < 1 {
		return ErrInvalidMaxTokens
	}
	if c.FeedTimeout <= 0 || c.Summarizer.Timeout <= 0 || c.Image.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Image.Placeholder == "" {
		return ErrMissingPlaceholder
	}

	switch c.Store.Backend {
	case BackendFile:
		if c.Store.Path == "" {
			return ErrMissingArchivePath
		}
	case BackendS3:
		if c.Store.S3.Bucket == "" {
			return ErrMissingBucket
		}
	case BackendRedis:
	default:
		return fmt.Errorf("%w, got %q", ErrUnknownStoreBackend, c.Store.Backend)
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	return nil
}

// applyEnv overlays environment variables onto cfg.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		return nil
	}
	flag := func(key string, dst *bool) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = b
		return nil
	}

	if v, ok := lookup("NEWSDIGEST_FEEDS"); ok && strings.TrimSpace(v) != "" {
		cfg.Feeds = parseFeedList(v)
	}

	str("SUMMARY_PROVIDER", &cfg.Summarizer.Provider)
	cfg.Summarizer.Provider = strings.ToLower(cfg.Summarizer.Provider)
	switch cfg.Summarizer.Provider {
	case ProviderCohere:
		str("COHERE_API_KEY", &cfg.Summarizer.APIKey)
	default:
		str("OPENAI_API_KEY", &cfg.Summarizer.APIKey)
		str("OPENAI_BASE_URL", &cfg.Summarizer.BaseURL)
	}
	str("MODEL_NAME", &cfg.Summarizer.Model)
	str("SUMMARY_LANGUAGE", &cfg.Summarizer.Language)

	str("IMAGE_PLACEHOLDER", &cfg.Image.Placeholder)
	str("IMAGE_USER_AGENT", &cfg.Image.UserAgent)

	str("STORE_BACKEND", &cfg.Store.Backend)
	cfg.Store.Backend = strings.ToLower(cfg.Store.Backend)
	str("ARCHIVE_PATH", &cfg.Store.Path)
	str("S3_BUCKET", &cfg.Store.S3.Bucket)
	str("S3_KEY", &cfg.Store.S3.Key)
	str("S3_REGION", &cfg.Store.S3.Region)
	str("S3_PROFILE", &cfg.Store.S3.Profile)
	str("REDIS_ADDR", &cfg.Store.Redis.Addr)
	str("REDIS_PASS", &cfg.Store.Redis.Password)
	str("REDIS_KEY", &cfg.Store.Redis.Key)

	if v, ok := lookup("KAFKA_BROKERS"); ok && strings.TrimSpace(v) != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	str("KAFKA_TOPIC", &cfg.Kafka.Topic)

	str("LOG_LEVEL", &cfg.LogLevel)
	if v, ok := lookup("PORT"); ok && strings.TrimSpace(v) != "" {
		cfg.HTTPAddr = ":" + strings.TrimSpace(v)
	}

	for _, err := range []error{
		num("ENTRIES_PER_FEED", &cfg.EntriesPerFeed),
		num("ARCHIVE_LIMIT", &cfg.ArchiveLimit),
		num("ENRICH_WORKERS", &cfg.EnrichWorkers),
		num("SUMMARY_MAX_TOKENS", &cfg.Summarizer.MaxTokens),
		num("REDIS_DB", &cfg.Store.Redis.DB),
		dur("FEED_TIMEOUT", &cfg.FeedTimeout),
		dur("SUMMARY_TIMEOUT", &cfg.Summarizer.Timeout),
		dur("IMAGE_TIMEOUT", &cfg.Image.Timeout),
		flag("IMAGE_READABILITY_FALLBACK", &cfg.Image.ReadabilityFallback),
		flag("S3_USE_PATH_STYLE", &cfg.Store.S3.UsePathStyle),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

// parseFeedList turns "url1,preset,url2" into feeds. URLs are named after their host.
func parseFeedList(raw string) []FeedConfig {
	var feeds []FeedConfig
	for _, u := range splitList(raw) {
		if preset, ok := ResolveFeed(u); ok {
			feeds = append(feeds, preset)
			continue
		}
		name := u
		if parsed, err := url.Parse(u); err == nil && parsed.Host != "" {
			name = parsed.Host
		}
		feeds = append(feeds, FeedConfig{Name: name, URL: u})
	}
	return feeds
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
