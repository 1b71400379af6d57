package config

import "time"

// Pipeline defaults
const (
	// DefaultEntriesPerFeed bounds how many entries are considered per feed per run
	DefaultEntriesPerFeed = 3

	// DefaultArchiveLimit is the retention boundary of the archive
	DefaultArchiveLimit = 100

	// DefaultEnrichWorkers of 1 keeps enrichment strictly sequential
	DefaultEnrichWorkers = 1

	// DefaultFeedTimeout bounds a single feed request
	DefaultFeedTimeout = 20 * time.Second
)

// Image extraction defaults
const (
	DefaultImageTimeout = 10 * time.Second

	// DefaultUserAgent is sent on article page fetches; some publishers reject bare Go clients
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// DefaultPlaceholderImage is used whenever no og:image can be found
	DefaultPlaceholderImage = "https://via.placeholder.com/800x400?text=AI+News"
)

// Summarization defaults
const (
	ProviderOpenAI = "openai"
	ProviderCohere = "cohere"

	DefaultProvider       = ProviderOpenAI
	DefaultOpenAIBaseURL  = "https://api.openai.com/v1"
	DefaultOpenAIModel    = "gpt-3.5-turbo"
	DefaultCohereModel    = "command-r"
	DefaultMaxTokens      = 150
	DefaultSummaryTimeout = 30 * time.Second

	// DefaultSummaryLanguage is the language summaries are written in
	DefaultSummaryLanguage = "Simplified Chinese"
)

// Storage defaults
const (
	BackendFile  = "file"
	BackendS3    = "s3"
	BackendRedis = "redis"

	DefaultStoreBackend = BackendFile
	DefaultArchivePath  = "news_data.json"
	DefaultS3Key        = "news_data.json"
	DefaultRedisAddr    = "localhost:6379"
	DefaultRedisKey     = "newsdigest:archive"
)

// Misc defaults
const (
	DefaultKafkaTopic = "newsdigest.items"
	DefaultHTTPAddr   = ":8080"
	DefaultLogLevel   = "info"
)

// DefaultFeeds is the built-in list of AI news sources, polled in this order
var DefaultFeeds = []FeedConfig{
	{Name: "TechCrunch AI", URL: "https://techcrunch.com/category/artificial-intelligence/feed/"},
	{Name: "The Verge AI", URL: "https://www.theverge.com/rss/artificial-intelligence/index.xml"},
	{Name: "Ars Technica AI", URL: "https://arstechnica.com/tag/ai/feed/"},
}
