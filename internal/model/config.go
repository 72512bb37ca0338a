package model

import "time"

// Config is the complete bookrel configuration.
// Field tags serve both the YAML config file and viper's decoder.
type Config struct {
	HTTP         HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Book         BookConfig        `yaml:"book" mapstructure:"book"`
	Recognizer   RecognizerConfig  `yaml:"recognizer" mapstructure:"recognizer"`
	Graph        GraphConfig       `yaml:"graph" mapstructure:"graph"`
	Server       ServerConfig      `yaml:"server" mapstructure:"server"`
	Output       OutputConfig      `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls how book sources are fetched
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"` // <= 0: no limit
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig controls the fetched-document cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// RateLimitConfig limits requests per source domain
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// ConcurrencyConfig controls batch ingestion
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// BookConfig holds the boilerplate markers surrounding a book body
type BookConfig struct {
	StartMarkers []string `yaml:"start_markers" mapstructure:"start_markers"`
	EndMarkers   []string `yaml:"end_markers" mapstructure:"end_markers"`
}

// RecognizerConfig selects and configures the named-entity recognizer
type RecognizerConfig struct {
	// Provider: "rules" (default), "openai", "ollama", "anthropic"
	Provider string `yaml:"provider" mapstructure:"provider"`

	// Gazetteer overrides the embedded titles/stop-words resource (rules only)
	Gazetteer string `yaml:"gazetteer,omitempty" mapstructure:"gazetteer"`

	Model   string `yaml:"model,omitempty" mapstructure:"model"`
	APIKey  string `yaml:"-" mapstructure:"api_key"`
	BaseURL string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout int    `yaml:"timeout" mapstructure:"timeout"` // seconds

	// BatchSize is the number of sentences sent per LLM request
	BatchSize int `yaml:"batch_size" mapstructure:"batch_size"`

	// MaxBatchTokens additionally bounds a batch by prompt tokens (0 = off)
	MaxBatchTokens int `yaml:"max_batch_tokens" mapstructure:"max_batch_tokens"`

	// ReuseAnalysis keeps the first-pass analysis of each chapter for the
	// co-occurrence pass instead of invoking the recognizer again
	ReuseAnalysis bool `yaml:"reuse_analysis" mapstructure:"reuse_analysis"`

	// CheckOnStart probes LLM providers before serving
	CheckOnStart bool `yaml:"check_on_start" mapstructure:"check_on_start"`
}

// GraphConfig controls graph assembly
type GraphConfig struct {
	// IDScheme: "uuid5" (deterministic), "uuid4", "nanoid"
	IDScheme string `yaml:"id_scheme" mapstructure:"id_scheme"`
}

// ServerConfig controls the HTTP front end
type ServerConfig struct {
	Addr         string        `yaml:"addr" mapstructure:"addr"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
	Pretty  bool `yaml:"pretty" mapstructure:"pretty"`
}

// Default boilerplate markers of Project Gutenberg plain-text books
var (
	DefaultStartMarkers = []string{
		"*** START OF THIS PROJECT GUTENBERG EBOOK",
		"*** START OF THE PROJECT GUTENBERG EBOOK",
	}
	DefaultEndMarkers = []string{
		"*** END OF THIS PROJECT GUTENBERG EBOOK",
		"*** END OF THE PROJECT GUTENBERG EBOOK",
	}
)

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "bookrel/0.1 (+https://github.com/ppiankov/bookrel)",
			MaxBodyBytes:  16 << 20,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultCacheDir(),
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 1,
			BurstSize:         2,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Book: BookConfig{
			StartMarkers: append([]string(nil), DefaultStartMarkers...),
			EndMarkers:   append([]string(nil), DefaultEndMarkers...),
		},
		Recognizer: RecognizerConfig{
			Provider:      "rules",
			Timeout:       60,
			BatchSize:     40,
			ReuseAnalysis: true,
			CheckOnStart:  true,
		},
		Graph: GraphConfig{
			IDScheme: "uuid5",
		},
		Server: ServerConfig{
			Addr:         ":8001",
			MaxBodyBytes: 32 << 20,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 5 * time.Minute,
		},
		Output: OutputConfig{
			Pretty: false,
		},
	}
}
