package model

// Config holds the complete litscreen configuration.
// Hierarchy (highest to lowest priority): CLI flags, LITSCREEN_* env
// vars, ~/.litscreen/config.yaml, these defaults.
type Config struct {
	LLM          LLMConfig        `yaml:"llm"`
	RateLimiting RateLimitConfig  `yaml:"rate_limiting"`
	Checkpoint   CheckpointConfig `yaml:"checkpoint"`
	Matching     MatchingConfig   `yaml:"matching"`
	Output       OutputConfig     `yaml:"output"`
}

// LLMConfig configures the second-pass screening provider.
type LLMConfig struct {
	Provider  string `yaml:"provider"`   // "openai" or "" (stage disabled)
	Model     string `yaml:"model"`      // provider-specific model name
	APIKey    string `yaml:"api_key"`    // usually from OPENAI_API_KEY instead
	BaseURL   string `yaml:"base_url"`   // custom endpoint, optional
	Timeout   int    `yaml:"timeout"`    // seconds, per record
	MaxTokens int    `yaml:"max_tokens"` // response cap
	CacheTTL  int    `yaml:"cache_ttl"`  // minutes; 0 disables the response cache
}

// RateLimitConfig throttles the sequential LLM calls.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size"`
}

// CheckpointConfig controls batch resumability.
type CheckpointConfig struct {
	// ProgressInterval is how often (in records) progress is logged.
	// The checkpoint log itself is appended after every record.
	ProgressInterval int `yaml:"progress_interval"`
}

// MatchingConfig controls highlight matching behavior.
type MatchingConfig struct {
	// PreciseWordBoundary makes single-word keywords match only at
	// word boundaries when highlighting ("app" does not light up
	// inside "apply"). The rule-stage matcher always uses boundaries.
	PreciseWordBoundary bool `yaml:"precise_word_boundary"`
}

// OutputConfig controls console and report output.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "gpt-4o",
			Timeout:   60,
			MaxTokens: 1500,
			CacheTTL:  60,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 1,
			BurstSize:         1,
		},
		Checkpoint: CheckpointConfig{
			ProgressInterval: 5,
		},
		Matching: MatchingConfig{
			PreciseWordBoundary: true,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
