package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/minjpark/litscreen/internal/model"
)

// NewProvider creates the configured screening provider, wrapped with
// the response cache and rate limiter. Returns nil (no error) when no
// provider is configured, which disables the LLM stage.
func NewProvider(cfg *model.Config) (Provider, error) {
	var base Provider
	switch strings.ToLower(cfg.LLM.Provider) {
	case "openai":
		p, err := NewOpenAIProvider(cfg.LLM)
		if err != nil {
			return nil, err
		}
		base = p
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai)", cfg.LLM.Provider)
	}

	if cfg.RateLimiting.RequestsPerSecond > 0 {
		base = NewRateLimited(base, cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	}
	if cfg.LLM.CacheTTL > 0 {
		base = NewCaching(base, time.Duration(cfg.LLM.CacheTTL)*time.Minute)
	}
	return base, nil
}
