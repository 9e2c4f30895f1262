package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/minjpark/litscreen/internal/model"
)

// Caching wraps a provider with an in-memory response cache, keyed by
// record content. A re-run batch in the same process does not pay twice
// for a record it already screened; at temperature 0 the cached answer
// is the answer.
type Caching struct {
	inner Provider
	cache *gocache.Cache
}

// NewCaching creates a caching provider wrapper.
func NewCaching(inner Provider, ttl time.Duration) *Caching {
	return &Caching{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Name returns the wrapped provider's name.
func (p *Caching) Name() string { return p.inner.Name() }

// IsAvailable delegates to the wrapped provider.
func (p *Caching) IsAvailable(ctx context.Context) bool { return p.inner.IsAvailable(ctx) }

// Screen returns a cached response when the record was seen before,
// otherwise delegates and stores the result. Errors are never cached.
func (p *Caching) Screen(ctx context.Context, req ScreenRequest) (*ScreenResponse, error) {
	key := cacheKey(req)
	if val, found := p.cache.Get(key); found {
		resp := val.(ScreenResponse)
		return &resp, nil
	}

	resp, err := p.inner.Screen(ctx, req)
	if err != nil {
		return nil, err
	}
	p.cache.Set(key, *resp, gocache.DefaultExpiration)
	return resp, nil
}

func cacheKey(req ScreenRequest) string {
	h := sha256.New()
	h.Write([]byte(req.Title))
	h.Write([]byte{0})
	h.Write([]byte(req.Abstract))
	for _, cat := range model.Categories() {
		h.Write([]byte{0})
		h.Write([]byte(req.ExistingKeywords[cat]))
	}
	return "litscreen:v1:" + hex.EncodeToString(h.Sum(nil))
}
