package dex

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/dexfetch/go-dex/cache"
	"github.com/dexfetch/go-dex/logger"
	"github.com/dexfetch/go-dex/request"
)

// Service is the generation data orchestrator and the package's public
// surface. It owns a cache instance rather than relying on any global state;
// construct one per process (or session) and share it.
//
// Every result handed out is a private deep copy, whatever the cache
// backend: callers may mutate what they get back without corrupting the
// cached entry or another caller's result.
type Service struct {
	table       Table
	cache       cache.Cache
	client      *request.Client
	log         logger.Logger
	group       singleflight.Group
	concurrency int
	ttl         time.Duration
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithConcurrency bounds the parallel detail fetch fan-out.
// Defaults to DefaultConcurrency.
func WithConcurrency(n int) ServiceOption {
	return func(s *Service) { s.concurrency = n }
}

// WithCacheTTL sets how long assembled results stay cached. The default is
// cache.Forever: a generation fetched once is considered valid for the
// lifetime of the cache's scope.
func WithCacheTTL(d time.Duration) ServiceOption {
	return func(s *Service) { s.ttl = d }
}

// NewService returns a Service resolving keys against table, caching in c,
// and fetching through client.
func NewService(table Table, c cache.Cache, client *request.Client, log logger.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		table:       table,
		cache:       c,
		client:      client,
		log:         log.WithPrefix("[dex]"),
		concurrency: DefaultConcurrency,
		ttl:         cache.Forever,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchGenerationData resolves key to a complete normalized roster: from the
// cache when possible, otherwise through a fetch-transform-cache cycle.
//
// Failure surface: ErrInvalidGenerationKey for unknown keys and
// ErrUpstreamUnavailable when the listing or aggregate load fails; both leave
// the cache untouched. Individual item failures are absorbed (logged,
// dropped) and never cross this boundary.
//
// Concurrent calls for the same key share one in-flight fetch.
func (s *Service) FetchGenerationData(ctx context.Context, key string) (*GenerationResult, error) {
	gen, err := s.table.Resolve(key)
	if err != nil {
		return nil, err
	}
	ckey := CacheKey(gen)

	found, cached, err := cache.Get[GenerationResult](ctx, s.cache, ckey)
	if err != nil {
		// A broken cache read degrades to a refetch, not a failed call.
		s.log.Warn("cache read for %s failed: %v", ckey, err)
	}
	if found {
		s.log.Debug("cache hit for %s", ckey)
		return cached.clone(), nil
	}

	result, err, _ := s.group.Do(ckey, func() (any, error) {
		return s.fetchAndStore(ctx, gen, ckey)
	})
	if err != nil {
		return nil, err
	}
	// The in-flight result is shared with the cache entry and with every
	// caller coalesced onto this fetch; each caller gets its own copy.
	return result.(*GenerationResult).clone(), nil
}

// fetchAndStore runs the full pipeline for one generation and writes the
// assembled result back before returning it.
func (s *Service) fetchAndStore(ctx context.Context, gen Generation, ckey string) (*GenerationResult, error) {
	log := s.log.With(map[string]interface{}{
		"generation": gen.Key,
		"fetch_id":   uuid.New().String(),
	})

	var result *GenerationResult
	switch src := gen.Source.(type) {
	case *PaginatedAPISource:
		refs, err := src.Listing(ctx, s.client, gen)
		if err != nil {
			return nil, err
		}
		log.Debug("listing returned %d references", len(refs))
		items := fetchAll(ctx, s.client, log, refs, s.concurrency)
		if dropped := len(refs) - len(items); dropped > 0 {
			log.Warn("dropped %d of %d items", dropped, len(refs))
		}
		result = &GenerationResult{Title: gen.Title, Items: items}
	case *StaticAggregateSource:
		loaded, err := src.Load()
		if err != nil {
			return nil, err
		}
		loaded.Title = gen.Title
		result = loaded
	default:
		return nil, errors.Newf("unsupported data source %T", gen.Source)
	}

	// Write-back failures are logged, not surfaced — the caller got their
	// result; the next call simply fetches again.
	if err := s.cache.Set(ctx, ckey, *result, s.ttl); err != nil {
		log.Warn("cache write for %s failed: %v", ckey, err)
	} else {
		log.Info("cached %d items as %s", len(result.Items), ckey)
	}

	return result, nil
}
