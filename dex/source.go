package dex

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/dexfetch/go-dex/request"
)

// DataSource identifies where a generation's data comes from. It is a sealed
// capability with two variants: PaginatedAPISource produces item references
// that each need a detail fetch, StaticAggregateSource produces a complete
// result in one load. The orchestrator dispatches on the concrete type.
type DataSource interface {
	// CacheToken returns a stable descriptor of the source, mixed into the
	// derived cache key so the same generation served from two different
	// sources never aliases one entry.
	CacheToken() string

	sealed()
}

// PaginatedAPISource serves generations from a live paginated listing
// endpoint.
type PaginatedAPISource struct {
	BaseURL string
}

var _ DataSource = (*PaginatedAPISource)(nil)

func (s *PaginatedAPISource) sealed() {}

func (s *PaginatedAPISource) CacheToken() string {
	return "api:" + strings.TrimRight(s.BaseURL, "/")
}

// Listing fetches the item references for gen with limit/offset pagination.
// Any failure here is fatal for the whole generation request.
func (s *PaginatedAPISource) Listing(ctx context.Context, client *request.Client, gen Generation) ([]ItemRef, error) {
	url := fmt.Sprintf("%s/pokemon?limit=%d&offset=%d", strings.TrimRight(s.BaseURL, "/"), gen.Limit, gen.Offset)

	res, err := client.Get(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(ErrUpstreamUnavailable, "listing %s: %v", url, err)
	}
	if !res.Success {
		return nil, errors.Wrapf(ErrUpstreamUnavailable, "listing %s: status %d", url, res.Status)
	}

	var listing rawListing
	if err := json.Unmarshal(res.Body, &listing); err != nil {
		return nil, errors.Wrapf(ErrUpstreamUnavailable, "listing %s: undecodable body: %v", url, err)
	}

	refs := make([]ItemRef, 0, len(listing.Results))
	for _, r := range listing.Results {
		refs = append(refs, ItemRef{Name: r.Name, URL: r.URL})
	}
	return refs, nil
}

// StaticAggregateSource serves a generation from one pre-built JSON aggregate
// file, collapsing the listing and detail stages into a single load.
type StaticAggregateSource struct {
	Path string
}

var _ DataSource = (*StaticAggregateSource)(nil)

func (s *StaticAggregateSource) sealed() {}

func (s *StaticAggregateSource) CacheToken() string {
	return "file:" + s.Path
}

// Load decodes the aggregate file directly into a GenerationResult.
func (s *StaticAggregateSource) Load() (*GenerationResult, error) {
	buf, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, errors.Wrapf(ErrUpstreamUnavailable, "aggregate %s: %v", s.Path, err)
	}
	var result GenerationResult
	if err := json.Unmarshal(buf, &result); err != nil {
		return nil, errors.Wrapf(ErrUpstreamUnavailable, "aggregate %s: undecodable body: %v", s.Path, err)
	}
	return &result, nil
}
