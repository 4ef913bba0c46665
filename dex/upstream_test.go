package dex

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeUpstream serves a PokeAPI-shaped listing plus per-item detail records
// and counts what the pipeline actually requested.
type fakeUpstream struct {
	server *httptest.Server

	names []string

	mu          sync.Mutex
	failListing bool
	failDetail  map[string]bool
	detailDelay map[string]time.Duration

	listingRequests atomic.Int64
	detailRequests  atomic.Int64
}

func newUpstream(t *testing.T, names ...string) *fakeUpstream {
	t.Helper()
	u := &fakeUpstream{
		names:       names,
		failDetail:  map[string]bool{},
		detailDelay: map[string]time.Duration{},
	}
	u.server = httptest.NewServer(http.HandlerFunc(u.handle))
	t.Cleanup(u.server.Close)
	return u
}

func (u *fakeUpstream) handle(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/pokemon":
		u.listingRequests.Add(1)
		u.mu.Lock()
		fail := u.failListing
		u.mu.Unlock()
		if fail {
			http.Error(w, "upstream down", http.StatusInternalServerError)
			return
		}
		var listing rawListing
		for _, name := range u.names {
			listing.Results = append(listing.Results, struct {
				Name string `json:"name"`
				URL  string `json:"url"`
			}{Name: name, URL: u.server.URL + "/api/pokemon/" + name})
		}
		json.NewEncoder(w).Encode(listing)

	case strings.HasPrefix(r.URL.Path, "/api/pokemon/"):
		u.detailRequests.Add(1)
		name := strings.TrimPrefix(r.URL.Path, "/api/pokemon/")
		u.mu.Lock()
		fail := u.failDetail[name]
		delay := u.detailDelay[name]
		u.mu.Unlock()
		if delay > 0 {
			time.Sleep(delay)
		}
		if fail {
			http.Error(w, "no such creature", http.StatusNotFound)
			return
		}
		id := 0
		for i, n := range u.names {
			if n == name {
				id = i + 1
			}
		}
		fmt.Fprintf(w, `{
			"id": %d,
			"name": %q,
			"types": [{"slot": 1, "type": {"name": "normal"}}],
			"abilities": [{"ability": {"name": "run-away"}}],
			"stats": [
				{"base_stat": %d, "stat": {"name": "hp"}},
				{"base_stat": %d, "stat": {"name": "speed"}}
			]
		}`, id, name, 10+id, 20+id)

	default:
		http.NotFound(w, r)
	}
}

func (u *fakeUpstream) baseURL() string {
	return u.server.URL + "/api"
}

func (u *fakeUpstream) requests() int64 {
	return u.listingRequests.Load() + u.detailRequests.Load()
}

// table builds a one-generation table pointing at the fake upstream.
func (u *fakeUpstream) table(key, title string) Table {
	return Table{
		key: {
			Key:    key,
			Title:  title,
			Limit:  len(u.names),
			Offset: 0,
			Source: &PaginatedAPISource{BaseURL: u.baseURL()},
		},
	}
}
