package dex

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// CacheKey canonizes a generation's configuration into a deterministic cache
// key. The key embeds the generation key for readability and a hash of the
// source descriptor and pagination window, so a table change (different base
// URL, different window, API vs file) never serves a stale entry.
func CacheKey(gen Generation) string {
	h := xxhash.Sum64String(fmt.Sprintf("%s|%d|%d", gen.Source.CacheToken(), gen.Limit, gen.Offset))
	return fmt.Sprintf("gen:%s:%016x", gen.Key, h)
}
