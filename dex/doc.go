// Package dex fetches creature rosters for a game generation, normalizes the
// heterogeneous upstream records into one shared schema, and caches the
// assembled result so repeated requests avoid redundant I/O.
//
// The public surface is one operation:
//
//	svc := dex.NewService(dex.Builtin(""), c, request.New(), log)
//	roster, err := svc.FetchGenerationData(ctx, "kanto")
//
// A call resolves the key against the configuration [Table], consults the
// [cache.Cache] gate, and on a miss runs the pipeline: one listing fetch
// (fatal on failure), a bounded parallel detail fetch per item (each item
// fails independently and is dropped, never aborting the batch), per-item
// normalization into [Creature], assembly into a [GenerationResult], and a
// cache write-back. Generations can instead be served from a pre-built
// aggregate file via [StaticAggregateSource], which collapses the listing
// and detail stages into a single load.
//
// Concurrent calls for the same generation share one in-flight fetch through
// a singleflight group, so a cold cache does not multiply upstream load.
package dex
