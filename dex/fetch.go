package dex

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/semaphore"

	"github.com/dexfetch/go-dex/logger"
	"github.com/dexfetch/go-dex/request"
)

// DefaultConcurrency bounds the detail fetch fan-out. The bound is for
// politeness toward the upstream; items still fail independently and the
// join waits for every launched fetch.
const DefaultConcurrency = 8

// fetchDetail retrieves and normalizes one item. Every failure mode (network
// error, non-success status, undecodable body) is reported to the caller,
// which decides what to do with it; here nothing is fatal.
func fetchDetail(ctx context.Context, client *request.Client, ref ItemRef) (Creature, error) {
	res, err := client.Get(ctx, ref.URL)
	if err != nil {
		return Creature{}, err
	}
	if !res.Success {
		return Creature{}, errors.Newf("detail %s: status %d", ref.URL, res.Status)
	}
	creature, err := decodeDetail(res.Body)
	if err != nil {
		return Creature{}, errors.Wrapf(err, "detail %s", ref.URL)
	}
	return creature, nil
}

// fetchAll fans out one detail fetch per reference, waits for all of them,
// and returns the survivors in listing order. A failed item is logged and
// dropped; it never aborts the batch.
func fetchAll(ctx context.Context, client *request.Client, log logger.Logger, refs []ItemRef, concurrency int) []Creature {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	// Index-aligned slots keep listing order regardless of completion order.
	slots := make([]*Creature, len(refs))
	sem := semaphore.NewWeighted(int64(concurrency))
	var wg sync.WaitGroup

	for i, ref := range refs {
		wg.Add(1)
		go func(i int, ref ItemRef) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				log.Warn("dropping %s: %v", ref.Name, err)
				return
			}
			defer sem.Release(1)

			creature, err := fetchDetail(ctx, client, ref)
			if err != nil {
				log.Warn("dropping %s: %v", ref.Name, err)
				return
			}
			slots[i] = &creature
		}(i, ref)
	}
	wg.Wait()

	survivors := make([]Creature, 0, len(refs))
	for _, c := range slots {
		if c != nil {
			survivors = append(survivors, *c)
		}
	}
	return survivors
}
