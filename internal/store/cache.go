package store

import (
	"context"
	"sort"
	"sync"

	"github.com/shelfmate/shelfmate/internal/core"
	"github.com/shelfmate/shelfmate/internal/parser"
	"github.com/shelfmate/shelfmate/pkg/log"
)

// RecordCache maps normalized book names to previously derived records.
// Entries never expire; they are removed only by Clear. There is no
// request coalescing: two concurrent misses on the same key may both call
// upstream, last write wins.
type RecordCache struct {
	mu      sync.RWMutex
	records map[string]core.BookRecord
}

func NewRecordCache() *RecordCache {
	return &RecordCache{
		records: make(map[string]core.BookRecord),
	}
}

// Get looks the record up by normalized name. No side effects. A
// validation failure is reported as an error, distinct from a plain miss.
func (c *RecordCache) Get(name string) (core.BookRecord, bool, error) {
	if err := core.ValidateBookName(name); err != nil {
		return core.BookRecord{}, false, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.records[core.NormalizeBookKey(name)]
	return rec, ok, nil
}

// GetOrCompute returns the cached record for name, invoking compute on a
// miss. Upstream and parse failures are absorbed into a synthesized
// not-found record carrying the failure text as reason, so a record is
// always returned once validation passes. Not-found records are cached
// like any other, preventing repeated calls for a name confirmed absent.
func (c *RecordCache) GetOrCompute(ctx context.Context, name string, compute core.ComputeFn) (core.BookRecord, error) {
	if err := core.ValidateBookName(name); err != nil {
		return core.BookRecord{}, err
	}

	key := core.NormalizeBookKey(name)

	c.mu.RLock()
	rec, ok := c.records[key]
	c.mu.RUnlock()
	if ok {
		return rec, nil
	}

	// The upstream call happens outside the lock.
	rec = c.compute(ctx, name, compute)

	c.mu.Lock()
	c.records[key] = rec
	c.mu.Unlock()

	log.FromCtx(ctx).Debug().Str("key", key).Bool("found", rec.IsFound).Msg("cached book record")
	return rec, nil
}

func (c *RecordCache) compute(ctx context.Context, name string, compute core.ComputeFn) core.BookRecord {
	logger := log.FromCtx(ctx)

	raw, err := compute(ctx)
	if err != nil {
		logger.Error().Err(err).Str("book", name).Msg("model call failed")
		return notFoundRecord(name, "model call failed: "+err.Error())
	}

	rec, err := parser.Parse(raw)
	if err != nil {
		logger.Error().Err(err).Str("book", name).Msg("failed to parse model response")
		return notFoundRecord(name, "model returned no parseable data: "+err.Error())
	}

	// The parser stays pure with respect to request context, so the title
	// fallback for not-found records lives here.
	if !rec.IsFound && rec.Title == "" {
		rec.Title = name
	}
	return rec
}

func notFoundRecord(name, reason string) core.BookRecord {
	return core.BookRecord{
		Title:          name,
		IsFound:        false,
		NotFoundReason: reason,
	}
}

// Stats returns a snapshot, not a live view.
func (c *RecordCache) Stats() core.CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.records))
	for k := range c.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return core.CacheStats{Count: len(c.records), Keys: keys}
}

// Clear empties the cache entirely.
func (c *RecordCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = make(map[string]core.BookRecord)
}
