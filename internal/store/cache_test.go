package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/shelfmate/shelfmate/internal/core"
)

func staticCompute(raw string) core.ComputeFn {
	return func(ctx context.Context) (string, error) {
		return raw, nil
	}
}

func TestRecordCacheGetOrCompute(t *testing.T) {
	ctx := context.Background()
	cache := NewRecordCache()

	calls := 0
	compute := func(ctx context.Context) (string, error) {
		calls++
		return `{"title": "Dune", "author": "Frank Herbert", "is_found": true}`, nil
	}

	first, err := cache.GetOrCompute(ctx, "Dune", compute)
	if err != nil {
		t.Fatalf("GetOrCompute() error = %v", err)
	}
	second, err := cache.GetOrCompute(ctx, "Dune", compute)
	if err != nil {
		t.Fatalf("GetOrCompute() error = %v", err)
	}

	if calls != 1 {
		t.Errorf("compute invoked %d times, want 1", calls)
	}
	if first != second {
		t.Errorf("records differ: %+v vs %+v", first, second)
	}
	if first.Title != "Dune" || !first.IsFound {
		t.Errorf("unexpected record %+v", first)
	}
}

func TestRecordCacheKeyNormalization(t *testing.T) {
	ctx := context.Background()
	cache := NewRecordCache()

	calls := 0
	compute := func(ctx context.Context) (string, error) {
		calls++
		return `{"title": "Dune", "is_found": true}`, nil
	}

	if _, err := cache.GetOrCompute(ctx, "  Dune  ", compute); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.GetOrCompute(ctx, "DUNE", compute); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("compute invoked %d times, want 1", calls)
	}

	rec, ok, err := cache.Get("dUnE")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v, %v", rec, ok, err)
	}
}

func TestRecordCacheNotFoundIsCached(t *testing.T) {
	ctx := context.Background()
	cache := NewRecordCache()

	calls := 0
	compute := func(ctx context.Context) (string, error) {
		calls++
		return `{"is_found": false, "not_found_reason": "no such book"}`, nil
	}

	rec, err := cache.GetOrCompute(ctx, "Imaginary Book", compute)
	if err != nil {
		t.Fatal(err)
	}
	if rec.IsFound {
		t.Error("record should be not-found")
	}
	// Title falls back to the requested name so validation never fails.
	if rec.Title != "Imaginary Book" {
		t.Errorf("title = %q, want requested name", rec.Title)
	}

	if _, err := cache.GetOrCompute(ctx, "Imaginary Book", compute); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("compute invoked %d times for a confirmed-absent name, want 1", calls)
	}
}

func TestRecordCacheUpstreamFailure(t *testing.T) {
	ctx := context.Background()
	cache := NewRecordCache()

	compute := func(ctx context.Context) (string, error) {
		return "", errors.New("upstream unavailable")
	}

	rec, err := cache.GetOrCompute(ctx, "Dune", compute)
	if err != nil {
		t.Fatalf("upstream failure must not propagate, got %v", err)
	}
	if rec.IsFound {
		t.Error("record should be not-found")
	}
	if rec.NotFoundReason == "" || !strings.Contains(rec.NotFoundReason, "upstream unavailable") {
		t.Errorf("reason %q should carry the failure text", rec.NotFoundReason)
	}
	if rec.Title != "Dune" {
		t.Errorf("title = %q, want requested name", rec.Title)
	}
}

func TestRecordCacheParseFailure(t *testing.T) {
	ctx := context.Background()
	cache := NewRecordCache()

	rec, err := cache.GetOrCompute(ctx, "Dune", staticCompute("sorry, no JSON today"))
	if err != nil {
		t.Fatalf("parse failure must not propagate, got %v", err)
	}
	if rec.IsFound || rec.NotFoundReason == "" {
		t.Errorf("unexpected record %+v", rec)
	}
}

func TestRecordCacheValidation(t *testing.T) {
	ctx := context.Background()
	cache := NewRecordCache()
	compute := staticCompute(`{"title": "x", "is_found": true}`)

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"single rune", "A", true},
		{"two runes", "It", false},
		{"max length", strings.Repeat("a", 200), false},
		{"over max length", strings.Repeat("a", 201), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cache.GetOrCompute(ctx, tt.input, compute)
			if tt.wantErr {
				if !errors.Is(err, core.ErrInvalidInput) {
					t.Errorf("error = %v, want ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error %v", err)
			}
		})
	}
}

func TestRecordCacheStatsAndClear(t *testing.T) {
	ctx := context.Background()
	cache := NewRecordCache()
	compute := staticCompute(`{"title": "x", "is_found": true}`)

	for _, name := range []string{"Dune", "Neuromancer"} {
		if _, err := cache.GetOrCompute(ctx, name, compute); err != nil {
			t.Fatal(err)
		}
	}

	stats := cache.Stats()
	if stats.Count != 2 {
		t.Errorf("count = %d, want 2", stats.Count)
	}
	if len(stats.Keys) != 2 || stats.Keys[0] != "dune" || stats.Keys[1] != "neuromancer" {
		t.Errorf("keys = %v", stats.Keys)
	}

	cache.Clear()
	stats = cache.Stats()
	if stats.Count != 0 || len(stats.Keys) != 0 {
		t.Errorf("stats after clear = %+v, want empty", stats)
	}
}

func TestRecordCacheConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	cache := NewRecordCache()
	compute := staticCompute(`{"title": "Dune", "is_found": true}`)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.GetOrCompute(ctx, "Dune", compute); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if stats := cache.Stats(); stats.Count != 1 {
		t.Errorf("count = %d, want 1", stats.Count)
	}
}
