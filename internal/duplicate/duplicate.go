// Package duplicate detects whether a source expense has already been
// recorded on the target side.
package duplicate

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/splitbridge/backend/internal/expense"
	"github.com/splitbridge/backend/internal/toshl"
)

// LookbackDays is the fixed length of the detection window, ending at
// the anchor date.
const LookbackDays = 100

// Exists reports whether some entry's embedded expense id equals the
// expense id. Ids are compared as strings since the two services
// represent them with different native types.
//
// A missing corpus or expense never blocks the caller: it fails open to
// "no known duplicate".
func Exists(e *expense.Expense, entries []toshl.Entry) bool {
	if e == nil || len(entries) == 0 {
		return false
	}

	id := strconv.FormatInt(e.ID, 10)
	for _, entry := range entries {
		if entry.Extra == nil {
			continue
		}

		if string(entry.Extra.ExpenseID) == id {
			return true
		}
	}

	return false
}

// Anchor returns the most recent date among the normalized expenses of
// a page. It reports false for an empty page or when no date parses.
func Anchor(expenses []expense.Expense) (time.Time, bool) {
	var anchor time.Time
	found := false

	for _, e := range expenses {
		date, err := time.Parse("2006-01-02", e.Date)
		if err != nil {
			continue
		}

		if !found || date.After(anchor) {
			anchor = date
			found = true
		}
	}

	return anchor, found
}

// Window returns the inclusive detection date range ending at anchor.
func Window(anchor time.Time) (from, to time.Time) {
	return anchor.AddDate(0, 0, -LookbackDays), anchor
}

// FetchFunc loads the target entries for a detection window.
type FetchFunc func(ctx context.Context, from, to time.Time) ([]toshl.Entry, error)

// Corpus caches the target entries for the current detection window. It
// is refreshed only when the window key changes, typically because the
// anchor date of the viewed page moved.
type Corpus struct {
	mu      sync.Mutex
	key     string
	entries []toshl.Entry
}

// Entries returns the corpus for the given key, fetching it through
// fetch when the key differs from the cached one. The key must identify
// the friend, the selected tag and the anchor date.
func (c *Corpus) Entries(ctx context.Context, key string, anchor time.Time, fetch FetchFunc) ([]toshl.Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.key == key {
		return c.entries, nil
	}

	from, to := Window(anchor)
	entries, err := fetch(ctx, from, to)
	if err != nil {
		return nil, err
	}

	c.key = key
	c.entries = entries
	return entries, nil
}

// Invalidate drops the cached corpus, forcing the next call to fetch.
func (c *Corpus) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.key = ""
	c.entries = nil
}
