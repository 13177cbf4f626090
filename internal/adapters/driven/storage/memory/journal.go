package memory

import (
	"context"
	"sync"

	"github.com/kagami-labs/hansei-cli/internal/core/domain"
	"github.com/kagami-labs/hansei-cli/internal/core/ports/driven"
)

// Ensure Journal implements the interface.
var _ driven.RunJournal = (*Journal)(nil)

// Journal is an in-memory implementation of driven.RunJournal for
// testing.
type Journal struct {
	mu      sync.RWMutex
	records []domain.RunRecord
}

// NewJournal creates a new in-memory run journal.
func NewJournal() *Journal {
	return &Journal{}
}

// Record stores one run outcome.
func (j *Journal) Record(_ context.Context, rec domain.RunRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append(j.records, rec)
	return nil
}

// Recent returns the most recent runs, newest first.
func (j *Journal) Recent(_ context.Context, limit int) ([]domain.RunRecord, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var out []domain.RunRecord
	for i := len(j.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, j.records[i])
	}
	return out, nil
}

// Close releases nothing.
func (j *Journal) Close() error {
	return nil
}

// Records returns all stored records in insertion order.
func (j *Journal) Records() []domain.RunRecord {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]domain.RunRecord, len(j.records))
	copy(out, j.records)
	return out
}
