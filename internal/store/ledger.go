// Package store holds the in-memory conversion ledger. History lives
// for the lifetime of the process; durability is not a goal.
package store

import (
	"sync"
	"time"

	"ratedash/internal/domain"
)

const defaultCapacity = 500

// ConversionLedger records executed conversions, newest first, keeping
// at most capacity entries.
type ConversionLedger struct {
	mu       sync.Mutex
	nextID   int64
	capacity int
	entries  []domain.Conversion
}

func NewConversionLedger(capacity int) *ConversionLedger {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &ConversionLedger{capacity: capacity, nextID: 1}
}

// Record appends a conversion and returns it with ID and timestamp set.
func (l *ConversionLedger) Record(c domain.Conversion) domain.Conversion {
	l.mu.Lock()
	defer l.mu.Unlock()

	c.ID = l.nextID
	l.nextID++
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	l.entries = append([]domain.Conversion{c}, l.entries...)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[:l.capacity]
	}
	return c
}

// Recent returns up to limit conversions, newest first.
func (l *ConversionLedger) Recent(limit int) []domain.Conversion {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limit <= 0 || limit > len(l.entries) {
		limit = len(l.entries)
	}
	out := make([]domain.Conversion, limit)
	copy(out, l.entries[:limit])
	return out
}
