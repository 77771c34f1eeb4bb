// Package cache keeps the admin report batches: which order an admin is
// currently uploading files for.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultSize = 128
	DefaultTTL  = 30 * time.Minute
)

// ReportBatches is bounded by size; an entry expires ttl after it was remembered.
// State is per process: several bot instances would each see their own batches.
type ReportBatches struct {
	lru *expirable.LRU[int64, uint64]
}

func NewReportBatches(size int, ttl time.Duration) *ReportBatches {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ReportBatches{lru: expirable.NewLRU[int64, uint64](size, nil, ttl)}
}

func (b *ReportBatches) Remember(adminID int64, orderID uint64) {
	b.lru.Add(adminID, orderID)
}

func (b *ReportBatches) Lookup(adminID int64) (uint64, bool) {
	return b.lru.Get(adminID)
}

func (b *ReportBatches) Len() int {
	return b.lru.Len()
}
