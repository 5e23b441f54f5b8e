package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"budget-engine/internal/models"
)

// memoryDedupCache is a mutex-guarded in-memory hash store keyed per user
// scope. Entries older than the retention cutoff are removed by Purge.
type memoryDedupCache struct {
	mu     sync.Mutex
	hashes map[string]time.Time
}

// NewMemoryDedupCache creates an empty in-memory DeduplicationCacheInterface
func NewMemoryDedupCache() DeduplicationCacheInterface {
	return &memoryDedupCache{hashes: make(map[string]time.Time)}
}

func (c *memoryDedupCache) Seen(hash string, now time.Time, window time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	seenAt, ok := c.hashes[hash]
	if !ok {
		return false
	}
	return now.Sub(seenAt) <= window
}

func (c *memoryDedupCache) Record(hash string, seenAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hashes[hash] = seenAt
}

func (c *memoryDedupCache) Purge(cutoff time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for hash, seenAt := range c.hashes {
		if seenAt.Before(cutoff) {
			delete(c.hashes, hash)
			removed++
		}
	}
	return removed
}

func (c *memoryDedupCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.hashes)
}

type dedupService struct {
	cache     DeduplicationCacheInterface
	window    time.Duration
	retention time.Duration
	now       func() time.Time

	logger  *slog.Logger
	metrics MetricsRecorderInterface
}

// NewDedupService creates a DedupServiceInterface backed by the given cache.
// The window bounds how far back a repeated hash counts as a duplicate; the
// retention bounds how long hashes are kept before being purged.
func NewDedupService(cache DeduplicationCacheInterface, window, retention time.Duration, logger *slog.Logger, metrics MetricsRecorderInterface) DedupServiceInterface {
	return &dedupService{
		cache:     cache,
		window:    window,
		retention: retention,
		now:       time.Now,
		logger:    logger,
		metrics:   metrics,
	}
}

// Hash computes the duplicate-detection content hash: account, full posting
// timestamp, amount, and the first 50 characters of the description. Using the
// full timestamp keeps the same purchase made twice in one day as two
// transactions.
func (s *dedupService) Hash(tx *models.NormalizedTransaction) string {
	desc := tx.Description
	if len(desc) > 50 {
		desc = desc[:50]
	}

	payload := fmt.Sprintf("%s:%s:%s:%s",
		tx.AccountID,
		tx.PostedAt.UTC().Format(time.RFC3339),
		tx.Amount.String(),
		desc)

	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// MarkDuplicates flags transactions whose hash was seen within the window.
// The first occurrence is recorded and kept; later ones are flagged. Purging
// of expired hashes happens on every call so the cache stays bounded.
//
// Hashes are recorded at batch wall-clock time, not the transaction's own
// posted_at. A record arriving in two fetches 71 hours apart is a duplicate
// and one arriving again after 73 hours is not, regardless of how old its
// posted_at is; keying the window off posted_at would let a provider
// replaying week-old history slip identical records past the check.
func (s *dedupService) MarkDuplicates(ctx context.Context, txs []models.NormalizedTransaction) []models.NormalizedTransaction {
	now := s.now()

	purged := s.cache.Purge(now.Add(-s.retention))
	if purged > 0 {
		s.logger.Debug("purged expired dedup hashes", "count", purged)
	}

	duplicates := 0
	for i := range txs {
		hash := s.Hash(&txs[i])
		if s.cache.Seen(hash, now, s.window) {
			txs[i].IsDuplicate = true
			duplicates++
			continue
		}
		s.cache.Record(hash, now)
	}

	if duplicates > 0 {
		s.logger.Info("flagged duplicate transactions",
			"batch_size", len(txs),
			"duplicates", duplicates)
		s.metrics.IncrementCounter("transactions_deduplicated", nil)
	}
	s.metrics.RecordGauge("dedup_cache_size", float64(s.cache.Len()), nil)

	return txs
}
