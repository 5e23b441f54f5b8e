package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"budget-engine/internal/models"
	"budget-engine/internal/stores"
)

var ErrEmptyBatch = errors.New("transaction batch is empty")

// userState carries the per-user processing state: a dedicated dedup cache
// and a lock that serializes batches for the same user. Different users
// process concurrently.
type userState struct {
	mu    sync.Mutex
	cache DeduplicationCacheInterface
}

type pipelineService struct {
	normalizer  NormalizerServiceInterface
	transfers   TransferServiceInterface
	categorizer CategorizerServiceInterface
	multiBank   MultiBankServiceInterface
	detections  stores.DetectionStoreInterface
	newDedup    func(cache DeduplicationCacheInterface) DedupServiceInterface
	newCache    func() DeduplicationCacheInterface

	mu    sync.Mutex
	users map[string]*userState

	logger  *slog.Logger
	metrics MetricsRecorderInterface
}

// NewPipelineService wires the full processing pipeline. The cache factory
// produces one deduplication cache per user scope; hashes never leak between
// users.
func NewPipelineService(
	normalizer NormalizerServiceInterface,
	transfers TransferServiceInterface,
	categorizer CategorizerServiceInterface,
	multiBank MultiBankServiceInterface,
	detections stores.DetectionStoreInterface,
	newDedup func(cache DeduplicationCacheInterface) DedupServiceInterface,
	newCache func() DeduplicationCacheInterface,
	logger *slog.Logger,
	metrics MetricsRecorderInterface,
) PipelineServiceInterface {
	return &pipelineService{
		normalizer:  normalizer,
		transfers:   transfers,
		categorizer: categorizer,
		multiBank:   multiBank,
		detections:  detections,
		newDedup:    newDedup,
		newCache:    newCache,
		users:       make(map[string]*userState),
		logger:      logger,
		metrics:     metrics,
	}
}

// Process runs the stages in their fixed order: normalize, dedup, transfer
// detection, categorization, multi-bank analysis. Invalid records surface as
// per-record errors without failing the batch. Same-day transfer pairs are
// written to the detection store as audit evidence, like the cross-account
// pairs the multi-bank pass persists.
func (s *pipelineService) Process(ctx context.Context, userID string, raw []models.RawTransaction) (*models.PipelineResult, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyBatch
	}

	state := s.userStateFor(userID)
	state.mu.Lock()
	defer state.mu.Unlock()

	start := time.Now()
	s.logger.Info("processing transaction batch", "user_id", userID, "batch_size", len(raw))

	txs, recordErrors := s.normalizer.NormalizeBatch(ctx, raw)

	dedup := s.newDedup(state.cache)
	txs = dedup.MarkDuplicates(ctx, txs)

	txs, pairs := s.transfers.MarkTransfers(ctx, txs)
	if len(pairs) > 0 {
		for i := range pairs {
			pairs[i].UserID = userID
		}
		if err := s.detections.SaveTransferPairs(ctx, pairs); err != nil {
			return nil, fmt.Errorf("saving transfer pairs: %w", err)
		}
	}

	txs, err := s.categorizer.Categorize(ctx, userID, txs)
	if err != nil {
		return nil, err
	}

	txs, detections, err := s.multiBank.Analyze(ctx, userID, txs)
	if err != nil {
		return nil, err
	}

	duplicates, transfers := 0, 0
	for i := range txs {
		if txs[i].IsDuplicate {
			duplicates++
		}
		if txs[i].IsTransfer {
			transfers++
		}
	}

	result := &models.PipelineResult{
		Transactions: txs,
		Errors:       recordErrors,
		Detections:   detections,
		Accepted:     len(txs),
		Rejected:     len(recordErrors),
		Duplicates:   duplicates,
		Transfers:    transfers,
		Duration:     time.Since(start),
	}

	s.logger.Info("batch processing complete",
		"user_id", userID,
		"accepted", result.Accepted,
		"rejected", result.Rejected,
		"duplicates", result.Duplicates,
		"transfers", result.Transfers,
		"duration_ms", result.Duration.Milliseconds())
	s.metrics.IncrementCounter("pipeline_batches", map[string]string{"status": "completed"})
	s.metrics.RecordProcessingTime("pipeline_batch", result.Duration)

	return result, nil
}

func (s *pipelineService) userStateFor(userID string) *userState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.users[userID]
	if !ok {
		state = &userState{cache: s.newCache()}
		s.users[userID] = state
	}
	return state
}
