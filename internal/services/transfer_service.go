package services

import (
	"context"
	"log/slog"
	"time"

	"budget-engine/internal/models"
)

type transferService struct {
	logger  *slog.Logger
	metrics MetricsRecorderInterface
}

// NewTransferService creates a TransferServiceInterface that pairs same-day
// opposing legs of transfers between a user's own accounts.
func NewTransferService(logger *slog.Logger, metrics MetricsRecorderInterface) TransferServiceInterface {
	return &transferService{logger: logger, metrics: metrics}
}

type transferKey struct {
	date   string
	amount string
}

type transferBucket struct {
	outflows []int
	inflows  []int
}

// MarkTransfers groups transactions by calendar date and absolute amount, then
// pairs outflows with inflows in arrival order. Both legs of a pair are
// flagged when the accounts differ. One pass to bucket, one to pair, so the
// whole thing stays linear in the batch size.
//
// Arrival-order pairing is a deliberate approximation: with several
// identical-amount candidates on the same day it can pair the wrong legs, but
// the flagged set is the same either way.
func (s *transferService) MarkTransfers(ctx context.Context, txs []models.NormalizedTransaction) ([]models.NormalizedTransaction, []models.TransferPairRecord) {
	start := time.Now()
	buckets := make(map[transferKey]*transferBucket)

	for i := range txs {
		if txs[i].IsDuplicate || txs[i].Amount.IsZero() {
			continue
		}

		key := transferKey{
			date:   txs[i].PostedDate(),
			amount: txs[i].Amount.Abs().Round(2).String(),
		}
		bucket, ok := buckets[key]
		if !ok {
			bucket = &transferBucket{}
			buckets[key] = bucket
		}

		if txs[i].IsOutflow() {
			bucket.outflows = append(bucket.outflows, i)
		} else {
			bucket.inflows = append(bucket.inflows, i)
		}
	}

	var pairs []models.TransferPairRecord
	for _, bucket := range buckets {
		n := len(bucket.outflows)
		if len(bucket.inflows) < n {
			n = len(bucket.inflows)
		}
		for p := 0; p < n; p++ {
			out := &txs[bucket.outflows[p]]
			in := &txs[bucket.inflows[p]]
			if out.AccountID == in.AccountID {
				continue
			}

			out.IsTransfer = true
			in.IsTransfer = true
			pairs = append(pairs, models.TransferPairRecord{
				SourceAccountID:          out.AccountID,
				DestinationAccountID:     in.AccountID,
				SourceTransactionID:      out.ID,
				DestinationTransactionID: in.ID,
				Amount:                   out.Amount.Abs().Round(2),
			})
		}
	}

	if len(pairs) > 0 {
		s.logger.Info("flagged transfer pairs",
			"batch_size", len(txs),
			"pairs", len(pairs))
		s.metrics.IncrementCounter("transfers_detected", map[string]string{"kind": "same_day"})
	}
	s.metrics.RecordProcessingTime("transfer_detection", time.Since(start))

	return txs, pairs
}
