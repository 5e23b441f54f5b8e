package stores

import (
	"context"
	"errors"
	"fmt"

	"budget-engine/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrDetectionNotFound         = errors.New("detection record not found")
	ErrDetectionAlreadyConfirmed = errors.New("detection already confirmed")
)

// detectionStore implements DetectionStoreInterface
type detectionStore struct {
	db *gorm.DB
}

// NewDetectionStore creates a new detection store
func NewDetectionStore(db *gorm.DB) DetectionStoreInterface {
	return &detectionStore{db: db}
}

// SaveTransferPairs persists a batch of detected transfer pairs
func (r *detectionStore) SaveTransferPairs(ctx context.Context, pairs []models.TransferPairRecord) error {
	if len(pairs) == 0 {
		return nil
	}

	if err := r.db.WithContext(ctx).Create(&pairs).Error; err != nil {
		return fmt.Errorf("failed to save transfer pairs: %w", err)
	}

	return nil
}

// SaveDuplicateSubscriptions persists a batch of duplicate candidates
func (r *detectionStore) SaveDuplicateSubscriptions(ctx context.Context, dupes []models.DuplicateSubscriptionRecord) error {
	if len(dupes) == 0 {
		return nil
	}

	if err := r.db.WithContext(ctx).Create(&dupes).Error; err != nil {
		return fmt.Errorf("failed to save duplicate subscriptions: %w", err)
	}

	return nil
}

// ListDuplicateSubscriptions returns the user's duplicate candidates, newest first
func (r *detectionStore) ListDuplicateSubscriptions(ctx context.Context, userID string) ([]models.DuplicateSubscriptionRecord, error) {
	var dupes []models.DuplicateSubscriptionRecord

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&dupes).Error; err != nil {
		return nil, fmt.Errorf("failed to list duplicate subscriptions: %w", err)
	}

	return dupes, nil
}

// GetDuplicateSubscription retrieves a duplicate candidate by ID
func (r *detectionStore) GetDuplicateSubscription(ctx context.Context, id uuid.UUID) (*models.DuplicateSubscriptionRecord, error) {
	var dupe models.DuplicateSubscriptionRecord

	if err := r.db.WithContext(ctx).First(&dupe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDetectionNotFound
		}
		return nil, fmt.Errorf("failed to find duplicate subscription: %w", err)
	}

	return &dupe, nil
}

// ConfirmDuplicateSubscription marks a candidate as human-confirmed.
// Confirming twice is rejected so the confirmation timestamp stays stable.
func (r *detectionStore) ConfirmDuplicateSubscription(ctx context.Context, id uuid.UUID) (*models.DuplicateSubscriptionRecord, error) {
	dupe, err := r.GetDuplicateSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	if dupe.UserConfirmed {
		return nil, ErrDetectionAlreadyConfirmed
	}

	dupe.Confirm()
	if err := r.db.WithContext(ctx).Save(dupe).Error; err != nil {
		return nil, fmt.Errorf("failed to confirm duplicate subscription: %w", err)
	}

	return dupe, nil
}

// ListTransferPairs returns the user's detected transfer pairs, newest first
func (r *detectionStore) ListTransferPairs(ctx context.Context, userID string) ([]models.TransferPairRecord, error) {
	var pairs []models.TransferPairRecord

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("detected_at DESC").
		Find(&pairs).Error; err != nil {
		return nil, fmt.Errorf("failed to list transfer pairs: %w", err)
	}

	return pairs, nil
}
