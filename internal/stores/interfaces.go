package stores

import (
	"context"

	"budget-engine/internal/models"

	"github.com/google/uuid"
)

// RuleStoreInterface persists user-defined categorization rules
type RuleStoreInterface interface {
	// ListByUser returns the user's rules ordered by priority ascending,
	// lowest number first
	ListByUser(ctx context.Context, userID string) ([]models.CategorizationRule, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.CategorizationRule, error)
	Create(ctx context.Context, rule *models.CategorizationRule) error
	Update(ctx context.Context, rule *models.CategorizationRule) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryStoreInterface persists budget category configuration
type CategoryStoreInterface interface {
	// ListByUser returns the user's categories ordered by display order
	ListByUser(ctx context.Context, userID string) ([]models.BudgetCategory, error)
	GetByKey(ctx context.Context, userID, key string) (*models.BudgetCategory, error)
	Create(ctx context.Context, category *models.BudgetCategory) error
	Update(ctx context.Context, category *models.BudgetCategory) error
	Delete(ctx context.Context, userID, key string) error
}

// DetectionStoreInterface persists cross-account detection evidence
type DetectionStoreInterface interface {
	SaveTransferPairs(ctx context.Context, pairs []models.TransferPairRecord) error
	SaveDuplicateSubscriptions(ctx context.Context, dupes []models.DuplicateSubscriptionRecord) error
	ListDuplicateSubscriptions(ctx context.Context, userID string) ([]models.DuplicateSubscriptionRecord, error)
	GetDuplicateSubscription(ctx context.Context, id uuid.UUID) (*models.DuplicateSubscriptionRecord, error)
	ConfirmDuplicateSubscription(ctx context.Context, id uuid.UUID) (*models.DuplicateSubscriptionRecord, error)
	ListTransferPairs(ctx context.Context, userID string) ([]models.TransferPairRecord, error)
}
