package stores

import (
	"context"
	"errors"
	"fmt"

	"budget-engine/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrRuleNotFound = errors.New("categorization rule not found")

// ruleStore implements RuleStoreInterface
type ruleStore struct {
	db *gorm.DB
}

// NewRuleStore creates a new rule store
func NewRuleStore(db *gorm.DB) RuleStoreInterface {
	return &ruleStore{db: db}
}

// ListByUser returns the user's rules ordered by priority ascending. Ties on
// priority break by creation time so rule order is stable.
func (r *ruleStore) ListByUser(ctx context.Context, userID string) ([]models.CategorizationRule, error) {
	var rules []models.CategorizationRule

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("priority ASC, created_at ASC").
		Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}

	return rules, nil
}

// GetByID retrieves a rule by ID
func (r *ruleStore) GetByID(ctx context.Context, id uuid.UUID) (*models.CategorizationRule, error) {
	var rule models.CategorizationRule

	if err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, fmt.Errorf("failed to find rule by ID: %w", err)
	}

	return &rule, nil
}

// Create creates a new rule
func (r *ruleStore) Create(ctx context.Context, rule *models.CategorizationRule) error {
	if rule == nil {
		return errors.New("rule cannot be nil")
	}

	if err := r.db.WithContext(ctx).Create(rule).Error; err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}

	return nil
}

// Update updates an existing rule
func (r *ruleStore) Update(ctx context.Context, rule *models.CategorizationRule) error {
	if rule == nil {
		return errors.New("rule cannot be nil")
	}
	if err := rule.Validate(); err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Save(rule).Error; err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}

	return nil
}

// Delete removes a rule by ID
func (r *ruleStore) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CategorizationRule{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete rule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRuleNotFound
	}

	return nil
}
