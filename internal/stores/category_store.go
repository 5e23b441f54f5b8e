package stores

import (
	"context"
	"errors"
	"fmt"

	"budget-engine/internal/models"

	"gorm.io/gorm"
)

var ErrCategoryNotFound = errors.New("budget category not found")

// categoryStore implements CategoryStoreInterface
type categoryStore struct {
	db *gorm.DB
}

// NewCategoryStore creates a new category store
func NewCategoryStore(db *gorm.DB) CategoryStoreInterface {
	return &categoryStore{db: db}
}

// ListByUser returns the user's categories ordered by display order
func (r *categoryStore) ListByUser(ctx context.Context, userID string) ([]models.BudgetCategory, error) {
	var categories []models.BudgetCategory

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("display_order ASC, key ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list budget categories: %w", err)
	}

	return categories, nil
}

// GetByKey retrieves one of the user's categories by key
func (r *categoryStore) GetByKey(ctx context.Context, userID, key string) (*models.BudgetCategory, error) {
	var category models.BudgetCategory

	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND key = ?", userID, key).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find budget category: %w", err)
	}

	return &category, nil
}

// Create creates a new budget category
func (r *categoryStore) Create(ctx context.Context, category *models.BudgetCategory) error {
	if category == nil {
		return errors.New("category cannot be nil")
	}

	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("failed to create budget category: %w", err)
	}

	return nil
}

// Update updates an existing budget category
func (r *categoryStore) Update(ctx context.Context, category *models.BudgetCategory) error {
	if category == nil {
		return errors.New("category cannot be nil")
	}
	if err := category.Validate(); err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return fmt.Errorf("failed to update budget category: %w", err)
	}

	return nil
}

// Delete removes one of the user's categories by key
func (r *categoryStore) Delete(ctx context.Context, userID, key string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND key = ?", userID, key).
		Delete(&models.BudgetCategory{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete budget category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}
