package database

import (
	"fmt"
	"testing"

	"budget-engine/internal/config"
	"budget-engine/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), gormConfig)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	testDB := &DB{
		DB: db,
		config: &config.DatabaseConfig{
			MaxConnections: 1,
			MaxIdleConns:   1,
		},
	}

	if err := testDB.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return testDB
}

func CreateTestRule(t *testing.T, db *DB, userID, categoryKey, merchantContains string, priority int) *models.CategorizationRule {
	t.Helper()

	rule := &models.CategorizationRule{
		UserID:           userID,
		CategoryKey:      categoryKey,
		Priority:         priority,
		MerchantContains: merchantContains,
	}

	if err := db.Create(rule).Error; err != nil {
		t.Fatalf("failed to create test rule: %v", err)
	}

	return rule
}

func CreateTestCategory(t *testing.T, db *DB, userID, key, label string, target float64) *models.BudgetCategory {
	t.Helper()

	category := &models.BudgetCategory{
		UserID: userID,
		Key:    key,
		Label:  label,
		Target: decimal.NewFromFloat(target),
	}

	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}

	return category
}

func CleanupTestDB(t *testing.T, db *DB) {
	t.Helper()

	tables := []string{
		"duplicate_subscriptions",
		"transfer_pairs",
		"budget_categories",
		"categorization_rules",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			t.Logf("failed to cleanup table %s: %v", table, err)
		}
	}
}
