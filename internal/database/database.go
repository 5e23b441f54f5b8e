package database

import (
	"fmt"
	"log"
	"time"

	"budget-engine/internal/config"
	"budget-engine/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DB struct {
	*gorm.DB
	config *config.DatabaseConfig
}

func New(cfg *config.DatabaseConfig) (*DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxConnections)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		DB:     db,
		config: cfg,
	}, nil
}

func (db *DB) AutoMigrate() error {
	return db.DB.AutoMigrate(
		&models.CategorizationRule{},
		&models.BudgetCategory{},
		&models.TransferPairRecord{},
		&models.DuplicateSubscriptionRecord{},
	)
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (db *DB) HealthCheck() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (db *DB) Transaction(fn func(*gorm.DB) error) error {
	return db.DB.Transaction(fn)
}

func (db *DB) CreateIndexes() error {
	queries := []string{
		// Rule indexes
		"CREATE INDEX IF NOT EXISTS idx_categorization_rules_user_id ON categorization_rules(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_categorization_rules_priority ON categorization_rules(user_id, priority)",
		// Budget category indexes
		"CREATE INDEX IF NOT EXISTS idx_budget_categories_user_id ON budget_categories(user_id)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_budget_categories_user_key ON budget_categories(user_id, key)",
		// Detection indexes
		"CREATE INDEX IF NOT EXISTS idx_transfer_pairs_user_id ON transfer_pairs(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_transfer_pairs_detected_at ON transfer_pairs(detected_at)",
		"CREATE INDEX IF NOT EXISTS idx_duplicate_subscriptions_user_id ON duplicate_subscriptions(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_duplicate_subscriptions_confirmed ON duplicate_subscriptions(user_id, user_confirmed)",
	}

	for _, query := range queries {
		if err := db.DB.Exec(query).Error; err != nil {
			log.Printf("Failed to create index: %s, error: %v", query, err)
		}
	}

	return nil
}

// Initialize creates and configures the database connection
func Initialize(cfg *config.Config) (*gorm.DB, error) {
	db, err := New(&cfg.Database)
	if err != nil {
		return nil, err
	}

	// Get the underlying sql.DB for migration runner
	sqlDB, err := db.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// Run SQL-based migrations using golang-migrate if enabled
	if err := RunMigrationsIfEnabled(sqlDB); err != nil {
		log.Printf("Warning: migration runner failed: %v", err)
		log.Println("Falling back to GORM AutoMigrate...")

		// Fallback to GORM AutoMigrate
		if err := db.AutoMigrate(); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	if err := db.CreateIndexes(); err != nil {
		log.Printf("Warning: failed to create some indexes: %v", err)
	}

	log.Println("Database initialized successfully")

	return db.DB, nil
}
