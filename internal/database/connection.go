// internal/database/connection.go
package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/babamama/storefront/internal/config"
	"github.com/babamama/storefront/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: cfg.TablePrefix,
		},
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"host":     cfg.Host,
		"database": cfg.Database,
	}).Info("Database connection established")
	return db, nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed")
	}
}

// Ping reports whether the database answers within ctx.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// RunMigrations creates the storefront tables when the service owns its schema.
// Hosted deployments leave DB_AUTO_MIGRATE off.
func RunMigrations(db *gorm.DB, cfg config.DatabaseConfig) error {
	logrus.Info("Running database migrations...")

	for _, ext := range []string{"pgcrypto", "pg_trgm"} {
		if err := db.Exec(fmt.Sprintf("CREATE EXTENSION IF NOT EXISTS %q", ext)).Error; err != nil {
			return fmt.Errorf("failed to create %s extension: %w", ext, err)
		}
	}

	err := db.AutoMigrate(
		&models.Product{},
		&models.Order{},
		&models.Customer{},
		&models.Favorite{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	createIndexes(db, cfg)

	logrus.Info("Database migrations completed")
	return nil
}

func indexStatements(cfg config.DatabaseConfig) []string {
	products := cfg.Table("products")
	orders := cfg.Table("orders")
	customers := cfg.Table("customers")

	idx := func(table, suffix string) string {
		return quoteIdent("idx_" + strings.ReplaceAll(table, "-", "_") + "_" + suffix)
	}

	return []string{
		// Catalog listing
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(is_active, created_at DESC)", idx(products, "active_created"), quoteIdent(products)),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(category, is_active)", idx(products, "category_active"), quoteIdent(products)),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s USING GIN (title gin_trgm_ops)", idx(products, "title_trgm"), quoteIdent(products)),

		// Order lookup by phone, exact then substring
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(customer_phone, created_at DESC)", idx(orders, "phone_created"), quoteIdent(orders)),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s USING GIN (customer_phone gin_trgm_ops)", idx(orders, "phone_trgm"), quoteIdent(orders)),

		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(LOWER(email))", idx(customers, "email_lower"), quoteIdent(customers)),
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func createIndexes(db *gorm.DB, cfg config.DatabaseConfig) {
	for _, index := range indexStatements(cfg) {
		if err := db.Exec(index).Error; err != nil {
			// Continue with other indexes instead of failing completely
			logrus.WithError(err).WithField("statement", index).Warn("Failed to create index")
		}
	}
}

// SeedDemoData inserts a small catalog when the products table is empty.
func SeedDemoData(db *gorm.DB) error {
	logrus.Info("Seeding demo catalog...")

	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		logrus.WithField("products", count).Info("Catalog already populated, skipping seed")
		return nil
	}

	return WithTransaction(db, func(tx *gorm.DB) error {
		for _, p := range demoProducts() {
			product := p
			if err := tx.Create(&product).Error; err != nil {
				return fmt.Errorf("failed to seed product %q: %w", product.Title, err)
			}
		}
		logrus.Info("Demo catalog seeded")
		return nil
	})
}

func demoProducts() []models.Product {
	str := func(s string) *string { return &s }
	price := func(v int64) *int64 { return &v }
	flashEnd := time.Now().UTC().Add(48 * time.Hour)
	flashStock := 15

	return []models.Product{
		{
			Title:          "Robe wax Adjoa",
			Description:    "Robe longue en pagne wax, coupe évasée.",
			Category:       "mode",
			Subcategory:    str("robes"),
			Subsubcategory: str("wax"),
			Images:         pq.StringArray{"products/robe-adjoa.jpg"},
			FinalPrice:     15000,
			CompareAtPrice: price(20000),
			Rating:         4.6,
			Specs:          pq.StringArray{"100% coton", "Tailles S à XL"},
			IsActive:       true,
			IsNew:          true,
			StockQuantity:  12,
		},
		{
			Title:              "Sac en cuir Korhogo",
			Description:        "Sac à main en cuir tressé.",
			Category:           "accessoires",
			Subcategory:        str("sacs"),
			Subsubcategory:     str("cuir"),
			Images:             pq.StringArray{"products/sac-korhogo.jpg"},
			FinalPrice:         42000,
			DiscountPercentage: 10,
			FlashSaleEndAt:     &flashEnd,
			FlashSaleStock:     &flashStock,
			Rating:             4.9,
			IsActive:           true,
			StockQuantity:      4,
		},
		{
			Title:         "Bracelet perles Krobo",
			Description:   "Perles de verre recyclé.",
			Category:      "accessoires",
			Subcategory:   str("bijoux"),
			Images:        pq.StringArray{"products/bracelet-krobo.jpg"},
			FinalPrice:    3500,
			Rating:        4.2,
			IsActive:      true,
			StockQuantity: 40,
		},
		{
			Title:         "Boubou brodé Bamako",
			Description:   "Grand boubou en bazin riche brodé main.",
			Category:      "mode",
			Subcategory:   str("boubous"),
			Images:        pq.StringArray{"products/boubou-bamako.jpg"},
			FinalPrice:    85000,
			Rating:        5,
			IsActive:      true,
			StockQuantity: 0,
		},
	}
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
