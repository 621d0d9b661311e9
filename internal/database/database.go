package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/quicky-ai/quicky-core/internal/config"
	"github.com/quicky-ai/quicky-core/internal/models"
)

// Connect opens the configured database and optionally runs auto-migration.
func Connect(cfg *config.AppConfig, autoMigrate bool) (*gorm.DB, error) {
	db, err := Open(cfg.Database.Driver, cfg.DSN, resolveLogLevel(cfg))
	if err != nil {
		return nil, err
	}

	if autoMigrate {
		if err := Migrate(db); err != nil {
			Close(db)
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}
	return db, nil
}

func resolveLogLevel(cfg *config.AppConfig) logger.LogLevel {
	switch {
	case cfg.IsTesting():
		return logger.Silent
	case cfg.IsDev():
		return logger.Info
	default:
		return logger.Warn
	}
}

// Open returns a gorm handle for driver/dsn.
func Open(driver, dsn string, logLevel logger.LogLevel) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DriverMySQL:
		dialector = mysql.New(mysql.Config{
			DSN:               dsn,
			DefaultStringSize: 191,
		})
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	case config.DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if driver == config.DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("resolve sql db: %w", err)
		}
		// sqlite allows one writer; an in-memory database also lives on a
		// single connection.
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// OpenMemory opens a migrated in-memory sqlite database.
func OpenMemory() (*gorm.DB, error) {
	db, err := Open(config.DriverSQLite, ":memory:", logger.Silent)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Models lists every persisted entity in creation order.
func Models() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.SummaryModel{},
		&models.ContentCacheModel{},
	}
}

// Migrate runs GORM auto-migration for all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}

	if db.Dialector.Name() == "mysql" {
		// TEXT caps at 64KB; uploaded documents stored as content_source can exceed it.
		for _, stmt := range []string{
			"ALTER TABLE `summaries` MODIFY COLUMN `content_source` LONGTEXT NOT NULL",
			"ALTER TABLE `summaries` MODIFY COLUMN `original_content` LONGTEXT NULL",
			"ALTER TABLE `summaries` MODIFY COLUMN `summary_text` LONGTEXT NOT NULL",
			"ALTER TABLE `content_caches` MODIFY COLUMN `extracted_content` LONGTEXT NOT NULL",
		} {
			if err := db.Exec(stmt).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// DropAll drops every table managed by Migrate.
func DropAll(db *gorm.DB) error {
	tables := Models()
	for i := len(tables) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(tables[i]); err != nil {
			return err
		}
	}
	return nil
}

// TableInfo describes a managed table for the init tool.
type TableInfo struct {
	Name    string
	Columns int
}

// Tables reports the managed tables that exist and their column counts.
func Tables(db *gorm.DB) ([]TableInfo, error) {
	migrator := db.Migrator()
	out := make([]TableInfo, 0, len(Models()))
	for _, model := range Models() {
		if !migrator.HasTable(model) {
			continue
		}
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, err
		}
		columns, err := migrator.ColumnTypes(model)
		if err != nil {
			return nil, err
		}
		out = append(out, TableInfo{Name: stmt.Schema.Table, Columns: len(columns)})
	}
	return out, nil
}

// Ping checks the connection with a short timeout.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying pool.
func Close(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
