package database

import (
	"fmt"
	"item_bank_backend/internal/config"
	"item_bank_backend/internal/model"
	applog "item_bank_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models 需要 AutoMigrate 的全部表
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Question{},
		&model.AnswerOption{},
		&model.StudentResponse{},
		&model.ItemAnalysisResult{},
	}
}

func dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "mysql":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
				cfg.User,
				cfg.Password,
				cfg.Host,
				cfg.Port,
				cfg.DBName,
				cfg.Charset,
				cfg.ParseTime,
			)
		}
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
				cfg.Host,
				cfg.Port,
				cfg.User,
				cfg.Password,
				cfg.DBName,
				cfg.SSLMode,
			)
		}
		return postgres.Open(dsn), nil
	case "sqlite":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "file:item_bank.db?_busy_timeout=5000"
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

func logLevel(level string) logger.LogLevel {
	switch level {
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

// InitDB 打开数据库连接；migrate 为 true 时执行 AutoMigrate
func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, err
	}

	if cfg.Driver == "sqlite" {
		// sqlite 单写者，串行化连接避免 database is locked
		sqlDB, err := db.DB()
		if err != nil {
			Close(db)
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	applog.Log.Info("Database connection established", zap.String("driver", cfg.Driver))

	if !migrate {
		return db, nil
	}

	if err := Migrate(db); err != nil {
		Close(db)
		return nil, err
	}

	return db, nil
}

// Close 关闭底层连接池，db 为 nil 时无操作
func Close(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	applog.Log.Info("Database migration completed")
	return nil
}
