package db

import (
	"fmt"
	"strings"
	"time"

	"cloudvault/config"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const sqliteOptions = "_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"

// Open returns a pooled connection. MySQL is used when MySQLDSN is set,
// SQLite otherwise. Requests share the pool, never a single session.
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	isSQLite := cfg.MySQLDSN == ""
	if isSQLite {
		dialector = sqlite.Open(sqliteDSN(cfg.SQLiteFile))
	} else {
		dialector = mysql.Open(cfg.MySQLDSN)
	}

	gormCfg := &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	}
	if log != nil {
		level := gormlogger.Warn
		if cfg.DebugMode {
			level = gormlogger.Info
		}
		gormCfg.Logger = gormlogger.New(zap.NewStdLog(log.Named("gorm")), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		})
	}
	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if isSQLite {
		// Single writer; also keeps an in-memory database alive across queries
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		if err = db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, err
		}
	} else {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}
	return db, nil
}

func sqliteDSN(file string) string {
	if file == "" {
		file = ":memory:"
	}
	if strings.Contains(file, "?") {
		return file + "&" + sqliteOptions
	}
	return file + "?" + sqliteOptions
}
