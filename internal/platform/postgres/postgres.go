package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const defaultPingTimeout = 5 * time.Second

// Open connects to PostgreSQL through GORM and verifies the connection.
func Open(ctx context.Context, dsn string) (*gorm.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("postgres: dsn is required")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		// TranslateError surfaces dialect errors as gorm sentinels
		// (ErrDuplicatedKey, ErrForeignKeyViolated) for categorisation.
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, WrapError("open", err)
	}

	if err := Ping(ctx, db); err != nil {
		return nil, err
	}
	return db, nil
}

// Ping verifies connectivity on the underlying connection pool.
func Ping(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("postgres: db is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return WrapError("ping", err)
	}

	pingCtx := ctx
	var cancel context.CancelFunc
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		pingCtx, cancel = context.WithTimeout(ctx, defaultPingTimeout)
		defer cancel()
	}
	return WrapError("ping", sqlDB.PingContext(pingCtx))
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return WrapError("close", err)
	}
	return WrapError("close", sqlDB.Close())
}
