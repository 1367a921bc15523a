package database

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type PoolConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

var DefaultPool = PoolConfig{
	MaxIdleConns:    10,
	MaxOpenConns:    50,
	ConnMaxLifetime: time.Hour,
}

func getLogger(verbose bool) logger.Interface {
	level := logger.Warn
	if verbose {
		level = logger.Info
	}
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  true,
		},
	)
}

func configureConnectionPool(db *gorm.DB, pool PoolConfig) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	return nil
}

// NewGormDBFromDSN opens Postgres. Timestamps are written in UTC so the
// stale-job sweep compares like with like.
func NewGormDBFromDSN(dsn string, verbose bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:  getLogger(verbose),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	if err := configureConnectionPool(db, DefaultPool); err != nil {
		return nil, err
	}

	return db, nil
}
