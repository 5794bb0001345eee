package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"napo-service/internal/infrastructure/config"
	"napo-service/pkg/logger"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Options configures the relational database connection pool
type Options struct {
	Driver        string
	DSN           string
	PoolSize      int
	MaxOpenConns  int
	PoolRecycle   time.Duration
	PoolTimeout   time.Duration
	SlowThreshold time.Duration
	Debug         bool
}

// OptionsFromConfig extracts the database options from the service configuration
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Driver:        cfg.DBDriver,
		DSN:           cfg.DatabaseURL,
		PoolSize:      cfg.DBPoolSize,
		MaxOpenConns:  cfg.MaxOpenConns(),
		PoolRecycle:   cfg.DBPoolRecycle,
		PoolTimeout:   cfg.DBPoolTimeout,
		SlowThreshold: cfg.SlowQueryThreshold,
		Debug:         cfg.Debug,
	}
}

// poolLimits returns the open and idle connection caps. The open cap never
// drops below the pool size.
func (o Options) poolLimits() (maxOpen, maxIdle int) {
	maxOpen = max(o.MaxOpenConns, o.PoolSize)
	if o.Driver == DriverSQLite {
		// sqlite serializes writers; one connection avoids SQLITE_BUSY
		maxOpen = 1
	}
	return maxOpen, min(o.PoolSize, maxOpen)
}

// Database owns the GORM handle and its connection pool
type Database struct {
	db    *gorm.DB
	sqlDB *sql.DB
	log   logger.Logger
}

// Open connects to the configured database, applies the pool settings and
// verifies the connection within the pool timeout.
func Open(ctx context.Context, opts Options, log logger.Logger) (*Database, error) {
	dialector, err := dialectorFor(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         NewGormLogger(log, opts.SlowThreshold, opts.Debug),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", opts.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql handle: %w", err)
	}

	maxOpen, maxIdle := opts.poolLimits()
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(opts.PoolRecycle)

	database := &Database{db: db, sqlDB: sqlDB, log: log}

	pingCtx := ctx
	if opts.PoolTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, opts.PoolTimeout)
		defer cancel()
	}
	if err := database.Ping(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s database: %w", opts.Driver, err)
	}

	log.Info("Connected to database", "driver", opts.Driver, "max_open_conns", maxOpen)
	return database, nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverPostgres, "":
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// DB returns the root GORM handle
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Session returns a handle bound to ctx for single statements
func (d *Database) Session(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx)
}

// Transaction runs fn in a transaction. It commits when fn returns nil and
// rolls back when fn returns an error or panics.
func (d *Database) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.db.WithContext(ctx).Transaction(fn)
}

// CreateTables creates the tables, indexes and constraints of the given models
func (d *Database) CreateTables(ctx context.Context, models ...interface{}) error {
	if err := d.db.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	d.log.Info("Tables created", "count", len(models))
	return nil
}

// DropTables drops the tables of the given models, dependents first
func (d *Database) DropTables(ctx context.Context, models ...interface{}) error {
	if err := d.db.WithContext(ctx).Migrator().DropTable(models...); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	d.log.Warn("Tables dropped", "count", len(models))
	return nil
}

// Ping verifies the database is reachable
func (d *Database) Ping(ctx context.Context) error {
	return d.sqlDB.PingContext(ctx)
}

// Close releases the connection pool
func (d *Database) Close() error {
	return d.sqlDB.Close()
}
