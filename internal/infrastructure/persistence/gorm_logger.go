package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"napo-service/pkg/logger"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger routes GORM's statement log to the service logger
type GormLogger struct {
	log           logger.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
	debug         bool
}

// NewGormLogger creates a GORM logger. When debug is set every statement is
// logged at debug level.
func NewGormLogger(log logger.Logger, slowThreshold time.Duration, debug bool) *GormLogger {
	return &GormLogger{
		log:           log,
		level:         gormlogger.Warn,
		slowThreshold: slowThreshold,
		debug:         debug,
	}
}

// LogMode returns a copy of the logger at the given level
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	copied := *l
	copied.level = level
	return &copied
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Info {
		l.log.Info(fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.log.Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Error {
		l.log.Error(fmt.Sprintf(msg, data...))
	}
}

// Trace logs a finished statement
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.log.Error("SQL error", "error", err, "sql", sql, "rows", rows, "elapsed_ms", elapsed.Milliseconds())
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.log.Warn("Slow SQL", "sql", sql, "rows", rows, "elapsed_ms", elapsed.Milliseconds(), "threshold_ms", l.slowThreshold.Milliseconds())
	case l.debug:
		sql, rows := fc()
		l.log.Debug("SQL", "sql", sql, "rows", rows, "elapsed_ms", elapsed.Milliseconds())
	}
}
