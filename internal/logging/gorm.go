package logging

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SlowQueryThreshold is the duration above which a statement is logged as slow.
const SlowQueryThreshold = 200 * time.Millisecond

// GormLogger routes GORM's statement log through the global zerolog logger.
type GormLogger struct {
	level logger.LogLevel
	slow  time.Duration
}

// NewGormLogger returns a GORM logger. With echo set every statement is
// logged at info level; otherwise only failed and slow statements are.
func NewGormLogger(echo bool) *GormLogger {
	level := logger.Warn
	if echo {
		level = logger.Info
	}
	return &GormLogger{level: level, slow: SlowQueryThreshold}
}

func (l *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= logger.Info {
		log.Info().Msgf(msg, args...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= logger.Warn {
		log.Warn().Msgf(msg, args...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= logger.Error {
		log.Error().Msgf(msg, args...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	var (
		event *zerolog.Event
		msg   = "SQL"
	)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= logger.Error:
		event = log.Error().Err(err)
		msg = "SQL failed"
	case l.slow > 0 && elapsed > l.slow && l.level >= logger.Warn:
		event = log.Warn().Dur("threshold", l.slow)
		msg = "Slow SQL"
	case l.level >= logger.Info:
		event = log.Info()
	default:
		return
	}

	sql, rows := fc()
	event.
		Str("sql", sql).
		Int64("rows", rows).
		Dur("elapsed", elapsed).
		Msg(msg)
}
