package logger

import (
	"context"
	"errors"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// Gorm routes GORM's SQL logging through zap.
type Gorm struct {
	log           *zap.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

var _ gormlogger.Interface = (*Gorm)(nil)

func NewGorm(log *zap.Logger, level string) *Gorm {
	return &Gorm{
		log:           log.Named("gorm"),
		level:         GormLevel(level),
		slowThreshold: 200 * time.Millisecond,
	}
}

func (g *Gorm) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *g
	cp.level = level
	return &cp
}

func (g *Gorm) Info(_ context.Context, msg string, data ...any) {
	if g.level >= gormlogger.Info {
		g.log.Sugar().Infof(msg, data...)
	}
}

func (g *Gorm) Warn(_ context.Context, msg string, data ...any) {
	if g.level >= gormlogger.Warn {
		g.log.Sugar().Warnf(msg, data...)
	}
}

func (g *Gorm) Error(_ context.Context, msg string, data ...any) {
	if g.level >= gormlogger.Error {
		g.log.Sugar().Errorf(msg, data...)
	}
}

func (g *Gorm) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}
	if reqID := chimiddleware.GetReqID(ctx); reqID != "" {
		fields = append(fields, zap.String("request_id", reqID))
	}

	switch {
	case err != nil && g.level >= gormlogger.Error:
		// missing rows surface as 404s, not as SQL errors
		if errors.Is(err, gormlogger.ErrRecordNotFound) {
			return
		}
		g.log.Error("sql error", append(fields, zap.Error(err))...)
	case elapsed > g.slowThreshold && g.level >= gormlogger.Warn:
		g.log.Warn("slow sql", fields...)
	case g.level >= gormlogger.Info:
		g.log.Debug("sql", fields...)
	}
}

// GormLevel maps a level name to a GORM log level, defaulting to warn.
func GormLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
