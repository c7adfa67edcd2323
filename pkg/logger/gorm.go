package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger는 gorm의 logger.Interface를 zap으로 구현합니다.
// slow query 임계시간과 RecordNotFound 무시 옵션을 지원합니다.
type GormLogger struct {
	log                       *zap.Logger
	LogLevel                  gormlogger.LogLevel
	SlowThreshold             time.Duration
	IgnoreRecordNotFoundError bool
}

// NewGormLogger는 zap 로거를 감싼 gorm 로거를 생성합니다.
func NewGormLogger(log *zap.Logger, level gormlogger.LogLevel, slowThreshold time.Duration, ignoreRecordNotFoundError bool) *GormLogger {
	return &GormLogger{
		log:                       log.Named("gorm").WithOptions(zap.AddCallerSkip(3)),
		LogLevel:                  level,
		SlowThreshold:             slowThreshold,
		IgnoreRecordNotFoundError: ignoreRecordNotFoundError,
	}
}

// LogMode는 로그 레벨을 변경한 복사본을 반환합니다.
func (g *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	copied := *g
	copied.LogLevel = level
	return &copied
}

func (g *GormLogger) Info(_ context.Context, msg string, data ...interface{}) {
	if g.LogLevel >= gormlogger.Info {
		g.log.Info(fmt.Sprintf(msg, data...))
	}
}

func (g *GormLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	if g.LogLevel >= gormlogger.Warn {
		g.log.Warn(fmt.Sprintf(msg, data...))
	}
}

func (g *GormLogger) Error(_ context.Context, msg string, data ...interface{}) {
	if g.LogLevel >= gormlogger.Error {
		g.log.Error(fmt.Sprintf(msg, data...))
	}
}

// Trace는 쿼리 실행 시간, SQL, 영향 받은 행 수를 기록합니다.
func (g *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.LogLevel <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.String("sql", sql),
		zap.Int64("rows", rows),
	}

	switch {
	case err != nil && g.LogLevel >= gormlogger.Error &&
		(!g.IgnoreRecordNotFoundError || !errors.Is(err, gorm.ErrRecordNotFound)):
		g.log.Error("gorm query error", append(fields, zap.Error(err))...)
	case g.SlowThreshold != 0 && elapsed > g.SlowThreshold && g.LogLevel >= gormlogger.Warn:
		g.log.Warn("gorm slow query", append(fields, zap.Duration("threshold", g.SlowThreshold))...)
	case g.LogLevel >= gormlogger.Info:
		g.log.Debug("gorm query", fields...)
	}
}
