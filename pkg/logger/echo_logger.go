package logger

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	apperrors "github.com/wekeepgrowing/semo-fleet/pkg/errors"
)

// NewEchoRequestLogger는 Echo 서버를 위한 Request Logger를 생성합니다.
// /health, /metrics 요청은 기록하지 않습니다.
func NewEchoRequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/health" || p == "/metrics"
		},
		HandleError:  true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogMethod:    true,
		LogURI:       true,
		LogRoutePath: true,
		LogRequestID: true,
		LogUserAgent: true,
		LogStatus:    true,
		LogError:     true,
		LogHeaders:   []string{"Authorization"},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("request.remote_ip", v.RemoteIP),
				zap.String("request.method", v.Method),
				zap.String("request.uri", v.URI),
				zap.String("request.route", v.RoutePath),
				zap.String("request.user_agent", v.UserAgent),
				zap.String("request.request_id", v.RequestID),
				zap.Int("response.status", v.Status),
				zap.Duration("response.latency", v.Latency),
			}
			if auth := v.Headers["Authorization"]; len(auth) > 0 {
				fields = append(fields, zap.String("request.authorization", maskToken(auth[0])))
			}

			switch {
			case v.Error != nil && v.Status >= http.StatusInternalServerError:
				logger.Error("Request failed", append(fields, zap.Error(v.Error))...)
			case v.Status >= http.StatusBadRequest:
				logger.Warn("Client error", fields...)
			default:
				logger.Info("Request completed", fields...)
			}
			return nil
		},
	})
}

// Bearer 토큰 일부만 남깁니다
func maskToken(val string) string {
	if len(val) > 15 {
		return val[:10] + "..." + val[len(val)-5:]
	}
	return "[MASKED]"
}

// WithEchoLogger는 Echo의 Logger와 에러 핸들러를 zap 기반으로 교체합니다.
// AppError는 코드에 맞는 HTTP 상태와 {"error", "code"} 본문으로 변환됩니다.
func WithEchoLogger(e *echo.Echo, logger *zap.Logger) {
	e.Logger = NewEchoZapLogger(logger)

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		he := apperrors.ToHTTPError(err)
		if he.Code >= http.StatusInternalServerError {
			logger.Error("HTTP error",
				zap.Error(err),
				zap.Int("status", he.Code),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
			)
		}

		if c.Response().Committed {
			return
		}

		var sendErr error
		if c.Request().Method == http.MethodHead {
			sendErr = c.NoContent(he.Code)
		} else if body, ok := he.Message.(echo.Map); ok {
			sendErr = c.JSON(he.Code, body)
		} else {
			sendErr = c.JSON(he.Code, echo.Map{"error": fmt.Sprint(he.Message)})
		}
		if sendErr != nil {
			logger.Error("Failed to send error response", zap.Error(sendErr))
		}
	}
}

// EchoZapLogger는 echo.Logger 인터페이스를 구현한 zap 로거 래퍼입니다.
type EchoZapLogger struct {
	Logger *zap.Logger
	level  zap.AtomicLevel
	prefix string
}

// NewEchoZapLogger는 Echo의 Logger 인터페이스를 구현한 zap 로거 래퍼를 생성합니다.
func NewEchoZapLogger(logger *zap.Logger) *EchoZapLogger {
	return &EchoZapLogger{Logger: logger, level: zap.NewAtomicLevelAt(zapcore.InfoLevel)}
}

var gommonToZap = map[log.Lvl]zapcore.Level{
	log.DEBUG: zapcore.DebugLevel,
	log.INFO:  zapcore.InfoLevel,
	log.WARN:  zapcore.WarnLevel,
	log.ERROR: zapcore.ErrorLevel,
	log.OFF:   zapcore.FatalLevel + 1,
}

func (l *EchoZapLogger) sugar() *zap.SugaredLogger {
	return l.Logger.WithOptions(zap.IncreaseLevel(l.level)).Sugar()
}

func (l *EchoZapLogger) Output() io.Writer { return &zapWriter{logger: l.Logger} }
func (l *EchoZapLogger) SetOutput(io.Writer) {}
func (l *EchoZapLogger) Prefix() string { return l.prefix }
func (l *EchoZapLogger) SetPrefix(p string) { l.prefix = p }
func (l *EchoZapLogger) SetHeader(string) {}

// Level은 현재 레벨을 gommon 레벨로 반환합니다.
func (l *EchoZapLogger) Level() log.Lvl {
	for lvl, zl := range gommonToZap {
		if zl == l.level.Level() {
			return lvl
		}
	}
	return log.INFO
}

// SetLevel은 gommon 레벨을 zap 레벨로 매핑해 적용합니다.
func (l *EchoZapLogger) SetLevel(v log.Lvl) {
	if zl, ok := gommonToZap[v]; ok {
		l.level.SetLevel(zl)
	}
}

func (l *EchoZapLogger) Print(i ...interface{}) { l.sugar().Info(i...) }
func (l *EchoZapLogger) Printf(format string, i ...interface{}) { l.sugar().Infof(format, i...) }
func (l *EchoZapLogger) Printj(j log.JSON) { l.sugar().Infow("json_message", "json", j) }
func (l *EchoZapLogger) Debug(i ...interface{}) { l.sugar().Debug(i...) }
func (l *EchoZapLogger) Debugf(format string, i ...interface{}) { l.sugar().Debugf(format, i...) }
func (l *EchoZapLogger) Debugj(j log.JSON) { l.sugar().Debugw("json_message", "json", j) }
func (l *EchoZapLogger) Info(i ...interface{}) { l.sugar().Info(i...) }
func (l *EchoZapLogger) Infof(format string, i ...interface{}) { l.sugar().Infof(format, i...) }
func (l *EchoZapLogger) Infoj(j log.JSON) { l.sugar().Infow("json_message", "json", j) }
func (l *EchoZapLogger) Warn(i ...interface{}) { l.sugar().Warn(i...) }
func (l *EchoZapLogger) Warnf(format string, i ...interface{}) { l.sugar().Warnf(format, i...) }
func (l *EchoZapLogger) Warnj(j log.JSON) { l.sugar().Warnw("json_message", "json", j) }
func (l *EchoZapLogger) Error(i ...interface{}) { l.sugar().Error(i...) }
func (l *EchoZapLogger) Errorf(format string, i ...interface{}) { l.sugar().Errorf(format, i...) }
func (l *EchoZapLogger) Errorj(j log.JSON) { l.sugar().Errorw("json_message", "json", j) }
func (l *EchoZapLogger) Fatal(i ...interface{}) { l.sugar().Fatal(i...) }
func (l *EchoZapLogger) Fatalf(format string, i ...interface{}) { l.sugar().Fatalf(format, i...) }
func (l *EchoZapLogger) Fatalj(j log.JSON) { l.sugar().Fatalw("json_message", "json", j) }
func (l *EchoZapLogger) Panic(i ...interface{}) { l.sugar().Panic(i...) }
func (l *EchoZapLogger) Panicf(format string, i ...interface{}) { l.sugar().Panicf(format, i...) }
func (l *EchoZapLogger) Panicj(j log.JSON) { l.sugar().Panicw("json_message", "json", j) }

type zapWriter struct {
	logger *zap.Logger
}

func (w *zapWriter) Write(p []byte) (int, error) {
	w.logger.Info(string(p))
	return len(p), nil
}
