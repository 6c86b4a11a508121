package logger

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

var (
	once   sync.Once
	logger *zap.SugaredLogger
	level  = zap.NewAtomicLevelAt(zap.WarnLevel)
)

// Get initializes a zap.SugaredLogger writing to stderr if it has not been
// initialized already and returns the same instance for subsequent calls.
// LOG_LEVEL selects the level and JSON_LOG switches to JSON output.
func Get() *zap.SugaredLogger {
	once.Do(func() {
		if levelEnv := os.Getenv("LOG_LEVEL"); levelEnv != "" {
			if err := SetLevel(levelEnv); err != nil {
				log.Println(fmt.Errorf("invalid level, defaulting to WARN: %w", err))
			}
		}

		productionCfg := zap.NewProductionEncoderConfig()
		productionCfg.TimeKey = "timestamp"
		productionCfg.EncodeTime = zapcore.ISO8601TimeEncoder

		developmentCfg := zap.NewDevelopmentEncoderConfig()
		developmentCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

		encoder := zapcore.NewConsoleEncoder(developmentCfg)
		if os.Getenv("JSON_LOG") != "" {
			encoder = zapcore.NewJSONEncoder(productionCfg)
		}

		core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level)

		if buildInfo, ok := debug.ReadBuildInfo(); ok {
			fields := []zapcore.Field{zap.String("go_version", buildInfo.GoVersion)}
			for _, v := range buildInfo.Settings {
				if v.Key == "vcs.revision" && len(v.Value) >= 7 {
					fields = append(fields, zap.String("git_revision", v.Value[:7]))
					break
				}
			}
			core = core.With(fields)
		}

		logger = zap.New(core).Sugar()
	})

	return logger
}

// SetLevel changes the level of the shared logger. LOG_LEVEL, when set,
// is applied on first use and wins over later config values.
func SetLevel(name string) error {
	parsed, err := zapcore.ParseLevel(name)
	if err != nil {
		return err
	}
	if os.Getenv("LOG_LEVEL") != "" && logger != nil {
		return nil
	}
	level.SetLevel(parsed)
	return nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// FromCtx returns the Logger associated with the ctx. If no logger
// is associated, the shared logger is returned.
func FromCtx(ctx context.Context, with ...any) *zap.SugaredLogger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger); ok {
		return l.With(with...)
	}
	return Get().With(with...)
}

// WithCtx returns a copy of ctx with the Logger attached.
func WithCtx(ctx context.Context, l *zap.SugaredLogger) context.Context {
	if lp, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger); ok && lp == l {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, l)
}
