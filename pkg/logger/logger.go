package logger

import (
	"os"

	"github.com/natefinch/lumberjack"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/huynhanx03/go-bytebuf/pkg/settings"
)

// New builds a JSON zap logger from cfg. With a file name the output goes to
// a size-rotated file, otherwise to stderr. An empty level means info.
func New(cfg settings.Logger) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.LogLevel != "" {
		if err := level.Set(cfg.LogLevel); err != nil {
			return nil, errors.Wrapf(err, "parse log level %q", cfg.LogLevel)
		}
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), writer(cfg), level)
	return zap.New(core, zap.AddCaller()), nil
}

func writer(cfg settings.Logger) zapcore.WriteSyncer {
	if cfg.FileLogName == "" {
		return zapcore.Lock(os.Stderr)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.FileLogName,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	})
}
