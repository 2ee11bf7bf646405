package logger

import (
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/hotsuka/todo-app/internal/model"
)

// Log is the process-wide diagnostic logger. It defaults to a no-op so
// packages can log before Init runs (and so tests stay quiet).
var Log *zap.SugaredLogger = zap.NewNop().Sugar()

// Init routes diagnostics to a rotated file under the configured log dir.
// User-facing output stays on stdout/stderr; this channel is for storage
// failures, version mismatches and similar internals.
func Init(config model.Config) error {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zap.InfoLevel
	if parsed, err := zapcore.ParseLevel(config.Log.Level); err == nil {
		level = parsed
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(config.Log.Dir, "todo_"+time.Now().Format("2006-01-02")+".log"),
			MaxSize:    10, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
		}),
		level,
	)

	Log = zap.New(core).Sugar()
	return nil
}
