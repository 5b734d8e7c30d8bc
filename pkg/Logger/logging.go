package Logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger struct {
	*zap.SugaredLogger
}

// FileOptions configures the rotating JSON file sink.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func encoderConfig(debug bool) zapcore.EncoderConfig {
	var enc zapcore.EncoderConfig
	if debug {
		enc = zap.NewDevelopmentEncoderConfig()
		enc.TimeKey = "time"
	} else {
		enc = zap.NewProductionEncoderConfig()
		enc.TimeKey = "timestamp"
		enc.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	enc.LevelKey = "level"
	enc.MessageKey = "msg"
	enc.CallerKey = "caller"
	return enc
}

func BuildLogger(debug bool, file *FileOptions) *Logger {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	var consoleEncoder zapcore.Encoder
	if debug {
		level.SetLevel(zap.DebugLevel)
		consoleEncoder = zapcore.NewConsoleEncoder(encoderConfig(true))
	} else {
		consoleEncoder = zapcore.NewJSONEncoder(encoderConfig(false))
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), level),
	}

	if file != nil && file.Path != "" {
		writer := &lumberjack.Logger{
			Filename:   file.Path,
			MaxSize:    file.MaxSizeMB,
			MaxBackups: file.MaxBackups,
			MaxAge:     file.MaxAgeDays,
			Compress:   file.Compress,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig(false)),
			zapcore.AddSync(writer),
			level,
		))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return &Logger{logger.Sugar()}
}

func New(debug bool) *Logger {
	return BuildLogger(debug, nil)
}

// NewWithFile builds a logger that also writes to a rotating file.
func NewWithFile(debug bool, file FileOptions) *Logger {
	return BuildLogger(debug, &file)
}

// Nop returns a logger that discards everything. Used by tests.
func Nop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}
