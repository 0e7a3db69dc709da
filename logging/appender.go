package logging

import (
	"io"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultTimeFormatStr is the default time format string for log appenders.
const DefaultTimeFormatStr = "2006-01-02T15:04:05.000Z0700"

// Appender is an output for log entries. This is a subset of the `zapcore.Core` interface, so
// zap cores (such as the test observer) can be used as appenders directly.
type Appender interface {
	// Write submits a structured log entry to the appender for logging.
	Write(zapcore.Entry, []zapcore.Field) error
	// Sync is for signaling that any buffered logs to `Write` should be flushed. E.g: at shutdown.
	Sync() error
}

// writerAppender encodes entries with zap's console encoder and writes them to an io.Writer.
type writerAppender struct {
	encoder zapcore.Encoder
	out     zapcore.WriteSyncer
}

// NewWriterAppender outputs log entries to the given writer in a human readable console format.
func NewWriterAppender(writer io.Writer) Appender {
	return &writerAppender{
		encoder: zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.TimeEncoderOfLayout(DefaultTimeFormatStr),
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		}),
		out: zapcore.AddSync(writer),
	}
}

// NewStdoutAppender creates a new appender that outputs to stdout.
func NewStdoutAppender() Appender {
	return NewWriterAppender(os.Stdout)
}

// NewFileAppender creates an appender that writes to a size rotated log file. The returned closer
// releases the file.
func NewFileAppender(filename string) (Appender, io.Closer) {
	logger := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    100,
		MaxBackups: 2,
		Compress:   true,
	}
	return NewWriterAppender(logger), logger
}

func (wa *writerAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	buf, err := wa.encoder.EncodeEntry(entry, fields)
	if err != nil {
		return err
	}
	defer buf.Free()
	_, err = wa.out.Write(buf.Bytes())
	return err
}

func (wa *writerAppender) Sync() error {
	return wa.out.Sync()
}
