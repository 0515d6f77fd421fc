// Package logger provides the process-wide structured logger.
// It wraps uber-go/zap with a colored key=value text format for terminals,
// a JSON format for log shippers, and lumberjack file rotation.
package logger

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Common field keys
const (
	FieldReportID  = "report_id"
	FieldRequestID = "request_id"
	FieldFormat    = "format"
	FieldKind      = "kind"
)

var bufferpool = buffer.NewPool()

var (
	globalLogger *zap.Logger
	once         sync.Once
)

// Config holds the logger configuration
type Config struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `yaml:"level"`
	// Format is the output format (json, text)
	Format string `yaml:"format"`
	// File is an optional log file; console output is kept when set
	File string `yaml:"file"`
	// MaxSize is the size in megabytes before rotation
	MaxSize int `yaml:"max_size"`
	// MaxAge is the number of days to retain rotated files
	MaxAge int `yaml:"max_age"`
	// MaxBackups is the number of rotated files to retain
	MaxBackups int `yaml:"max_backups"`
	// Compress gzips rotated files
	Compress bool `yaml:"compress"`
	// AccessLog logs successful HTTP requests at info level
	AccessLog bool `yaml:"access_log"`
}

// withDefaults fills unset rotation settings
func (c Config) withDefaults() Config {
	if c.MaxSize <= 0 {
		c.MaxSize = 100
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 7
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = 5
	}
	return c
}

// Init initializes the global logger. Only the first call takes effect.
func Init(cfg Config) error {
	once.Do(func() {
		globalLogger = New(cfg, os.Stdout)
	})
	return nil
}

// New builds a logger writing to console, plus the configured file if any.
// An unknown level falls back to info.
func New(cfg Config, console io.Writer) *zap.Logger {
	cfg = cfg.withDefaults()

	level, err := parseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var consoleEnc, fileEnc zapcore.Encoder
	if cfg.Format == "text" {
		consoleEnc = newKVConsoleEncoder(textEncoderConfig(bracketColorLevelEncoder))
		fileEnc = newKVConsoleEncoder(textEncoderConfig(bracketLevelEncoder))
	} else {
		consoleEnc = zapcore.NewJSONEncoder(jsonEncoderConfig())
		fileEnc = consoleEnc
	}

	core := zapcore.NewCore(consoleEnc, zapcore.AddSync(console), level)
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create log directory: %v, using console only\n", err)
		} else {
			fileWriter := zapcore.AddSync(&lumberjack.Logger{
				Filename:   cfg.File,
				MaxSize:    cfg.MaxSize,
				MaxAge:     cfg.MaxAge,
				MaxBackups: cfg.MaxBackups,
				Compress:   cfg.Compress,
			})
			core = zapcore.NewTee(core, zapcore.NewCore(fileEnc, fileWriter, level))
		}
	}

	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
}

func textEncoderConfig(levelEncoder zapcore.LevelEncoder) zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          zapcore.OmitKey,
		CallerKey:        "caller",
		FunctionKey:      zapcore.OmitKey,
		MessageKey:       "msg",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      levelEncoder,
		EncodeTime:       bracketTimeEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		ConsoleSeparator: " ",
	}
}

func jsonEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// bracketTimeEncoder formats time as [2006-01-02 15:04:05]
func bracketTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + t.Format("2006-01-02 15:04:05") + "]")
}

// bracketLevelEncoder formats level as [INFO]
func bracketLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + level.CapitalString() + "]")
}

// bracketColorLevelEncoder formats level as [INFO] wrapped in ANSI color
func bracketColorLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	var color string
	switch level {
	case zapcore.DebugLevel:
		color = "\x1b[35m"
	case zapcore.InfoLevel:
		color = "\x1b[34m"
	case zapcore.WarnLevel:
		color = "\x1b[33m"
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		color = "\x1b[31m"
	default:
		color = "\x1b[0m"
	}
	enc.AppendString(color + "[" + level.CapitalString() + "]\x1b[0m")
}

func parseLevel(level string) (zapcore.Level, error) {
	var l zapcore.Level
	err := l.UnmarshalText([]byte(level))
	return l, err
}

// ValidLevel reports whether level names a known zap level
func ValidLevel(level string) bool {
	_, err := parseLevel(level)
	return err == nil
}

// Get returns the global logger, or a no-op logger before Init.
func Get() *zap.Logger {
	if globalLogger == nil {
		return zap.NewNop()
	}
	return globalLogger
}

// Sugar returns the sugared global logger
func Sugar() *zap.SugaredLogger {
	return Get().Sugar()
}

// With creates a child logger with additional fields
func With(fields ...zap.Field) *zap.Logger {
	return Get().With(fields...)
}

// Named creates a child logger with the given name
func Named(name string) *zap.Logger {
	return Get().Named(name)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	Get().WithOptions(zap.AddCallerSkip(1)).Debug(msg, fields...)
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	Get().WithOptions(zap.AddCallerSkip(1)).Info(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	Get().WithOptions(zap.AddCallerSkip(1)).Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	Get().WithOptions(zap.AddCallerSkip(1)).Error(msg, fields...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, fields ...zap.Field) {
	Get().WithOptions(zap.AddCallerSkip(1)).Fatal(msg, fields...)
}

// Sync flushes any buffered log entries
func Sync() error {
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}

// kvConsoleEncoder prints the entry header like the console encoder and
// appends fields as key=value pairs. Fields added through With are kept.
type kvConsoleEncoder struct {
	zapcore.Encoder
	cfg     zapcore.EncoderConfig
	context []zapcore.Field
}

func newKVConsoleEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return &kvConsoleEncoder{
		Encoder: zapcore.NewConsoleEncoder(cfg),
		cfg:     cfg,
	}
}

func (e *kvConsoleEncoder) Clone() zapcore.Encoder {
	return &kvConsoleEncoder{
		Encoder: e.Encoder.Clone(),
		cfg:     e.cfg,
		context: append([]zapcore.Field(nil), e.context...),
	}
}

// AddString and the other ObjectEncoder methods are reached through With;
// recording them as fields keeps them in the key=value tail.
func (e *kvConsoleEncoder) AddString(key, value string) {
	e.context = append(e.context, zap.String(key, value))
}

func (e *kvConsoleEncoder) AddInt64(key string, value int64) {
	e.context = append(e.context, zap.Int64(key, value))
}

func (e *kvConsoleEncoder) AddBool(key string, value bool) {
	e.context = append(e.context, zap.Bool(key, value))
}

func (e *kvConsoleEncoder) AddDuration(key string, value time.Duration) {
	e.context = append(e.context, zap.Duration(key, value))
}

func (e *kvConsoleEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf := bufferpool.Get()
	sep := e.cfg.ConsoleSeparator

	appendHeader := func(encode func(*sliceArrayEncoder)) {
		arr := &sliceArrayEncoder{}
		encode(arr)
		for _, s := range arr.elems {
			buf.AppendString(s)
			buf.AppendString(sep)
		}
	}

	if e.cfg.EncodeTime != nil {
		appendHeader(func(a *sliceArrayEncoder) { e.cfg.EncodeTime(entry.Time, a) })
	}
	if e.cfg.EncodeLevel != nil {
		appendHeader(func(a *sliceArrayEncoder) { e.cfg.EncodeLevel(entry.Level, a) })
	}
	if entry.Caller.Defined && e.cfg.EncodeCaller != nil {
		appendHeader(func(a *sliceArrayEncoder) { e.cfg.EncodeCaller(entry.Caller, a) })
	}

	buf.AppendString(entry.Message)

	for _, field := range append(e.context, fields...) {
		buf.AppendString(sep)
		buf.AppendString(field.Key)
		buf.AppendByte('=')
		appendFieldValue(buf, field)
	}

	if entry.Stack != "" && e.cfg.StacktraceKey != "" {
		buf.AppendByte('\n')
		buf.AppendString(entry.Stack)
	}
	buf.AppendString(zapcore.DefaultLineEnding)
	return buf, nil
}

// sliceArrayEncoder collects the header pieces produced by the encoder funcs
type sliceArrayEncoder struct {
	elems []string
}

func (s *sliceArrayEncoder) add(v any)                       { s.elems = append(s.elems, fmt.Sprint(v)) }
func (s *sliceArrayEncoder) AppendBool(v bool)               { s.add(v) }
func (s *sliceArrayEncoder) AppendByteString(v []byte)       { s.elems = append(s.elems, string(v)) }
func (s *sliceArrayEncoder) AppendComplex128(v complex128)   { s.add(v) }
func (s *sliceArrayEncoder) AppendComplex64(v complex64)     { s.add(v) }
func (s *sliceArrayEncoder) AppendFloat64(v float64)         { s.add(v) }
func (s *sliceArrayEncoder) AppendFloat32(v float32)         { s.add(v) }
func (s *sliceArrayEncoder) AppendInt(v int)                 { s.add(v) }
func (s *sliceArrayEncoder) AppendInt64(v int64)             { s.add(v) }
func (s *sliceArrayEncoder) AppendInt32(v int32)             { s.add(v) }
func (s *sliceArrayEncoder) AppendInt16(v int16)             { s.add(v) }
func (s *sliceArrayEncoder) AppendInt8(v int8)               { s.add(v) }
func (s *sliceArrayEncoder) AppendString(v string)           { s.elems = append(s.elems, v) }
func (s *sliceArrayEncoder) AppendUint(v uint)               { s.add(v) }
func (s *sliceArrayEncoder) AppendUint64(v uint64)           { s.add(v) }
func (s *sliceArrayEncoder) AppendUint32(v uint32)           { s.add(v) }
func (s *sliceArrayEncoder) AppendUint16(v uint16)           { s.add(v) }
func (s *sliceArrayEncoder) AppendUint8(v uint8)             { s.add(v) }
func (s *sliceArrayEncoder) AppendUintptr(v uintptr)         { s.add(v) }
func (s *sliceArrayEncoder) AppendDuration(v time.Duration)  { s.elems = append(s.elems, v.String()) }
func (s *sliceArrayEncoder) AppendTime(v time.Time)          { s.elems = append(s.elems, v.String()) }
func (s *sliceArrayEncoder) AppendReflected(v any) error     { s.add(v); return nil }
func (s *sliceArrayEncoder) AppendObject(zapcore.ObjectMarshaler) error { return nil }
func (s *sliceArrayEncoder) AppendArray(v zapcore.ArrayMarshaler) error {
	return v.MarshalLogArray(s)
}

// appendFieldValue writes a field value, quoting strings that contain spaces
func appendFieldValue(buf *buffer.Buffer, field zapcore.Field) {
	switch field.Type {
	case zapcore.StringType:
		appendMaybeQuoted(buf, field.String)
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type:
		buf.AppendInt(field.Integer)
	case zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		buf.AppendUint(uint64(field.Integer))
	case zapcore.Float64Type:
		buf.AppendFloat(math.Float64frombits(uint64(field.Integer)), 64)
	case zapcore.Float32Type:
		buf.AppendFloat(float64(math.Float32frombits(uint32(field.Integer))), 32)
	case zapcore.BoolType:
		buf.AppendBool(field.Integer == 1)
	case zapcore.DurationType:
		buf.AppendString(time.Duration(field.Integer).String())
	case zapcore.TimeType:
		t := time.Unix(0, field.Integer)
		if loc, ok := field.Interface.(*time.Location); ok {
			t = t.In(loc)
		}
		buf.AppendString(t.Format(time.RFC3339))
	case zapcore.TimeFullType:
		buf.AppendString(field.Interface.(time.Time).Format(time.RFC3339))
	case zapcore.ErrorType:
		if err, ok := field.Interface.(error); ok && err != nil {
			appendMaybeQuoted(buf, err.Error())
		} else {
			buf.AppendString("<nil>")
		}
	case zapcore.StringerType:
		if stringer, ok := field.Interface.(fmt.Stringer); ok {
			appendMaybeQuoted(buf, stringer.String())
		}
	default:
		if field.Interface != nil {
			appendMaybeQuoted(buf, fmt.Sprint(field.Interface))
		}
	}
}

func appendMaybeQuoted(buf *buffer.Buffer, s string) {
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		buf.AppendString(strconv.Quote(s))
		return
	}
	buf.AppendString(s)
}
