// Package logger is the logging facade of spinsync. The primitives only log
// on cold paths, so the default backend writes straight to stdout without
// buffering.
package logger

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/zbh255/bilog"
)

const (
	OpenLogger  int64 = 1 << 10
	CloseLogger int64 = 1 << 11
)

// Logger is the minimal leveled logger the primitives write to.
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// DefaultLogger is used by every primitive in spinsync. Replace it before
// the primitives are used concurrently.
var DefaultLogger Logger

// BilogLogger adapts a bilog.Logger and can be switched off at runtime.
type BilogLogger struct {
	loggerOpen int64
	logging    bilog.Logger
}

// New wraps l. The returned logger starts switched on.
func New(l bilog.Logger) Logger {
	return &BilogLogger{logging: l, loggerOpen: OpenLogger}
}

func (c *BilogLogger) Debug(format string, v ...interface{}) {
	if !c.ReadLoggerStatus() {
		return
	}
	c.logging.Debug(fmt.Sprintf(format, v...))
}

func (c *BilogLogger) Info(format string, v ...interface{}) {
	if !c.ReadLoggerStatus() {
		return
	}
	c.logging.Info(fmt.Sprintf(format, v...))
}

// Warn writes at bilog's TRACE level. bilog has no warning level and TRACE
// is the one ranked between DEBUG and ERROR.
func (c *BilogLogger) Warn(format string, v ...interface{}) {
	if !c.ReadLoggerStatus() {
		return
	}
	c.logging.Trace(fmt.Sprintf(format, v...))
}

func (c *BilogLogger) Error(format string, v ...interface{}) {
	if !c.ReadLoggerStatus() {
		return
	}
	c.logging.ErrorFromString(fmt.Sprintf(format, v...))
}

func (c *BilogLogger) ReadLoggerStatus() bool {
	return atomic.LoadInt64(&c.loggerOpen) == OpenLogger
}

func (c *BilogLogger) SetOpen(ok bool) {
	if ok {
		atomic.StoreInt64(&c.loggerOpen, OpenLogger)
	} else {
		atomic.StoreInt64(&c.loggerOpen, CloseLogger)
	}
}

// SetOpenLogger switches DefaultLogger on or off. It has no effect when
// DefaultLogger was replaced by something other than a *BilogLogger.
func SetOpenLogger(ok bool) {
	logger, typeOk := DefaultLogger.(*BilogLogger)
	if !typeOk {
		return
	}
	logger.SetOpen(ok)
}

func init() {
	bilogLogger := bilog.NewLogger(
		os.Stdout, bilog.PANIC,
		bilog.WithTimes(),
		bilog.WithLowBuffer(0),
		bilog.WithTopBuffer(0),
	)
	DefaultLogger = New(bilogLogger)
}
