package log

import (
	"io"
	"log"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// stdWriter forwards to whatever the standard logger currently writes to, so
// main's file tee applies to these lines as well.
type stdWriter struct{}

func (stdWriter) Write(p []byte) (int, error) { return log.Writer().Write(p) }

var (
	mu     sync.RWMutex
	logger = newLogger(stdWriter{})
)

func newLogger(w io.Writer) zerolog.Logger {
	zerolog.TimestampFieldName = "ts"
	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(w)
}

// SetOutput redirects event lines to w. Passing nil restores the standard logger's writer.
func SetOutput(w io.Writer) {
	if w == nil {
		w = stdWriter{}
	}
	mu.Lock()
	logger = newLogger(w)
	mu.Unlock()
}

func write(level string, c *fiber.Ctx, action string, err error, fields map[string]any) {
	mu.RLock()
	l := logger
	mu.RUnlock()

	ev := l.Log().Timestamp().Str("level", level)
	if c != nil {
		ev = ev.Str("ip", c.IP()).
			Str("method", c.Method()).
			Str("path", c.Path())
		if st := c.Response().StatusCode(); st != 0 {
			ev = ev.Int("status", st)
		}
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			ev = ev.Str("req_id", rid)
		}
		if sid, ok := c.Locals("sid").(string); ok && sid != "" {
			ev = ev.Str("sid", sid)
		}
	}
	if action != "" {
		ev = ev.Str("action", action)
	}
	if err != nil {
		ev = ev.Str("err", err.Error())
	}
	if len(fields) > 0 {
		ev = ev.Interface("fields", fields)
	}
	ev.Send()
}

func Info(c *fiber.Ctx, action string, fields map[string]any) { write("info", c, action, nil, fields) }
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write("audit", c, action, nil, fields)
}
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write("warn", c, action, nil, fields)
}
func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write("error", c, action, err, fields)
}

// Event logs outside of a request, e.g. from the chat controller or a timer.
func Event(action string, err error, fields map[string]any) {
	level := "info"
	if err != nil {
		level = "error"
	}
	write(level, nil, action, err, fields)
}
