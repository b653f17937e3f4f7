package slogcustom

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"strings"

	"github.com/fatih/color"
)

// CustomHandler пишет записи в одну строку, подсвечивая уровень и ключи атрибутов.
type CustomHandler struct {
	l      *log.Logger
	level  slog.Leveler
	attrs  []slog.Attr
	prefix string
}

func NewCustomHandler(out io.Writer, level slog.Leveler) *CustomHandler {
	return &CustomHandler{
		l:     log.New(out, "", 0),
		level: level,
	}
}

func (c *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	level := r.Level.String() + ":"

	switch r.Level {
	case slog.LevelDebug:
		level = color.MagentaString(level)
	case slog.LevelInfo:
		level = color.HiBlueString(level)
	case slog.LevelWarn:
		level = color.YellowString(level)
	case slog.LevelError:
		level = color.RedString(level)
	}

	var sb strings.Builder

	for _, a := range c.attrs {
		writeAttr(&sb, "", a)
	}

	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&sb, c.prefix, a)
		return true
	})

	c.l.Println(
		r.Time.Format("15:04:05.000"),
		level,
		r.Message,
		strings.TrimSpace(sb.String()),
	)

	return nil
}

// WithAttrs возвращает обработчик, который добавляет attrs к каждой записи.
func (c *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return c
	}

	h := *c
	h.attrs = make([]slog.Attr, 0, len(c.attrs)+len(attrs))
	h.attrs = append(h.attrs, c.attrs...)

	for _, a := range attrs {
		a.Key = c.prefix + a.Key
		h.attrs = append(h.attrs, a)
	}

	return &h
}

// WithGroup добавляет префикс name. ко всем последующим ключам.
func (c *CustomHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return c
	}

	h := *c
	h.prefix = c.prefix + name + "."

	return &h
}

func (c *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= c.level.Level()
}

func writeAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		group := prefix
		if a.Key != "" {
			group += a.Key + "."
		}

		for _, ga := range a.Value.Group() {
			writeAttr(sb, group, ga)
		}

		return
	}

	sb.WriteString(color.GreenString(prefix + a.Key))
	sb.WriteString("=")
	sb.WriteString(fmt.Sprint(a.Value.Any()))
	sb.WriteString(" ")
}
