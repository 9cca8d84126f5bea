package logging

import (
	"context"
	"errors"
	"log/slog"
)

// Fanout duplicates every record to each wrapped handler. A handler that
// fails does not stop delivery to the others; the errors are joined.
type Fanout struct {
	targets []slog.Handler
}

func NewFanout(targets ...slog.Handler) *Fanout {
	return &Fanout{targets: targets}
}

func (f *Fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, t := range f.targets {
		if t.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *Fanout) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, t := range f.targets {
		if !t.Enabled(ctx, record.Level) {
			continue
		}
		if err := t.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *Fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	wrapped := make([]slog.Handler, len(f.targets))
	for i, t := range f.targets {
		wrapped[i] = t.WithAttrs(attrs)
	}
	return &Fanout{targets: wrapped}
}

func (f *Fanout) WithGroup(name string) slog.Handler {
	wrapped := make([]slog.Handler, len(f.targets))
	for i, t := range f.targets {
		wrapped[i] = t.WithGroup(name)
	}
	return &Fanout{targets: wrapped}
}
