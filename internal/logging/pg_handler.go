package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/freshtrio/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	logBatchSize     = 50
	logFlushInterval = 5 * time.Second
)

// logSink owns the buffer and background writer. Handlers derived via
// WithAttrs share one sink so every clone flushes into the same batch.
type logSink struct {
	db *gorm.DB

	mu      sync.Mutex
	pending []models.SystemLog

	stop chan struct{}
	once sync.Once
}

// PGHandler persists ERROR-level records to the system_logs table. Records
// accumulate in memory and are written either every logFlushInterval or as
// soon as a full batch is buffered, so a burst of errors never blocks the
// request path on a DB write.
type PGHandler struct {
	sink  *logSink
	bound []slog.Attr
}

func NewPGHandler(db *gorm.DB) *PGHandler {
	s := &logSink{
		db:      db,
		pending: make([]models.SystemLog, 0, logBatchSize),
		stop:    make(chan struct{}),
	}
	go s.run()
	return &PGHandler{sink: s}
}

func (s *logSink) run() {
	tick := time.NewTicker(logFlushInterval)
	defer tick.Stop()
	for {
		select {
		case <-tick.C:
			s.flush()
		case <-s.stop:
			s.flush()
			return
		}
	}
}

func (s *logSink) flush() {
	s.mu.Lock()
	batch := s.pending
	s.pending = make([]models.SystemLog, 0, logBatchSize)
	s.mu.Unlock()

	if len(batch) == 0 {
		return
	}
	if err := s.db.CreateInBatches(batch, logBatchSize).Error; err != nil {
		slog.Error("system log flush failed", "error", err, "dropped", len(batch))
	}
}

func (s *logSink) push(row models.SystemLog) {
	s.mu.Lock()
	s.pending = append(s.pending, row)
	full := len(s.pending) >= logBatchSize
	s.mu.Unlock()

	if full {
		go s.flush()
	}
}

// Stop drains the buffer and ends the background writer. Safe to call twice.
func (h *PGHandler) Stop() {
	h.sink.once.Do(func() { close(h.sink.stop) })
}

func (h *PGHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *PGHandler) Handle(_ context.Context, record slog.Record) error {
	row := models.SystemLog{
		ID:        uuid.New(),
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	extra := map[string]any{}
	consume := func(a slog.Attr) {
		switch a.Key {
		case "trace_id":
			row.TraceID = a.Value.String()
		case "user_id":
			v := a.Value.String()
			row.UserID = &v
		case "action":
			row.Action = a.Value.String()
		case "error":
			row.Error = a.Value.String()
		case "latency_ms":
			if f, ok := a.Value.Any().(float64); ok {
				row.LatencyMs = int(math.Round(f))
			}
		default:
			extra[a.Key] = a.Value.Any()
		}
	}
	for _, a := range h.bound {
		consume(a)
	}
	record.Attrs(func(a slog.Attr) bool {
		consume(a)
		return true
	})

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			row.Extra = datatypes.JSON(b)
		}
	}

	h.sink.push(row)
	return nil
}

func (h *PGHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	bound := append(append([]slog.Attr{}, h.bound...), attrs...)
	return &PGHandler{sink: h.sink, bound: bound}
}

// WithGroup is a no-op; rows are flat and groups are folded into Extra keys.
func (h *PGHandler) WithGroup(string) slog.Handler {
	return h
}
