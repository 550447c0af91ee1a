package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/logicdiagram/pkg/errors"
	"github.com/matzehuels/logicdiagram/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Saved Adder (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Engine Hooks
// =============================================================================

// logHooks writes engine events to the logger at debug level.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.CodecHooks   = (*logHooks)(nil)
	_ observability.HistoryHooks = (*logHooks)(nil)
	_ observability.TreeHooks    = (*logHooks)(nil)
)

func (h *logHooks) OnParse(lines int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("parse failed", "lines", lines, "duration", d, "code", errors.GetCode(err), "line", errors.GetLine(err))
		return
	}
	h.logger.Debug("parsed diagram", "lines", lines, "duration", d)
}

func (h *logHooks) OnSerialize(size int, d time.Duration) {
	h.logger.Debug("serialized diagram", "bytes", size, "duration", d)
}

func (h *logHooks) OnHistory(op string, undo, redo int) {
	h.logger.Debug("history", "op", op, "undo", undo, "redo", redo)
}

func (h *logHooks) OnSwitch(from, to string, err error) {
	if err != nil {
		h.logger.Warn("switch failed", "from", from, "to", to, "err", err)
		return
	}
	h.logger.Debug("switched diagram", "from", from, "to", to)
}

func (h *logHooks) OnStructure(op, kind, name string) {
	h.logger.Debug("tree", "op", op, "kind", kind, "name", name)
}
