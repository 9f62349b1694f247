package log

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// captureHandler records every message it handles.
type captureHandler struct {
	mu   sync.Mutex
	msgs []string
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.msgs = append(h.msgs, r.Message)
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func TestModuleFilteredTrace(t *testing.T) {
	h := &captureHandler{}
	prev := Root()
	SetDefault(NewLogger(h))
	defer SetDefault(prev)

	// Generator and VM modules are quiet by default.
	Trace(GenMonitoring, "generated input")
	Debug(VMMonitoring, "execution ok")
	assert.Empty(t, h.msgs)

	EnableModule(GenMonitoring)
	EnableModule(VMMonitoring)
	defer DisableModule(GenMonitoring)
	defer DisableModule(VMMonitoring)

	Trace(GenMonitoring, "generated input")
	Debug(VMMonitoring, "execution ok")
	assert.Equal(t, []string{"generated input", "execution ok"}, h.msgs)

	// Info and above ignore the module gate.
	DisableModule(FuzzMonitoring)
	defer EnableModule(FuzzMonitoring)
	Info(FuzzMonitoring, "summary")
	assert.Contains(t, h.msgs, "summary")
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("trace")
	assert.NoError(t, err)
	assert.Equal(t, LevelTrace, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
