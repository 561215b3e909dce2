package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a charm logger at debug level, errors at
// warn level. It implements all hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger, or to log.Default when nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger}
}

// Install registers h for every hook category.
func (h *LogHooks) Install() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetEditHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, preset string, people int) {
	h.logger.Debug("layout start", "preset", preset, "people", people)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, preset string, positioned, warnings int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("layout failed", "preset", preset, "err", err)
		return
	}
	h.logger.Debug("layout done", "preset", preset, "positioned", positioned, "warnings", warnings, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, format string) {
	h.logger.Debug("render start", "format", format)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "format", format, "err", err)
		return
	}
	h.logger.Debug("render done", "format", format, "bytes", size, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRelationRejected(_ context.Context, code string) {
	h.logger.Debug("relation rejected", "code", code)
}

func (h *LogHooks) OnSave(_ context.Context, project string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("save failed", "project", project, "err", err)
		return
	}
	h.logger.Debug("saved", "project", project, "duration", d)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Info("request", "method", method, "route", route, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ EditHooks     = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
