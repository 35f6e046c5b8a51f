package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/colorsplash/pkg/observability"
)

// debugHooks reports studio, cache and origin activity at debug level.
type debugHooks struct {
	logger *log.Logger
}

var (
	_ observability.StudioHooks = debugHooks{}
	_ observability.CacheHooks  = debugHooks{}
	_ observability.HTTPHooks   = debugHooks{}
)

// registerDebugHooks installs debugHooks when the logger runs at debug level.
func registerDebugHooks(logger *log.Logger) {
	if logger.GetLevel() > log.DebugLevel {
		return
	}
	h := debugHooks{logger: logger.WithPrefix("hooks")}
	observability.SetStudioHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h debugHooks) OnStrokeStart(_ context.Context, color string, radius float64) {
	h.logger.Debug("stroke", "color", color, "radius", radius)
}

func (h debugHooks) OnHistory(_ context.Context, op string, undoLen, redoLen int) {
	h.logger.Debug("history", "op", op, "undo", undoLen, "redo", redoLen)
}

func (h debugHooks) OnStencilLoaded(_ context.Context, name string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("stencil", "name", name, "duration", d, "err", err)
		return
	}
	h.logger.Debug("stencil", "name", name, "duration", d)
}

func (h debugHooks) OnExport(_ context.Context, filename string, size int) {
	h.logger.Debug("export", "file", filename, "bytes", size)
}

func (h debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h debugHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("fetch", "method", method, "host", host, "path", path)
}

func (h debugHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("fetched", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h debugHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("fetch failed", "method", method, "host", host, "path", path, "err", err)
}
