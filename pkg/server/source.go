package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"

	"github.com/matzehuels/colorsplash/pkg/offline"
)

// WorkerSource loads stencils through the offline worker, so sessions paint
// from the installed cache when the origin is unreachable.
type WorkerSource struct {
	Worker *offline.Worker
}

// Open fetches path via the worker. A 404 maps to fs.ErrNotExist.
func (s WorkerSource) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	resp, err := s.Worker.Fetch(ctx, "/"+path)
	if err != nil {
		return nil, err
	}
	if resp.Status == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%s: status %d", path, resp.Status)
	}
	return io.NopCloser(bytes.NewReader(resp.Body)), nil
}
