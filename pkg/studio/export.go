package studio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// ExportFilename is the name every saved drawing is offered under.
const ExportFilename = "my_fruit_coloring.png"

// Downloader receives exported images.
type Downloader interface {
	Download(ctx context.Context, filename string, data []byte) error
}

// DownloaderFunc adapts a function to Downloader.
type DownloaderFunc func(ctx context.Context, filename string, data []byte) error

// Download calls f.
func (f DownloaderFunc) Download(ctx context.Context, filename string, data []byte) error {
	return f(ctx, filename, data)
}

// Discard accepts and drops every download.
var Discard Downloader = DownloaderFunc(func(context.Context, string, []byte) error { return nil })

// DirDownloader writes downloads into a directory, overwriting any earlier
// export of the same name.
type DirDownloader struct {
	Dir string
}

// Download writes data to Dir/filename.
func (d DirDownloader) Download(_ context.Context, filename string, data []byte) error {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(d.Dir, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// save encodes the surface without modifying it.
func (s *Studio) save() error {
	data, err := s.surface.PNG()
	if err != nil {
		return fmt.Errorf("encode surface: %w", err)
	}
	if err := s.downloader.Download(s.ctx, ExportFilename, data); err != nil {
		s.logger.Error("export failed", "err", err)
		return err
	}
	s.hooks.OnExport(s.ctx, ExportFilename, len(data))
	s.logger.Info("exported", "file", ExportFilename, "bytes", len(data))
	return nil
}
