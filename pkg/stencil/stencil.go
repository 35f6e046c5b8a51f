// Package stencil loads the outline images children color within.
//
// Stencils live at images/<name>.png. Loading is asynchronous: [Loader.Load]
// fetches and decodes on a background goroutine and delivers the result on
// the studio's event loop. Loads are never cancelled, so when two loads
// overlap both complete, in whatever order their decodes finish.
package stencil

import (
	"context"
	"errors"
	"image"
	"io"
	"io/fs"
	"strings"

	"github.com/disintegration/imaging"

	cserrors "github.com/matzehuels/colorsplash/pkg/errors"
	"github.com/matzehuels/colorsplash/pkg/event"
)

// Conventional location and extension of stencil images.
const (
	Dir = "images"
	Ext = ".png"
)

var names = []string{"apple", "banana", "orange", "mango", "watermelon"}

// Names returns the five built-in stencil names.
func Names() []string {
	return append([]string(nil), names...)
}

// NormalizeName strips a trailing ".png" so "apple" and "apple.png" name the
// same stencil.
func NormalizeName(name string) string {
	return strings.TrimSuffix(name, Ext)
}

// Path returns the asset path of a stencil.
func Path(name string) string {
	return Dir + "/" + NormalizeName(name) + Ext
}

// Stencil is a decoded outline image.
type Stencil struct {
	Name  string
	Image image.Image
}

// Source opens stencil assets by path.
type Source interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, path string) (io.ReadCloser, error)

// Open calls f.
func (f SourceFunc) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	return f(ctx, path)
}

// FSSource reads stencils from a filesystem rooted at the asset directory.
type FSSource struct {
	FS fs.FS
}

// Open opens path in the filesystem.
func (s FSSource) Open(_ context.Context, path string) (io.ReadCloser, error) {
	return s.FS.Open(path)
}

// Loader fetches and decodes stencils off the event loop.
type Loader struct {
	loop *event.Loop
	src  Source
	ctx  context.Context
}

// NewLoader creates a loader whose completions run on loop.
func NewLoader(ctx context.Context, loop *event.Loop, src Source) *Loader {
	return &Loader{loop: loop, src: src, ctx: ctx}
}

// Load starts loading name and calls done on the loop when it settles.
func (l *Loader) Load(name string, done func(Stencil, error)) {
	name = NormalizeName(name)
	event.Go(l.loop, func() (Stencil, error) {
		img, err := l.fetch(name)
		return Stencil{Name: name, Image: img}, err
	}, done)
}

func (l *Loader) fetch(name string) (image.Image, error) {
	rc, err := l.src.Open(l.ctx, Path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, cserrors.Wrap(cserrors.ErrCodeStencilNotFound, err, "stencil %q", name)
		}
		return nil, err
	}
	defer rc.Close()
	return Decode(rc)
}

// Decode decodes a stencil image.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, cserrors.Wrap(cserrors.ErrCodeInvalidInput, err, "decode stencil")
	}
	return img, nil
}
