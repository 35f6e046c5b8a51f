package canvas

import (
	"bytes"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// Default sizing, matching a phone-first layout: the surface takes 90% of
// the viewport width, capped at 500px.
const (
	DefaultMaxSize  = 500
	DefaultFraction = 0.9
)

// SquareSize returns the side of the square surface for a viewport width.
// The result is truncated to whole pixels and is at least 1.
func SquareSize(viewportWidth float64, maxSize int, fraction float64) int {
	size := int(math.Min(viewportWidth*fraction, float64(maxSize)))
	return max(size, 1)
}

// Surface is a raster drawing area filled with Background when blank.
type Surface struct {
	dc *gg.Context
}

// NewSurface creates a blank surface of the given dimensions.
func NewSurface(width, height int) *Surface {
	s := &Surface{}
	s.Resize(width, height)
	return s
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.dc.Width() }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.dc.Height() }

// Bounds returns the surface rectangle.
func (s *Surface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.Width(), s.Height())
}

// StampAt draws a filled disc of the given radius centered at (x, y).
// A non-positive or NaN radius draws nothing.
func (s *Surface) StampAt(x, y float64, c Color, radius float64) {
	if !(radius > 0) {
		return
	}
	s.dc.SetColor(c.RGBA)
	s.dc.DrawCircle(x, y, radius)
	s.dc.Fill()
}

// Clear blanks the surface to Background and, when stencil is non-nil,
// redraws it scaled to the surface.
func (s *Surface) Clear(stencil image.Image) {
	s.dc.SetColor(Background)
	s.dc.Clear()
	if stencil != nil {
		s.Paint(stencil)
	}
}

// Resize replaces the raster with a blank one of the new dimensions.
// Repainting previous content is the caller's job.
func (s *Surface) Resize(width, height int) {
	s.dc = gg.NewContext(max(width, 1), max(height, 1))
	s.dc.SetColor(Background)
	s.dc.Clear()
}

// Paint draws img over the surface, scaled to the surface dimensions.
// Same-size images are drawn 1:1.
func (s *Surface) Paint(img image.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	if b.Dx() != s.Width() || b.Dy() != s.Height() {
		img = imaging.Resize(img, s.Width(), s.Height(), imaging.Linear)
	} else if b.Min != (image.Point{}) {
		img = imaging.Clone(img)
	}
	s.dc.DrawImage(img, 0, 0)
}

// At returns the pixel at (x, y).
func (s *Surface) At(x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(s.dc.Image().At(x, y)).(color.NRGBA)
}

// Image returns a copy of the surface pixels.
func (s *Surface) Image() *image.NRGBA {
	return imaging.Clone(s.dc.Image())
}

// Encode writes the surface as PNG.
func (s *Surface) Encode(w io.Writer) error {
	return s.dc.EncodePNG(w)
}

// PNG returns the surface encoded as PNG.
func (s *Surface) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
