// Package canvas implements the drawing surface and the tool state that
// strokes read from.
//
// A [Surface] is a square raster backed by a fogleman/gg context. Strokes are
// built from filled discs stamped by [Surface.StampAt]; erasing is stamping
// with the [Eraser] sentinel, which paints the white background color.
//
// Surfaces are not safe for concurrent use. In colorsplash they are owned by
// a studio and only touched from its event loop.
package canvas
