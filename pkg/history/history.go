// Package history keeps linear undo/redo history as full-surface snapshots.
//
// A [Snapshot] is the PNG encoding of the whole surface. The [Manager] only
// does bookkeeping: it encodes and moves snapshots between its two stacks
// synchronously. Decoding a popped snapshot and repainting it is left to the
// caller, which does it asynchronously, so the visible surface may lag the
// stacks for a moment.
//
// Stack depth is unbounded unless [WithLimit] is given, so memory grows with
// the number of strokes. This is acceptable for a small, low-resolution
// canvas.
package history

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
)

// Snapshot is an immutable PNG-encoded copy of a surface.
type Snapshot []byte

// Decode decodes the snapshot into an image.
func (s Snapshot) Decode() (image.Image, error) {
	return imaging.Decode(bytes.NewReader(s))
}

// Encoder is anything that can encode its current pixels, typically a
// *canvas.Surface.
type Encoder interface {
	PNG() ([]byte, error)
}

// Option configures a Manager.
type Option func(*Manager)

// WithLimit caps each stack at n snapshots, dropping the oldest first.
// n <= 0 means unbounded.
func WithLimit(n int) Option {
	return func(m *Manager) { m.limit = n }
}

// Manager holds the undo and redo stacks. It is not safe for concurrent use.
type Manager struct {
	undo  []Snapshot
	redo  []Snapshot
	limit int
}

// New creates an empty history.
func New(opts ...Option) *Manager {
	m := &Manager{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Snapshot encodes src onto the undo stack and discards the redo stack.
func (m *Manager) Snapshot(src Encoder) error {
	data, err := src.PNG()
	if err != nil {
		return err
	}
	m.undo = m.push(m.undo, data)
	m.redo = nil
	return nil
}

// Undo moves the current state of src onto the redo stack and pops the most
// recent undo snapshot, which the caller must repaint. It reports false and
// changes nothing when there is nothing to undo.
func (m *Manager) Undo(src Encoder) (Snapshot, bool, error) {
	return m.swap(src, &m.undo, &m.redo)
}

// Redo is the mirror of Undo.
func (m *Manager) Redo(src Encoder) (Snapshot, bool, error) {
	return m.swap(src, &m.redo, &m.undo)
}

func (m *Manager) swap(src Encoder, from, to *[]Snapshot) (Snapshot, bool, error) {
	if len(*from) == 0 {
		return nil, false, nil
	}
	current, err := src.PNG()
	if err != nil {
		return nil, false, err
	}
	*to = m.push(*to, current)
	last := len(*from) - 1
	snap := (*from)[last]
	(*from)[last] = nil
	*from = (*from)[:last]
	return snap, true, nil
}

// Latest returns the most recent undo snapshot without popping it.
func (m *Manager) Latest() (Snapshot, bool) {
	if len(m.undo) == 0 {
		return nil, false
	}
	return m.undo[len(m.undo)-1], true
}

// UndoLen returns the undo stack depth.
func (m *Manager) UndoLen() int { return len(m.undo) }

// RedoLen returns the redo stack depth.
func (m *Manager) RedoLen() int { return len(m.redo) }

func (m *Manager) push(stack []Snapshot, s Snapshot) []Snapshot {
	stack = append(stack, s)
	if m.limit > 0 && len(stack) > m.limit {
		stack = append(stack[:0:0], stack[len(stack)-m.limit:]...)
	}
	return stack
}
