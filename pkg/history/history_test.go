package history

import (
	"errors"
	"testing"

	"github.com/matzehuels/colorsplash/pkg/canvas"
)

// frames is an Encoder returning a scripted sequence of encodings.
type frames struct {
	next int
	err  error
}

func (f *frames) PNG() ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.next++
	return []byte{byte(f.next)}, nil
}

func TestSnapshotClearsRedo(t *testing.T) {
	m := New()
	src := &frames{}

	if err := m.Snapshot(src); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := m.Undo(src); !ok {
		t.Fatal("Undo should succeed with one snapshot")
	}
	if m.RedoLen() != 1 {
		t.Fatalf("RedoLen = %d, want 1", m.RedoLen())
	}

	if err := m.Snapshot(src); err != nil {
		t.Fatal(err)
	}
	if m.RedoLen() != 0 {
		t.Errorf("RedoLen after new snapshot = %d, want 0", m.RedoLen())
	}
	if _, ok, _ := m.Redo(src); ok {
		t.Error("Redo should be a no-op after a new snapshot")
	}
}

func TestUndoRedoEmptyIsNoop(t *testing.T) {
	m := New()
	src := &frames{}

	if _, ok, err := m.Undo(src); ok || err != nil {
		t.Errorf("Undo on empty = %v, %v", ok, err)
	}
	if _, ok, err := m.Redo(src); ok || err != nil {
		t.Errorf("Redo on empty = %v, %v", ok, err)
	}
	if src.next != 0 {
		t.Error("no-op undo/redo must not encode the surface")
	}
}

func TestUndoRedoMoveSnapshots(t *testing.T) {
	m := New()
	src := &frames{}

	_ = m.Snapshot(src) // encodes 1
	snap, ok, err := m.Undo(src)
	if !ok || err != nil {
		t.Fatalf("Undo = %v, %v", ok, err)
	}
	if snap[0] != 1 {
		t.Errorf("Undo returned %v, want the pushed snapshot", snap)
	}
	if m.UndoLen() != 0 || m.RedoLen() != 1 {
		t.Fatalf("stacks = %d/%d, want 0/1", m.UndoLen(), m.RedoLen())
	}

	snap, ok, err = m.Redo(src)
	if !ok || err != nil {
		t.Fatalf("Redo = %v, %v", ok, err)
	}
	if snap[0] != 2 {
		t.Errorf("Redo returned %v, want the state captured at undo time", snap)
	}
	if m.UndoLen() != 1 || m.RedoLen() != 0 {
		t.Errorf("stacks = %d/%d, want 1/0", m.UndoLen(), m.RedoLen())
	}
}

func TestEncodeErrorLeavesStacks(t *testing.T) {
	m := New()
	_ = m.Snapshot(&frames{})

	boom := errors.New("boom")
	if _, ok, err := m.Undo(&frames{err: boom}); ok || !errors.Is(err, boom) {
		t.Errorf("Undo = %v, %v; want boom", ok, err)
	}
	if m.UndoLen() != 1 || m.RedoLen() != 0 {
		t.Errorf("stacks changed on error: %d/%d", m.UndoLen(), m.RedoLen())
	}
}

func TestWithLimit(t *testing.T) {
	m := New(WithLimit(2))
	src := &frames{}
	for i := 0; i < 5; i++ {
		_ = m.Snapshot(src)
	}
	if m.UndoLen() != 2 {
		t.Fatalf("UndoLen = %d, want 2", m.UndoLen())
	}
	latest, _ := m.Latest()
	if latest[0] != 5 {
		t.Errorf("Latest = %v, want newest snapshot", latest)
	}
}

func TestUnboundedByDefault(t *testing.T) {
	m := New()
	src := &frames{}
	for i := 0; i < 300; i++ {
		_ = m.Snapshot(src)
	}
	if m.UndoLen() != 300 {
		t.Errorf("UndoLen = %d, want 300", m.UndoLen())
	}
}

func TestSurfaceRoundTrip(t *testing.T) {
	s := canvas.NewSurface(30, 30)
	before := s.Image()

	m := New()
	const strokes = 4
	for i := 0; i < strokes; i++ {
		if err := m.Snapshot(s); err != nil {
			t.Fatal(err)
		}
		s.StampAt(float64(5+5*i), 15, canvas.Green, 3)
	}
	for i := 0; i < strokes; i++ {
		snap, ok, err := m.Undo(s)
		if !ok || err != nil {
			t.Fatalf("Undo %d = %v, %v", i, ok, err)
		}
		img, err := snap.Decode()
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		s.Paint(img)
	}

	after := s.Image()
	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			if before.NRGBAAt(x, y) != after.NRGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, after.NRGBAAt(x, y), before.NRGBAAt(x, y))
			}
		}
	}
	if got := s.At(15, 15); got != canvas.Background {
		t.Errorf("center = %v, want background", got)
	}
}
