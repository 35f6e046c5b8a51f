package studio

// Event is an input delivered to a studio: a pointer or touch gesture on the
// surface, a control activation, or a viewport change.
type Event interface {
	isEvent()
}

// PointerDown presses a mouse button over the surface.
type PointerDown struct{ X, Y float64 }

// PointerMove moves the mouse to surface coordinates (X, Y).
type PointerMove struct{ X, Y float64 }

// PointerUp releases the mouse button.
type PointerUp struct{}

// TouchStart begins a touch. Client coordinates are viewport-relative;
// Origin is the top-left corner of the surface in the same space.
type TouchStart struct{ ClientX, ClientY, OriginX, OriginY float64 }

// TouchMove moves the first touch point.
type TouchMove struct{ ClientX, ClientY, OriginX, OriginY float64 }

// TouchEnd lifts the touch.
type TouchEnd struct{}

// PickColor selects a palette color by name.
type PickColor struct{ Name string }

// PickEraser selects the eraser.
type PickEraser struct{}

// SetBrushSize sets the brush radius from raw input text.
type SetBrushSize struct{ Value string }

// PickStencil starts loading a stencil. Name may carry a ".png" suffix.
type PickStencil struct{ Name string }

// ClearCanvas blanks the surface back to the current stencil.
type ClearCanvas struct{}

// Undo reverts the most recent snapshot.
type Undo struct{}

// Redo reapplies the most recently undone snapshot.
type Redo struct{}

// Save exports the surface.
type Save struct{}

// Resize recomputes the surface size for a new viewport width.
type Resize struct{ ViewportWidth float64 }

func (PointerDown) isEvent()  {}
func (PointerMove) isEvent()  {}
func (PointerUp) isEvent()    {}
func (TouchStart) isEvent()   {}
func (TouchMove) isEvent()    {}
func (TouchEnd) isEvent()     {}
func (PickColor) isEvent()    {}
func (PickEraser) isEvent()   {}
func (SetBrushSize) isEvent() {}
func (PickStencil) isEvent()  {}
func (ClearCanvas) isEvent()  {}
func (Undo) isEvent()         {}
func (Redo) isEvent()         {}
func (Save) isEvent()         {}
func (Resize) isEvent()       {}

// Outcome reports how the host should treat the event that produced it.
type Outcome struct {
	// PreventDefault asks the host to suppress native scrolling and zooming.
	PreventDefault bool
	// Err is set when the event was rejected or its action failed.
	Err error
}
