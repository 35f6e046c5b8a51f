package server

import (
	"fmt"

	"github.com/matzehuels/colorsplash/pkg/studio"
)

// inbound is a client message on the session socket.
type inbound struct {
	Seq           int     `json:"seq"`
	Type          string  `json:"type"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	ClientX       float64 `json:"client_x"`
	ClientY       float64 `json:"client_y"`
	OriginX       float64 `json:"origin_x"`
	OriginY       float64 `json:"origin_y"`
	Name          string  `json:"name"`
	Value         string  `json:"value"`
	ViewportWidth float64 `json:"viewport_width"`
}

func (m inbound) event() (studio.Event, error) {
	switch m.Type {
	case "pointerdown":
		return studio.PointerDown{X: m.X, Y: m.Y}, nil
	case "pointermove":
		return studio.PointerMove{X: m.X, Y: m.Y}, nil
	case "pointerup":
		return studio.PointerUp{}, nil
	case "touchstart":
		return studio.TouchStart{ClientX: m.ClientX, ClientY: m.ClientY, OriginX: m.OriginX, OriginY: m.OriginY}, nil
	case "touchmove":
		return studio.TouchMove{ClientX: m.ClientX, ClientY: m.ClientY, OriginX: m.OriginX, OriginY: m.OriginY}, nil
	case "touchend":
		return studio.TouchEnd{}, nil
	case "color":
		return studio.PickColor{Name: m.Name}, nil
	case "eraser":
		return studio.PickEraser{}, nil
	case "size":
		return studio.SetBrushSize{Value: m.Value}, nil
	case "stencil":
		return studio.PickStencil{Name: m.Name}, nil
	case "clear":
		return studio.ClearCanvas{}, nil
	case "undo":
		return studio.Undo{}, nil
	case "redo":
		return studio.Redo{}, nil
	case "save":
		return studio.Save{}, nil
	case "resize":
		return studio.Resize{ViewportWidth: m.ViewportWidth}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", m.Type)
	}
}

// outcome answers one inbound message.
type outcome struct {
	Type           string     `json:"type"`
	Seq            int        `json:"seq"`
	PreventDefault bool       `json:"prevent_default,omitempty"`
	Error          *wireError `json:"error,omitempty"`
}

type wireError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
