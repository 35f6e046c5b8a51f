// Package script replays coloring sessions written as TOML.
//
//	viewport = 400
//
//	[[step]]
//	stencil = "apple"
//
//	[[step]]
//	color = "purple"
//	size = 14
//
//	[[step]]
//	stroke = [[120, 80], [130, 90], [140, 95]]
//
//	[[step]]
//	action = "save"
//
// A step sets tools (color, eraser, size) and then performs at most one of
// stencil, stroke, touch, resize or action. Every step settles before the
// next starts, so replays are deterministic despite asynchronous decodes.
package script

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	cserrors "github.com/matzehuels/colorsplash/pkg/errors"
	"github.com/matzehuels/colorsplash/pkg/studio"
)

// Script is a parsed paint script.
type Script struct {
	Viewport float64 `toml:"viewport"`
	Steps    []Step  `toml:"step"`
}

// Step is one entry of a script.
type Step struct {
	Color   string      `toml:"color"`
	Eraser  bool        `toml:"eraser"`
	Size    any         `toml:"size"`
	Stencil string      `toml:"stencil"`
	Stroke  [][]float64 `toml:"stroke"`
	Touch   [][]float64 `toml:"touch"`
	Origin  []float64   `toml:"origin"`
	Resize  float64     `toml:"resize"`
	Action  string      `toml:"action"`
}

// Load reads and parses a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cserrors.Wrap(cserrors.ErrCodeInvalidScript, err, "read script")
	}
	return Parse(data)
}

// Parse decodes and validates a script.
func Parse(data []byte) (*Script, error) {
	var s Script
	md, err := toml.Decode(string(data), &s)
	if err != nil {
		return nil, cserrors.Wrap(cserrors.ErrCodeInvalidScript, err, "parse script")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, cserrors.New(cserrors.ErrCodeInvalidScript, "unknown key %q", undecoded[0].String())
	}
	for i := range s.Steps {
		if _, err := s.Steps[i].Events(); err != nil {
			return nil, cserrors.Wrap(cserrors.ErrCodeInvalidScript, err, "step %d", i+1)
		}
	}
	return &s, nil
}

// Events translates the step into studio events.
func (st Step) Events() ([]studio.Event, error) {
	var evs []studio.Event
	if st.Color != "" && st.Eraser {
		return nil, fmt.Errorf("color and eraser are exclusive")
	}
	if st.Color != "" {
		evs = append(evs, studio.PickColor{Name: st.Color})
	}
	if st.Eraser {
		evs = append(evs, studio.PickEraser{})
	}
	if st.Size != nil {
		v, err := sizeValue(st.Size)
		if err != nil {
			return nil, err
		}
		evs = append(evs, studio.SetBrushSize{Value: v})
	}

	actions := 0
	if st.Stencil != "" {
		actions++
		evs = append(evs, studio.PickStencil{Name: st.Stencil})
	}
	if len(st.Stroke) > 0 {
		actions++
		pts, err := points(st.Stroke)
		if err != nil {
			return nil, err
		}
		evs = append(evs, studio.PointerDown{X: pts[0][0], Y: pts[0][1]})
		for _, p := range pts {
			evs = append(evs, studio.PointerMove{X: p[0], Y: p[1]})
		}
		evs = append(evs, studio.PointerUp{})
	}
	if len(st.Touch) > 0 {
		actions++
		pts, err := points(st.Touch)
		if err != nil {
			return nil, err
		}
		var ox, oy float64
		if st.Origin != nil {
			if len(st.Origin) != 2 {
				return nil, fmt.Errorf("origin must be [x, y]")
			}
			ox, oy = st.Origin[0], st.Origin[1]
		}
		evs = append(evs, studio.TouchStart{ClientX: pts[0][0], ClientY: pts[0][1], OriginX: ox, OriginY: oy})
		for _, p := range pts {
			evs = append(evs, studio.TouchMove{ClientX: p[0], ClientY: p[1], OriginX: ox, OriginY: oy})
		}
		evs = append(evs, studio.TouchEnd{})
	}
	if st.Resize != 0 {
		actions++
		evs = append(evs, studio.Resize{ViewportWidth: st.Resize})
	}
	if st.Action != "" {
		actions++
		ev, err := action(st.Action)
		if err != nil {
			return nil, err
		}
		evs = append(evs, ev)
	}

	if actions > 1 {
		return nil, fmt.Errorf("a step performs at most one action")
	}
	if len(evs) == 0 {
		return nil, fmt.Errorf("empty step")
	}
	return evs, nil
}

func action(name string) (studio.Event, error) {
	switch name {
	case "clear":
		return studio.ClearCanvas{}, nil
	case "undo":
		return studio.Undo{}, nil
	case "redo":
		return studio.Redo{}, nil
	case "save":
		return studio.Save{}, nil
	default:
		return nil, fmt.Errorf("unknown action %q", name)
	}
}

// sizeValue renders the size as the raw text a brush-size control would
// hold. Strings are passed through unparsed.
func sizeValue(v any) (string, error) {
	switch v := v.(type) {
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("size must be a number or string, got %T", v)
	}
}

func points(raw [][]float64) ([][2]float64, error) {
	out := make([][2]float64, len(raw))
	for i, p := range raw {
		if len(p) != 2 {
			return nil, fmt.Errorf("point %d must be [x, y]", i+1)
		}
		out[i] = [2]float64{p[0], p[1]}
	}
	return out, nil
}

// Run replays the script on st. st's loop must be running. Replay stops at
// the first event whose outcome carries an error.
func (s *Script) Run(st *studio.Studio) error {
	for i, step := range s.Steps {
		evs, err := step.Events()
		if err != nil {
			return cserrors.Wrap(cserrors.ErrCodeInvalidScript, err, "step %d", i+1)
		}
		for _, ev := range evs {
			if out := st.Dispatch(ev); out.Err != nil {
				return fmt.Errorf("step %d: %w", i+1, out.Err)
			}
		}
		st.Settle()
	}
	return nil
}
