package canvas

import "testing"

func TestParseRadius(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"10", 10},
		{"  25", 25},
		{"12.7", 12},
		{"7px", 7},
		{"-4", -4},
		{"", 0},
		{"abc", 0},
		{"+", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseRadius(tt.in); got != tt.want {
				t.Errorf("ParseRadius(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLookupColor(t *testing.T) {
	for _, c := range Palette() {
		got, ok := LookupColor(c.Name)
		if !ok || got != c {
			t.Errorf("LookupColor(%q) = %v, %v", c.Name, got, ok)
		}
	}
	if c, ok := LookupColor("White"); !ok || !c.IsEraser() {
		t.Errorf("LookupColor(White) = %v, %v; want eraser", c, ok)
	}
	if _, ok := LookupColor("magenta"); ok {
		t.Error("LookupColor(magenta) should fail")
	}
}

func TestPaletteIsCopy(t *testing.T) {
	p := Palette()
	p[0] = Eraser
	if Palette()[0] != Red {
		t.Error("Palette must return a copy")
	}
}

func TestDefaultTools(t *testing.T) {
	tools := DefaultTools()
	if tools.Color != Red || tools.Radius != DefaultRadius {
		t.Errorf("DefaultTools = %+v", tools)
	}
}
