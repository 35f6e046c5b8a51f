package canvas

import (
	"strconv"
	"strings"
	"unicode"
)

// DefaultRadius is the brush radius before any size change.
const DefaultRadius = 10

// Tools is the current tool state read by every stamp.
type Tools struct {
	Color  Color
	Radius float64
}

// DefaultTools returns red with the default radius.
func DefaultTools() Tools {
	return Tools{Color: Red, Radius: DefaultRadius}
}

// ParseRadius reads the leading integer of s the way a brush-size input is
// read: surrounding junk after the digits is ignored, and input with no
// leading digits yields 0, which stamps nothing. No range check is applied.
func ParseRadius(s string) float64 {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return float64(n)
}
