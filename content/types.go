package content

import (
	"fmt"
	"time"
)

// TokenTemplate describes one background glyph and its visual envelope
// Templates are immutable and shared by reference across active tokens
type TokenTemplate struct {
	Text       string
	OpacityMin float64
	OpacityMax float64
	Weight     float64 // 0..1, maps to boldness
	Jitter     float64 // drift magnitude multiplier
	Speed      float64 // drift rate multiplier
}

// Corner is the anchor a quote is placed against
type Corner uint8

const (
	CornerTopLeft Corner = iota
	CornerTopRight
	CornerBottomLeft
	CornerBottomRight
	CornerCenter
)

var cornerNames = [...]string{"top-left", "top-right", "bottom-left", "bottom-right", "center"}

func (c Corner) String() string {
	if int(c) < len(cornerNames) {
		return cornerNames[c]
	}
	return fmt.Sprintf("corner(%d)", c)
}

func (c Corner) MarshalText() ([]byte, error) {
	if int(c) >= len(cornerNames) {
		return nil, fmt.Errorf("invalid corner %d", c)
	}
	return []byte(cornerNames[c]), nil
}

func (c *Corner) UnmarshalText(b []byte) error {
	for i, name := range cornerNames {
		if name == string(b) {
			*c = Corner(i)
			return nil
		}
	}
	return fmt.Errorf("unknown corner %q", b)
}

// QuoteStyle selects the reveal effect of a quote
type QuoteStyle uint8

const (
	StyleTyping QuoteStyle = iota
	StyleMatrix
	StyleGlitch
)

var styleNames = [...]string{"typing", "matrix", "glitch"}

func (s QuoteStyle) String() string {
	if int(s) < len(styleNames) {
		return styleNames[s]
	}
	return fmt.Sprintf("style(%d)", s)
}

func (s QuoteStyle) MarshalText() ([]byte, error) {
	if int(s) >= len(styleNames) {
		return nil, fmt.Errorf("invalid quote style %d", s)
	}
	return []byte(styleNames[s]), nil
}

func (s *QuoteStyle) UnmarshalText(b []byte) error {
	for i, name := range styleNames {
		if name == string(b) {
			*s = QuoteStyle(i)
			return nil
		}
	}
	return fmt.Errorf("unknown quote style %q", b)
}

// QuoteTemplate is a narrative line with its placement and timing
type QuoteTemplate struct {
	Text     string
	Corner   Corner
	Style    QuoteStyle
	Priority int
	PreDelay time.Duration
	Hold     time.Duration
	Out      time.Duration
	Cooldown time.Duration
}
