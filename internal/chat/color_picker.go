package chat

import (
	"math/rand"
	"sync"
	"time"
)

// ColorPicker represents a strategy for choosing a display color for new
// sessions.
type ColorPicker interface {
	Next() string
}

// DMColor is the fixed accent color carried by direct messages.
const DMColor = "#ff66cc"

var defaultColorPalette = []string{
	"#e74c3c", // Red
	"#2ecc71", // Green
	"#f1c40f", // Yellow
	"#3498db", // Blue
	"#9b59b6", // Purple
	"#1abc9c", // Teal
}

// NewRandomColorPicker draws uniformly from the palette, with replacement;
// two sessions may end up with the same color. An empty palette falls back
// to the default one.
func NewRandomColorPicker(palette []string) ColorPicker {
	if len(palette) == 0 {
		palette = defaultColorPalette
	}
	return &randomColorPicker{
		palette: append([]string(nil), palette...),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

type randomColorPicker struct {
	mu      sync.Mutex
	palette []string
	rng     *rand.Rand
}

func (p *randomColorPicker) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.palette[p.rng.Intn(len(p.palette))]
}
