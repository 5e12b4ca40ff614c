package rgb

import "fmt"

const (
	// Modulus bounds folded channels to [0, Modulus-1].
	Modulus = 255

	DefaultChannel = 127
)

// Baseline is the replay seed before any command is applied.
var Baseline = Color{R: DefaultChannel, G: DefaultChannel, B: DefaultChannel}

// Color is one aggregate RGB value.
type Color struct {
	R int32 `json:"r"`
	G int32 `json:"g"`
	B int32 `json:"b"`
}

// Shift adds a signed delta to each channel and folds the result mod 255.
func (c Color) Shift(dr, dg, db int32) Color {
	return Color{
		R: fold(c.R + dr),
		G: fold(c.G + dg),
		B: fold(c.B + db),
	}
}

func (c Color) String() string {
	return fmt.Sprintf("R: %d, G: %d, B: %d", c.R, c.G, c.B)
}

func fold(v int32) int32 {
	v %= Modulus
	if v < 0 {
		v += Modulus
	}
	return v
}
