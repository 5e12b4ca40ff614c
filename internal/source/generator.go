package source

import (
	"math/rand"

	"github.com/danmuck/rgbctl/internal/protocol"
	"github.com/danmuck/rgbctl/internal/rgb"
)

// Generator produces a random command stream and tracks the color a client
// replaying every command should arrive at.
type Generator struct {
	rng             *rand.Rand
	absolutePercent int
	maxDelta        int
	state           rgb.Color
}

func NewGenerator(cfg Config, rng *rand.Rand) *Generator {
	cfg = cfg.WithDefaults()
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}
	return &Generator{
		rng:             rng,
		absolutePercent: cfg.AbsolutePercent,
		maxDelta:        cfg.MaxDelta,
		state:           rgb.Baseline,
	}
}

// Next returns the next command and the reference color after it.
func (g *Generator) Next() (protocol.Command, rgb.Color) {
	if g.rng.Intn(100) < g.absolutePercent {
		cmd := protocol.Absolute(g.channel(), g.channel(), g.channel())
		g.state = rgb.Color{R: cmd.R, G: cmd.G, B: cmd.B}
		return cmd, g.state
	}
	cmd := protocol.Relative(g.delta(), g.delta(), g.delta())
	g.state = g.state.Shift(cmd.R, cmd.G, cmd.B)
	return cmd, g.state
}

func (g *Generator) State() rgb.Color {
	return g.state
}

func (g *Generator) channel() uint8 {
	return uint8(g.rng.Intn(256))
}

func (g *Generator) delta() int32 {
	return int32(g.rng.Intn(2*g.maxDelta+1) - g.maxDelta)
}
