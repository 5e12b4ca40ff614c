package protocol

import "fmt"

const (
	// DefaultPort is the well-known port of a color-command source.
	DefaultPort = 1234

	OpRelative byte = 1
	OpAbsolute byte = 2

	absolutePayloadLen = 3
	relativePayloadLen = 6
)

// Kind distinguishes commands that set the color from commands that shift it.
type Kind uint8

const (
	KindRelative Kind = iota
	KindAbsolute
)

func (k Kind) String() string {
	switch k {
	case KindAbsolute:
		return "absolute"
	case KindRelative:
		return "relative"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Command is one decoded wire message.
//
// Absolute channels are in [0,255]. Relative channels carry whatever the
// signed (hi<<8)|lo combination yields and may be negative.
type Command struct {
	Kind Kind  `json:"kind"`
	R    int32 `json:"r"`
	G    int32 `json:"g"`
	B    int32 `json:"b"`
}

func Absolute(r, g, b uint8) Command {
	return Command{Kind: KindAbsolute, R: int32(r), G: int32(g), B: int32(b)}
}

func Relative(dr, dg, db int32) Command {
	return Command{Kind: KindRelative, R: dr, G: dg, B: db}
}

func (c Command) IsAbsolute() bool {
	return c.Kind == KindAbsolute
}

func (c Command) String() string {
	label := "Relative"
	if c.IsAbsolute() {
		label = "Absolute"
	}
	return fmt.Sprintf("%s [ R: %d, G: %d, B: %d ]", label, c.R, c.G, c.B)
}
