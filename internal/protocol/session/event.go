package session

import (
	"github.com/danmuck/rgbctl/internal/cmdlog"
	"github.com/danmuck/rgbctl/internal/rgb"
)

type EventKind uint8

const (
	// EventCommand carries one appended entry and the color after it.
	EventCommand EventKind = iota + 1
	// EventColor carries a color recomputed by a selection toggle.
	EventColor
	// EventDisconnected is terminal for the session that pushed it.
	EventDisconnected
)

func (k EventKind) String() string {
	switch k {
	case EventCommand:
		return "command"
	case EventColor:
		return "color"
	case EventDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

type Event struct {
	Kind  EventKind
	Entry cmdlog.Entry
	Color rgb.Color
	// Err is the terminal cause on EventDisconnected.
	Err error
}

// Sink accepts events from the reader. Push must not block.
type Sink interface {
	Push(ev Event)
}

// Observer is the display collaborator.
//
// OnCommand receives every appended entry in arrival order, and nil exactly
// once when the session disconnects. OnColorChanged follows every recompute.
type Observer interface {
	OnCommand(entry *cmdlog.Entry)
	OnColorChanged(color rgb.Color)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Command func(entry *cmdlog.Entry)
	Color   func(color rgb.Color)
}

func (f ObserverFuncs) OnCommand(entry *cmdlog.Entry) {
	if f.Command != nil {
		f.Command(entry)
	}
}

func (f ObserverFuncs) OnColorChanged(color rgb.Color) {
	if f.Color != nil {
		f.Color(color)
	}
}
