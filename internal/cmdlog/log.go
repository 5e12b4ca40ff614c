package cmdlog

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/danmuck/rgbctl/internal/protocol"
	"github.com/danmuck/rgbctl/internal/rgb"
)

var ErrUnknownSequence = errors.New("cmdlog: unknown sequence")

// Entry is one logged command with its arrival sequence and selection flag.
type Entry struct {
	Seq uint64 `json:"seq"`
	protocol.Command
	Selected bool `json:"selected"`
}

type ChangeKind uint8

const (
	ChangeAppended ChangeKind = iota + 1
	ChangeToggled
)

// Change describes one log mutation and the aggregate it produced.
type Change struct {
	Kind  ChangeKind
	Entry Entry
	Color rgb.Color
}

// Notify is called with each mutation while the log lock is still held, so
// notifications are observed in exactly mutation order. It must not block or
// call back into the log.
type Notify func(Change)

// Log is the ordered, append-only command store.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	nextSeq uint64
	color   rgb.Color
}

func New() *Log {
	return &Log{
		entries: make([]Entry, 0, 64),
		nextSeq: 1,
		color:   rgb.Baseline,
	}
}

// Append logs a newly arrived command and returns the stored entry with the
// recomputed aggregate. An absolute command deselects every prior entry, so it
// arrives as the sole selected entry.
func (l *Log) Append(cmd protocol.Command, notify ...Notify) (Entry, rgb.Color) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cmd.IsAbsolute() {
		for i := range l.entries {
			l.entries[i].Selected = false
		}
	}
	entry := Entry{Seq: l.nextSeq, Command: cmd, Selected: true}
	l.nextSeq++
	l.entries = append(l.entries, entry)
	l.color = Replay(l.entries)
	dispatch(notify, Change{Kind: ChangeAppended, Entry: entry, Color: l.color})
	return entry, l.color
}

// Toggle flips the selection of exactly one entry.
func (l *Log) Toggle(seq uint64, notify ...Notify) (Entry, rgb.Color, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.index(seq)
	if !ok {
		return Entry{}, l.color, fmt.Errorf("%w: %d", ErrUnknownSequence, seq)
	}
	l.entries[i].Selected = !l.entries[i].Selected
	entry := l.entries[i]
	l.color = Replay(l.entries)
	dispatch(notify, Change{Kind: ChangeToggled, Entry: entry, Color: l.color})
	return entry, l.color, nil
}

// Color returns the aggregate as of the last mutation.
func (l *Log) Color() rgb.Color {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color
}

func (l *Log) Get(seq uint64) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i, ok := l.index(seq)
	if !ok {
		return Entry{}, false
	}
	return l.entries[i], true
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Entries returns a copy of the log in ascending sequence order.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Snapshot returns entries and aggregate from the same instant.
func (l *Log) Snapshot() ([]Entry, rgb.Color) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out, l.color
}

// entries are stored in ascending Seq order
func (l *Log) index(seq uint64) (int, bool) {
	i := sort.Search(len(l.entries), func(i int) bool {
		return l.entries[i].Seq >= seq
	})
	if i < len(l.entries) && l.entries[i].Seq == seq {
		return i, true
	}
	return 0, false
}

func dispatch(notify []Notify, c Change) {
	for _, fn := range notify {
		if fn != nil {
			fn(c)
		}
	}
}
