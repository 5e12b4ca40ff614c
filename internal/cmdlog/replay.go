package cmdlog

import (
	"sort"

	"github.com/danmuck/rgbctl/internal/rgb"
)

// Replay folds the selected entries, oldest first, starting at rgb.Baseline.
// A selected absolute entry replaces the running color; a selected relative
// entry shifts it mod 255. Unselected entries contribute nothing.
func Replay(entries []Entry) rgb.Color {
	ordered := entries
	if !sort.SliceIsSorted(entries, func(i, j int) bool { return entries[i].Seq < entries[j].Seq }) {
		ordered = make([]Entry, len(entries))
		copy(ordered, entries)
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].Seq < ordered[j].Seq })
	}

	color := rgb.Baseline
	for _, e := range ordered {
		if !e.Selected {
			continue
		}
		if e.IsAbsolute() {
			color = rgb.Color{R: e.R, G: e.G, B: e.B}
			continue
		}
		color = color.Shift(e.R, e.G, e.B)
	}
	return color
}
