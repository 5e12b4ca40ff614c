package rgb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShiftWrapsMod255(t *testing.T) {
	cases := []struct {
		name  string
		start int32
		delta int32
		want  int32
	}{
		{name: "plain", start: 100, delta: 10, want: 110},
		{name: "negative wraps up", start: 2, delta: -5, want: 252},
		{name: "upper bound folds to zero", start: 250, delta: 5, want: 0},
		{name: "large negative", start: 127, delta: -255, want: 127},
		{name: "large positive", start: 0, delta: 600, want: 90},
		{name: "absolute 255 folds", start: 255, delta: 0, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Color{R: tc.start, G: tc.start, B: tc.start}.Shift(tc.delta, tc.delta, tc.delta)
			require.Equal(t, Color{R: tc.want, G: tc.want, B: tc.want}, got)
		})
	}
}

func TestShiftChannelsIndependent(t *testing.T) {
	got := Baseline.Shift(1, -128, 200)
	require.Equal(t, Color{R: 128, G: 254, B: 72}, got)
}

func TestColorString(t *testing.T) {
	require.Equal(t, "R: 127, G: 127, B: 127", Baseline.String())
}
