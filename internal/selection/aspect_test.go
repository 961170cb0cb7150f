package selection

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRatio(t *testing.T) {
	tests := []struct {
		in   string
		w, h float64
		ok   bool
	}{
		{"16:9", 16, 9, true},
		{"1:1", 1, 1, true},
		{"2.35:1", 2.35, 1, true},
		{" 4 : 3 ", 4, 3, true},
		{"", 0, 0, false},
		{"16", 0, 0, false},
		{"16:9:4", 0, 0, false},
		{"a:b", 0, 0, false},
		{"16:0", 0, 0, false},
		{"0:9", 0, 0, false},
		{"-16:9", 0, 0, false},
		{"16:-9", 0, 0, false},
	}
	for _, tt := range tests {
		w, h, ok := ParseRatio(tt.in)
		require.Equal(t, tt.ok, ok, "input %q", tt.in)
		if tt.ok {
			require.Equal(t, tt.w, w, "input %q", tt.in)
			require.Equal(t, tt.h, h, "input %q", tt.in)
		}
	}
}

func TestAspectLockRatio(t *testing.T) {
	_, ok := AspectLock{}.Ratio()
	require.False(t, ok)

	_, ok = AspectLock{Enabled: true}.Ratio()
	require.False(t, ok)

	r, ok := AspectLock{Enabled: true, W: 16, H: 9}.Ratio()
	require.True(t, ok)
	require.InDelta(t, 16.0/9.0, r, 1e-9)
}

func TestBreaksRatio(t *testing.T) {
	lock := AspectLock{Enabled: true, W: 16, H: 9}

	require.False(t, lock.BreaksRatio(1600, 900))
	require.False(t, lock.BreaksRatio(1605, 900)) // within 1%
	require.True(t, lock.BreaksRatio(1700, 900))
	require.True(t, lock.BreaksRatio(900, 1600))

	// a disabled lock can never break
	require.False(t, AspectLock{W: 16, H: 9}.BreaksRatio(100, 100))
}
