package selection

import (
	"strconv"
	"strings"
)

// RatioBreakTolerance is the allowed deviation between an externally edited
// box ratio and the locked ratio before the lock silently disables.
const RatioBreakTolerance = 0.01

// AspectLock constrains the selection's width:height to a fixed ratio.
type AspectLock struct {
	Enabled bool
	W       float64
	H       float64
}

// Ratio returns W/H and whether the lock is active with a usable ratio.
func (l AspectLock) Ratio() (float64, bool) {
	if !l.Enabled || l.W <= 0 || l.H <= 0 {
		return 0, false
	}
	return l.W / l.H, true
}

// ParseRatio parses a "W:H" string into two positive numbers. Malformed
// input (wrong shape, non-numeric, zero or negative parts) reports ok=false
// and is treated as no lock by callers.
func ParseRatio(s string) (w, h float64, ok bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, false
	}
	h, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, false
	}
	if w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

// BreaksRatio reports whether a box with the given dimensions deviates from
// the locked ratio by more than the tolerance. Callers use it to drop the
// lock after a manual coordinate edit instead of rejecting the edit.
func (l AspectLock) BreaksRatio(width, height float64) bool {
	ratio, ok := l.Ratio()
	if !ok || height == 0 {
		return false
	}
	diff := width/height - ratio
	if diff < 0 {
		diff = -diff
	}
	return diff > RatioBreakTolerance
}
