// Package difficulty tracks a per-operation difficulty score and maps it onto
// operand ranges.
package difficulty

import "math"

const (
	// MinScore is the easiest difficulty.
	MinScore = -3

	// MaxScore is the hardest difficulty.
	MaxScore = 3

	// rangeShare is the share of a base range a full-strength score shifts it by.
	rangeShare = 0.3
)

// Map holds the difficulty score of each selected operation, keyed by
// operation name. Keys are fixed when a session starts.
type Map map[string]int

// Clamp restricts score to [MinScore, MaxScore].
func Clamp(score int) int {
	return max(MinScore, min(MaxScore, score))
}

// Initialize returns a Map with every operation at score 0.
func Initialize(operations []string) Map {
	m := make(Map, len(operations))
	for _, op := range operations {
		m[op] = 0
	}
	return m
}

// Update returns a copy of m with op moved one step harder when correct and
// one step easier otherwise. Operations not already in m are left out.
func Update(m Map, op string, correct bool) Map {
	out := m.Clone()
	score, ok := out[op]
	if !ok {
		return out
	}
	if correct {
		out[op] = Clamp(score + 1)
	} else {
		out[op] = Clamp(score - 1)
	}
	return out
}

// Clone returns an independent copy of m. A nil map clones to an empty one.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Get returns the score for op, or 0 when op is not tracked.
func (m Map) Get(op string) int {
	return m[op]
}

// AdjustedRange shifts [baseMin, baseMax] by up to 30% of its width toward
// larger numbers for positive scores and smaller numbers for negative ones.
// Both ends are floored and the width is preserved.
func AdjustedRange(baseMin, baseMax, score int) (lo, hi int) {
	shift := (float64(score) / 3) * (float64(baseMax-baseMin) * rangeShare)
	lo = int(math.Floor(float64(baseMin) + shift))
	hi = int(math.Floor(float64(baseMax) + shift))
	return lo, hi
}

// AdjustedTableMax scales a times-table bound by score, staying within
// [1, 2*base].
func AdjustedTableMax(base, score int) int {
	shift := int(math.Floor((float64(score) / 3) * (float64(base) * rangeShare)))
	return max(1, min(base*2, base+shift))
}
