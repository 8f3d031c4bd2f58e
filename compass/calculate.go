// Copyright (c) 2025 CommonGround Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package compass

import "math"

// Response pairs a proposition's weight vector with the answer a user gave.
type Response struct {
	Weights WeightVector
	Value   float64
}

// Vector is a computed compass: per-axis scores clamped to [-1, 1] plus the
// number of responses that contributed to each axis. A score of 0 with
// confidence 0 means "no evidence on this axis", which callers must
// distinguish from a genuine centrist 0 via the confidence map.
type Vector struct {
	Dimensions map[Axis]float64 `json:"dimensions"`
	Confidence map[Axis]int     `json:"confidence"`
}

// Calculate reduces a user's responses to a per-axis compass score.
//
// For each axis it accumulates value*weight over every response loading on
// that axis and divides by the total absolute weight mass, floored at 1. The
// floor keeps weight magnitudes meaningful when evidence is thin: a single
// answer on a 0.9-loaded question lands near the full answer value while a
// 0.3-loaded one stays proportionally muted, instead of both normalizing to
// the same score. Final scores are clamped to [-1, 1]. Axes with no weight
// mass score exactly 0 with confidence 0; an empty input yields an all-zero
// vector.
func Calculate(responses []Response) Vector {
	totals := make(map[Axis]float64, len(Axes))
	mass := make(map[Axis]float64, len(Axes))
	counts := make(map[Axis]int, len(Axes))

	for _, r := range responses {
		for axis, w := range r.Weights {
			if w == 0 {
				continue
			}
			totals[axis] += r.Value * w
			mass[axis] += math.Abs(w)
			counts[axis]++
		}
	}

	dimensions := make(map[Axis]float64, len(Axes))
	confidence := make(map[Axis]int, len(Axes))
	for _, axis := range Axes {
		if mass[axis] > 0 {
			dimensions[axis] = clamp(totals[axis]/math.Max(1, mass[axis]), -1, 1)
		} else {
			dimensions[axis] = 0
		}
		confidence[axis] = counts[axis]
	}

	return Vector{Dimensions: dimensions, Confidence: confidence}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
