// Copyright (c) 2025 CommonGround Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package compass

import "math"

// AxisShift is the movement of a single axis between two compass states.
type AxisShift struct {
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Delta float64 `json:"delta"`
}

// Diff summarizes the movement between two compass dimension sets.
type Diff struct {
	Axes         map[Axis]AxisShift `json:"axes"`
	TotalShift   float64            `json:"total_shift"`
	BiggestShift Axis               `json:"biggest_shift"`
	Changelog    string             `json:"changelog"`
}

// DiffVectors computes per-axis from/to/delta across all eight axes, the total
// shift magnitude (sum of absolute deltas, rounded to 3 decimals), and the
// axis with the largest absolute delta. Ties on the largest delta go to the
// axis that comes first in the canonical order.
func DiffVectors(old, updated map[Axis]float64) Diff {
	shifts := make(map[Axis]AxisShift, len(Axes))
	total := 0.0
	biggest := Axes[0]
	biggestAbs := -1.0

	for _, axis := range Axes {
		delta := updated[axis] - old[axis]
		shifts[axis] = AxisShift{From: old[axis], To: updated[axis], Delta: delta}
		total += math.Abs(delta)
		if math.Abs(delta) > biggestAbs {
			biggest = axis
			biggestAbs = math.Abs(delta)
		}
	}

	return Diff{
		Axes:         shifts,
		TotalShift:   math.Round(total*1000) / 1000,
		BiggestShift: biggest,
		Changelog:    Changelog(old, updated),
	}
}
