// Copyright (c) 2025 CommonGround Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package compass

import (
	"fmt"
	"math"
	"strings"
)

// Sentinel changelog strings. ChangelogInitial marks a user's first snapshot;
// ChangelogNoChange means no axis moved past the materiality threshold.
const (
	ChangelogInitial  = "Initial snapshot"
	ChangelogNoChange = "No significant change"
)

// Shifts smaller than this are noise, not a changelog entry.
const materialityThreshold = 0.01

// Changelog renders a human-readable summary of per-axis movement between two
// dimension sets, e.g. "Economy ↑ 0.25, Justice ↓ 0.10". A nil old map means
// there is no prior snapshot to compare against.
func Changelog(old, updated map[Axis]float64) string {
	if old == nil {
		return ChangelogInitial
	}

	var parts []string
	for _, axis := range Axes {
		delta := updated[axis] - old[axis]
		if math.Abs(delta) <= materialityThreshold {
			continue
		}
		arrow := "↑"
		if delta < 0 {
			arrow = "↓"
		}
		parts = append(parts, fmt.Sprintf("%s %s %.2f", axis.Label(), arrow, math.Abs(delta)))
	}

	if len(parts) == 0 {
		return ChangelogNoChange
	}
	return strings.Join(parts, ", ")
}
