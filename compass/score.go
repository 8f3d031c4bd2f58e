// Copyright (c) 2025 CommonGround Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package compass

import (
	"errors"
	"fmt"
	"math"
)

// Mode selects the matching semantics used to score a candidate.
type Mode string

const (
	// ModeMirror rewards similarity across all eight axes equally.
	ModeMirror Mode = "mirror"
	// ModeChallenger rewards candidates whose views are the deliberate
	// opposite of the requester's.
	ModeChallenger Mode = "challenger"
	// ModeComplement rewards candidates who share core values but diverge
	// on the everyday-policy axes.
	ModeComplement Mode = "complement"
)

var ErrUnknownMode = errors.New("unknown match mode")

// ParseMode validates a mode string from an external caller.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeMirror, ModeChallenger, ModeComplement:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Fixed axis partition for complement mode. Core axes capture foundational
// values; the remaining six are the operational axes where divergence is
// rewarded.
var (
	coreAxes = []Axis{AxisGovernance, AxisJustice}

	operationalAxes = []Axis{
		AxisEconomy,
		AxisCivilLiberties,
		AxisSociety,
		AxisDiplomacy,
		AxisEnvironment,
		AxisTechnology,
	}
)

// Score computes the similarity of candidate b to requester a under the given
// mode. The result is always in [0, 1]: 1 is a theoretically perfect match
// for the mode, 0 maximal mismatch. Missing axis keys read as 0.
//
// Mode validation belongs at the request boundary (ParseMode); a mode that
// reaches here unrecognized is a programming error and panics.
func Score(a, b Vector, mode Mode) float64 {
	switch mode {
	case ModeMirror:
		return closeness(a.Dimensions, b.Dimensions, Axes)
	case ModeChallenger:
		// The ideal challenger sits at the exact negation of the
		// candidate's vector.
		negated := make(map[Axis]float64, len(Axes))
		for _, axis := range Axes {
			negated[axis] = -b.Dimensions[axis]
		}
		return closeness(a.Dimensions, negated, Axes)
	case ModeComplement:
		coreAlignment := closeness(a.Dimensions, b.Dimensions, coreAxes)
		// Deliberately a raw normalized distance, not a closeness:
		// more operational divergence scores higher.
		operationalDiversity := distance(a.Dimensions, b.Dimensions, operationalAxes) / maxDistance(len(operationalAxes))
		return 0.6*coreAlignment + 0.4*operationalDiversity
	default:
		panic("compass: unvalidated match mode " + string(mode))
	}
}

// distance is the Euclidean distance between two dimension sets restricted to
// the given axes.
func distance(a, b map[Axis]float64, axes []Axis) float64 {
	sum := 0.0
	for _, axis := range axes {
		d := a[axis] - b[axis]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// maxDistance is the largest possible Euclidean distance over n axes, each
// bounded to [-1, 1] (so differing by at most 2).
func maxDistance(n int) float64 {
	return math.Sqrt(float64(n) * 4)
}

// closeness maps distance onto [0, 1], with 1 meaning identical.
func closeness(a, b map[Axis]float64, axes []Axis) float64 {
	return math.Max(0, 1-distance(a, b, axes)/maxDistance(len(axes)))
}
