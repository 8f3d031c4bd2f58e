// Copyright (c) 2025 CommonGround Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package compass

import (
	"errors"
	"fmt"
	"math"
)

// Axis identifies one of the eight fixed orientation dimensions.
type Axis string

const (
	AxisEconomy        Axis = "economy"
	AxisGovernance     Axis = "governance"
	AxisCivilLiberties Axis = "civil_liberties"
	AxisSociety        Axis = "society"
	AxisDiplomacy      Axis = "diplomacy"
	AxisEnvironment    Axis = "environment"
	AxisJustice        Axis = "justice"
	AxisTechnology     Axis = "technology"
)

// Axes is the canonical enumeration order. Tie-breaking and display both
// follow this order, so it must never be reordered.
var Axes = []Axis{
	AxisEconomy,
	AxisGovernance,
	AxisCivilLiberties,
	AxisSociety,
	AxisDiplomacy,
	AxisEnvironment,
	AxisJustice,
	AxisTechnology,
}

var axisLabels = map[Axis]string{
	AxisEconomy:        "Economy",
	AxisGovernance:     "Governance",
	AxisCivilLiberties: "Civil Liberties",
	AxisSociety:        "Society",
	AxisDiplomacy:      "Diplomacy",
	AxisEnvironment:    "Environment",
	AxisJustice:        "Justice",
	AxisTechnology:     "Technology",
}

var (
	ErrUnknownAxis      = errors.New("unknown axis")
	ErrInvalidWeight    = errors.New("weight is not a finite number")
	ErrWeightOutOfRange = errors.New("weight outside [-1, 1]")
)

// Valid reports whether a is one of the eight fixed axes.
func (a Axis) Valid() bool {
	_, ok := axisLabels[a]
	return ok
}

// Label returns the display name for the axis ("civil_liberties" → "Civil Liberties").
func (a Axis) Label() string {
	if label, ok := axisLabels[a]; ok {
		return label
	}
	return string(a)
}

// WeightVector maps a subset of axes to loadings in [-1, 1]. A proposition
// typically loads on one to three axes; cross-loadings are not normalized.
type WeightVector map[Axis]float64

// ValidateWeights rejects weight vectors that reference an axis outside the
// fixed set or carry a non-finite or out-of-range loading. Unknown keys are
// an error, not something to silently drop: accepting them would let the
// question catalog and the scorer drift apart.
func ValidateWeights(weights WeightVector) error {
	if len(weights) == 0 {
		return errors.New("weight vector is empty")
	}
	for axis, w := range weights {
		if !axis.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownAxis, string(axis))
		}
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: axis %q", ErrInvalidWeight, string(axis))
		}
		if w < -1 || w > 1 {
			return fmt.Errorf("%w: axis %q has weight %g", ErrWeightOutOfRange, string(axis), w)
		}
	}
	return nil
}
