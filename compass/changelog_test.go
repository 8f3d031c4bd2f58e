// Copyright (c) 2025 CommonGround Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package compass

import "testing"

func TestChangelogInitial(t *testing.T) {
	got := Changelog(nil, map[Axis]float64{AxisEconomy: 0.5})
	if got != ChangelogInitial {
		t.Errorf("Expected %q, got %q", ChangelogInitial, got)
	}
}

func TestChangelogNoChange(t *testing.T) {
	dims := map[Axis]float64{AxisEconomy: 0.5, AxisJustice: -0.2}

	got := Changelog(dims, dims)
	if got != ChangelogNoChange {
		t.Errorf("Expected %q, got %q", ChangelogNoChange, got)
	}
}

func TestChangelogBelowMateriality(t *testing.T) {
	old := map[Axis]float64{AxisEconomy: 0.5}
	updated := map[Axis]float64{AxisEconomy: 0.505}

	got := Changelog(old, updated)
	if got != ChangelogNoChange {
		t.Errorf("Shift of 0.005 should not be material, got %q", got)
	}
}

func TestChangelogFormatting(t *testing.T) {
	old := map[Axis]float64{AxisEconomy: 0.0, AxisJustice: 0.5}
	updated := map[Axis]float64{AxisEconomy: 0.25, AxisJustice: 0.4}

	got := Changelog(old, updated)
	expected := "Economy ↑ 0.25, Justice ↓ 0.10"
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestChangelogCanonicalOrder(t *testing.T) {
	// Entries follow the canonical axis order regardless of map iteration
	old := map[Axis]float64{}
	updated := map[Axis]float64{
		AxisTechnology: 0.3,
		AxisEconomy:    0.3,
		AxisGovernance: -0.3,
	}

	got := Changelog(old, updated)
	expected := "Economy ↑ 0.30, Governance ↓ 0.30, Technology ↑ 0.30"
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}
