// Copyright (c) 2025 CommonGround Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package compass implements the scoring core: turning weighted question
responses into a bounded eight-axis orientation vector, summarizing how a
vector moved over time, and scoring pairwise similarity between vectors.

# Axes

Eight fixed dimensions, each scored in [-1, 1]:

	economy, governance, civil_liberties, society,
	diplomacy, environment, justice, technology

Axes is the canonical enumeration order; tie-breaking and display follow it.
The set is closed — ValidateWeights rejects unknown axis keys at the
ingestion boundary instead of silently ignoring them.

# Calculation

Calculate reduces (weight vector, answer value) pairs to a Vector:

	vec := compass.Calculate(responses)
	vec.Dimensions[compass.AxisEconomy] // score in [-1, 1]
	vec.Confidence[compass.AxisEconomy] // contributing response count

Each axis score is a weighted average normalized by absolute weight mass.
Confidence 0 means no evidence on that axis and pins the score to exactly 0.

# Changelog and Diff

Changelog renders per-axis movement past a 0.01 materiality threshold:

	"Economy ↑ 0.25, Justice ↓ 0.10"

with sentinels ChangelogInitial (no prior snapshot) and ChangelogNoChange.
DiffVectors adds per-axis from/to/delta, the total shift magnitude, and the
axis of largest change.

# Match Scoring

Score compares two vectors under one of three modes:

  - mirror: closeness across all eight axes
  - challenger: closeness to the negation of the candidate
  - complement: 0.6×core-axis closeness + 0.4×operational-axis divergence

Scores are always in [0, 1]. Modes must be validated with ParseMode before
they reach Score.
*/
package compass
