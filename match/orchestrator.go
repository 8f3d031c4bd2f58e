// Copyright (c) 2025 CommonGround Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/commonground-app/server/compass"
	"github.com/commonground-app/server/models"
)

const (
	// MaxLimit caps how many matches a single request may ask for.
	MaxLimit = 50
	// DefaultLimit applies when the request doesn't specify one.
	DefaultLimit = 20

	defaultWorkers = 16
)

// ErrPoolUnavailable means the candidate pool existed but every single
// lookup failed, so no honest result can be returned.
var ErrPoolUnavailable = errors.New("no candidates could be evaluated")

// ResponseSource supplies an account's answered propositions. scope narrows
// to one questionnaire; empty means all responses. The int reports rows the
// source had to skip as invalid; the matcher scores whatever survived.
type ResponseSource interface {
	ListResponses(ctx context.Context, accountID, scope string) ([]compass.Response, int, error)
}

// SnapshotStore is the narrow read contract the matcher needs: just the most
// recent frozen compass per account, nil when the account has none.
type SnapshotStore interface {
	LatestSnapshot(ctx context.Context, accountID, scope string) (*models.Snapshot, error)
}

// CandidatePool enumerates discoverable accounts and reads stored match
// preferences. Discoverability policy lives behind this interface; the
// matcher only sees the resulting id list.
type CandidatePool interface {
	ListDiscoverable(ctx context.Context, excluding string) ([]string, error)
	// MatchThreshold returns the account's stored minimum score, with
	// ok=false when no preference is set.
	MatchThreshold(ctx context.Context, accountID string) (threshold float64, ok bool, err error)
}

// IdentityGate resolves how a candidate appears to a viewer. The masking
// policy (connected vs. not) is entirely the gate's concern.
type IdentityGate interface {
	Identity(ctx context.Context, candidateID, viewerID string) (models.Identity, error)
}

// Matcher ranks discoverable candidates against a requester's compass.
type Matcher struct {
	responses ResponseSource
	snapshots SnapshotStore
	pool      CandidatePool
	gate      IdentityGate
	workers   int
}

// NewMatcher wires the matcher to its collaborators. workers bounds how many
// candidate lookups run in flight at once.
func NewMatcher(responses ResponseSource, snapshots SnapshotStore, pool CandidatePool, gate IdentityGate, workers int) *Matcher {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Matcher{
		responses: responses,
		snapshots: snapshots,
		pool:      pool,
		gate:      gate,
		workers:   workers,
	}
}

// Request describes one matchmaking call.
type Request struct {
	AccountID string
	Mode      compass.Mode
	Scope     string
	Limit     int
	// Threshold overrides the requester's stored preference when set.
	Threshold *float64
}

// FindMatches resolves the requester's compass (latest snapshot first, live
// calculation as fallback), scores every discoverable candidate under the
// requested mode, and returns the ranked, threshold-filtered, identity-masked
// result.
//
// Failure policy: a lookup failure for a single candidate skips that
// candidate and increments the report's Failed count. Only when the pool was
// non-empty and every lookup failed does the whole call error with
// ErrPoolUnavailable.
func (m *Matcher) FindMatches(ctx context.Context, req Request) (*models.MatchReport, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	report := &models.MatchReport{Mode: req.Mode, Matches: []models.MatchResult{}}

	requester, ok, err := m.resolveVector(ctx, req.AccountID, req.Scope)
	if err != nil {
		return nil, fmt.Errorf("resolve requester vector: %w", err)
	}
	if !ok {
		// No responses and no snapshot: nothing to match on yet.
		return report, nil
	}

	threshold := 0.0
	if req.Threshold != nil {
		threshold = *req.Threshold
	} else {
		stored, hasPref, err := m.pool.MatchThreshold(ctx, req.AccountID)
		if err != nil {
			return nil, fmt.Errorf("read threshold preference: %w", err)
		}
		if hasPref {
			threshold = stored
		}
	}
	report.Threshold = threshold

	candidates, err := m.pool.ListDiscoverable(ctx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	report.PoolSize = len(candidates)

	// Per-candidate lookups are independent reads, so fan out with bounded
	// concurrency and collect into an index-ordered slice: completion order
	// doesn't matter, the stable sort below makes the ranking
	// deterministic for a given score set.
	type outcome struct {
		vector compass.Vector
		score  float64
		scored bool
		failed bool
	}
	outcomes := make([]outcome, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for i, candidateID := range candidates {
		g.Go(func() error {
			vec, ok, err := m.resolveVector(gctx, candidateID, req.Scope)
			if err != nil {
				slog.Warn("skipping candidate after lookup failure",
					"account_id", candidateID,
					"error", err,
				)
				outcomes[i] = outcome{failed: true}
				return nil
			}
			if !ok {
				// No derivable vector: skipped, not an error.
				return nil
			}
			outcomes[i] = outcome{
				vector: vec,
				score:  compass.Score(requester, vec, req.Mode),
				scored: true,
			}
			return nil
		})
	}
	// Workers swallow their own failures, so Wait only gates completion.
	_ = g.Wait()

	matches := make([]models.MatchResult, 0, len(candidates))
	for i, out := range outcomes {
		if out.failed {
			report.Failed++
			continue
		}
		if !out.scored {
			continue
		}
		report.Evaluated++
		if out.score < threshold {
			continue
		}
		matches = append(matches, models.MatchResult{
			AccountID:  candidates[i],
			Dimensions: out.vector.Dimensions,
			Score:      out.score,
			Mode:       req.Mode,
		})
	}

	if report.Failed > 0 && report.Failed == len(candidates) {
		return nil, fmt.Errorf("%w: %d of %d lookups failed", ErrPoolUnavailable, report.Failed, len(candidates))
	}

	// Score descending; candidates tied on score keep their pool order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	for i := range matches {
		identity, err := m.gate.Identity(ctx, matches[i].AccountID, req.AccountID)
		if err != nil {
			slog.Warn("identity resolution failed, masking",
				"account_id", matches[i].AccountID,
				"error", err,
			)
			identity = models.Identity{Masked: true}
		}
		matches[i].Identity = identity
	}

	report.Matches = matches
	return report, nil
}

// resolveVector prefers the account's most recent snapshot and falls back to
// a live calculation over current responses. ok=false means the account has
// neither.
func (m *Matcher) resolveVector(ctx context.Context, accountID, scope string) (compass.Vector, bool, error) {
	snap, err := m.snapshots.LatestSnapshot(ctx, accountID, scope)
	if err != nil {
		return compass.Vector{}, false, fmt.Errorf("latest snapshot for %s: %w", accountID, err)
	}
	if snap != nil {
		return snap.Vector, true, nil
	}

	responses, _, err := m.responses.ListResponses(ctx, accountID, scope)
	if err != nil {
		return compass.Vector{}, false, fmt.Errorf("list responses for %s: %w", accountID, err)
	}
	if len(responses) == 0 {
		return compass.Vector{}, false, nil
	}
	return compass.Calculate(responses), true, nil
}
