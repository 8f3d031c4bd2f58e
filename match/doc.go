// Copyright (c) 2025 CommonGround Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package match ranks discoverable accounts against a requester's compass.

# Collaborators

The Matcher has no storage or privacy-policy knowledge of its own; it is
wired to four narrow interfaces:

  - ResponseSource: an account's answered propositions
  - SnapshotStore: the most recent frozen compass per account
  - CandidatePool: discoverable account ids + stored threshold preferences
  - IdentityGate: full-or-masked display identity per viewer

The db package provides SQL-backed implementations of all four.

# Pipeline

FindMatches runs the full matchmaking pipeline:

 1. Resolve the requester's vector (snapshot first, live calculation fallback;
    neither → empty result, not an error)
 2. Resolve the effective threshold (request override → stored preference → 0)
 3. Enumerate the candidate pool
 4. Resolve and score each candidate concurrently (bounded worker count)
 5. Filter by threshold (inclusive boundary), sort score-descending with
    stable pool order on ties, truncate to the limit
 6. Mask identities through the gate

# Failure Policy

A lookup failure for one candidate never aborts the batch: the candidate is
skipped and counted in MatchReport.Failed, and the report's PoolSize /
Evaluated / Failed fields let callers detect degraded results. Only when the
pool was non-empty and every lookup failed does FindMatches return
ErrPoolUnavailable.
*/
package match
