// Copyright 2026 The aclgo Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tracks implements the promotion-ladder convenience layer:
// an ordered sequence of role ids a subject climbs through. It is
// evaluation-neutral -- the evaluator never consults a Track; only the
// jsonstore backend stores Track definitions -- so nothing here feeds
// back into pkg/evaluator's algorithm.
package tracks

import "github.com/cs3org/aclgo/pkg/aclerrors"

// Level is one rung of a Track: a role id plus the ordinal position the
// ladder orders levels by.
type Level struct {
	RoleID   string
	Position int
}

// Track is a named, ordered ladder of role ids, e.g. a career or access
// progression: "intern" -> "engineer" -> "senior_engineer".
type Track struct {
	ID     string
	Name   string
	Levels []Level
}

// Ladder wraps a Track with rung-by-rung navigation queries, its levels
// sorted by Position.
type Ladder struct {
	track  Track
	byRole map[string]int // role id -> index into sorted
	sorted []Level
}

// NewLadder builds a Ladder over track, sorting its levels by Position.
// Levels sharing a Position are kept in their original relative order.
func NewLadder(track Track) *Ladder {
	sorted := make([]Level, len(track.Levels))
	copy(sorted, track.Levels)
	// stable insertion sort: tracks are short, and stability matters for
	// levels sharing a Position.
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Position < sorted[j-1].Position; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	byRole := make(map[string]int, len(sorted))
	for i, lvl := range sorted {
		byRole[lvl.RoleID] = i
	}

	return &Ladder{track: track, byRole: byRole, sorted: sorted}
}

// TrackForRole reports the ladder position of roleID, or ok=false if
// roleID is not a rung on this ladder.
func (l *Ladder) TrackForRole(roleID string) (Level, bool) {
	i, ok := l.byRole[roleID]
	if !ok {
		return Level{}, false
	}
	return l.sorted[i], true
}

// NextLevel returns the rung immediately above roleID, or
// *aclerrors.ResourceNotFound if roleID is the top rung or not on the
// ladder at all.
func (l *Ladder) NextLevel(roleID string) (Level, error) {
	i, ok := l.byRole[roleID]
	if !ok || i+1 >= len(l.sorted) {
		return Level{}, &aclerrors.ResourceNotFound{Path: l.track.ID + ":" + roleID}
	}
	return l.sorted[i+1], nil
}

// PreviousLevel returns the rung immediately below roleID, or
// *aclerrors.ResourceNotFound if roleID is the bottom rung or not on the
// ladder at all.
func (l *Ladder) PreviousLevel(roleID string) (Level, error) {
	i, ok := l.byRole[roleID]
	if !ok || i == 0 {
		return Level{}, &aclerrors.ResourceNotFound{Path: l.track.ID + ":" + roleID}
	}
	return l.sorted[i-1], nil
}

// Levels returns every rung in ascending order.
func (l *Ladder) Levels() []Level {
	return append([]Level(nil), l.sorted...)
}

// Track returns the underlying Track this ladder was built from.
func (l *Ladder) Track() Track { return l.track }
