// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package recommend

import "sort"

// rankOptions holds the optional filters applied before grouping.
type rankOptions struct {
	exclusions     map[int]map[int]struct{}
	skipImpossible bool
}

// RankOption configures Rank.
type RankOption func(*rankOptions)

// WithExclusions drops every prediction whose ID the user has already read.
// It is used for item-level ranking.
func WithExclusions(read map[int]map[int]struct{}) RankOption {
	return func(o *rankOptions) {
		o.exclusions = read
	}
}

// SkipImpossible drops predictions flagged as impossible by the model.
func SkipImpossible() RankOption {
	return func(o *rankOptions) {
		o.skipImpossible = true
	}
}

// Rank groups predictions by user and keeps the topN highest estimates of
// each user, sorted descending. Ties keep their emission order. Users with
// no surviving prediction have no entry in the result.
func Rank(predictions []Prediction, topN int, opts ...RankOption) map[int]RankedCandidateList {
	var o rankOptions
	for _, opt := range opts {
		opt(&o)
	}
	if topN < 1 {
		topN = 1
	}

	grouped := make(map[int]RankedCandidateList)
	for _, p := range predictions {
		if o.skipImpossible && p.Details.WasImpossible {
			continue
		}
		if _, read := o.exclusions[p.UserID][p.ID]; read {
			continue
		}
		grouped[p.UserID] = append(grouped[p.UserID], ScoredCandidate{ID: p.ID, Score: p.Estimate})
	}

	for user, list := range grouped {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Score > list[j].Score
		})
		if len(list) > topN {
			list = list[:topN:topN]
		}
		grouped[user] = list
	}
	return grouped
}

// ReadSets builds deja_lu(user) for every user in history.
func ReadSets(history []HistoryRecord) map[int]map[int]struct{} {
	read := make(map[int]map[int]struct{})
	for _, h := range history {
		set, ok := read[h.UserID]
		if !ok {
			set = make(map[int]struct{})
			read[h.UserID] = set
		}
		set[h.ItemID] = struct{}{}
	}
	return read
}

// ReadSet returns deja_lu(userID).
func ReadSet(history []HistoryRecord, userID int) map[int]struct{} {
	read := make(map[int]struct{})
	for _, h := range history {
		if h.UserID == userID {
			read[h.ItemID] = struct{}{}
		}
	}
	return read
}
