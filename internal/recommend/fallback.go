// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package recommend

import "sort"

// FallbackCandidates ranks the user's own categories by click count.
// It is used when the model produced no candidate for the user. The result
// is empty only when the user has no category history at all.
func FallbackCandidates(userID int, counts []CategoryCount) RankedCandidateList {
	var list RankedCandidateList
	for _, c := range counts {
		if c.UserID == userID {
			list = append(list, ScoredCandidate{ID: c.CategoryID, Score: c.Count})
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Score > list[j].Score
	})
	return list
}
