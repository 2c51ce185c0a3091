// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package recommend

import "sort"

// Resolve fills each slot with the most popular article of the slot's
// category that is neither excluded nor already chosen. Popularity ties go to
// the smallest article ID. A slot whose category has no eligible article is
// skipped, so the result may hold fewer items than slots.
//
// Result.Categories lists every distinct slot category, including those whose
// slots were skipped.
func Resolve(slots CategorySlotSequence, exclusions map[int]struct{}, catalog []CatalogEntry, popularity map[int]int) Result {
	result, _ := resolve(slots, exclusions, catalog, popularity)
	return result
}

// resolve is Resolve that also reports the number of skipped slots.
func resolve(slots CategorySlotSequence, exclusions map[int]struct{}, catalog []CatalogEntry, popularity map[int]int) (Result, int) {
	result := Result{
		Categories: []int{},
		Items:      []int{},
	}
	if len(slots) == 0 {
		return result, 0
	}

	wanted := make(map[int]struct{}, len(slots))
	for _, c := range slots {
		if _, ok := wanted[c]; !ok {
			wanted[c] = struct{}{}
			result.Categories = append(result.Categories, c)
		}
	}

	queues := popularityQueues(wanted, exclusions, catalog, popularity)
	chosen := make(map[int]struct{}, len(slots))
	skipped := 0
	for _, c := range slots {
		item, ok := nextItem(queues, c, chosen)
		if !ok {
			skipped++
			continue
		}
		chosen[item] = struct{}{}
		result.Items = append(result.Items, item)
	}
	return result, skipped
}

// popularityQueues indexes eligible articles of the wanted categories,
// each queue sorted by popularity descending then article ID ascending.
func popularityQueues(wanted, exclusions map[int]struct{}, catalog []CatalogEntry, popularity map[int]int) map[int][]int {
	queues := make(map[int][]int, len(wanted))
	seen := make(map[int]struct{})
	for _, e := range catalog {
		if _, ok := wanted[e.CategoryID]; !ok {
			continue
		}
		if _, excluded := exclusions[e.ItemID]; excluded {
			continue
		}
		// An article listed twice keeps its first category.
		if _, dup := seen[e.ItemID]; dup {
			continue
		}
		seen[e.ItemID] = struct{}{}
		queues[e.CategoryID] = append(queues[e.CategoryID], e.ItemID)
	}
	for _, q := range queues {
		sort.Slice(q, func(i, j int) bool {
			pi, pj := popularity[q[i]], popularity[q[j]]
			if pi != pj {
				return pi > pj
			}
			return q[i] < q[j]
		})
	}
	return queues
}

// nextItem pops the best article of category that was not chosen yet.
func nextItem(queues map[int][]int, category int, chosen map[int]struct{}) (int, bool) {
	q := queues[category]
	for len(q) > 0 {
		item := q[0]
		q = q[1:]
		if _, taken := chosen[item]; !taken {
			queues[category] = q
			return item, true
		}
	}
	queues[category] = q
	return 0, false
}

// PopularityFromHistory counts interactions per article.
func PopularityFromHistory(history []HistoryRecord) map[int]int {
	counts := make(map[int]int)
	for _, h := range history {
		counts[h.ItemID]++
	}
	return counts
}
