// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package recommend

import (
	"reflect"
	"testing"
)

func TestResolve(t *testing.T) {
	catalog := []CatalogEntry{
		{ItemID: 101, CategoryID: 5},
		{ItemID: 102, CategoryID: 5},
		{ItemID: 103, CategoryID: 5},
		{ItemID: 201, CategoryID: 6},
		{ItemID: 203, CategoryID: 6},
		{ItemID: 202, CategoryID: 6},
	}
	popularity := map[int]int{101: 50, 102: 40, 103: 1, 201: 7, 202: 7, 203: 9}

	tests := []struct {
		name       string
		slots      CategorySlotSequence
		exclusions map[int]struct{}
		want       Result
		wantSkip   int
	}{
		{
			name:       "excluded items are never picked even when more popular",
			slots:      CategorySlotSequence{5},
			exclusions: map[int]struct{}{101: {}, 102: {}},
			want:       Result{Categories: []int{5}, Items: []int{103}},
		},
		{
			name:       "exhausted category skips the slot",
			slots:      CategorySlotSequence{5, 5},
			exclusions: map[int]struct{}{101: {}, 102: {}},
			want:       Result{Categories: []int{5}, Items: []int{103}},
			wantSkip:   1,
		},
		{
			name:  "most popular first, no repeats across slots",
			slots: CategorySlotSequence{5, 5, 5},
			want:  Result{Categories: []int{5}, Items: []int{101, 102, 103}},
		},
		{
			name:  "popularity ties go to the smallest id",
			slots: CategorySlotSequence{6, 6, 6},
			want:  Result{Categories: []int{6}, Items: []int{203, 201, 202}},
		},
		{
			name:  "items follow slot order across categories",
			slots: CategorySlotSequence{6, 5, 6},
			want:  Result{Categories: []int{6, 5}, Items: []int{203, 101, 201}},
		},
		{
			name:     "unknown category is consulted but yields nothing",
			slots:    CategorySlotSequence{9, 5},
			want:     Result{Categories: []int{9, 5}, Items: []int{101}},
			wantSkip: 1,
		},
		{
			name: "no slots",
			want: Result{Categories: []int{}, Items: []int{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, skipped := resolve(tt.slots, tt.exclusions, catalog, popularity)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("resolve() = %+v, want %+v", got, tt.want)
			}
			if skipped != tt.wantSkip {
				t.Errorf("skipped = %d, want %d", skipped, tt.wantSkip)
			}
			if public := Resolve(tt.slots, tt.exclusions, catalog, popularity); !reflect.DeepEqual(public, got) {
				t.Errorf("Resolve() = %+v, want %+v", public, got)
			}
		})
	}
}

func TestResolve_ItemsDistinctAndNotExcluded(t *testing.T) {
	var catalog []CatalogEntry
	popularity := make(map[int]int)
	for item := 1; item <= 40; item++ {
		catalog = append(catalog, CatalogEntry{ItemID: item, CategoryID: item % 4})
		popularity[item] = (item * 7) % 5
	}
	exclusions := map[int]struct{}{4: {}, 8: {}, 13: {}, 22: {}}
	slots := CategorySlotSequence{0, 0, 1, 2, 3, 3, 3, 1, 0, 2, 2, 2}

	got := Resolve(slots, exclusions, catalog, popularity)
	seen := make(map[int]bool)
	for _, item := range got.Items {
		if seen[item] {
			t.Errorf("item %d recommended twice", item)
		}
		seen[item] = true
		if _, excluded := exclusions[item]; excluded {
			t.Errorf("excluded item %d recommended", item)
		}
	}
	if len(got.Items) != len(slots) {
		t.Errorf("got %d items, want %d", len(got.Items), len(slots))
	}
}

func TestPopularityFromHistory(t *testing.T) {
	history := []HistoryRecord{
		{UserID: 1, ItemID: 10},
		{UserID: 2, ItemID: 10},
		{UserID: 2, ItemID: 11},
	}
	want := map[int]int{10: 2, 11: 1}
	if got := PopularityFromHistory(history); !reflect.DeepEqual(got, want) {
		t.Errorf("PopularityFromHistory() = %v, want %v", got, want)
	}
}

func TestPipeline_DominantCategoryTakesAllSlots(t *testing.T) {
	candidates := RankedCandidateList{{ID: 3, Score: 9}, {ID: 7, Score: 3}}
	catalog := []CatalogEntry{
		{ItemID: 31, CategoryID: 3},
		{ItemID: 32, CategoryID: 3},
		{ItemID: 71, CategoryID: 7},
	}

	if got := RelativeWeights(candidates); !reflect.DeepEqual(got, []float64{3, 1}) {
		t.Fatalf("RelativeWeights() = %v, want [3 1]", got)
	}
	slots := Expand(candidates, 5)
	if !reflect.DeepEqual(slots, CategorySlotSequence{3, 3, 3, 3, 3}) {
		t.Fatalf("Expand() = %v, want [3 3 3 3 3]", slots)
	}
	got := Resolve(slots, nil, catalog, map[int]int{31: 1, 32: 2})
	want := Result{Categories: []int{3}, Items: []int{32, 31}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}
}

func TestPipeline_SingleHistoryCategoryFillsEverySlot(t *testing.T) {
	counts := []CategoryCount{{UserID: 4, CategoryID: 5, Count: 12}}
	ranked := Rank(nil, 10)[4]
	if len(ranked) != 0 {
		t.Fatalf("expected no model candidates, got %v", ranked)
	}

	fallback := FallbackCandidates(4, counts)
	if !reflect.DeepEqual(fallback, RankedCandidateList{{ID: 5, Score: 12}}) {
		t.Fatalf("FallbackCandidates() = %v", fallback)
	}
	if got := Expand(fallback, 5); !reflect.DeepEqual(got, CategorySlotSequence{5, 5, 5, 5, 5}) {
		t.Errorf("Expand() = %v, want all 5", got)
	}
}
