// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package recommend

import "math"

// DefaultMaxCategories is the number of candidates Expand draws from.
const DefaultMaxCategories = 5

// RelativeWeights normalizes the first DefaultMaxCategories candidate scores
// against the weakest of them, rounding half to even. When the weakest score
// is zero every relative weight is reported as zero.
func RelativeWeights(candidates RankedCandidateList) []float64 {
	return RelativeWeightsN(candidates, DefaultMaxCategories)
}

// RelativeWeightsN is RelativeWeights with an explicit category cap.
func RelativeWeightsN(candidates RankedCandidateList, maxCategories int) []float64 {
	kept := capCandidates(candidates, maxCategories)
	if len(kept) == 0 {
		return nil
	}
	weights := make([]float64, len(kept))
	last := kept[len(kept)-1].Score
	if last == 0 {
		return weights
	}
	for i, c := range kept {
		weights[i] = math.RoundToEven(c.Score / last)
	}
	return weights
}

// Expand turns ranked candidates into exactly length category slots.
//
// Each of the first DefaultMaxCategories candidates is repeated as many times
// as its rounded raw score, in rank order, and the sequence is truncated to
// length. A shorter sequence is extended by cycling over itself. An empty
// candidate list yields an empty sequence.
func Expand(candidates RankedCandidateList, length int) CategorySlotSequence {
	return ExpandN(candidates, length, DefaultMaxCategories)
}

// ExpandN is Expand with an explicit category cap.
func ExpandN(candidates RankedCandidateList, length, maxCategories int) CategorySlotSequence {
	kept := capCandidates(candidates, maxCategories)
	if len(kept) == 0 || length < 1 {
		return nil
	}

	slots := make(CategorySlotSequence, 0, length)
	for _, c := range kept {
		for n := repeatCount(c.Score, length); n > 0 && len(slots) < length; n-- {
			slots = append(slots, c.ID)
		}
		if len(slots) == length {
			return slots
		}
	}

	// All weights rounded to zero: one slot per candidate.
	if len(slots) == 0 {
		for _, c := range kept {
			if len(slots) == length {
				break
			}
			slots = append(slots, c.ID)
		}
	}

	period := len(slots)
	for i := period; i < length; i++ {
		slots = append(slots, slots[i%period])
	}
	return slots
}

// capCandidates returns at most maxCategories leading candidates.
func capCandidates(candidates RankedCandidateList, maxCategories int) RankedCandidateList {
	if maxCategories < 1 {
		maxCategories = 1
	}
	if len(candidates) > maxCategories {
		return candidates[:maxCategories]
	}
	return candidates
}

// repeatCount converts a raw weight into a repeat count in [0, limit].
func repeatCount(weight float64, limit int) int {
	if math.IsNaN(weight) || weight <= 0 {
		return 0
	}
	r := math.RoundToEven(weight)
	if r > float64(limit) {
		return limit
	}
	return int(r)
}
