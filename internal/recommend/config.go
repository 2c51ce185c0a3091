// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package recommend

import "fmt"

// Strategy names accepted by Config.Strategy.
const (
	StrategyCategory = "category"
	StrategyItem     = "item"
)

// Candidate scopes for category-level prediction rows.
const (
	// ScopeHistory predicts only the categories the user has clicked in.
	ScopeHistory = "history"
	// ScopeCatalog predicts every category present in the catalog.
	ScopeCatalog = "catalog"
)

// Config contains the composition parameters.
type Config struct {
	// Strategy selects the composition strategy: "category" or "item".
	Strategy string `json:"strategy"`

	// TopN is the number of ranked category candidates kept per user.
	TopN int `json:"top_n"`

	// SlotCount is the target number of recommended articles.
	SlotCount int `json:"slot_count"`

	// MaxCategories caps the number of distinct categories one composition
	// draws from.
	MaxCategories int `json:"max_categories"`

	// CandidateScope selects which categories are submitted to the model.
	CandidateScope string `json:"candidate_scope"`

	// SkipImpossible drops predictions the model flagged as impossible,
	// sending cold-start users to the fallback.
	SkipImpossible bool `json:"skip_impossible"`
}

// DefaultConfig returns the defaults used by the service.
func DefaultConfig() *Config {
	return &Config{
		Strategy:       StrategyCategory,
		TopN:           10,
		SlotCount:      5,
		MaxCategories:  5,
		CandidateScope: ScopeHistory,
		SkipImpossible: true,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Strategy {
	case StrategyCategory, StrategyItem:
	default:
		return fmt.Errorf("strategy must be %q or %q, got %q: %w", StrategyCategory, StrategyItem, c.Strategy, ErrUnknownStrategy)
	}
	if c.TopN < 1 {
		return fmt.Errorf("top_n must be positive, got %d", c.TopN)
	}
	if c.SlotCount < 1 {
		return fmt.Errorf("slot_count must be positive, got %d", c.SlotCount)
	}
	if c.MaxCategories < 1 {
		return fmt.Errorf("max_categories must be positive, got %d", c.MaxCategories)
	}
	switch c.CandidateScope {
	case ScopeHistory, ScopeCatalog:
	default:
		return fmt.Errorf("candidate_scope must be %q or %q, got %q", ScopeHistory, ScopeCatalog, c.CandidateScope)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
