// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package snapshot

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// CatalogRule is a compiled CEL predicate over one catalog row, exposed as
// the map variable "article":
//
//	article.words_count > 50 && article.publisher_id != 0
//
// A compiled rule is safe for concurrent use.
type CatalogRule struct {
	expr string
	prg  cel.Program
}

// CompileCatalogRule parses and type-checks expr. The expression must yield
// a bool.
func CompileCatalogRule(expr string) (*CatalogRule, error) {
	env, err := cel.NewEnv(
		cel.Variable("article", cel.MapType(cel.StringType, cel.DynType)),
		cel.CrossTypeNumericComparisons(true),
	)
	if err != nil {
		return nil, fmt.Errorf("catalog rule env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("catalog rule %q: %w", expr, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) && !ast.OutputType().IsExactType(cel.DynType) {
		return nil, fmt.Errorf("catalog rule %q must be boolean, got %s", expr, ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("catalog rule %q: %w", expr, err)
	}
	return &CatalogRule{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (r *CatalogRule) String() string {
	return r.expr
}

// Match evaluates the rule for one article.
func (r *CatalogRule) Match(article map[string]any) (bool, error) {
	out, _, err := r.prg.Eval(map[string]any{"article": article})
	if err != nil {
		return false, err
	}
	keep, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("rule returned %T, want bool", out.Value())
	}
	return keep, nil
}
