// Package rulestore persists brand rule sets and implements the reviewer
// lifecycle: rules enter as synthesized inferences, get confirmed, edited,
// or deleted by a human, and may be added manually. Two implementations
// are provided: an in-memory store for tests and short-lived sessions,
// and a SQLite store for durable local persistence.
package rulestore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kpaulsen/brandlens/model"
)

// Status is the analysis lifecycle of one brand's rule set.
type Status string

const (
	StatusNone      Status = "none"
	StatusAnalyzing Status = "analyzing"
	StatusReview    Status = "review"
	StatusComplete  Status = "complete"
)

// ExtractedAssets holds the media assets recovered during analysis,
// split by logo classification.
type ExtractedAssets struct {
	Logos  []model.MediaAsset `json:"logos"`
	Images []model.MediaAsset `json:"images"`
}

// Repository is the rule store contract. Rules are immutable values: all
// mutations replace whole entries by ID.
//
// Postconditions the implementations guarantee:
//   - ConfirmRule is idempotent: confirming twice equals confirming once.
//   - DeleteRule on a missing ID is a no-op, not an error.
//   - AddRule always stores the rule confirmed with confidence 1.0.
//   - ConfirmAll moves the brand's status to StatusComplete.
type Repository interface {
	// Rules returns the brand's current rule list in stored order.
	Rules(ctx context.Context, brandID string) ([]model.BrandRule, error)

	// SetRules replaces the brand's rule list, optionally storing the
	// extracted assets, and moves the status to StatusReview.
	SetRules(ctx context.Context, brandID string, rules []model.BrandRule, assets *ExtractedAssets) error

	// Status returns the brand's analysis status; StatusNone for unknown
	// brands.
	Status(ctx context.Context, brandID string) (Status, error)

	// SetStatus sets the brand's analysis status.
	SetStatus(ctx context.Context, brandID string, status Status) error

	// ReplaceRule swaps the stored rule with the same ID for the given
	// one. Missing IDs are a no-op.
	ReplaceRule(ctx context.Context, brandID string, rule model.BrandRule) error

	// ConfirmRule forces a rule to confidence 1.0 and Confirmed.
	ConfirmRule(ctx context.Context, brandID, ruleID string) error

	// ConfirmAll confirms every rule and completes the brand.
	ConfirmAll(ctx context.Context, brandID string) error

	// DeleteRule removes exactly the rule with the given ID.
	DeleteRule(ctx context.Context, brandID, ruleID string) error

	// AddRule stores a manually authored rule, assigning an ID when the
	// given one is empty, and returns the stored value.
	AddRule(ctx context.Context, brandID string, rule model.BrandRule) (model.BrandRule, error)

	// Assets returns the brand's extracted assets.
	Assets(ctx context.Context, brandID string) (ExtractedAssets, error)

	// Clear drops the brand's rules and assets and resets its status to
	// StatusNone.
	Clear(ctx context.Context, brandID string) error
}

// Summary counts a brand's rules for overview displays.
type Summary struct {
	Total      int                    `json:"total"`
	Confirmed  int                    `json:"confirmed"`
	ByCategory map[model.Category]int `json:"byCategory"`
}

// Summarize tallies a rule list.
func Summarize(rules []model.BrandRule) Summary {
	s := Summary{ByCategory: make(map[model.Category]int)}
	for _, r := range rules {
		s.Total++
		if r.Confirmed {
			s.Confirmed++
		}
		s.ByCategory[r.Category]++
	}
	return s
}

// FilterByAssetType returns the rules applicable to the given asset type.
func FilterByAssetType(rules []model.BrandRule, assetType string) []model.BrandRule {
	var out []model.BrandRule
	for _, r := range rules {
		if r.AppliesTo(assetType) {
			out = append(out, r)
		}
	}
	return out
}

// FilterByCategory returns the rules in the given category.
func FilterByCategory(rules []model.BrandRule, category model.Category) []model.BrandRule {
	var out []model.BrandRule
	for _, r := range rules {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

// ExportJSON serializes a rule list for transfer between installations.
func ExportJSON(rules []model.BrandRule) ([]byte, error) {
	return json.MarshalIndent(rules, "", "  ")
}

// ImportJSON parses a rule list previously produced by ExportJSON.
func ImportJSON(data []byte) ([]model.BrandRule, error) {
	var rules []model.BrandRule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("rulestore: importing rules: %w", err)
	}
	return rules, nil
}

// confirmed returns a copy of the rule in confirmed state.
func confirmed(r model.BrandRule) model.BrandRule {
	r.Confidence = 1.0
	r.Confirmed = true
	return r
}
