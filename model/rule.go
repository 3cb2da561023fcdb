package model

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Category classifies a brand rule.
type Category string

const (
	CategoryColor      Category = "color"
	CategoryTypography Category = "typography"
	CategorySpacing    Category = "spacing"
	CategoryComponent  Category = "component"
)

// Source is one provenance record behind a rule or aggregated color.
type Source struct {
	File     string         `json:"file"`
	Location string         `json:"location"`
	Role     ColorRole      `json:"role,omitempty"`
	Contexts []UsageContext `json:"contexts,omitempty"`
}

// RuleValue is the category-specific payload of a BrandRule. It is a
// closed set: exactly one implementation exists per Category, so
// downstream consumers can switch exhaustively.
type RuleValue interface {
	ruleValue()
}

// ColorValue is the payload of color rules.
type ColorValue struct {
	// Type is primary, secondary, or accent.
	Type  string   `json:"type"`
	Color string   `json:"color"`
	Usage []string `json:"usage,omitempty"`
}

// TypographyValue is the payload of typography rules. Font rules set Type
// and FontFamily; style rules set TextTransform.
type TypographyValue struct {
	Type          string `json:"type,omitempty"`
	FontFamily    string `json:"fontFamily,omitempty"`
	TextTransform string `json:"textTransform,omitempty"`
}

// SpacingValue is the payload of spacing rules.
type SpacingValue struct {
	BaseUnit int   `json:"baseUnit"`
	Scale    []int `json:"scale"`
}

// ComponentValue is the payload of component rules.
type ComponentValue struct {
	Component  string            `json:"component"`
	Properties map[string]string `json:"properties,omitempty"`
}

func (ColorValue) ruleValue()      {}
func (TypographyValue) ruleValue() {}
func (SpacingValue) ruleValue()    {}
func (ComponentValue) ruleValue()  {}

// BrandRule is a single synthesized, confidence-scored inference about a
// brand's visual identity. Rules are immutable value objects: "updating"
// one means replacing it by ID in the owning collection.
type BrandRule struct {
	ID          string    `json:"id"`
	Category    Category  `json:"category"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Confidence  float64   `json:"confidence"`
	Sources     []Source  `json:"sources"`
	Value       RuleValue `json:"value"`

	// ApplicableTo lists asset-type tags the rule applies to; the single
	// tag "all" means every asset type.
	ApplicableTo []string `json:"applicableTo"`

	Confirmed bool `json:"confirmed"`
}

// NewRuleID returns a fresh rule identifier, unique within a run.
func NewRuleID() string {
	return "rule-" + uuid.NewString()
}

// AppliesTo reports whether the rule applies to the given asset type.
func (r BrandRule) AppliesTo(assetType string) bool {
	for _, t := range r.ApplicableTo {
		if t == assetType || t == "all" {
			return true
		}
	}
	return false
}

// brandRuleJSON mirrors BrandRule with a raw payload so the Value variant
// can be selected by Category during decoding.
type brandRuleJSON struct {
	ID           string          `json:"id"`
	Category     Category        `json:"category"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Confidence   float64         `json:"confidence"`
	Sources      []Source        `json:"sources"`
	Value        json.RawMessage `json:"value"`
	ApplicableTo []string        `json:"applicableTo"`
	Confirmed    bool            `json:"confirmed"`
}

// UnmarshalJSON decodes a rule, selecting the Value variant by Category.
func (r *BrandRule) UnmarshalJSON(data []byte) error {
	var raw brandRuleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.ID = raw.ID
	r.Category = raw.Category
	r.Name = raw.Name
	r.Description = raw.Description
	r.Confidence = raw.Confidence
	r.Sources = raw.Sources
	r.ApplicableTo = raw.ApplicableTo
	r.Confirmed = raw.Confirmed
	r.Value = nil

	if len(raw.Value) == 0 || string(raw.Value) == "null" {
		return nil
	}

	switch raw.Category {
	case CategoryColor:
		var v ColorValue
		if err := json.Unmarshal(raw.Value, &v); err != nil {
			return err
		}
		r.Value = v
	case CategoryTypography:
		var v TypographyValue
		if err := json.Unmarshal(raw.Value, &v); err != nil {
			return err
		}
		r.Value = v
	case CategorySpacing:
		var v SpacingValue
		if err := json.Unmarshal(raw.Value, &v); err != nil {
			return err
		}
		r.Value = v
	case CategoryComponent:
		var v ComponentValue
		if err := json.Unmarshal(raw.Value, &v); err != nil {
			return err
		}
		r.Value = v
	default:
		return fmt.Errorf("unknown rule category %q", raw.Category)
	}
	return nil
}
