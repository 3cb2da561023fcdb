package pattern

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/kpaulsen/brandlens/model"
)

// applyToAll marks rules that hold for every asset type.
var applyToAll = []string{"all"}

// layoutAssetTypes marks rules that only make sense for laid-out assets.
var layoutAssetTypes = []string{"website", "presentation", "flyer"}

// Synthesize turns an aggregated signal into a ranked rule list. The pass
// is deterministic: equal weights break ties on hex/name order, so the
// same inputs always yield the same rules.
func Synthesize(s *Signal) []model.BrandRule {
	var rules []model.BrandRule
	rules = append(rules, colorRules(s)...)
	rules = append(rules, typographyRules(s)...)
	rules = append(rules, spacingRules(s)...)
	return rules
}

type rankedColor struct {
	hex    string
	weight int
}

// rankColors orders aggregated colors by weight, excluding near-white and
// near-black entries.
func rankColors(s *Signal) []rankedColor {
	ranked := make([]rankedColor, 0, len(s.ColorFrequency))
	for hex, w := range s.ColorFrequency {
		if model.NearWhiteOrBlackHex(hex) {
			continue
		}
		ranked = append(ranked, rankedColor{hex: hex, weight: w})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].weight != ranked[j].weight {
			return ranked[i].weight > ranked[j].weight
		}
		return ranked[i].hex < ranked[j].hex
	})
	return ranked
}

func colorRules(s *Signal) []model.BrandRule {
	ranked := rankColors(s)
	var rules []model.BrandRule

	if len(ranked) > 0 {
		primary := ranked[0]
		sources := s.ColorSources[primary.hex]
		usage := usageTags(sources)

		desc := fmt.Sprintf("%s is used as the dominant brand color", primary.hex)
		if len(usage) > 0 {
			desc += " (" + strings.Join(usage, ", ") + ")"
		}
		rules = append(rules, model.BrandRule{
			ID:          model.NewRuleID(),
			Category:    model.CategoryColor,
			Name:        "Primary color",
			Description: desc,
			Confidence:  colorConfidence(primary.weight, len(sources)),
			Sources:     sources,
			Value: model.ColorValue{
				Type:  "primary",
				Color: primary.hex,
				Usage: usage,
			},
			ApplicableTo: applyToAll,
		})
	}

	if len(ranked) > 1 {
		secondary := ranked[1]
		sources := s.ColorSources[secondary.hex]
		rules = append(rules, model.BrandRule{
			ID:          model.NewRuleID(),
			Category:    model.CategoryColor,
			Name:        "Secondary color",
			Description: fmt.Sprintf("%s is used as the second brand color", secondary.hex),
			Confidence:  colorConfidence(secondary.weight, len(sources)) * 0.9,
			Sources:     sources,
			Value: model.ColorValue{
				Type:  "secondary",
				Color: secondary.hex,
			},
			ApplicableTo: applyToAll,
		})
	}

	// Accent: the first lower-ranked color whose hue clearly departs from
	// the primary's.
	if len(ranked) > 2 {
		primaryHue := hexHue(ranked[0].hex)
		limit := len(ranked)
		if limit > 6 {
			limit = 6
		}
		for i := 2; i < limit; i++ {
			c := ranked[i]
			if model.HueDistance(hexHue(c.hex), primaryHue) <= 30 {
				continue
			}
			sources := s.ColorSources[c.hex]
			rules = append(rules, model.BrandRule{
				ID:          model.NewRuleID(),
				Category:    model.CategoryColor,
				Name:        "Accent color",
				Description: fmt.Sprintf("%s is used as an accent for CTAs and highlights", c.hex),
				Confidence:  colorConfidence(c.weight, len(sources)) * 0.8,
				Sources:     sources,
				Value: model.ColorValue{
					Type:  "accent",
					Color: c.hex,
					Usage: []string{"cta", "highlight"},
				},
				ApplicableTo: applyToAll,
			})
			break
		}
	}

	return rules
}

// colorConfidence scores a color from raw weight and independent-source
// corroboration. The 0.4 floor reflects that any color surviving
// aggregation is plausible; a color seen in one file many times is weaker
// evidence than one seen across several files.
func colorConfidence(frequency, sourceCount int) float64 {
	freqScore := math.Min(float64(frequency)/5, 1)
	sourceScore := math.Min(float64(sourceCount)/2, 1)
	return math.Round((0.4+freqScore*0.4+sourceScore*0.2)*100) / 100
}

// usageTags derives usage hints from a color's provenance.
func usageTags(sources []model.Source) []string {
	var tags []string
	add := func(tag string) {
		for _, t := range tags {
			if t == tag {
				return
			}
		}
		tags = append(tags, tag)
	}
	for _, src := range sources {
		if src.Role == model.RoleAccent {
			add("accent")
		}
		for _, ctx := range src.Contexts {
			add(string(ctx))
		}
		if src.Location == "logo" {
			add("logo")
		}
	}
	return tags
}

func hexHue(hex string) int {
	c, _ := model.ParseHex(hex)
	return c.Hue()
}

func typographyRules(s *Signal) []model.BrandRule {
	var rules []model.BrandRule

	themeSources := make([]model.Source, 0, len(s.Documents))
	for _, d := range s.Documents {
		themeSources = append(themeSources, model.Source{File: d.Source, Location: "theme"})
	}

	if name, count := topFont(s.FontUsage.Major); name != "" {
		rules = append(rules, model.BrandRule{
			ID:          model.NewRuleID(),
			Category:    model.CategoryTypography,
			Name:        "Heading font",
			Description: fmt.Sprintf("%s is used for headings", name),
			Confidence:  fontConfidence(count),
			Sources:     themeSources,
			Value: model.TypographyValue{
				Type:       "heading",
				FontFamily: name,
			},
			ApplicableTo: applyToAll,
		})
	}

	if name, count := topFont(s.FontUsage.Minor); name != "" {
		rules = append(rules, model.BrandRule{
			ID:          model.NewRuleID(),
			Category:    model.CategoryTypography,
			Name:        "Body font",
			Description: fmt.Sprintf("%s is used for body text", name),
			Confidence:  fontConfidence(count),
			Sources:     themeSources,
			Value: model.TypographyValue{
				Type:       "body",
				FontFamily: name,
			},
			ApplicableTo: applyToAll,
		})
	}

	if rule, ok := uppercaseRule(s); ok {
		rules = append(rules, rule)
	}

	return rules
}

// uppercaseRule is emitted when at least half the presentation documents
// set headings in all caps; the fraction itself is the confidence.
func uppercaseRule(s *Signal) (model.BrandRule, bool) {
	var presentations, uppercase int
	var sources []model.Source
	for _, d := range s.Documents {
		if d.Kind != model.KindPresentation {
			continue
		}
		presentations++
		if d.UsesUppercase {
			uppercase++
			sources = append(sources, model.Source{File: d.Source, Location: "slideMaster"})
		}
	}

	if presentations == 0 || uppercase == 0 {
		return model.BrandRule{}, false
	}
	confidence := float64(uppercase) / float64(presentations)
	if confidence < 0.5 {
		return model.BrandRule{}, false
	}

	return model.BrandRule{
		ID:          model.NewRuleID(),
		Category:    model.CategoryTypography,
		Name:        "Heading style",
		Description: "Headings are set in uppercase",
		Confidence:  confidence,
		Sources:     sources,
		Value: model.TypographyValue{
			TextTransform: "uppercase",
		},
		ApplicableTo: layoutAssetTypes,
	}, true
}

func fontConfidence(count int) float64 {
	return math.Min(0.95, 0.7+0.1*float64(count))
}

// topFont returns the most voted font name; ties break alphabetically so
// synthesis stays deterministic.
func topFont(votes map[string]int) (string, int) {
	var best string
	bestCount := 0
	for name, count := range votes {
		if count > bestCount || (count == bestCount && (best == "" || name < best)) {
			best, bestCount = name, count
		}
	}
	return best, bestCount
}

// gridBases are the candidate spacing base units, smallest first.
var gridBases = []int{4, 8, 10, 12, 16}

// gridScale multiplies the winning base into the rule's spacing scale.
var gridScale = []int{1, 2, 3, 4, 6, 8}

func spacingRules(s *Signal) []model.BrandRule {
	total := 0
	for _, n := range s.CoordinateFrequency {
		total += n
	}
	if total == 0 {
		return nil
	}

	// Tally divisibility per base. Ties go to the larger base: if every
	// sample divides by both 4 and 8, the 8px grid is the better
	// explanation.
	bestBase, bestTally := 0, 0
	for _, base := range gridBases {
		tally := 0
		for v, n := range s.CoordinateFrequency {
			if v%base == 0 {
				tally += n
			}
		}
		if tally > bestTally || (tally == bestTally && base > bestBase) {
			bestBase, bestTally = base, tally
		}
	}
	if bestTally == 0 {
		return nil
	}

	confidence := math.Min(0.9, float64(bestTally)/float64(total))
	if confidence < 0.5 {
		return nil
	}

	sources := make([]model.Source, 0, len(s.Documents))
	for _, d := range s.Documents {
		sources = append(sources, model.Source{File: d.Source, Location: "slides"})
	}

	scale := make([]int, len(gridScale))
	for i, m := range gridScale {
		scale[i] = bestBase * m
	}

	return []model.BrandRule{{
		ID:          model.NewRuleID(),
		Category:    model.CategorySpacing,
		Name:        "Grid system",
		Description: fmt.Sprintf("%dpx base grid - spacing aligns to multiples of %d", bestBase, bestBase),
		Confidence:  confidence,
		Sources:     sources,
		Value: model.SpacingValue{
			BaseUnit: bestBase,
			Scale:    scale,
		},
		ApplicableTo: layoutAssetTypes,
	}}
}
