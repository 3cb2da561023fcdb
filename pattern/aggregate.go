// Package pattern turns per-document observations into ranked brand
// rules: a pure aggregation fold, deterministic rule synthesis, and the
// confidence-based review partition.
package pattern

import (
	"sort"

	"github.com/kpaulsen/brandlens/model"
)

// Aggregation weights. Theme declarations are deliberate brand choices
// and dominate raw slide occurrences; colors found in logo marks sit in
// between.
const (
	themeColorWeight = 10
	logoColorWeight  = 5
)

// DocumentMeta is the per-document context the synthesizer needs after
// the observations themselves are discarded.
type DocumentMeta struct {
	Source        string
	Kind          model.Kind
	UsesBold      bool
	UsesUppercase bool
}

// FontUsage counts votes per font role. Each document contributes at most
// one vote per role.
type FontUsage struct {
	Major map[string]int
	Minor map[string]int
}

// Signal is the run-scoped accumulator merged across all analyzed
// documents. It is built once per run by Aggregate and discarded after
// synthesis; it is never persisted.
type Signal struct {
	ColorFrequency      map[string]int
	ColorSources        map[string][]model.Source
	FontUsage           FontUsage
	CoordinateFrequency map[int]int
	Documents           []DocumentMeta
}

// NewSignal returns an empty accumulator.
func NewSignal() *Signal {
	return &Signal{
		ColorFrequency:      make(map[string]int),
		ColorSources:        make(map[string][]model.Source),
		FontUsage:           FontUsage{Major: make(map[string]int), Minor: make(map[string]int)},
		CoordinateFrequency: make(map[int]int),
	}
}

// Aggregate folds the observation list into a Signal. The fold is pure:
// observations are only read, and folding shards with Merge is equivalent
// to one sequential pass.
func Aggregate(observations []*model.DocumentObservation) *Signal {
	s := NewSignal()
	for _, o := range observations {
		s.accumulate(o)
	}
	return s
}

// Merge combines two partial aggregates. It is associative: frequencies
// and tallies sum, source lists concatenate in argument order.
func Merge(a, b *Signal) *Signal {
	s := NewSignal()
	for _, src := range []*Signal{a, b} {
		for hex, n := range src.ColorFrequency {
			s.ColorFrequency[hex] += n
		}
		for hex, sources := range src.ColorSources {
			s.ColorSources[hex] = append(s.ColorSources[hex], sources...)
		}
		for name, n := range src.FontUsage.Major {
			s.FontUsage.Major[name] += n
		}
		for name, n := range src.FontUsage.Minor {
			s.FontUsage.Minor[name] += n
		}
		for v, n := range src.CoordinateFrequency {
			s.CoordinateFrequency[v] += n
		}
		s.Documents = append(s.Documents, src.Documents...)
	}
	return s
}

func (s *Signal) accumulate(o *model.DocumentObservation) {
	for _, tc := range o.ThemeColors {
		s.ColorFrequency[tc.Hex] += themeColorWeight
		s.ColorSources[tc.Hex] = append(s.ColorSources[tc.Hex], model.Source{
			File:     o.Source,
			Location: "theme",
			Role:     tc.Role,
		})
	}

	loc := contentLocation(o.Kind)
	for _, hex := range sortedKeys(o.ColorUsage) {
		u := o.ColorUsage[hex]
		s.ColorFrequency[hex] += u.Frequency
		s.ColorSources[hex] = append(s.ColorSources[hex], model.Source{
			File:     o.Source,
			Location: loc,
			Contexts: u.Contexts,
		})
	}

	for _, m := range o.MediaAssets {
		if !m.IsLogo {
			continue
		}
		for _, hex := range m.Colors {
			if model.NearWhiteOrBlackHex(hex) {
				continue
			}
			s.ColorFrequency[hex] += logoColorWeight
			s.ColorSources[hex] = append(s.ColorSources[hex], model.Source{
				File:     o.Source,
				Location: "logo",
			})
		}
	}

	if o.ThemeFonts.Major != "" {
		s.FontUsage.Major[o.ThemeFonts.Major]++
	}
	if o.ThemeFonts.Minor != "" {
		s.FontUsage.Minor[o.ThemeFonts.Minor]++
	}

	for _, v := range o.CoordinateSamples {
		s.CoordinateFrequency[v]++
	}

	s.Documents = append(s.Documents, DocumentMeta{
		Source:        o.Source,
		Kind:          o.Kind,
		UsesBold:      o.Typography.UsesBold,
		UsesUppercase: o.Typography.UsesUppercase,
	})
}

// contentLocation names where in-document color occurrences came from,
// per analyzer family.
func contentLocation(k model.Kind) string {
	switch k {
	case model.KindPDF:
		return "pages"
	case model.KindImage:
		return "image"
	default:
		return "slides"
	}
}

// sortedKeys makes map iteration deterministic so provenance ordering is
// stable across runs.
func sortedKeys(m map[string]*model.ColorUsage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
