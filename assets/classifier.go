// Package assets classifies embedded media entries and extracts their
// dominant colors. Classification is format-independent: it looks only at
// filenames and byte sizes, biased toward recall. False positives are
// resolved by the downstream review step, not here.
package assets

import "strings"

// Classification is the result of logo detection for one media entry.
type Classification struct {
	IsLogo     bool
	Confidence float64
}

// logoKeywords mark filenames that usually denote brand marks.
var logoKeywords = []string{"logo", "brand", "icon", "mark"}

// Classify decides logo-likelihood for a media entry from its filename
// and size. Small assets are more often marks than photos, so anything
// under 100 KB is treated as a logo candidate.
func Classify(filename string, size int64) Classification {
	name := strings.ToLower(filename)

	isLogo := size < 100_000
	for _, kw := range logoKeywords {
		if strings.Contains(name, kw) {
			isLogo = true
			break
		}
	}
	if !isLogo {
		return Classification{IsLogo: false, Confidence: 0.3}
	}

	confidence := 0.5
	if strings.Contains(name, "logo") {
		confidence += 0.3
	}
	if strings.Contains(name, "brand") {
		confidence += 0.2
	}
	if strings.Contains(name, "icon") {
		confidence += 0.1
	}
	if size < 50_000 {
		confidence += 0.1
	}
	if size < 20_000 {
		confidence += 0.1
	}
	if confidence > 1.0 {
		confidence = 1.0
	}

	return Classification{IsLogo: true, Confidence: confidence}
}
