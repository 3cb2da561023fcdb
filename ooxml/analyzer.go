// Package ooxml extracts brand signals from OOXML presentation packages:
// theme color slots, theme and master fonts, per-slide color occurrences
// with context, positional coordinates, and embedded media.
//
// It is not a presentation renderer. Only the element shapes that carry
// color, font, and coordinate signals are interpreted; everything else in
// the markup is ignored. Malformed or missing parts degrade the
// observation instead of failing the document.
package ooxml

import (
	"context"
	"regexp"
	"strings"

	"github.com/kpaulsen/brandlens/container"
	"github.com/kpaulsen/brandlens/model"
)

var (
	themePattern  = regexp.MustCompile(`^ppt/theme/theme\d+\.xml$`)
	masterPattern = regexp.MustCompile(`^ppt/slideMasters/slideMaster\d+\.xml$`)
	slidePattern  = regexp.MustCompile(`^ppt/slides/slide\d+\.xml$`)
	mediaPattern  = regexp.MustCompile(`^ppt/media/.+`)
)

// Analyzer extracts a DocumentObservation from presentation bytes.
type Analyzer struct{}

// New returns a presentation analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// Analyze opens the package and runs the extraction passes: theme, slide
// masters, slides (in numeric order), then media. A document that is not
// a valid ZIP fails; a missing or malformed theme, master, or slide does
// not, and the observation carries whatever was found.
func (a *Analyzer) Analyze(_ context.Context, filename string, data []byte) (*model.DocumentObservation, error) {
	c, err := container.Open(data)
	if err != nil {
		return nil, err
	}

	o := model.NewObservation(filename, model.KindPresentation)

	if themes := c.FindEntries(themePattern); len(themes) > 0 {
		if text, err := themes[0].ReadText(); err == nil {
			parseTheme(text, o)
		}
	}

	for _, e := range c.FindEntries(masterPattern) {
		if text, err := e.ReadText(); err == nil {
			parseMaster(text, o)
		}
	}

	slides := c.FindEntries(slidePattern)
	o.SlideCount = len(slides)
	for _, e := range slides {
		if text, err := e.ReadText(); err == nil {
			parseSlide(text, o)
		}
	}

	parseMedia(c, o)

	o.AnnotateConfidence()
	return o, nil
}

// normalizeHex validates a candidate color literal and returns it as
// canonical "#rrggbb". Only exact 6-digit hex values qualify; numeric
// attributes that merely look hex-ish (angles, percentages) do not.
func normalizeHex(v string) (string, bool) {
	if len(v) != 6 {
		return "", false
	}
	for i := 0; i < 6; i++ {
		b := v[i]
		ok := (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
		if !ok {
			return "", false
		}
	}
	return "#" + strings.ToLower(v), true
}
