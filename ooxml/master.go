package ooxml

import (
	"strings"

	"github.com/kpaulsen/brandlens/model"
)

// parseMaster collects typography signals from one slide master: candidate
// font names (to backfill roles the theme left empty) and formatting-run
// conventions.
//
// Bold requires more than two styled runs to rule out incidental emphasis;
// uppercase is binary, because even one deliberate all-caps style block is
// a meaningful brand signal.
func parseMaster(text string, o *model.DocumentObservation) {
	root, err := parseXML(text)
	if err != nil {
		return
	}

	var fonts []string
	seen := make(map[string]bool)
	bold, caps := 0, 0

	root.walk(func(el *element) {
		if v, ok := el.attr("typeface"); ok {
			if !strings.HasPrefix(v, "+") && len(v) > 1 && !seen[v] {
				seen[v] = true
				fonts = append(fonts, v)
			}
		}
		if el.name == "rPr" {
			if v, ok := el.attr("b"); ok && v == "1" {
				bold++
			}
			if v, ok := el.attr("cap"); ok && v == "all" {
				caps++
			}
		}
	})

	if bold > 2 {
		o.Typography.UsesBold = true
	}
	if caps > 0 {
		o.Typography.UsesUppercase = true
	}

	if o.ThemeFonts.Major == "" && len(fonts) > 0 {
		o.ThemeFonts.Major = fonts[0]
	}
	if o.ThemeFonts.Minor == "" && len(fonts) > 1 {
		o.ThemeFonts.Minor = fonts[1]
	}
}
