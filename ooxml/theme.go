package ooxml

import (
	"strings"

	"github.com/kpaulsen/brandlens/model"
)

// themeSlots are the twelve canonical theme color slots, in declaration
// order, with the role each slot name implies.
var themeSlots = []struct {
	slot string
	role model.ColorRole
}{
	{"dk1", model.RoleDark},
	{"lt1", model.RoleLight},
	{"dk2", model.RoleDark},
	{"lt2", model.RoleLight},
	{"accent1", model.RoleAccent},
	{"accent2", model.RoleAccent},
	{"accent3", model.RoleAccent},
	{"accent4", model.RoleAccent},
	{"accent5", model.RoleAccent},
	{"accent6", model.RoleAccent},
	{"hlink", model.RoleLink},
	{"folHlink", model.RoleLink},
}

// parseTheme extracts declared theme colors and the major/minor fonts.
// A theme that fails to parse contributes nothing; the document is still
// analyzable from its masters and slides.
func parseTheme(text string, o *model.DocumentObservation) {
	root, err := parseXML(text)
	if err != nil {
		return
	}

	seen := make(map[string]bool)
	for _, s := range themeSlots {
		el := root.find(s.slot)
		if el == nil {
			continue
		}
		hex, ok := slotColor(el)
		if !ok || seen[hex] {
			continue
		}
		seen[hex] = true
		o.ThemeColors = append(o.ThemeColors, model.ThemeColor{
			Slot: s.slot,
			Role: s.role,
			Hex:  hex,
		})
	}

	// Any remaining color literals in the theme body are deliberate
	// palette choices too; record them as accents.
	root.walk(func(el *element) {
		v, ok := el.attr("val")
		if !ok {
			return
		}
		hex, ok := normalizeHex(v)
		if !ok || seen[hex] || model.NearWhiteOrBlackHex(hex) {
			return
		}
		seen[hex] = true
		o.ThemeColors = append(o.ThemeColors, model.ThemeColor{
			Slot: "extracted",
			Role: model.RoleAccent,
			Hex:  hex,
		})
	})

	major := schemeFont(root, "majorFont")
	minor := schemeFont(root, "minorFont")
	if major == "" {
		// Last resort: the first concrete typeface anywhere in the theme.
		root.walk(func(el *element) {
			if major != "" {
				return
			}
			if v, ok := el.attr("typeface"); ok && !strings.HasPrefix(v, "+") && v != "" {
				major = v
			}
		})
	}

	if major != "" || minor != "" {
		o.ThemeFonts = model.ThemeFonts{Major: major, Minor: minor}
		// A theme declaration is authoritative for font roles.
		o.FontConfidence = 0.95
	}
}

// slotColor resolves a slot's color with the documented precedence:
// direct srgbClr child, then any descendant hex val, then sysClr lastClr
// (the system-color fallback used by OS-default themes).
func slotColor(slot *element) (string, bool) {
	if srgb := slot.child("srgbClr"); srgb != nil {
		if v, ok := srgb.attr("val"); ok {
			if hex, ok := normalizeHex(v); ok {
				return hex, true
			}
		}
	}

	var found string
	slot.walk(func(el *element) {
		if found != "" {
			return
		}
		if v, ok := el.attr("val"); ok {
			if hex, ok := normalizeHex(v); ok {
				found = hex
			}
		}
	})
	if found != "" {
		return found, true
	}

	if sys := slot.find("sysClr"); sys != nil {
		if v, ok := sys.attr("lastClr"); ok {
			if hex, ok := normalizeHex(v); ok {
				return hex, true
			}
		}
	}

	return "", false
}

// schemeFont returns the latin typeface declared under the named font
// scheme block, ignoring "+"-prefixed values (unresolved theme
// indirections, not real font names).
func schemeFont(root *element, scheme string) string {
	block := root.find(scheme)
	if block == nil {
		return ""
	}
	latin := block.find("latin")
	if latin == nil {
		return ""
	}
	v, ok := latin.attr("typeface")
	if !ok || v == "" || strings.HasPrefix(v, "+") {
		return ""
	}
	return v
}
