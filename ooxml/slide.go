package ooxml

import (
	"math"
	"strconv"

	"github.com/kpaulsen/brandlens/model"
)

// emuPerInch is the OOXML coordinate unit: 914400 EMU per inch, rendered
// at 96 px per inch.
const emuPerInch = 914400

// coordinate samples outside (0,200) px are whole-slide dimensions, not
// spacing-sized gaps.
const maxCoordinatePx = 200

// parseSlide extracts color occurrences (with usage context) and
// spacing-sized coordinate values from one slide. Slides that fail to
// parse are skipped; the rest of the document still counts.
func parseSlide(text string, o *model.DocumentObservation) {
	root, err := parseXML(text)
	if err != nil {
		return
	}

	root.walk(func(el *element) {
		for _, a := range el.attrs {
			switch a.name {
			case "val", "lastClr":
				// val covers srgbClr and schemeClr-adjacent literals;
				// lastClr is the resolved value of system colors.
				if hex, ok := normalizeHex(a.value); ok {
					o.RecordColor(hex, colorContext(el))
				}
			case "x", "y", "cx", "cy":
				if emu, err := strconv.Atoi(a.value); err == nil {
					px := int(math.Round(float64(emu) / emuPerInch * 96))
					if px > 0 && px < maxCoordinatePx {
						o.CoordinateSamples = append(o.CoordinateSamples, px)
					}
				}
			}
		}
	})
}

// colorContext classifies where a color literal sits from its ancestor
// chain: inside shape properties with a solid fill it paints a
// background; inside run properties it paints text. Colors elsewhere get
// no tag.
func colorContext(el *element) model.UsageContext {
	var inRunProps, inSolidFill, inShapeProps bool
	for p := el; p != nil; p = p.parent {
		switch p.name {
		case "rPr", "defRPr":
			inRunProps = true
		case "solidFill":
			inSolidFill = true
		case "spPr":
			inShapeProps = true
		}
	}

	if inSolidFill && inShapeProps && !inRunProps {
		return model.ContextBackground
	}
	if inRunProps {
		return model.ContextText
	}
	return ""
}
