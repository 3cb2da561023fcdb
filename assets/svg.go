package assets

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"

	"github.com/kpaulsen/brandlens/model"
)

// paint attributes that carry color values in SVG markup.
var svgPaintAttrs = map[string]bool{
	"fill":       true,
	"stroke":     true,
	"stop-color": true,
	"color":      true,
}

// SVGColors scrapes painted colors from SVG markup and returns up to max
// of them as lowercase hex, most frequent first. The lenient HTML parser
// is used deliberately: SVG exported by design tools is often not
// well-formed XML.
func SVGColors(data []byte, max int) []string {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	counts := make(map[model.Color]int)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				key := strings.ToLower(attr.Key)
				switch {
				case svgPaintAttrs[key]:
					countHex(counts, attr.Val)
				case key == "style":
					for _, decl := range strings.Split(attr.Val, ";") {
						name, val, ok := strings.Cut(decl, ":")
						if ok && svgPaintAttrs[strings.TrimSpace(strings.ToLower(name))] {
							countHex(counts, strings.TrimSpace(val))
						}
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return topColors(counts, max)
}

// countHex records val if it is a hex color literal. Shorthand #rgb is
// expanded; named colors and none/url() references are ignored.
func countHex(counts map[model.Color]int, val string) {
	val = strings.TrimSpace(val)
	if !strings.HasPrefix(val, "#") {
		return
	}
	if len(val) == 4 {
		val = string([]byte{'#',
			val[1], val[1],
			val[2], val[2],
			val[3], val[3],
		})
	}
	c, ok := model.ParseHex(val)
	if !ok || c.NearWhiteOrBlack() {
		return
	}
	counts[c]++
}
