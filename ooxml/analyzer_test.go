package ooxml

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/kpaulsen/brandlens/container"
	"github.com/kpaulsen/brandlens/model"
)

// buildPPTX assembles an in-memory presentation package from part name /
// content pairs.
func buildPPTX(t *testing.T, parts ...[2]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, p := range parts {
		f, err := w.Create(p[0])
		if err != nil {
			t.Fatalf("create entry %s: %v", p[0], err)
		}
		if _, err := f.Write([]byte(p[1])); err != nil {
			t.Fatalf("write entry %s: %v", p[0], err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

const themeXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="Office">
  <a:themeElements>
    <a:clrScheme name="Office">
      <a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>
      <a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>
      <a:dk2><a:srgbClr val="1D3557"/></a:dk2>
      <a:lt2><a:srgbClr val="F1FAEE"/></a:lt2>
      <a:accent1><a:srgbClr val="E63946"/></a:accent1>
      <a:accent2><a:srgbClr val="457B9D"/></a:accent2>
      <a:accent3><a:srgbClr val="2A9D8F"/></a:accent3>
      <a:accent4><a:srgbClr val="E9C46A"/></a:accent4>
      <a:accent5><a:srgbClr val="F4A261"/></a:accent5>
      <a:accent6><a:srgbClr val="E76F51"/></a:accent6>
      <a:hlink><a:srgbClr val="0563C1"/></a:hlink>
      <a:folHlink><a:srgbClr val="954F72"/></a:folHlink>
    </a:clrScheme>
    <a:fontScheme name="Office">
      <a:majorFont><a:latin typeface="Montserrat"/></a:majorFont>
      <a:minorFont><a:latin typeface="Open Sans"/></a:minorFont>
    </a:fontScheme>
  </a:themeElements>
</a:theme>`

const slideXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
       xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld><p:spTree>
    <p:sp>
      <p:spPr>
        <a:xfrm>
          <a:off x="914400" y="9144000"/>
          <a:ext cx="457200" cy="0"/>
        </a:xfrm>
        <a:solidFill><a:srgbClr val="E63946"/></a:solidFill>
      </p:spPr>
      <p:txBody><a:p><a:r>
        <a:rPr lang="en-US">
          <a:solidFill><a:srgbClr val="1D3557"/></a:solidFill>
        </a:rPr>
        <a:t>Hello</a:t>
      </a:r></a:p></p:txBody>
    </p:sp>
  </p:spTree></p:cSld>
</p:sld>`

func analyze(t *testing.T, parts ...[2]string) *model.DocumentObservation {
	t.Helper()

	o, err := New().Analyze(context.Background(), "deck.pptx", buildPPTX(t, parts...))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	return o
}

func TestAnalyzeTheme(t *testing.T) {
	o := analyze(t, [2]string{"ppt/theme/theme1.xml", themeXML})

	if len(o.ThemeColors) != 12 {
		t.Fatalf("got %d theme colors, want 12", len(o.ThemeColors))
	}

	bySlot := make(map[string]model.ThemeColor)
	for _, tc := range o.ThemeColors {
		bySlot[tc.Slot] = tc
	}
	// dk1 declares only a system color; lastClr is its resolved value.
	if got := bySlot["dk1"].Hex; got != "#000000" {
		t.Errorf("dk1 = %s, want #000000 via sysClr lastClr", got)
	}
	if got := bySlot["accent1"]; got.Hex != "#e63946" || got.Role != model.RoleAccent {
		t.Errorf("accent1 = %+v, want #e63946/accent", got)
	}
	if got := bySlot["hlink"].Role; got != model.RoleLink {
		t.Errorf("hlink role = %s, want link", got)
	}

	if o.ThemeFonts.Major != "Montserrat" || o.ThemeFonts.Minor != "Open Sans" {
		t.Errorf("fonts = %+v, want Montserrat/Open Sans", o.ThemeFonts)
	}
	if o.FontConfidence != 0.95 {
		t.Errorf("FontConfidence = %v, want 0.95", o.FontConfidence)
	}
}

func TestAnalyzeThemeDedupAndExtracted(t *testing.T) {
	theme := `<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <a:clrScheme>
    <a:accent1><a:srgbClr val="E63946"/></a:accent1>
    <a:accent2><a:srgbClr val="E63946"/></a:accent2>
  </a:clrScheme>
  <a:fmtScheme>
    <a:gradFill><a:gs><a:srgbClr val="FF6600"/></a:gs></a:gradFill>
    <a:gradFill><a:gs><a:srgbClr val="FDFDFD"/></a:gs></a:gradFill>
  </a:fmtScheme>
</a:theme>`
	o := analyze(t, [2]string{"ppt/theme/theme1.xml", theme})

	var slots []string
	var hexes []string
	for _, tc := range o.ThemeColors {
		slots = append(slots, tc.Slot)
		hexes = append(hexes, tc.Hex)
	}
	// accent2 repeats accent1's value; the near-white gradient stop is
	// filtered; the remaining unslotted literal becomes an extracted
	// accent.
	wantSlots := []string{"accent1", "extracted"}
	wantHexes := []string{"#e63946", "#ff6600"}
	if !reflect.DeepEqual(slots, wantSlots) || !reflect.DeepEqual(hexes, wantHexes) {
		t.Errorf("theme colors = %v %v, want %v %v", slots, hexes, wantSlots, wantHexes)
	}
}

func TestAnalyzeMasterBackfillsFonts(t *testing.T) {
	theme := `<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <a:fontScheme>
    <a:majorFont><a:latin typeface="+mj-lt"/></a:majorFont>
    <a:minorFont><a:latin typeface="+mn-lt"/></a:minorFont>
  </a:fontScheme>
</a:theme>`
	master := `<p:sldMaster xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
             xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:txStyles>
    <a:lvl1pPr><a:defRPr><a:latin typeface="+mj-lt"/></a:defRPr></a:lvl1pPr>
    <a:lvl2pPr><a:defRPr><a:latin typeface="Raleway"/></a:defRPr></a:lvl2pPr>
    <a:lvl3pPr><a:defRPr><a:latin typeface="Lato"/></a:defRPr></a:lvl3pPr>
  </p:txStyles>
</p:sldMaster>`
	o := analyze(t,
		[2]string{"ppt/theme/theme1.xml", theme},
		[2]string{"ppt/slideMasters/slideMaster1.xml", master},
	)

	// "+"-prefixed typefaces are unresolved indirections; the master's
	// concrete names fill both roles.
	if o.ThemeFonts.Major != "Raleway" || o.ThemeFonts.Minor != "Lato" {
		t.Errorf("fonts = %+v, want Raleway/Lato", o.ThemeFonts)
	}
	if o.FontConfidence != 0 {
		t.Errorf("FontConfidence = %v, want 0 without a theme declaration", o.FontConfidence)
	}
}

func TestAnalyzeMasterFormattingThresholds(t *testing.T) {
	const runs2 = `<p:sldMaster xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
      xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <a:rPr b="1"/><a:rPr b="1"/>
</p:sldMaster>`
	const runs3 = `<p:sldMaster xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
      xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <a:rPr b="1"/><a:rPr b="1"/><a:rPr b="1" cap="all"/>
</p:sldMaster>`

	o := analyze(t, [2]string{"ppt/slideMasters/slideMaster1.xml", runs2})
	if o.Typography.UsesBold {
		t.Error("two bold runs should not set UsesBold")
	}
	if o.Typography.UsesUppercase {
		t.Error("no cap runs should not set UsesUppercase")
	}

	o = analyze(t, [2]string{"ppt/slideMasters/slideMaster1.xml", runs3})
	if !o.Typography.UsesBold {
		t.Error("three bold runs should set UsesBold")
	}
	if !o.Typography.UsesUppercase {
		t.Error("one cap=all run should set UsesUppercase")
	}
}

func TestAnalyzeSlideColorsAndCoordinates(t *testing.T) {
	o := analyze(t, [2]string{"ppt/slides/slide1.xml", slideXML})

	if o.SlideCount != 1 {
		t.Errorf("SlideCount = %d, want 1", o.SlideCount)
	}

	bg, ok := o.ColorUsage["#e63946"]
	if !ok {
		t.Fatal("shape fill color not recorded")
	}
	if !reflect.DeepEqual(bg.Contexts, []model.UsageContext{model.ContextBackground}) {
		t.Errorf("fill contexts = %v, want [background]", bg.Contexts)
	}
	if bg.Confidence != 0.5 {
		t.Errorf("fill confidence = %v, want 0.5 for one occurrence in one slide", bg.Confidence)
	}

	txt, ok := o.ColorUsage["#1d3557"]
	if !ok {
		t.Fatal("run color not recorded")
	}
	if !reflect.DeepEqual(txt.Contexts, []model.UsageContext{model.ContextText}) {
		t.Errorf("run contexts = %v, want [text]", txt.Contexts)
	}

	// 914400 EMU is one inch (96 px); 457200 is half (48 px). The
	// y value converts to 960 px and the zero extent to 0 px, both
	// outside the spacing window.
	want := []int{48, 96}
	got := append([]int(nil), o.CoordinateSamples...)
	sort.Ints(got)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("coordinates = %v, want %v", got, want)
	}
}

func TestAnalyzeSlideNumericOrder(t *testing.T) {
	o := analyze(t,
		[2]string{"ppt/slides/slide10.xml", slideXML},
		[2]string{"ppt/slides/slide2.xml", slideXML},
		[2]string{"ppt/slides/slide1.xml", slideXML},
	)

	if o.SlideCount != 3 {
		t.Errorf("SlideCount = %d, want 3", o.SlideCount)
	}
	if got := o.ColorUsage["#e63946"].Frequency; got != 3 {
		t.Errorf("fill frequency = %d, want 3", got)
	}
}

func TestAnalyzeMedia(t *testing.T) {
	o := analyze(t,
		[2]string{"ppt/media/logo.svg", `<svg><rect fill="#e63946"/></svg>`},
		[2]string{"ppt/media/clip1.mp4", "not an image"},
	)

	if len(o.MediaAssets) != 1 {
		t.Fatalf("got %d media assets, want 1", len(o.MediaAssets))
	}
	asset := o.MediaAssets[0]
	if asset.Name != "logo.svg" {
		t.Errorf("asset name = %s, want logo.svg", asset.Name)
	}
	if !asset.IsLogo || asset.Confidence != 1.0 {
		t.Errorf("classification = %v/%v, want logo at 1.0", asset.IsLogo, asset.Confidence)
	}
	if !reflect.DeepEqual(asset.Colors, []string{"#e63946"}) {
		t.Errorf("asset colors = %v, want [#e63946]", asset.Colors)
	}
}

func TestAnalyzeCorruptPackage(t *testing.T) {
	_, err := New().Analyze(context.Background(), "bad.pptx", []byte("not a zip"))
	if !errors.Is(err, container.ErrInvalidContainer) {
		t.Errorf("err = %v, want ErrInvalidContainer", err)
	}
}

func TestAnalyzeMissingParts(t *testing.T) {
	// A package with no theme, masters, or media still yields an
	// observation from its slides alone.
	o := analyze(t, [2]string{"ppt/slides/slide1.xml", slideXML})

	if len(o.ThemeColors) != 0 {
		t.Errorf("ThemeColors = %v, want none", o.ThemeColors)
	}
	if len(o.ColorUsage) == 0 {
		t.Error("slide colors missing")
	}
}

func TestNormalizeHex(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"E63946", "#e63946", true},
		{"abcdef", "#abcdef", true},
		{"ABC", "", false},
		{"12345678", "", false},
		{"E6394G", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := normalizeHex(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("normalizeHex(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
