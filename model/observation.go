package model

// Kind identifies the analyzer family that produced an observation.
type Kind string

const (
	KindPresentation Kind = "pptx"
	KindPDF          Kind = "pdf"
	KindImage        Kind = "image"
)

// ColorRole classifies a theme color slot.
type ColorRole string

const (
	RoleDark   ColorRole = "dark"
	RoleLight  ColorRole = "light"
	RoleAccent ColorRole = "accent"
	RoleLink   ColorRole = "link"
)

// ThemeColor is a color explicitly declared in a document theme slot.
// Theme declarations carry the highest a-priori weight during aggregation.
type ThemeColor struct {
	Slot string    `json:"slot"`
	Role ColorRole `json:"role"`
	Hex  string    `json:"hex"`
}

// ThemeFonts holds the heading (major) and body (minor) font families
// declared by a document theme. Empty strings mean the document declared
// no usable font for that role.
type ThemeFonts struct {
	Major string `json:"major,omitempty"`
	Minor string `json:"minor,omitempty"`
}

// UsageContext tags where a color literal appeared in slide content.
type UsageContext string

const (
	ContextBackground UsageContext = "background"
	ContextText       UsageContext = "text"
)

// ColorUsage accumulates occurrences of one color across a document's
// content, with the contexts it was seen in.
type ColorUsage struct {
	Frequency  int            `json:"frequency"`
	Contexts   []UsageContext `json:"contexts,omitempty"`
	Confidence float64        `json:"confidence,omitempty"`
}

// AddContext records a context tag, deduplicating repeats.
func (u *ColorUsage) AddContext(ctx UsageContext) {
	for _, c := range u.Contexts {
		if c == ctx {
			return
		}
	}
	u.Contexts = append(u.Contexts, ctx)
}

// TypographyFlags captures formatting conventions observed in slide
// masters.
type TypographyFlags struct {
	UsesBold      bool `json:"usesBold,omitempty"`
	UsesUppercase bool `json:"usesUppercase,omitempty"`
}

// MediaAsset is an embedded media entry with its logo classification and
// the dominant colors extracted from its content.
type MediaAsset struct {
	Name       string   `json:"name"`
	Data       []byte   `json:"-"`
	Size       int64    `json:"size"`
	IsLogo     bool     `json:"isLogo"`
	Confidence float64  `json:"confidence"`
	Colors     []string `json:"colors,omitempty"`
}

// DocumentObservation is the output of one document's extraction pass.
// All analyzers, regardless of input format, normalize to this shape so
// the aggregation stage can fan in across them uniformly.
//
// Invariant: ColorUsage never contains a near-white or near-black key;
// such colors are filtered when recorded, not later.
type DocumentObservation struct {
	Source string
	Kind   Kind

	ThemeColors []ThemeColor
	ThemeFonts  ThemeFonts

	// FontConfidence is 0.95 when ThemeFonts came from an explicit theme
	// declaration, 0 otherwise.
	FontConfidence float64

	ColorUsage        map[string]*ColorUsage
	CoordinateSamples []int
	Typography        TypographyFlags
	MediaAssets       []MediaAsset

	// SlideCount is the number of content units (slides, pages) the
	// observation was derived from.
	SlideCount int
}

// NewObservation returns an empty observation for the given source file.
func NewObservation(source string, kind Kind) *DocumentObservation {
	return &DocumentObservation{
		Source:     source,
		Kind:       kind,
		ColorUsage: make(map[string]*ColorUsage),
	}
}

// RecordColor counts one occurrence of hex in the given context. Near-white
// and near-black colors are dropped here so they never pollute aggregation.
// An empty context records the occurrence without a tag.
func (o *DocumentObservation) RecordColor(hex string, ctx UsageContext) {
	if NearWhiteOrBlackHex(hex) {
		return
	}
	u, ok := o.ColorUsage[hex]
	if !ok {
		u = &ColorUsage{}
		o.ColorUsage[hex] = u
	}
	u.Frequency++
	if ctx != "" {
		u.AddContext(ctx)
	}
}

// AnnotateConfidence fills per-color confidence from occurrence frequency:
// min(freq / (2 x slideCount), 1.0).
func (o *DocumentObservation) AnnotateConfidence() {
	slides := o.SlideCount
	if slides < 1 {
		slides = 1
	}
	for _, u := range o.ColorUsage {
		c := float64(u.Frequency) / float64(2*slides)
		if c > 1 {
			c = 1
		}
		u.Confidence = c
	}
}
