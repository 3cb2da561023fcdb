// Package format provides input format detection for the brandlens
// pipeline.
package format

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format represents a supported analyzer family.
type Format int

const (
	// Unknown indicates an unrecognized input.
	Unknown Format = iota
	// Presentation indicates an OOXML presentation (.pptx, .ppt, .potx).
	Presentation
	// PDF indicates a PDF document.
	PDF
	// Image indicates a raster or vector image.
	Image
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case Presentation:
		return "Presentation"
	case PDF:
		return "PDF"
	case Image:
		return "Image"
	default:
		return "Unknown"
	}
}

// imageExts lists the image extensions the pipeline accepts, matching the
// media extensions recognized inside presentation packages.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".svg":  true,
	".webp": true,
}

// Detect determines the analyzer family from a filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case ext == ".pptx" || ext == ".ppt" || ext == ".potx":
		return Presentation
	case ext == ".pdf":
		return PDF
	case imageExts[ext]:
		return Image
	}
	return Unknown
}

// IsImageExt reports whether the extension (with or without a leading
// dot) is a recognized image type.
func IsImageExt(ext string) bool {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return imageExts[ext]
}

// DetectFromMagic checks magic bytes for a coarse format guess. It cannot
// distinguish OOXML flavors (all are ZIP), so it returns Presentation for
// any ZIP signature. Returns Unknown when the bytes match nothing.
func DetectFromMagic(data []byte) Format {
	switch {
	case len(data) >= 4 && bytes.HasPrefix(data, []byte("%PDF")):
		return PDF
	case len(data) >= 4 && bytes.HasPrefix(data, []byte("PK\x03\x04")):
		return Presentation
	case len(data) >= 8 && bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return Image
	case len(data) >= 3 && bytes.HasPrefix(data, []byte("\xff\xd8\xff")):
		return Image
	case len(data) >= 6 && (bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a"))):
		return Image
	}
	return Unknown
}
