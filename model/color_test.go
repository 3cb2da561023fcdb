package model

import "testing"

func TestParseHex(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Color
		ok    bool
	}{
		{"with hash", "#ff8000", Color{R: 0xff, G: 0x80, B: 0x00}, true},
		{"without hash", "ff8000", Color{R: 0xff, G: 0x80, B: 0x00}, true},
		{"uppercase", "#FF8000", Color{R: 0xff, G: 0x80, B: 0x00}, true},
		{"too short", "#fff", Color{}, false},
		{"too long", "#ff80001", Color{}, false},
		{"not hex", "#zzzzzz", Color{}, false},
		{"empty", "", Color{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseHex(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseHex(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseHex(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestHexRoundTrip(t *testing.T) {
	c, ok := ParseHex("#1F2937")
	if !ok {
		t.Fatal("parse failed")
	}
	if got := c.Hex(); got != "#1f2937" {
		t.Errorf("Hex() = %q, want %q", got, "#1f2937")
	}
}

func TestNearWhiteOrBlack(t *testing.T) {
	tests := []struct {
		hex  string
		want bool
	}{
		{"#000000", true},  // black
		{"#ffffff", true},  // white
		{"#f5f5f5", true},  // near white
		{"#101010", true},  // near black
		{"#ff0000", false}, // red, luminance ~76
		{"#00ff00", false}, // green, luminance ~150
		{"#0000ff", true},  // pure blue, luminance ~29 is below the floor
		{"#808080", false}, // mid gray
		{"#e60073", false},
	}

	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			c, ok := ParseHex(tt.hex)
			if !ok {
				t.Fatalf("parse failed for %q", tt.hex)
			}
			if got := c.NearWhiteOrBlack(); got != tt.want {
				t.Errorf("NearWhiteOrBlack(%s) = %v (luminance %.1f), want %v",
					tt.hex, got, c.Luminance(), tt.want)
			}
		})
	}
}

func TestNearWhiteOrBlackHexUnparseable(t *testing.T) {
	// Garbage keys must never survive into aggregation.
	if !NearWhiteOrBlackHex("not-a-color") {
		t.Error("unparseable value should be treated as filtered")
	}
}

func TestHue(t *testing.T) {
	tests := []struct {
		hex  string
		want int
	}{
		{"#ff0000", 0},
		{"#00ff00", 120},
		{"#0000ff", 240},
		{"#ffff00", 60},
		{"#808080", 0}, // achromatic
	}

	for _, tt := range tests {
		c, _ := ParseHex(tt.hex)
		if got := c.Hue(); got != tt.want {
			t.Errorf("Hue(%s) = %d, want %d", tt.hex, got, tt.want)
		}
	}
}

func TestHueDistance(t *testing.T) {
	tests := []struct {
		a, b, want int
	}{
		{0, 30, 30},
		{30, 0, 30},
		{350, 10, 20}, // wraparound
		{10, 350, 20},
		{0, 180, 180},
		{90, 90, 0},
	}

	for _, tt := range tests {
		if got := HueDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("HueDistance(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
