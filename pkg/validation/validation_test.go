package validation

import (
	"strings"
	"testing"
)

func TestNormalizeHexColor(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{in: "#fff", want: "#ffffff", wantOK: true},
		{in: "#FFF", want: "#ffffff", wantOK: true},
		{in: " #1a2B3c ", want: "#1a2b3c", wantOK: true},
		{in: "#a1b", want: "#aa11bb", wantOK: true},
		{in: "fff", wantOK: false},
		{in: "#ffff", wantOK: false},
		{in: "#ggg", wantOK: false},
		{in: "", wantOK: false},
		{in: "#1234567", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeHexColor(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("NormalizeHexColor(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "photo.jpg", want: "photo.jpg"},
		{name: "spaces", in: "my holiday photo.JPG", want: "my-holiday-photo.JPG"},
		{name: "accents decomposed", in: "café.png", want: "cafe-.png"},
		{name: "cyrillic only", in: "фото", want: "file"},
		{name: "leading and trailing junk", in: "  ##report##  ", want: "report"},
		{name: "empty", in: "", want: "file"},
		{name: "path separators", in: "../../etc/passwd", want: "..-..-etc-passwd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeFilename(tt.in); got != tt.want {
				t.Errorf("SafeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSafeFilenameTruncates(t *testing.T) {
	got := SafeFilename(strings.Repeat("a", 300) + ".png")
	if len(got) != maxFilenameLength {
		t.Errorf("len = %d, want %d", len(got), maxFilenameLength)
	}
}

func TestHasMediaType(t *testing.T) {
	if !HasMediaType("image/png", "image") {
		t.Error("image/png should be an image")
	}
	if !HasMediaType("Video/MP4", "video") {
		t.Error("Video/MP4 should be a video")
	}
	if HasMediaType("application/octet-stream", "image") {
		t.Error("octet-stream is not an image")
	}
	if HasMediaType("", "image") {
		t.Error("empty type is not an image")
	}
}
