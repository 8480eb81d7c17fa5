package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveImagesSingleURL(t *testing.T) {
	set := ResolveImages("https://cdn.example.com/p/1.jpg")

	assert.Equal(t, ImageSingleURL, set.Kind)
	assert.Equal(t, []string{"https://cdn.example.com/p/1.jpg"}, set.URLs)
	assert.Equal(t, "https://cdn.example.com/p/1.jpg", set.Primary())
}

func TestResolveImagesJSONArray(t *testing.T) {
	set := ResolveImages(`["https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"]`)

	assert.Equal(t, ImageURLList, set.Kind)
	assert.Len(t, set.URLs, 2)
	assert.Equal(t, "https://cdn.example.com/a.jpg", set.Primary())
}

func TestResolveImagesCommaList(t *testing.T) {
	set := ResolveImages("https://cdn.example.com/a.jpg, /uploads/b.jpg")

	assert.Equal(t, ImageURLList, set.Kind)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg", "/uploads/b.jpg"}, set.URLs)
}

func TestResolveImagesMalformedKeepsRaw(t *testing.T) {
	for _, raw := range []string{
		"not a url",
		`["https://cdn.example.com/a.jpg"`, // truncated JSON
		"https://cdn.example.com/a.jpg, garbage",
	} {
		set := ResolveImages(raw)

		assert.Equal(t, ImageMalformed, set.Kind, "input %q", raw)
		assert.Equal(t, raw, set.Raw)
		assert.Empty(t, set.Primary())
	}
}

func TestResolveImagesEmpty(t *testing.T) {
	set := ResolveImages("  ")

	assert.Equal(t, ImageURLList, set.Kind)
	assert.Empty(t, set.URLs)
}

// Resolution happens once at ingestion; reads must round-trip the stored
// column without re-guessing.
func TestImageColumnRoundTrip(t *testing.T) {
	original := ResolveImages("https://cdn.example.com/p/1.jpg")

	restored := ParseImageColumn(original.JSON())

	assert.Equal(t, original, restored)
}

func TestParseImageColumnEmpty(t *testing.T) {
	set := ParseImageColumn(nil)

	assert.Equal(t, ImageURLList, set.Kind)
}
