package models

import (
	"encoding/json"
	"strings"

	"gorm.io/datatypes"
)

type ImageKind string

const (
	ImageSingleURL ImageKind = "single"
	ImageURLList   ImageKind = "list"
	ImageMalformed ImageKind = "malformed"
)

// ImageSet is the resolved form of a product image column. Legacy data stores
// the column as a bare URL, a JSON-encoded array, or a comma list; it is
// resolved exactly once at ingestion and never re-parsed at read time.
type ImageSet struct {
	Kind ImageKind `json:"kind"`
	URLs []string  `json:"urls,omitempty"`
	Raw  string    `json:"raw,omitempty"`
}

// ResolveImages tags a raw image value as a single URL, URL list, or
// malformed input. Malformed values keep the raw payload so sellers can fix
// them, instead of being guessed at every render.
func ResolveImages(raw string) ImageSet {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ImageSet{Kind: ImageURLList}
	}

	if strings.HasPrefix(raw, "[") {
		var urls []string
		if err := json.Unmarshal([]byte(raw), &urls); err != nil {
			return ImageSet{Kind: ImageMalformed, Raw: raw}
		}
		return ImageSet{Kind: ImageURLList, URLs: urls}
	}

	if strings.Contains(raw, ",") {
		parts := strings.Split(raw, ",")
		urls := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if !isURLish(p) {
				return ImageSet{Kind: ImageMalformed, Raw: raw}
			}
			urls = append(urls, p)
		}
		return ImageSet{Kind: ImageURLList, URLs: urls}
	}

	if !isURLish(raw) {
		return ImageSet{Kind: ImageMalformed, Raw: raw}
	}
	return ImageSet{Kind: ImageSingleURL, URLs: []string{raw}}
}

func isURLish(s string) bool {
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "/uploads/")
}

// JSON renders the set for storage in the product images column.
func (s ImageSet) JSON() datatypes.JSON {
	b, _ := json.Marshal(s)
	return datatypes.JSON(b)
}

// Primary returns the first usable URL, empty for malformed sets.
func (s ImageSet) Primary() string {
	if len(s.URLs) == 0 {
		return ""
	}
	return s.URLs[0]
}

// ParseImageColumn loads a stored ImageSet back from its JSON column.
func ParseImageColumn(col datatypes.JSON) ImageSet {
	var s ImageSet
	if len(col) == 0 {
		return ImageSet{Kind: ImageURLList}
	}
	if err := json.Unmarshal(col, &s); err != nil {
		return ImageSet{Kind: ImageMalformed, Raw: string(col)}
	}
	return s
}
