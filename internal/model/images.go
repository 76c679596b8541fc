package model

import (
	"encoding/json"
	"strings"
)

// DecodeImageList parses an image_url value. Historic records stored a single
// bare URL; newer ones store a JSON array. JSON-parse first, and fall back to
// treating the raw string as a one-element list.
func DecodeImageList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var urls []string
	if err := json.Unmarshal([]byte(s), &urls); err == nil {
		return urls
	}
	return []string{s}
}

// EncodeImageList serializes image references for storage. Always writes a
// JSON array, even for zero or one entries; DecodeImageList reads both forms.
func EncodeImageList(urls []string) string {
	if len(urls) == 0 {
		return ""
	}
	data, err := json.Marshal(urls)
	if err != nil {
		return ""
	}
	return string(data)
}
