package pipeline

import (
	"path/filepath"
	"strings"
)

// DocIDFromFilename derives a stable document ID from the uploaded
// filename: extension stripped, separators normalized to underscores,
// brackets removed. The same filename always maps to the same ID, so
// re-uploading replaces the document instead of duplicating it.
func DocIDFromFilename(filename string) string {
	base := filepath.Base(filename)
	id := strings.TrimSuffix(base, filepath.Ext(base))

	replacer := strings.NewReplacer(
		" ", "_",
		"-", "_",
		",", "_",
		"[", "",
		"]", "",
	)
	id = replacer.Replace(id)

	for strings.Contains(id, "__") {
		id = strings.ReplaceAll(id, "__", "_")
	}
	id = strings.Trim(id, "_")

	if id == "" {
		return "doc"
	}
	return id
}
