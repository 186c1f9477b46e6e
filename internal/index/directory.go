package index

import (
	"github.com/specmap/specmap/pkg/specs"
)

// DirectoryEntry is one API in the directory aggregation document.
type DirectoryEntry struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Homepage    string `json:"homepage,omitempty"`
	BaseURL     string `json:"baseUrl,omitempty"`
	Version     string `json:"version"`
}

// Directory builds the directory-style aggregation document: one entry per
// preferred version, sorted by index key.
func Directory(list List) []DirectoryEntry {
	entries := preferredEntries(list)
	out := make([]DirectoryEntry, 0, len(entries))
	for _, entry := range entries {
		description, _ := entry.Info["description"].(string)
		out = append(out, DirectoryEntry{
			Name:        entry.identity.Key(),
			Description: description,
			Image:       logoOf(entry.Info),
			Homepage:    entry.homepage,
			BaseURL:     entry.baseURL,
			Version:     entry.identity.Version,
		})
	}
	return out
}

func logoOf(info specs.Document) string {
	if logo, ok := info[specs.XLogo].(map[string]any); ok {
		if u, _ := logo["url"].(string); u != "" {
			return u
		}
	}
	return ""
}
