package specs

import (
	"github.com/specmap/specmap/pkg/errors"
)

// Origin records where a canonical document came from: the source dialect,
// the dialect version, and the URL it was fetched from. It is attached at
// conversion time and immutable afterwards; every later run re-derives the
// conversion path from it.
type Origin struct {
	Format  string `json:"format"`
	Version string `json:"version"`
	URL     string `json:"url"`
}

// SetOrigin prepends an origin entry to the provenance chain. The first
// entry always describes the original source.
func (d Document) SetOrigin(o Origin) {
	info := d.Info()
	entry := map[string]any{
		"format":  o.Format,
		"version": o.Version,
		"url":     o.URL,
	}
	chain, _ := info[XOrigin].([]any)
	info[XOrigin] = append([]any{entry}, chain...)
}

// Origin returns element 0 of the provenance chain. A converted document
// always carries one; absence is an invariant violation.
func (d Document) Origin() (Origin, error) {
	info, ok := d["info"].(map[string]any)
	if !ok {
		return Origin{}, errors.NewMetadataError("info")
	}
	chain, ok := info[XOrigin].([]any)
	if !ok || len(chain) == 0 {
		return Origin{}, errors.NewMetadataError(XOrigin)
	}
	entry, ok := chain[0].(map[string]any)
	if !ok {
		return Origin{}, &errors.MetadataError{Field: XOrigin, Reason: "has a malformed entry"}
	}
	o := Origin{}
	o.Format, _ = entry["format"].(string)
	o.Version, _ = entry["version"].(string)
	o.URL, _ = entry["url"].(string)
	if o.URL == "" {
		return Origin{}, &errors.MetadataError{Field: XOrigin, Reason: "entry is missing url"}
	}
	return o, nil
}

// OriginURL returns the URL of the original source.
func (d Document) OriginURL() (string, error) {
	o, err := d.Origin()
	if err != nil {
		return "", err
	}
	return o.URL, nil
}

// OriginFormat returns the dialect of the original source.
func (d Document) OriginFormat() (Origin, error) {
	return d.Origin()
}
