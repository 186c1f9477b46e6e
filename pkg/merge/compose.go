package merge

import (
	"encoding/json"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/specmap/specmap/pkg/errors"
	"github.com/specmap/specmap/pkg/specs"
)

// Compose combines two sparse patch documents into their logical union using
// JSON Merge Patch (RFC 7386) semantics: the overlay wins on leaf conflicts
// and an explicit null deletes. It is used to collapse the persisted patch
// layers and the caller-supplied patch into one effective patch before the
// strict Merge, and to fold new curated data into a persisted patch file.
// Either side may be nil.
func Compose(base, overlay specs.Document) (specs.Document, error) {
	if base == nil {
		return overlay, nil
	}
	if overlay == nil {
		return base, nil
	}
	baseRaw, err := json.Marshal(base)
	if err != nil {
		return nil, errors.WrapParse("json", "patch", err)
	}
	overlayRaw, err := json.Marshal(overlay)
	if err != nil {
		return nil, errors.WrapParse("json", "patch", err)
	}
	combined, err := jsonpatch.MergeMergePatches(baseRaw, overlayRaw)
	if err != nil {
		return nil, errors.WrapParse("json", "patch", err)
	}
	var merged specs.Document
	if err := json.Unmarshal(combined, &merged); err != nil {
		return nil, errors.WrapParse("json", "patch", err)
	}
	return merged, nil
}

// ComposeAll folds a sequence of patch layers, first to last, into one
// effective patch. Later layers win on conflicts. Nil layers are skipped;
// the result is nil when every layer is nil.
func ComposeAll(layers ...specs.Document) (specs.Document, error) {
	var effective specs.Document
	for _, layer := range layers {
		var err error
		effective, err = Compose(effective, layer)
		if err != nil {
			return nil, err
		}
	}
	return effective, nil
}
