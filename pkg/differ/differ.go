// Package differ computes and applies structural diffs between canonical
// documents. Diffs are RFC 6902 operation lists produced in invertible form:
// every replace and remove is preceded by a test op carrying the prior
// value, which is what makes a persisted fixup reversible when a new diff
// must be recorded on top of an old one.
package differ

import (
	"encoding/json"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/wI2L/jsondiff"

	"github.com/specmap/specmap/pkg/errors"
	"github.com/specmap/specmap/pkg/specs"
)

// Operation is one RFC 6902 patch operation.
type Operation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	From  string `json:"from,omitempty"`
	Value any    `json:"value,omitempty"`
}

// Diff is an ordered list of patch operations. A nil Diff means the two
// documents were equal.
type Diff []Operation

// Compare returns the diff that transforms a into b, or nil when they are
// structurally equal.
func Compare(a, b specs.Document) (Diff, error) {
	patch, err := jsondiff.Compare(map[string]any(a), map[string]any(b), jsondiff.Invertible())
	if err != nil {
		return nil, errors.WrapResource("diff", "document", "", err)
	}
	if len(patch) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(patch)
	if err != nil {
		return nil, errors.WrapParse("json", "diff", err)
	}
	var d Diff
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, errors.WrapParse("json", "diff", err)
	}
	return d, nil
}

// Patch applies a diff to a document and returns the transformed copy. The
// input document is not modified. A nil diff returns a plain copy.
func Patch(doc specs.Document, d Diff) (specs.Document, error) {
	if len(d) == 0 {
		return doc.Copy(), nil
	}
	docRaw, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.WrapParse("json", "document", err)
	}
	diffRaw, err := json.Marshal(d)
	if err != nil {
		return nil, errors.WrapParse("json", "diff", err)
	}
	patch, err := jsonpatch.DecodePatch(diffRaw)
	if err != nil {
		return nil, errors.WrapResource("decode", "diff", "", err)
	}
	patched, err := patch.Apply(docRaw)
	if err != nil {
		return nil, errors.WrapResource("apply", "diff", "", err)
	}
	var out specs.Document
	if err := json.Unmarshal(patched, &out); err != nil {
		return nil, errors.WrapParse("json", "document", err)
	}
	return out, nil
}

// Unpatch reverses a diff: applying Unpatch after Patch with the same diff
// yields the original document. The diff must be invertible.
func Unpatch(doc specs.Document, d Diff) (specs.Document, error) {
	inverse, err := Invert(d)
	if err != nil {
		return nil, err
	}
	return Patch(doc, inverse)
}

// Invert returns the diff that undoes d. It relies on the invertible form:
// a replace or remove must be preceded by a test op on the same path
// carrying the prior value.
func Invert(d Diff) (Diff, error) {
	if len(d) == 0 {
		return nil, nil
	}
	inverse := make(Diff, 0, len(d))
	for i := len(d) - 1; i >= 0; i-- {
		op := d[i]
		switch op.Op {
		case "add":
			inverse = append(inverse,
				Operation{Op: "test", Path: op.Path, Value: op.Value},
				Operation{Op: "remove", Path: op.Path},
			)
		case "replace":
			prior, err := priorValue(d, i)
			if err != nil {
				return nil, err
			}
			inverse = append(inverse,
				Operation{Op: "test", Path: op.Path, Value: op.Value},
				Operation{Op: "replace", Path: op.Path, Value: prior},
			)
			i-- // consume the test op
		case "remove":
			prior, err := priorValue(d, i)
			if err != nil {
				return nil, err
			}
			inverse = append(inverse, Operation{Op: "add", Path: op.Path, Value: prior})
			i-- // consume the test op
		case "test":
			// A test with no consumer; harmless, nothing to undo.
		default:
			return nil, errors.WrapResource("invert", "diff", op.Op, errors.ErrInvalidInput)
		}
	}
	return inverse, nil
}

func priorValue(d Diff, i int) (any, error) {
	if i == 0 || d[i-1].Op != "test" || d[i-1].Path != d[i].Path {
		return nil, errors.WrapResource("invert", "diff", d[i].Path, errors.New("missing test op carrying the prior value"))
	}
	return d[i-1].Value, nil
}
