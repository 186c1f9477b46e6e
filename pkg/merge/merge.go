// Package merge applies curated patches to canonical documents. The strict
// merge is additive-only: a patch may introduce fields the source does not
// set, but a collision with source-derived data is a loud error rather than
// a silent clobber, because the source may have since added the same field.
package merge

import (
	"fmt"
	"reflect"

	"github.com/specmap/specmap/pkg/errors"
	"github.com/specmap/specmap/pkg/specs"
)

// Merge applies a sparse additive patch to target, mutating it in place.
// Mapping values recurse; a nil patch is a no-op. A nil value inside the
// patch means deletion, which the additive layer forbids
// (*errors.ProtectedFieldError); a non-mergeable collision with an existing
// value fails with *errors.OverwriteError.
func Merge(target, patch specs.Document) error {
	if patch == nil {
		return nil
	}
	return mergeInto(map[string]any(target), map[string]any(patch), "")
}

func mergeInto(target, patch map[string]any, at string) error {
	if target == nil {
		return &errors.TypeError{Path: at, Expected: "mapping", Actual: "nil"}
	}
	for key, pv := range patch {
		if pv == nil {
			return &errors.ProtectedFieldError{Field: key}
		}
		tv, exists := target[key]
		if !exists {
			target[key] = pv
			continue
		}
		if reflect.DeepEqual(tv, pv) {
			// Re-applying a patch that already landed is harmless; this is
			// what makes the strict merge idempotent.
			continue
		}
		tm, tok := asMap(tv)
		pm, pok := asMap(pv)
		if tok && pok {
			if err := mergeInto(tm, pm, joinPath(at, key)); err != nil {
				return err
			}
			continue
		}
		return &errors.OverwriteError{Field: key, Path: joinPath(at, key)}
	}
	return nil
}

func asMap(v any) (map[string]any, bool) {
	switch v := v.(type) {
	case map[string]any:
		return v, true
	case specs.Document:
		return map[string]any(v), true
	default:
		return nil, false
	}
}

func joinPath(at, key string) string {
	if at == "" {
		return key
	}
	return fmt.Sprintf("%s.%s", at, key)
}
