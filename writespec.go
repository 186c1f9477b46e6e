package specmap

import (
	"context"
	"path"

	"github.com/specmap/specmap/pkg/constants"
	"github.com/specmap/specmap/pkg/convert"
	"github.com/specmap/specmap/pkg/differ"
	"github.com/specmap/specmap/pkg/errors"
	"github.com/specmap/specmap/pkg/fixer"
	"github.com/specmap/specmap/pkg/merge"
	"github.com/specmap/specmap/pkg/specs"
	"github.com/specmap/specmap/pkg/validate"
)

// WriteSpec runs the convergence pipeline for one source document:
//
//	convert -> patch -> replay fixup -> validate -> (fix -> validate)*
//
// and persists the canonical swagger.json and swagger.yaml artifacts once
// validation reports no errors. A fixed point with errors remaining, or a
// fix loop that hits its iteration cap, leaves the store untouched and
// returns the document so far on the result for diagnosis.
func (c *collection) WriteSpec(ctx context.Context, source, format string, extraPatch specs.Document) (*WriteResult, error) {
	src, err := convert.GetSpec(ctx, c.client, source, format)
	if err != nil {
		return nil, err
	}
	converted, err := src.ConvertTo(constants.CanonicalFormat)
	if err != nil {
		return nil, err
	}

	doc := converted.Doc
	doc.SetOrigin(specs.Origin{
		Format:  converted.Format,
		Version: converted.Version,
		URL:     source,
	})
	info := doc.Info()
	if _, ok := info[specs.XProviderName].(string); !ok {
		if p := convert.ProviderFromURL(source); p != "" {
			info[specs.XProviderName] = p
		}
	}

	// Identity determines which persisted patch layers apply, but the
	// caller patch may itself supply identity extensions (the service
	// name). Derive it from a preview with the caller patch applied; the
	// later single merge of the composed patch re-applies the same values,
	// which the equality-tolerant merge accepts.
	preview := doc.Copy()
	if err := merge.Merge(preview, extraPatch); err != nil {
		return nil, err
	}
	id, err := preview.Identity()
	if err != nil {
		return nil, err
	}

	layers, err := c.store.PatchLayers(id)
	if err != nil {
		return nil, err
	}
	effective, err := merge.ComposeAll(append([]specs.Document{extraPatch}, layers...)...)
	if err != nil {
		return nil, err
	}
	if err := merge.Merge(doc, effective); err != nil {
		return nil, err
	}

	res := &WriteResult{Identity: id, Doc: doc, Source: src}

	// Replay the recorded hand edit, if any. A diff that no longer applies
	// means the source drifted under it; that fails this document only.
	var fixup differ.Diff
	found, err := c.store.Read(path.Join(id.Dir(), constants.FixupFile), &fixup)
	if err != nil {
		return res, err
	}
	if found {
		patched, err := differ.Patch(doc, fixup)
		if err != nil {
			return res, &errors.FixupError{Path: id.Dir(), Err: err}
		}
		doc = patched
		res.Doc = doc
	}

	for i := 0; ; i++ {
		verrs, warns, err := validate.Spec(doc)
		if err != nil {
			return res, err
		}
		res.Errors, res.Warnings = verrs, warns
		if len(verrs) == 0 {
			break
		}
		if i >= constants.MaxFixIterations {
			res.CapReached = true
			return res, &errors.ValidationFailedError{
				Source:     source,
				ErrorCount: len(verrs),
				CapReached: true,
			}
		}
		if !fixer.Fix(doc, verrs) {
			return res, &errors.ValidationFailedError{
				Source:     source,
				ErrorCount: len(verrs),
			}
		}
		c.log.Debug().
			Str("identity", id.String()).
			Int("iteration", i+1).
			Int("errors", len(verrs)).
			Msg("applied automatic fixes, revalidating")
	}

	rel := path.Join(id.Dir(), constants.SwaggerJSON)
	if err := c.store.WriteJSON(rel, doc); err != nil {
		return res, err
	}
	if err := c.store.WriteYAML(path.Join(id.Dir(), constants.SwaggerYAML), doc); err != nil {
		return res, err
	}
	res.Path = rel

	c.log.Info().
		Str("identity", id.String()).
		Str("path", rel).
		Int("warnings", len(res.Warnings)).
		Msg("wrote canonical document")
	return res, nil
}
