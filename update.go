package specmap

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/specmap/specmap/pkg/convert"
	"github.com/specmap/specmap/pkg/errors"
	"github.com/specmap/specmap/pkg/specs"
	"github.com/specmap/specmap/pkg/validate"
)

// URLs lists the recorded origin URL of every stored document, sorted and
// deduplicated.
func (c *collection) URLs() ([]string, error) {
	rels, err := c.store.FindSpecs()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(rels))
	urls := make([]string, 0, len(rels))
	for _, rel := range rels {
		doc, err := c.store.ReadJSON(rel)
		if err != nil {
			return nil, err
		}
		u, err := doc.OriginURL()
		if err != nil {
			return nil, err
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls, nil
}

// Update re-runs the convergence pipeline for every stored document from
// its recorded origin. Documents are processed one at a time; a failing
// document is reported and skipped unless the failure indicates corrupted
// durable state, which aborts the batch.
func (c *collection) Update(ctx context.Context) (*UpdateResult, error) {
	rels, err := c.store.FindSpecs()
	if err != nil {
		return nil, err
	}
	res := &UpdateResult{}
	for _, rel := range rels {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		doc, err := c.store.ReadJSON(rel)
		if err != nil {
			return res, err
		}
		origin, err := doc.Origin()
		if err != nil {
			// A stored document without provenance cannot be refreshed
			// and means the collection itself is damaged.
			return res, err
		}
		res.Processed++
		hint := convert.GetTypeName(origin.Format, origin.Version)
		wr, err := c.WriteSpec(ctx, origin.URL, hint, identityExtensions(doc))
		if err != nil {
			if errors.Fatal(err) {
				return res, err
			}
			c.log.Warn().Str("source", origin.URL).Err(err).Msg("document failed, continuing")
			res.record(origin.URL, wr, err)
			continue
		}
		res.Succeeded++
	}
	return res, nil
}

// Validate checks every stored document against the canonical schema and
// semantic sweeps without touching the store.
func (c *collection) Validate(ctx context.Context) (*UpdateResult, error) {
	rels, err := c.store.FindSpecs()
	if err != nil {
		return nil, err
	}
	res := &UpdateResult{}
	for _, rel := range rels {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		doc, err := c.store.ReadJSON(rel)
		if err != nil {
			return res, err
		}
		res.Processed++
		verrs, warns, err := validate.Spec(doc)
		if err != nil {
			res.record(rel, nil, err)
			continue
		}
		if len(verrs) > 0 {
			wr := &WriteResult{Doc: doc, Errors: verrs, Warnings: warns}
			res.record(rel, wr, &errors.ValidationFailedError{
				Source:     rel,
				ErrorCount: len(verrs),
			})
			continue
		}
		res.Succeeded++
	}
	return res, nil
}

// identityExtensions extracts the identity extensions of a stored document
// as a caller patch. A refresh re-converts the source from scratch, which
// knows nothing of a curated service name or preferred flag; carrying them
// forward keeps the document at its established path.
func identityExtensions(doc specs.Document) specs.Document {
	info, ok := doc["info"].(map[string]any)
	if !ok {
		return nil
	}
	carry := map[string]any{}
	if service, ok := info[specs.XServiceName].(string); ok && service != "" {
		carry[specs.XServiceName] = service
	}
	if preferred, ok := info[specs.XPreferred].(bool); ok {
		carry[specs.XPreferred] = preferred
	}
	if len(carry) == 0 {
		return nil
	}
	return specs.Document{"info": carry}
}

// Add fetches one new source and writes its canonical form. Service and
// preferred, when set, seed the caller patch; refreshes carry them forward
// from the stored document afterwards.
func (c *collection) Add(ctx context.Context, format, source, service string, preferred bool) (*WriteResult, error) {
	info := map[string]any{}
	if service != "" {
		info[specs.XServiceName] = service
	}
	if preferred {
		info[specs.XPreferred] = true
	}
	var extra specs.Document
	if len(info) > 0 {
		extra = specs.Document{"info": info}
	}
	return c.WriteSpec(ctx, source, format, extra)
}

// discoveryDirectory is the shape of the Google API Discovery directory
// listing, reduced to the fields the refresh consumes.
type discoveryDirectory struct {
	Items []struct {
		Name             string `json:"name"`
		Version          string `json:"version"`
		Preferred        bool   `json:"preferred"`
		DiscoveryRestURL string `json:"discoveryRestUrl"`
	} `json:"items"`
}

// RefreshDiscovery fetches the Google API Discovery directory and runs the
// pipeline for every listed API, carrying the directory's preferred flag
// into each document.
func (c *collection) RefreshDiscovery(ctx context.Context) (*UpdateResult, error) {
	raw, err := c.client.Fetch(ctx, c.cfg.discoveryURL)
	if err != nil {
		return nil, err
	}
	var dir discoveryDirectory
	if err := json.Unmarshal(raw, &dir); err != nil {
		return nil, errors.WrapParse("json", c.cfg.discoveryURL, err)
	}

	res := &UpdateResult{}
	for _, item := range dir.Items {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if item.DiscoveryRestURL == "" {
			continue
		}
		res.Processed++
		extra := specs.Document{"info": map[string]any{specs.XPreferred: item.Preferred}}
		wr, err := c.WriteSpec(ctx, item.DiscoveryRestURL, "google", extra)
		if err != nil {
			if errors.Fatal(err) {
				return res, err
			}
			c.log.Warn().
				Str("api", item.Name).
				Str("version", item.Version).
				Err(err).
				Msg("discovery document failed, continuing")
			res.record(item.DiscoveryRestURL, wr, err)
			continue
		}
		res.Succeeded++
	}
	return res, nil
}
