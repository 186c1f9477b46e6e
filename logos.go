package specmap

import (
	"context"
	"path"
	"strings"

	"github.com/specmap/specmap/pkg/constants"
	"github.com/specmap/specmap/pkg/specs"
)

// logoExtensions maps sniffed or declared image content types to file
// extensions for cached copies.
var logoExtensions = map[string]string{
	"image/png":                ".png",
	"image/jpeg":               ".jpeg",
	"image/gif":                ".gif",
	"image/svg+xml":            ".svg",
	"image/webp":               ".webp",
	"image/x-icon":             ".ico",
	"image/vnd.microsoft.icon": ".ico",
}

// CacheLogos downloads each document's external logo into the cache
// directory and rewrites the logo URL to point at the cached copy. Logos
// already served from the collection's own base URL are left alone. A
// failing download skips that document only.
func (c *collection) CacheLogos(ctx context.Context) (*UpdateResult, error) {
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
		logo, _ := specs.Resolve(doc, []string{"info", specs.XLogo, "url"})
		logoURL, ok := logo.(string)
		if !ok || logoURL == "" {
			continue
		}
		if c.cfg.baseURL != "" && strings.HasPrefix(logoURL, c.cfg.baseURL) {
			continue
		}
		res.Processed++

		id, err := doc.Identity()
		if err != nil {
			return res, err
		}
		body, contentType, err := c.client.FetchBinary(ctx, logoURL)
		if err != nil {
			c.log.Warn().Str("url", logoURL).Err(err).Msg("logo fetch failed, continuing")
			res.record(logoURL, nil, err)
			continue
		}

		name := logoFilename(id, contentType, logoURL)
		cacheRel := path.Join(c.cfg.cacheDir, "logo", name)
		if err := c.store.WriteBytes(cacheRel, body); err != nil {
			return res, err
		}

		node, _ := specs.Resolve(doc, []string{"info", specs.XLogo})
		if m, ok := node.(map[string]any); ok {
			m["url"] = c.logoURL(cacheRel)
		}
		if err := c.store.WriteJSON(rel, doc); err != nil {
			return res, err
		}
		yamlRel := strings.TrimSuffix(rel, constants.SwaggerJSON) + constants.SwaggerYAML
		if err := c.store.WriteYAML(yamlRel, doc); err != nil {
			return res, err
		}
		res.Succeeded++
	}
	return res, nil
}

// logoFilename derives a stable cache filename from the document identity
// and the image content type, falling back to the source URL's extension.
func logoFilename(id specs.Identity, contentType, srcURL string) string {
	base := id.Provider
	if id.Service != "" {
		base += "_" + id.Service
	}
	ext, ok := logoExtensions[strings.TrimSpace(strings.Split(contentType, ";")[0])]
	if !ok {
		ext = path.Ext(srcURL)
		if ext == "" || strings.ContainsAny(ext, "?&=") {
			ext = ".png"
		}
	}
	return base + "_logo" + ext
}

// logoURL is the published URL of a cached logo. Without a configured base
// URL the collection-relative path is recorded instead.
func (c *collection) logoURL(cacheRel string) string {
	if c.cfg.baseURL == "" {
		return cacheRel
	}
	return strings.TrimSuffix(c.cfg.baseURL, "/") + "/" + cacheRel
}
