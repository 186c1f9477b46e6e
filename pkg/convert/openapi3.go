package convert

import (
	"net/url"
	"strings"

	"github.com/specmap/specmap/pkg/errors"
	"github.com/specmap/specmap/pkg/specs"
)

// openapi3Converter down-converts OpenAPI 3.x documents into Swagger 2.0.
// The mapping is structural: servers become host/basePath/schemes,
// components fold into definitions, request bodies become body parameters,
// and response content collapses to the first media type's schema. Features
// with no 2.0 counterpart (callbacks, links) are dropped.
type openapi3Converter struct{}

func (openapi3Converter) Name() string { return "openapi_3" }

func (openapi3Converter) Detect(doc map[string]any) bool {
	v, _ := doc["openapi"].(string)
	return strings.HasPrefix(v, "3")
}

func (openapi3Converter) Version(doc map[string]any) string {
	v, _ := doc["openapi"].(string)
	return v
}

func (c openapi3Converter) Convert(doc map[string]any) (specs.Document, error) {
	if !c.Detect(doc) {
		return nil, errors.New("source has no openapi 3.x marker")
	}
	src := specs.Document(doc).Copy()
	out := specs.Document{"swagger": "2.0"}

	if info, ok := src["info"].(map[string]any); ok {
		out["info"] = info
	}
	if tags, ok := src["tags"]; ok {
		out["tags"] = tags
	}
	if docs, ok := src["externalDocs"]; ok {
		out["externalDocs"] = docs
	}

	applyServers(out, src)

	if components, ok := src["components"].(map[string]any); ok {
		if schemas, ok := components["schemas"].(map[string]any); ok {
			out["definitions"] = schemas
		}
	}

	if paths, ok := src["paths"].(map[string]any); ok {
		for _, itemRaw := range paths {
			item, ok := itemRaw.(map[string]any)
			if !ok {
				continue
			}
			for _, method := range []string{"get", "put", "post", "delete", "options", "head", "patch"} {
				if op, ok := item[method].(map[string]any); ok {
					convertOperation(op)
				}
			}
			convertParameterList(item)
		}
		out["paths"] = paths
	} else {
		out["paths"] = map[string]any{}
	}

	rewriteRefs(map[string]any(out))
	return out, nil
}

// applyServers derives host, basePath, and schemes from the first server.
func applyServers(out, src specs.Document) {
	servers, _ := src["servers"].([]any)
	if len(servers) == 0 {
		return
	}
	server, ok := servers[0].(map[string]any)
	if !ok {
		return
	}
	raw, _ := server["url"].(string)
	if raw == "" {
		return
	}
	u, err := url.Parse(raw)
	if err != nil {
		return
	}
	if u.Host != "" {
		out["host"] = u.Host
	}
	if u.Path != "" && u.Path != "/" {
		out["basePath"] = strings.TrimSuffix(u.Path, "/")
	}
	if u.Scheme != "" {
		out["schemes"] = []any{u.Scheme}
	}
}

// convertOperation rewrites one operation in place: request bodies become
// body parameters and response content collapses to a schema.
func convertOperation(op map[string]any) {
	convertParameterList(op)

	if body, ok := op["requestBody"].(map[string]any); ok {
		delete(op, "requestBody")
		param := map[string]any{"name": "body", "in": "body"}
		if desc, ok := body["description"].(string); ok {
			param["description"] = desc
		}
		if required, ok := body["required"].(bool); ok {
			param["required"] = required
		}
		if mediaType, schema := firstContent(body); schema != nil {
			param["schema"] = schema
			op["consumes"] = []any{mediaType}
		} else {
			param["schema"] = map[string]any{}
		}
		params, _ := op["parameters"].([]any)
		op["parameters"] = append(params, param)
	}

	if responses, ok := op["responses"].(map[string]any); ok {
		var produces []any
		for _, respRaw := range responses {
			resp, ok := respRaw.(map[string]any)
			if !ok {
				continue
			}
			if mediaType, schema := firstContent(resp); schema != nil {
				resp["schema"] = schema
				if !containsAny(produces, mediaType) {
					produces = append(produces, mediaType)
				}
			}
			delete(resp, "content")
			delete(resp, "links")
			if _, has := resp["description"]; !has {
				resp["description"] = ""
			}
		}
		if len(produces) > 0 {
			op["produces"] = produces
		}
	}

	delete(op, "callbacks")
	delete(op, "servers")
}

// convertParameterList hoists each parameter's schema fields to the
// parameter itself, the 2.0 shape.
func convertParameterList(node map[string]any) {
	params, ok := node["parameters"].([]any)
	if !ok {
		return
	}
	for _, raw := range params {
		param, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		schema, ok := param["schema"].(map[string]any)
		if !ok {
			continue
		}
		if in, _ := param["in"].(string); in == "body" {
			continue
		}
		delete(param, "schema")
		delete(param, "style")
		delete(param, "explode")
		for _, field := range []string{"type", "format", "enum", "default", "items", "minimum", "maximum", "pattern"} {
			if v, has := schema[field]; has {
				param[field] = v
			}
		}
		if _, has := param["type"]; !has {
			param["type"] = "string"
		}
	}
}

// firstContent returns the first media type and schema of a content map.
// JSON wins when present, for determinism.
func firstContent(node map[string]any) (string, map[string]any) {
	content, ok := node["content"].(map[string]any)
	if !ok {
		return "", nil
	}
	pick := func(mediaType string) (string, map[string]any) {
		mt, ok := content[mediaType].(map[string]any)
		if !ok {
			return "", nil
		}
		schema, _ := mt["schema"].(map[string]any)
		return mediaType, schema
	}
	if mediaType, schema := pick("application/json"); schema != nil {
		return mediaType, schema
	}
	for mediaType := range content {
		if _, schema := pick(mediaType); schema != nil {
			return mediaType, schema
		}
	}
	return "", nil
}

// rewriteRefs maps component references onto their 2.0 locations.
func rewriteRefs(node any) {
	switch n := node.(type) {
	case map[string]any:
		if ref, ok := n["$ref"].(string); ok {
			if name, found := strings.CutPrefix(ref, "#/components/schemas/"); found {
				n["$ref"] = "#/definitions/" + name
			}
		}
		for _, v := range n {
			rewriteRefs(v)
		}
	case []any:
		for _, v := range n {
			rewriteRefs(v)
		}
	}
}

func containsAny(list []any, v any) bool {
	for _, e := range list {
		if e == v {
			return true
		}
	}
	return false
}
