package convert

import (
	"net/url"
	"sort"
	"strings"

	"github.com/specmap/specmap/pkg/errors"
	"github.com/specmap/specmap/pkg/specs"
)

// googleConverter converts Google API Discovery documents into Swagger 2.0.
// Discovery nests methods under arbitrarily deep resource trees; the
// converter flattens them into paths, turns the per-method parameter maps
// into parameter lists, and maps request/response references onto body
// parameters and response schemas.
type googleConverter struct{}

func (googleConverter) Name() string { return "google" }

func (googleConverter) Detect(doc map[string]any) bool {
	if kind, _ := doc["kind"].(string); kind == "discovery#restDescription" {
		return true
	}
	_, has := doc["discoveryVersion"]
	return has
}

func (googleConverter) Version(doc map[string]any) string {
	if v, _ := doc["discoveryVersion"].(string); v != "" {
		return v
	}
	return "v1"
}

func (c googleConverter) Convert(doc map[string]any) (specs.Document, error) {
	if !c.Detect(doc) {
		return nil, errors.New("source is not a discovery#restDescription document")
	}
	src := specs.Document(doc).Copy()

	out := specs.Document{
		"swagger":  "2.0",
		"schemes":  []any{"https"},
		"consumes": []any{"application/json"},
		"produces": []any{"application/json"},
	}

	info := map[string]any{}
	if title, _ := src["title"].(string); title != "" {
		info["title"] = title
	}
	if version, _ := src["version"].(string); version != "" {
		info["version"] = version
	}
	if desc, _ := src["description"].(string); desc != "" {
		info["description"] = desc
	}
	if link, _ := src["documentationLink"].(string); link != "" {
		out["externalDocs"] = map[string]any{"url": link}
	}
	if name, _ := src["name"].(string); name != "" {
		info[specs.XServiceName] = name
	}
	out["info"] = info

	applyDiscoveryHost(out, src)

	if schemas, ok := src["schemas"].(map[string]any); ok {
		definitions := map[string]any{}
		for name, schema := range schemas {
			definitions[name] = convertDiscoverySchema(schema)
		}
		out["definitions"] = definitions
	}

	paths := map[string]any{}
	collectMethods(src["methods"], paths)
	collectResources(src["resources"], paths)
	out["paths"] = paths

	return out, nil
}

// applyDiscoveryHost derives host and basePath from rootUrl + servicePath,
// falling back to baseUrl.
func applyDiscoveryHost(out, src specs.Document) {
	root, _ := src["rootUrl"].(string)
	if root == "" {
		root, _ = src["baseUrl"].(string)
	}
	if u, err := url.Parse(root); err == nil && u.Host != "" {
		out["host"] = u.Host
	}
	base, _ := src["servicePath"].(string)
	if base == "" {
		if u, err := url.Parse(root); err == nil {
			base = u.Path
		}
	}
	base = "/" + strings.Trim(base, "/")
	if base != "/" {
		out["basePath"] = base
	}
}

func collectResources(v any, paths map[string]any) {
	resources, ok := v.(map[string]any)
	if !ok {
		return
	}
	for _, raw := range resources {
		resource, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		collectMethods(resource["methods"], paths)
		collectResources(resource["resources"], paths)
	}
}

func collectMethods(v any, paths map[string]any) {
	methods, ok := v.(map[string]any)
	if !ok {
		return
	}
	for _, raw := range methods {
		method, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		template, _ := method["path"].(string)
		if template == "" {
			continue
		}
		template = "/" + strings.TrimPrefix(normalizeTemplate(template), "/")
		httpMethod, _ := method["httpMethod"].(string)
		if httpMethod == "" {
			httpMethod = "GET"
		}
		item, ok := paths[template].(map[string]any)
		if !ok {
			item = map[string]any{}
			paths[template] = item
		}
		item[strings.ToLower(httpMethod)] = convertMethod(method)
	}
}

// normalizeTemplate rewrites RFC 6570 reserved-expansion parameters
// ({+name}) into plain path parameters.
func normalizeTemplate(template string) string {
	return strings.ReplaceAll(template, "{+", "{")
}

func convertMethod(method map[string]any) map[string]any {
	op := map[string]any{}
	if id, _ := method["id"].(string); id != "" {
		op["operationId"] = id
	}
	if desc, _ := method["description"].(string); desc != "" {
		op["description"] = desc
	}

	var params []any
	if declared, ok := method["parameters"].(map[string]any); ok {
		// Deterministic parameter order for stable output.
		names := make([]string, 0, len(declared))
		for name := range declared {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if p, ok := declared[name].(map[string]any); ok {
				params = append(params, convertDiscoveryParameter(name, p))
			}
		}
	}
	if request, ok := method["request"].(map[string]any); ok {
		if ref, _ := request["$ref"].(string); ref != "" {
			params = append(params, map[string]any{
				"name":     "body",
				"in":       "body",
				"required": true,
				"schema":   map[string]any{"$ref": "#/definitions/" + ref},
			})
		}
	}
	if len(params) > 0 {
		op["parameters"] = params
	}

	response := map[string]any{"description": "Successful response"}
	if resp, ok := method["response"].(map[string]any); ok {
		if ref, _ := resp["$ref"].(string); ref != "" {
			response["schema"] = map[string]any{"$ref": "#/definitions/" + ref}
		}
	}
	op["responses"] = map[string]any{"200": response}
	return op
}

func convertDiscoveryParameter(name string, p map[string]any) map[string]any {
	param := map[string]any{"name": name}
	if location, _ := p["location"].(string); location == "path" {
		param["in"] = "path"
		param["required"] = true
	} else {
		param["in"] = "query"
		if required, _ := p["required"].(bool); required {
			param["required"] = true
		}
	}
	typ, _ := p["type"].(string)
	if typ == "" {
		typ = "string"
	}
	if repeated, _ := p["repeated"].(bool); repeated {
		param["type"] = "array"
		param["items"] = map[string]any{"type": typ}
		param["collectionFormat"] = "multi"
	} else {
		param["type"] = typ
	}
	if desc, _ := p["description"].(string); desc != "" {
		param["description"] = desc
	}
	if format, _ := p["format"].(string); format != "" {
		param["format"] = format
	}
	if enum, ok := p["enum"].([]any); ok {
		param["enum"] = enum
	}
	if def, has := p["default"]; has {
		param["default"] = def
	}
	return param
}

// convertDiscoverySchema rewrites bare discovery $refs into definition
// pointers and drops discovery-only annotations.
func convertDiscoverySchema(v any) any {
	switch n := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, e := range n {
			switch k {
			case "$ref":
				if ref, ok := e.(string); ok && !strings.HasPrefix(ref, "#/") {
					out[k] = "#/definitions/" + ref
					continue
				}
				out[k] = e
			case "id", "annotations", "readOnly":
				// Discovery bookkeeping with no 2.0 counterpart.
			case "type":
				if e == "any" {
					continue
				}
				out[k] = e
			default:
				out[k] = convertDiscoverySchema(e)
			}
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, e := range n {
			out[i] = convertDiscoverySchema(e)
		}
		return out
	default:
		return v
	}
}
