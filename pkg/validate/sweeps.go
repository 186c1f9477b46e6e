package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-openapi/strfmt"

	"github.com/specmap/specmap/pkg/specs"
)

// operationMethods are the pathItem keys that hold operations.
var operationMethods = []string{"get", "put", "post", "delete", "options", "head", "patch"}

var templateParamRe = regexp.MustCompile(`\{([^}/]+)\}`)

// sweep runs the semantic checks the schema cannot express.
func sweep(doc specs.Document) (errs, warns []Error) {
	e, w := sweepPathParameters(doc)
	errs, warns = append(errs, e...), append(warns, w...)
	errs = append(errs, sweepOperationIDs(doc)...)
	errs = append(errs, sweepReferences(doc)...)
	errs = append(errs, sweepSchemaNodes(doc)...)
	warns = append(warns, sweepUnusedDefinitions(doc)...)
	return errs, warns
}

// sweepPathParameters checks that every {param} in a path template has a
// declaration in each operation, and that every declared path parameter
// appears in the template.
func sweepPathParameters(doc specs.Document) (errs, warns []Error) {
	paths, ok := doc["paths"].(map[string]any)
	if !ok {
		return nil, nil
	}
	for tmpl, raw := range paths {
		item, ok := raw.(map[string]any)
		if !ok || !strings.HasPrefix(tmpl, "/") {
			continue
		}
		var templated []string
		for _, m := range templateParamRe.FindAllStringSubmatch(tmpl, -1) {
			templated = append(templated, m[1])
		}
		shared := declaredPathParams(item["parameters"])
		for _, method := range operationMethods {
			op, ok := item[method].(map[string]any)
			if !ok {
				continue
			}
			declared := map[string]bool{}
			for name := range shared {
				declared[name] = true
			}
			for name := range declaredPathParams(op["parameters"]) {
				declared[name] = true
			}
			for _, name := range templated {
				if !declared[name] {
					errs = append(errs, Error{
						Path:    []string{"paths", tmpl, method},
						Code:    CodeMissingPathParameter,
						Message: "path parameter is not declared: " + name,
					})
				}
			}
			for name := range declared {
				if !containsString(templated, name) {
					warns = append(warns, Error{
						Path:    []string{"paths", tmpl, method},
						Code:    CodeSchema,
						Message: fmt.Sprintf("declared path parameter %q does not appear in the path template", name),
					})
				}
			}
		}
	}
	return errs, warns
}

func declaredPathParams(v any) map[string]bool {
	out := map[string]bool{}
	params, ok := v.([]any)
	if !ok {
		return out
	}
	for _, raw := range params {
		p, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if in, _ := p["in"].(string); in == "path" {
			if name, _ := p["name"].(string); name != "" {
				out[name] = true
			}
		}
	}
	return out
}

// sweepOperationIDs reports every operationId used by more than one
// operation, once per duplicated identifier.
func sweepOperationIDs(doc specs.Document) []Error {
	paths, ok := doc["paths"].(map[string]any)
	if !ok {
		return nil
	}
	seen := map[string]int{}
	for _, raw := range paths {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		for _, method := range operationMethods {
			op, ok := item[method].(map[string]any)
			if !ok {
				continue
			}
			if id, _ := op["operationId"].(string); id != "" {
				seen[id]++
			}
		}
	}
	var errs []Error
	for id, count := range seen {
		if count > 1 {
			errs = append(errs, Error{
				Path:    []string{"paths"},
				Code:    CodeDuplicateOperationID,
				Message: fmt.Sprintf("operationId used by %d operations: %s", count, id),
			})
		}
	}
	return errs
}

// sweepReferences checks that every internal $ref resolves.
func sweepReferences(doc specs.Document) []Error {
	var errs []Error
	walk(map[string]any(doc), nil, func(node map[string]any, path []string) {
		ref, ok := node["$ref"].(string)
		if !ok || !strings.HasPrefix(ref, "#/") {
			return
		}
		segments := pointerSegments(strings.TrimPrefix(ref, "#"))
		if _, ok := specs.Resolve(doc, segments); !ok {
			errs = append(errs, Error{
				Path:    appendPath(path, "$ref"),
				Code:    CodeUnresolvableReference,
				Message: "unresolvable reference: " + ref,
			})
		}
	})
	return errs
}

// sweepSchemaNodes checks schema nodes: arrays must declare items, required
// lists must name defined properties, and default values must match the
// declared type, format, and enum. Only real schema positions are visited.
// Example payloads and extension bodies can carry schema-shaped keys without
// being schemas, and a finding there would send the fixer after data.
func sweepSchemaNodes(doc specs.Document) []Error {
	var errs []Error
	forEachSchema(doc, func(node map[string]any, path []string) {
		typ, _ := node["type"].(string)

		if typ == "array" {
			if _, ok := node["items"]; !ok {
				errs = append(errs, Error{
					Path:    path,
					Code:    CodeMissingArrayItems,
					Message: "array schema has no items",
				})
			}
		}

		if required, ok := node["required"].([]any); ok {
			if props, ok := node["properties"].(map[string]any); ok {
				for _, raw := range required {
					name, ok := raw.(string)
					if !ok {
						continue
					}
					if _, defined := props[name]; !defined {
						errs = append(errs, Error{
							Path:    path,
							Code:    CodeRequiredPropertyUndefined,
							Message: "required property has no definition: " + name,
						})
					}
				}
			}
		}

		if def, ok := node["default"]; ok && typ != "" {
			errs = append(errs, checkDefault(node, def, typ, path)...)
		}
	})
	return errs
}

// forEachSchema visits every schema position a Swagger document has: the
// definitions map, global and inline parameters, response schemas, and
// response headers, recursing through schema keywords from each root.
func forEachSchema(doc specs.Document, visit func(map[string]any, []string)) {
	if defs, ok := doc["definitions"].(map[string]any); ok {
		for name, raw := range defs {
			walkSchema(raw, []string{"definitions", name}, visit)
		}
	}
	if params, ok := doc["parameters"].(map[string]any); ok {
		for name, raw := range params {
			visitParameter(raw, []string{"parameters", name}, visit)
		}
	}
	if resps, ok := doc["responses"].(map[string]any); ok {
		for name, raw := range resps {
			visitResponse(raw, []string{"responses", name}, visit)
		}
	}
	paths, ok := doc["paths"].(map[string]any)
	if !ok {
		return
	}
	for tmpl, raw := range paths {
		item, ok := raw.(map[string]any)
		if !ok || !strings.HasPrefix(tmpl, "/") {
			continue
		}
		visitParameterList(item["parameters"], []string{"paths", tmpl, "parameters"}, visit)
		for _, method := range operationMethods {
			op, ok := item[method].(map[string]any)
			if !ok {
				continue
			}
			opPath := []string{"paths", tmpl, method}
			visitParameterList(op["parameters"], appendPath(opPath, "parameters"), visit)
			resps, ok := op["responses"].(map[string]any)
			if !ok {
				continue
			}
			for code, r := range resps {
				visitResponse(r, append(appendPath(opPath, "responses"), code), visit)
			}
		}
	}
}

func visitParameterList(v any, path []string, visit func(map[string]any, []string)) {
	params, ok := v.([]any)
	if !ok {
		return
	}
	for i, raw := range params {
		visitParameter(raw, appendPath(path, strconv.Itoa(i)), visit)
	}
}

// visitParameter treats a body parameter's schema as the schema root, and a
// non-body parameter as its own schema node since it carries type, items,
// enum, and default directly.
func visitParameter(raw any, path []string, visit func(map[string]any, []string)) {
	p, ok := raw.(map[string]any)
	if !ok {
		return
	}
	if in, _ := p["in"].(string); in == "body" {
		walkSchema(p["schema"], appendPath(path, "schema"), visit)
		return
	}
	walkSchema(p, path, visit)
}

func visitResponse(raw any, path []string, visit func(map[string]any, []string)) {
	r, ok := raw.(map[string]any)
	if !ok {
		return
	}
	walkSchema(r["schema"], appendPath(path, "schema"), visit)
	if headers, ok := r["headers"].(map[string]any); ok {
		for name, h := range headers {
			walkSchema(h, append(appendPath(path, "headers"), name), visit)
		}
	}
}

// walkSchema visits a schema node and recurses through its schema-valued
// keywords. Non-mapping values are passed over, which also covers the
// boolean form of additionalProperties.
func walkSchema(raw any, path []string, visit func(map[string]any, []string)) {
	node, ok := raw.(map[string]any)
	if !ok {
		return
	}
	visit(node, path)
	for _, key := range []string{"items", "not", "additionalProperties", "additionalItems"} {
		if child, ok := node[key]; ok {
			walkSchema(child, appendPath(path, key), visit)
		}
	}
	if tuple, ok := node["items"].([]any); ok {
		for i, child := range tuple {
			walkSchema(child, append(appendPath(path, "items"), strconv.Itoa(i)), visit)
		}
	}
	for _, key := range []string{"properties", "patternProperties"} {
		children, ok := node[key].(map[string]any)
		if !ok {
			continue
		}
		for name, child := range children {
			walkSchema(child, append(appendPath(path, key), name), visit)
		}
	}
	if members, ok := node["allOf"].([]any); ok {
		for i, child := range members {
			walkSchema(child, append(appendPath(path, "allOf"), strconv.Itoa(i)), visit)
		}
	}
}

func checkDefault(node map[string]any, def any, typ string, path []string) []Error {
	defPath := appendPath(path, "default")
	if s, isString := def.(string); isString && typ != "string" {
		return []Error{{
			Path:    defPath,
			Code:    CodeInvalidType,
			Message: fmt.Sprintf("default %q is a string but the declared type is %s", s, typ),
		}}
	}
	if s, isString := def.(string); isString && typ == "string" {
		if format, _ := node["format"].(string); format != "" &&
			strfmt.Default.ContainsName(format) && !strfmt.Default.Validates(format, s) {
			return []Error{{
				Path:    defPath,
				Code:    CodeInvalidFormat,
				Message: fmt.Sprintf("default %q does not match format %s", s, format),
			}}
		}
	}
	if enum, ok := node["enum"].([]any); ok && len(enum) > 0 {
		for _, allowed := range enum {
			// Enum members can be arrays or objects, which == cannot compare.
			if reflect.DeepEqual(allowed, def) {
				return nil
			}
		}
		return []Error{{
			Path:    defPath,
			Code:    CodeEnumMismatch,
			Message: fmt.Sprintf("default %v is not one of the enum values", def),
		}}
	}
	return nil
}

// sweepUnusedDefinitions warns about definitions nothing references.
func sweepUnusedDefinitions(doc specs.Document) []Error {
	defs, ok := doc["definitions"].(map[string]any)
	if !ok || len(defs) == 0 {
		return nil
	}
	used := map[string]bool{}
	walk(map[string]any(doc), nil, func(node map[string]any, _ []string) {
		if ref, ok := node["$ref"].(string); ok {
			if name, found := strings.CutPrefix(ref, "#/definitions/"); found {
				used[name] = true
			}
		}
	})
	var warns []Error
	for name := range defs {
		if !used[name] {
			warns = append(warns, Error{
				Path:    []string{"definitions", name},
				Code:    CodeSchema,
				Message: "definition is never referenced",
			})
		}
	}
	return warns
}

// walk visits every mapping node in document order, passing its path.
func walk(node any, path []string, visit func(map[string]any, []string)) {
	switch n := node.(type) {
	case map[string]any:
		visit(n, path)
		for k, v := range n {
			walk(v, appendPath(path, k), visit)
		}
	case []any:
		for i, v := range n {
			walk(v, appendPath(path, strconv.Itoa(i)), visit)
		}
	}
}

// appendPath extends a path without sharing the backing array.
func appendPath(path []string, seg string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, seg)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
