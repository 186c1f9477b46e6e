// Package fixer applies known remediations to validation failures. Each rule
// matches one error code; a pass reports whether it changed anything so the
// convergence loop can decide between re-validating and giving up.
// Unrecognized codes are skipped, not failed: the loop surfaces them as the
// final validation errors.
package fixer

import (
	"strconv"
	"strings"

	"github.com/specmap/specmap/pkg/specs"
	"github.com/specmap/specmap/pkg/validate"
)

// DefaultVersion is installed when a document has no version at all.
const DefaultVersion = "1.0.0"

// Fix attempts to remediate each error in place. It returns whether any rule
// made progress. Recognized rules whose condition does not hold make no
// change and report no progress.
func Fix(doc specs.Document, errs []validate.Error) bool {
	fixed := false
	for _, e := range errs {
		switch e.Code {
		case validate.CodeMissingPathParameter:
			fixed = fixMissingPathParameter(doc, e) || fixed
		case validate.CodeRequiredPropertyUndefined:
			fixed = fixUndefinedRequired(doc, e) || fixed
		case validate.CodeOneOfMismatch:
			fixed = fixPathParameterRequired(doc, e) || fixed
		case validate.CodeUnresolvableReference:
			fixed = fixReference(doc, e) || fixed
		case validate.CodeDuplicateOperationID:
			fixed = stripOperationIDs(doc) || fixed
		case validate.CodeMissingRequiredProperty:
			fixed = fixMissingVersion(doc, e) || fixed
		case validate.CodeMissingArrayItems:
			fixed = fixMissingItems(doc, e) || fixed
		case validate.CodeInvalidType, validate.CodeInvalidFormat, validate.CodeEnumMismatch:
			fixed = fixBadDefault(doc, e) || fixed
		default:
			// Not remediable; the loop will report it.
		}
	}
	return fixed
}

// fixMissingPathParameter appends a required string path parameter to the
// operation the error points at. The parameter name is the final message
// segment.
func fixMissingPathParameter(doc specs.Document, e validate.Error) bool {
	name := messageSubject(e.Message)
	if name == "" {
		return false
	}
	node, ok := specs.Resolve(doc, e.Path)
	if !ok {
		return false
	}
	op, ok := node.(map[string]any)
	if !ok {
		return false
	}
	params, _ := op["parameters"].([]any)
	op["parameters"] = append(params, map[string]any{
		"name":     name,
		"in":       "path",
		"type":     "string",
		"required": true,
	})
	return true
}

// fixUndefinedRequired prunes a schema's required list down to properties
// that exist, dropping the list entirely when nothing survives.
func fixUndefinedRequired(doc specs.Document, e validate.Error) bool {
	node, ok := specs.Resolve(doc, e.Path)
	if !ok {
		return false
	}
	schema, ok := node.(map[string]any)
	if !ok {
		return false
	}
	required, ok := schema["required"].([]any)
	if !ok {
		return false
	}
	props, _ := schema["properties"].(map[string]any)
	kept := make([]any, 0, len(required))
	for _, raw := range required {
		name, ok := raw.(string)
		if !ok {
			continue
		}
		if _, defined := props[name]; defined {
			kept = append(kept, name)
		}
	}
	if len(kept) == len(required) {
		return false
	}
	if len(kept) == 0 {
		delete(schema, "required")
	} else {
		schema["required"] = kept
	}
	return true
}

// fixPathParameterRequired marks an undeclared-required path parameter as
// required; that is the common cause of a parameter failing its one-of.
func fixPathParameterRequired(doc specs.Document, e validate.Error) bool {
	node, ok := specs.Resolve(doc, e.Path)
	if !ok {
		return false
	}
	param, ok := node.(map[string]any)
	if !ok {
		return false
	}
	if in, _ := param["in"].(string); in != "path" {
		return false
	}
	if required, _ := param["required"].(bool); required {
		return false
	}
	param["required"] = true
	return true
}

// fixReference rewrites a dangling $ref to #/definitions/<name> when a
// definition with the reference's final segment exists.
func fixReference(doc specs.Document, e validate.Error) bool {
	parent, last, ok := specs.ResolveParent(doc, e.Path)
	if !ok || last != "$ref" {
		return false
	}
	node, ok := parent.(map[string]any)
	if !ok {
		return false
	}
	ref, ok := node["$ref"].(string)
	if !ok {
		return false
	}
	segments := strings.Split(strings.Trim(ref, "/"), "/")
	name := segments[len(segments)-1]
	defs, ok := doc["definitions"].(map[string]any)
	if !ok {
		return false
	}
	if _, exists := defs[name]; !exists {
		return false
	}
	rewritten := "#/definitions/" + name
	if ref == rewritten {
		return false
	}
	node["$ref"] = rewritten
	return true
}

// stripOperationIDs deletes every operationId in the document. Coarse, but
// it guarantees uniqueness when operations collide on one identifier.
func stripOperationIDs(doc specs.Document) bool {
	paths, ok := doc["paths"].(map[string]any)
	if !ok {
		return false
	}
	stripped := false
	for _, raw := range paths {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		for _, opRaw := range item {
			op, ok := opRaw.(map[string]any)
			if !ok {
				continue
			}
			if _, has := op["operationId"]; has {
				delete(op, "operationId")
				stripped = true
			}
		}
	}
	return stripped
}

// fixMissingVersion installs a default version when the info object lacks
// one entirely.
func fixMissingVersion(doc specs.Document, e validate.Error) bool {
	if messageSubject(e.Message) != "version" {
		return false
	}
	if len(e.Path) != 1 || e.Path[0] != "info" {
		return false
	}
	info := doc.Info()
	if _, has := info["version"]; has {
		return false
	}
	info["version"] = DefaultVersion
	return true
}

// fixMissingItems sets items to the unconstrained schema on an array-typed
// schema node.
func fixMissingItems(doc specs.Document, e validate.Error) bool {
	node, ok := specs.Resolve(doc, e.Path)
	if !ok {
		return false
	}
	schema, ok := node.(map[string]any)
	if !ok {
		return false
	}
	if typ, _ := schema["type"].(string); typ != "array" {
		return false
	}
	if _, has := schema["items"]; has {
		return false
	}
	schema["items"] = map[string]any{}
	return true
}

// fixBadDefault handles a type, format, or enum mismatch localized to a
// default value. A string default is reparsed as a literal of the declared
// type, and then the default is removed either way. Losing the default is
// preferable to a blocking validation failure.
func fixBadDefault(doc specs.Document, e validate.Error) bool {
	if len(e.Path) == 0 || e.Path[len(e.Path)-1] != "default" {
		return false
	}
	parent, _, ok := specs.ResolveParent(doc, e.Path)
	if !ok {
		return false
	}
	schema, ok := parent.(map[string]any)
	if !ok {
		return false
	}
	def, has := schema["default"]
	if !has {
		return false
	}
	if s, isString := def.(string); isString {
		if typ, _ := schema["type"].(string); typ != "string" {
			if parsed, ok := parseLiteral(s, typ); ok {
				schema["default"] = parsed
			}
		}
	}
	// The reparse above is dead weight today: the default goes away even
	// when it succeeds. Kept until the always-delete behavior is revisited.
	delete(schema, "default")
	return true
}

func parseLiteral(s, typ string) (any, bool) {
	switch typ {
	case "integer":
		v, err := strconv.ParseInt(s, 10, 64)
		return v, err == nil
	case "number":
		v, err := strconv.ParseFloat(s, 64)
		return v, err == nil
	case "boolean":
		v, err := strconv.ParseBool(s)
		return v, err == nil
	default:
		return nil, false
	}
}

// messageSubject returns the text after the final ": " of a message; rule
// messages name their subject there.
func messageSubject(message string) string {
	i := strings.LastIndex(message, ": ")
	if i < 0 {
		return ""
	}
	return message[i+2:]
}
