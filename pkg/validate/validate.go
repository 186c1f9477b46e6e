// Package validate checks canonical documents against the canonical schema
// and a set of semantic rules the schema alone cannot express. Findings are
// split into errors and warnings; every error carries a closed code so the
// fixer can dispatch on it.
package validate

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/specmap/specmap/pkg/errors"
	"github.com/specmap/specmap/pkg/specs"
)

//go:embed schema/swagger2.json
var swagger2Schema []byte

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft4
		c.AssertFormat = true
		if err := c.AddResource("swagger2.json", bytes.NewReader(swagger2Schema)); err != nil {
			compileErr = err
			return
		}
		compiled, compileErr = c.Compile("swagger2.json")
	})
	return compiled, compileErr
}

// Spec validates a canonical document. It returns the findings split into
// errors and warnings, in deterministic order. The third result reports an
// internal failure of the validator itself, not a finding about the document.
func Spec(doc specs.Document) (errs, warns []Error, err error) {
	sch, err := schema()
	if err != nil {
		return nil, nil, errors.WrapResource("compile", "schema", "swagger2", err)
	}

	// Round-trip through JSON so every node carries generic JSON types, no
	// matter how the document was built.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, nil, errors.WrapParse("json", "document", err)
	}
	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return nil, nil, errors.WrapParse("json", "document", err)
	}

	if verr := sch.Validate(instance); verr != nil {
		ve, ok := verr.(*jsonschema.ValidationError)
		if !ok {
			return nil, nil, errors.WrapResource("validate", "document", "", verr)
		}
		errs = append(errs, translate(ve)...)
	}

	normalized, ok := instance.(map[string]any)
	if !ok {
		return errs, warns, nil
	}
	sweepErrs, sweepWarns := sweep(specs.Document(normalized))
	errs = append(errs, sweepErrs...)
	warns = append(warns, sweepWarns...)

	sortFindings(errs)
	sortFindings(warns)
	return errs, warns, nil
}

// translate flattens a jsonschema error tree into coded findings. A one-of
// failure is reported at the node that failed it, without descending into
// the branch causes; everything else is reported at the leaves.
func translate(ve *jsonschema.ValidationError) []Error {
	var out []Error
	keyword := lastKeyword(ve.KeywordLocation)
	if keyword == "oneOf" {
		out = append(out, Error{
			Path:    pointerSegments(ve.InstanceLocation),
			Code:    CodeOneOfMismatch,
			Message: "value matches none of the allowed alternatives",
		})
		return out
	}
	if len(ve.Causes) == 0 {
		out = append(out, leafFinding(ve, keyword)...)
		return out
	}
	for _, cause := range ve.Causes {
		out = append(out, translate(cause)...)
	}
	return out
}

var missingPropsRe = regexp.MustCompile(`'([^']+)'`)

func leafFinding(ve *jsonschema.ValidationError, keyword string) []Error {
	path := pointerSegments(ve.InstanceLocation)
	switch keyword {
	case "required", "minProperties":
		names := missingPropsRe.FindAllStringSubmatch(ve.Message, -1)
		if len(names) == 0 {
			return []Error{{Path: path, Code: CodeMissingRequiredProperty, Message: ve.Message}}
		}
		out := make([]Error, 0, len(names))
		for _, m := range names {
			out = append(out, Error{
				Path:    path,
				Code:    CodeMissingRequiredProperty,
				Message: "missing required property: " + m[1],
			})
		}
		return out
	case "type":
		return []Error{{Path: path, Code: CodeInvalidType, Message: ve.Message}}
	case "format":
		return []Error{{Path: path, Code: CodeInvalidFormat, Message: ve.Message}}
	case "enum":
		return []Error{{Path: path, Code: CodeEnumMismatch, Message: ve.Message}}
	default:
		return []Error{{Path: path, Code: CodeSchema, Message: ve.Message}}
	}
}

// lastKeyword returns the final non-index segment of a keyword location.
func lastKeyword(loc string) string {
	segments := strings.Split(loc, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		seg := segments[i]
		if seg == "" || isDigits(seg) {
			continue
		}
		return unescapePointer(seg)
	}
	return ""
}

// pointerSegments decodes a JSON pointer into path segments.
func pointerSegments(pointer string) []string {
	if pointer == "" || pointer == "/" {
		return nil
	}
	parts := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = unescapePointer(p)
	}
	return out
}

func unescapePointer(s string) string {
	s = strings.ReplaceAll(s, "~1", "/")
	return strings.ReplaceAll(s, "~0", "~")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func sortFindings(findings []Error) {
	sort.SliceStable(findings, func(i, j int) bool {
		pi := strings.Join(findings[i].Path, "/")
		pj := strings.Join(findings[j].Path, "/")
		if pi != pj {
			return pi < pj
		}
		if findings[i].Code != findings[j].Code {
			return findings[i].Code < findings[j].Code
		}
		return findings[i].Message < findings[j].Message
	})
}
