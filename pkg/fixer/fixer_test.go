package fixer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specmap/specmap/pkg/fixer"
	"github.com/specmap/specmap/pkg/specs"
	"github.com/specmap/specmap/pkg/validate"
)

func TestMissingPathParameter(t *testing.T) {
	doc := specs.Document{
		"paths": map[string]any{
			"/pets/{petId}": map[string]any{
				"get": map[string]any{
					"responses": map[string]any{
						"200": map[string]any{"description": "OK"},
					},
				},
			},
		},
	}
	errs := []validate.Error{{
		Path:    []string{"paths", "/pets/{petId}", "get"},
		Code:    validate.CodeMissingPathParameter,
		Message: "path parameter is not declared: petId",
	}}

	require.True(t, fixer.Fix(doc, errs))

	op := doc["paths"].(map[string]any)["/pets/{petId}"].(map[string]any)["get"].(map[string]any)
	params := op["parameters"].([]any)
	require.Len(t, params, 1)
	param := params[0].(map[string]any)
	assert.Equal(t, "petId", param["name"])
	assert.Equal(t, "path", param["in"])
	assert.Equal(t, "string", param["type"])
	assert.Equal(t, true, param["required"])
}

func TestPruneUndefinedRequired(t *testing.T) {
	doc := specs.Document{
		"definitions": map[string]any{
			"Pet": map[string]any{
				"type":     "object",
				"required": []any{"id", "name"},
				"properties": map[string]any{
					"id": map[string]any{"type": "integer"},
				},
			},
		},
	}
	errs := []validate.Error{{
		Path:    []string{"definitions", "Pet"},
		Code:    validate.CodeRequiredPropertyUndefined,
		Message: "required property has no definition: name",
	}}

	require.True(t, fixer.Fix(doc, errs))

	pet := doc["definitions"].(map[string]any)["Pet"].(map[string]any)
	assert.Equal(t, []any{"id"}, pet["required"])

	// Drop the list entirely once nothing survives.
	pet["required"] = []any{"name"}
	require.True(t, fixer.Fix(doc, errs))
	_, has := pet["required"]
	assert.False(t, has)
}

func TestPathParameterMarkedRequired(t *testing.T) {
	param := map[string]any{"name": "petId", "in": "path", "type": "string"}
	doc := specs.Document{
		"paths": map[string]any{
			"/pets/{petId}": map[string]any{
				"get": map[string]any{
					"parameters": []any{param},
				},
			},
		},
	}
	errs := []validate.Error{{
		Path: []string{"paths", "/pets/{petId}", "get", "parameters", "0"},
		Code: validate.CodeOneOfMismatch,
	}}

	require.True(t, fixer.Fix(doc, errs))
	assert.Equal(t, true, param["required"])

	// Second pass has nothing left to change.
	assert.False(t, fixer.Fix(doc, errs))
}

func TestRewriteDanglingReference(t *testing.T) {
	ref := map[string]any{"$ref": "#/schemas/Pet"}
	doc := specs.Document{
		"definitions": map[string]any{
			"Pet": map[string]any{"type": "object"},
		},
		"paths": map[string]any{
			"/pets": map[string]any{
				"get": map[string]any{
					"responses": map[string]any{
						"200": map[string]any{"description": "OK", "schema": ref},
					},
				},
			},
		},
	}
	errs := []validate.Error{{
		Path:    []string{"paths", "/pets", "get", "responses", "200", "schema", "$ref"},
		Code:    validate.CodeUnresolvableReference,
		Message: "unresolvable reference: #/schemas/Pet",
	}}

	require.True(t, fixer.Fix(doc, errs))
	assert.Equal(t, "#/definitions/Pet", ref["$ref"])
}

func TestRewriteReferenceWithoutTargetIsSkipped(t *testing.T) {
	ref := map[string]any{"$ref": "#/schemas/Missing"}
	doc := specs.Document{
		"definitions": map[string]any{},
		"responses":   map[string]any{"Err": map[string]any{"description": "x", "schema": ref}},
	}
	errs := []validate.Error{{
		Path: []string{"responses", "Err", "schema", "$ref"},
		Code: validate.CodeUnresolvableReference,
	}}

	assert.False(t, fixer.Fix(doc, errs))
	assert.Equal(t, "#/schemas/Missing", ref["$ref"])
}

func TestDuplicateOperationIDsStripped(t *testing.T) {
	doc := specs.Document{
		"paths": map[string]any{
			"/pets": map[string]any{
				"get":  map[string]any{"operationId": "list"},
				"post": map[string]any{"operationId": "list"},
			},
			"/stores": map[string]any{
				"get": map[string]any{"operationId": "listStores"},
			},
		},
	}
	errs := []validate.Error{{
		Path:    []string{"paths"},
		Code:    validate.CodeDuplicateOperationID,
		Message: "operationId used by 2 operations: list",
	}}

	require.True(t, fixer.Fix(doc, errs))

	for _, item := range doc["paths"].(map[string]any) {
		for _, op := range item.(map[string]any) {
			_, has := op.(map[string]any)["operationId"]
			assert.False(t, has, "every operationId must be gone")
		}
	}

	assert.False(t, fixer.Fix(doc, errs), "second pass reports no progress")
}

func TestDefaultVersionInstalled(t *testing.T) {
	doc := specs.Document{
		"swagger": "2.0",
		"info":    map[string]any{"title": "Pets"},
		"paths":   map[string]any{},
	}
	errs := []validate.Error{{
		Path:    []string{"info"},
		Code:    validate.CodeMissingRequiredProperty,
		Message: "missing required property: version",
	}}

	require.True(t, fixer.Fix(doc, errs))
	assert.Equal(t, "1.0.0", doc.Info()["version"])

	assert.False(t, fixer.Fix(doc, errs))
}

func TestMissingItemsInstalled(t *testing.T) {
	doc := specs.Document{
		"definitions": map[string]any{
			"Pets": map[string]any{"type": "array"},
		},
	}
	errs := []validate.Error{{
		Path: []string{"definitions", "Pets"},
		Code: validate.CodeMissingArrayItems,
	}}

	require.True(t, fixer.Fix(doc, errs))

	pets := doc["definitions"].(map[string]any)["Pets"].(map[string]any)
	assert.Equal(t, map[string]any{}, pets["items"])

	assert.False(t, fixer.Fix(doc, errs), "second pass reports no progress")
}

func TestBadDefaultIsRemoved(t *testing.T) {
	tests := []struct {
		name string
		code validate.Code
	}{
		{"type mismatch", validate.CodeInvalidType},
		{"format mismatch", validate.CodeInvalidFormat},
		{"enum mismatch", validate.CodeEnumMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := specs.Document{
				"definitions": map[string]any{
					"Pet": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"age": map[string]any{"type": "integer", "default": "42"},
						},
					},
				},
			}
			errs := []validate.Error{{
				Path: []string{"definitions", "Pet", "properties", "age", "default"},
				Code: tt.code,
			}}

			require.True(t, fixer.Fix(doc, errs))

			age := doc["definitions"].(map[string]any)["Pet"].(map[string]any)["properties"].(map[string]any)["age"].(map[string]any)
			_, has := age["default"]
			assert.False(t, has, "default is removed even when the reparse succeeds")
		})
	}
}

func TestUnrecognizedCodeIsSkipped(t *testing.T) {
	doc := specs.Document{"swagger": "2.0"}
	errs := []validate.Error{{
		Path: nil,
		Code: validate.CodeSchema,
	}}

	assert.False(t, fixer.Fix(doc, errs))
	assert.Equal(t, specs.Document{"swagger": "2.0"}, doc)
}
