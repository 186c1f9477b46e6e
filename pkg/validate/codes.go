package validate

import (
	"fmt"
	"strings"
)

// Code classifies a validation finding. The set is closed: the fixer
// pattern-matches on it with an explicit arm per remediable code and a
// default no-op arm, so every producer here must use one of these values.
type Code string

// Validation error codes.
const (
	// CodeMissingPathParameter flags a path template parameter with no
	// declaration in the operation. The message names the parameter.
	CodeMissingPathParameter Code = "missing-path-parameter"

	// CodeRequiredPropertyUndefined flags a schema object whose required
	// list names properties that have no definition.
	CodeRequiredPropertyUndefined Code = "required-property-undefined"

	// CodeOneOfMismatch flags a node that matched none of the alternatives
	// of a one-of schema, typically a malformed parameter object.
	CodeOneOfMismatch Code = "one-of-mismatch"

	// CodeUnresolvableReference flags a $ref whose target does not exist.
	CodeUnresolvableReference Code = "unresolvable-reference"

	// CodeDuplicateOperationID flags an operationId shared by more than
	// one operation.
	CodeDuplicateOperationID Code = "duplicate-operation-id"

	// CodeMissingRequiredProperty flags an object missing a property its
	// schema requires. The message names the property.
	CodeMissingRequiredProperty Code = "missing-required-property"

	// CodeMissingArrayItems flags an array-typed schema node without items.
	CodeMissingArrayItems Code = "missing-array-items"

	// CodeInvalidType flags a value of the wrong JSON type.
	CodeInvalidType Code = "invalid-type"

	// CodeInvalidFormat flags a string value violating its declared format.
	CodeInvalidFormat Code = "invalid-format"

	// CodeEnumMismatch flags a value outside its declared enum.
	CodeEnumMismatch Code = "enum-mismatch"

	// CodeSchema is the catch-all for structural schema violations with no
	// dedicated remediation.
	CodeSchema Code = "schema"
)

// Error is one validation finding: a location in the document, a closed
// classification code, and a human-readable message. The same shape is used
// for warnings.
type Error struct {
	Path    []string `json:"path"`
	Code    Code     `json:"code"`
	Message string   `json:"message"`
}

// String renders the finding as code at path: message.
func (e Error) String() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s at /%s: %s", e.Code, strings.Join(e.Path, "/"), e.Message)
}
