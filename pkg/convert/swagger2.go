package convert

import (
	"github.com/specmap/specmap/pkg/errors"
	"github.com/specmap/specmap/pkg/specs"
)

// swagger2Converter handles sources already in the canonical dialect.
type swagger2Converter struct{}

func (swagger2Converter) Name() string { return "swagger_2" }

func (swagger2Converter) Detect(doc map[string]any) bool {
	v, _ := doc["swagger"].(string)
	return v == "2.0"
}

func (swagger2Converter) Version(doc map[string]any) string {
	return "2.0"
}

// Convert is a deep copy: the source is already canonical, but the caller
// owns the result and must be free to mutate it.
func (c swagger2Converter) Convert(doc map[string]any) (specs.Document, error) {
	if !c.Detect(doc) {
		return nil, errors.New(`source has no swagger: "2.0" marker`)
	}
	return specs.Document(doc).Copy(), nil
}
