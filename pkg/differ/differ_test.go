package differ_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specmap/specmap/pkg/differ"
	"github.com/specmap/specmap/pkg/specs"
)

func before() specs.Document {
	return specs.Document{
		"swagger": "2.0",
		"info": map[string]any{
			"title":   "Petstore",
			"version": "1.0.0",
		},
		"host": "example.com",
	}
}

func edited() specs.Document {
	return specs.Document{
		"swagger": "2.0",
		"info": map[string]any{
			"title":       "Petstore",
			"version":     "1.0.0",
			"description": "Hand-written description.",
		},
		"basePath": "/v1",
	}
}

func TestCompareEqualDocumentsIsNil(t *testing.T) {
	d, err := differ.Compare(before(), before())
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestPatchRoundTrip(t *testing.T) {
	d, err := differ.Compare(before(), edited())
	require.NoError(t, err)
	require.NotEmpty(t, d)

	patched, err := differ.Patch(before(), d)
	require.NoError(t, err)
	assert.Equal(t, edited(), patched)
}

func TestUnpatchReversesPatch(t *testing.T) {
	d, err := differ.Compare(before(), edited())
	require.NoError(t, err)

	restored, err := differ.Unpatch(edited(), d)
	require.NoError(t, err)
	assert.Equal(t, before(), restored)
}

func TestPatchDoesNotMutateInput(t *testing.T) {
	d, err := differ.Compare(before(), edited())
	require.NoError(t, err)

	doc := before()
	_, err = differ.Patch(doc, d)
	require.NoError(t, err)
	assert.Equal(t, before(), doc)
}

func TestPatchNilDiffCopies(t *testing.T) {
	doc := before()
	out, err := differ.Patch(doc, nil)
	require.NoError(t, err)
	assert.Equal(t, doc, out)

	out["host"] = "changed"
	assert.Equal(t, "example.com", doc["host"])
}

func TestInvertRejectsNonInvertibleDiff(t *testing.T) {
	_, err := differ.Invert(differ.Diff{
		{Op: "replace", Path: "/host", Value: "b"},
	})
	assert.Error(t, err)
}

func TestPatchStaleDiffFails(t *testing.T) {
	d, err := differ.Compare(before(), edited())
	require.NoError(t, err)

	stale := before()
	stale["host"] = "moved.example.com"

	_, err = differ.Patch(stale, d)
	assert.Error(t, err, "test ops must catch a document that drifted")
}
