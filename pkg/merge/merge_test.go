package merge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specmap/specmap/pkg/errors"
	"github.com/specmap/specmap/pkg/merge"
	"github.com/specmap/specmap/pkg/specs"
)

func TestMergeAddsMissingFields(t *testing.T) {
	target := specs.Document{
		"info": map[string]any{"title": "Pets"},
	}
	patch := specs.Document{
		"info": map[string]any{"x-providerName": "example.com"},
		"host": "example.com",
	}

	require.NoError(t, merge.Merge(target, patch))

	info := target["info"].(map[string]any)
	assert.Equal(t, "Pets", info["title"])
	assert.Equal(t, "example.com", info["x-providerName"])
	assert.Equal(t, "example.com", target["host"])
}

func TestMergeNilPatchIsNoop(t *testing.T) {
	target := specs.Document{"host": "example.com"}
	require.NoError(t, merge.Merge(target, nil))
	assert.Equal(t, specs.Document{"host": "example.com"}, target)
}

func TestMergeIsIdempotentForDisjointPatches(t *testing.T) {
	build := func() specs.Document {
		return specs.Document{"info": map[string]any{"title": "Pets"}}
	}
	patch := specs.Document{"info": map[string]any{"x-providerName": "example.com"}}

	once := build()
	require.NoError(t, merge.Merge(once, patch))

	twice := build()
	require.NoError(t, merge.Merge(twice, patch))
	require.NoError(t, merge.Merge(twice, patch))

	assert.Equal(t, once, twice)
}

func TestMergeCommutesForKeyDisjointPatches(t *testing.T) {
	a := specs.Document{"host": "example.com"}
	b := specs.Document{"basePath": "/v1"}

	left := specs.Document{}
	require.NoError(t, merge.Merge(left, a))
	require.NoError(t, merge.Merge(left, b))

	right := specs.Document{}
	require.NoError(t, merge.Merge(right, b))
	require.NoError(t, merge.Merge(right, a))

	assert.Equal(t, left, right)
}

func TestMergeRejectsNullValues(t *testing.T) {
	targets := []specs.Document{
		{},
		{"host": "example.com"},
		{"info": map[string]any{"host": "old"}},
	}
	for _, target := range targets {
		err := merge.Merge(target, specs.Document{"host": nil})
		require.Error(t, err)
		var protected *errors.ProtectedFieldError
		require.ErrorAs(t, err, &protected)
		assert.Equal(t, "host", protected.Field)
	}
}

func TestMergeRejectsOverwrite(t *testing.T) {
	tests := []struct {
		name   string
		target specs.Document
	}{
		{"scalar value", specs.Document{"host": "example.com"}},
		{"falsy value", specs.Document{"host": ""}},
		{"list value", specs.Document{"host": []any{"a"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := merge.Merge(tt.target, specs.Document{"host": "other.com"})
			require.Error(t, err)
			var overwrite *errors.OverwriteError
			require.ErrorAs(t, err, &overwrite)
			assert.Equal(t, "host", overwrite.Field)
			assert.True(t, errors.IsPatchConflict(err))
		})
	}
}

func TestMergeReportsNestedCollisionPath(t *testing.T) {
	target := specs.Document{
		"info": map[string]any{"contact": map[string]any{"name": "a"}},
	}
	patch := specs.Document{
		"info": map[string]any{"contact": map[string]any{"name": "b"}},
	}
	err := merge.Merge(target, patch)
	require.Error(t, err)
	var overwrite *errors.OverwriteError
	require.ErrorAs(t, err, &overwrite)
	assert.Equal(t, "info.contact.name", overwrite.Path)
}

func TestCompose(t *testing.T) {
	base := specs.Document{
		"info": map[string]any{"x-providerName": "example.com", "keep": "base"},
	}
	overlay := specs.Document{
		"info": map[string]any{"x-serviceName": "pets", "keep": "overlay"},
	}

	combined, err := merge.Compose(base, overlay)
	require.NoError(t, err)

	info := combined["info"].(map[string]any)
	assert.Equal(t, "example.com", info["x-providerName"])
	assert.Equal(t, "pets", info["x-serviceName"])
	assert.Equal(t, "overlay", info["keep"], "overlay wins on leaf conflicts")
}

func TestComposeNullDeletes(t *testing.T) {
	base := specs.Document{"info": map[string]any{"stale": "x", "keep": "y"}}
	overlay := specs.Document{"info": map[string]any{"stale": nil}}

	combined, err := merge.Compose(base, overlay)
	require.NoError(t, err)

	info := combined["info"].(map[string]any)
	_, has := info["stale"]
	assert.False(t, has)
	assert.Equal(t, "y", info["keep"])
}

func TestComposeAll(t *testing.T) {
	combined, err := merge.ComposeAll(
		nil,
		specs.Document{"a": "1"},
		specs.Document{"b": "2"},
		nil,
	)
	require.NoError(t, err)
	assert.Equal(t, "1", combined["a"])
	assert.Equal(t, "2", combined["b"])

	combined, err = merge.ComposeAll(nil, nil)
	require.NoError(t, err)
	assert.Nil(t, combined)
}
