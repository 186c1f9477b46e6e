package store_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specmap/specmap/internal/store"
	"github.com/specmap/specmap/pkg/specs"
)

func TestReadMissingArtifact(t *testing.T) {
	s := store.New(t.TempDir())

	doc, err := s.ReadJSON("example.com/1.0.0/swagger.json")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestWriteReadRoundTrip(t *testing.T) {
	s := store.New(t.TempDir())
	doc := specs.Document{
		"swagger": "2.0",
		"info":    map[string]any{"title": "Pets", "version": "1.0.0"},
	}

	require.NoError(t, s.WriteJSON("example.com/1.0.0/swagger.json", doc))

	got, err := s.ReadJSON("example.com/1.0.0/swagger.json")
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestWriteJSONIsStable(t *testing.T) {
	s := store.New(t.TempDir())
	doc := specs.Document{
		"zebra": "last",
		"alpha": "first",
		"url":   "https://example.com/a?b=1&c=2",
	}
	require.NoError(t, s.WriteJSON("out.json", doc))

	raw, err := os.ReadFile(s.Abs("out.json"))
	require.NoError(t, err)
	text := string(raw)

	assert.Less(t, strings.Index(text, "alpha"), strings.Index(text, "zebra"), "keys are sorted")
	assert.Contains(t, text, "b=1&c=2", "HTML escaping is off")
	assert.True(t, strings.HasSuffix(text, "\n"))
}

func TestFindSpecs(t *testing.T) {
	s := store.New(t.TempDir())
	doc := specs.Document{"swagger": "2.0"}

	require.NoError(t, s.WriteJSON("zzz.example/1.0/swagger.json", doc))
	require.NoError(t, s.WriteJSON("example.com/pets/2.0/swagger.json", doc))
	require.NoError(t, s.WriteJSON("example.com/pets/2.0/patch.json", doc))
	require.NoError(t, s.WriteJSON(".cache/ignored/swagger.json", doc))

	found, err := s.FindSpecs()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"example.com/pets/2.0/swagger.json",
		"zzz.example/1.0/swagger.json",
	}, found)
}

func TestFindSpecsMissingRoot(t *testing.T) {
	s := store.New(filepath.Join(t.TempDir(), "nope"))
	found, err := s.FindSpecs()
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestPatchLayersOutwardToInward(t *testing.T) {
	s := store.New(t.TempDir())
	id := specs.Identity{Provider: "example.com", Service: "pets", Version: "1.0.0"}

	require.NoError(t, s.WriteJSON("patch.json", specs.Document{"level": "root"}))
	require.NoError(t, s.WriteJSON("example.com/patch.json", specs.Document{"level": "provider"}))
	require.NoError(t, s.WriteJSON("example.com/pets/1.0.0/patch.json", specs.Document{"level": "version"}))

	layers, err := s.PatchLayers(id)
	require.NoError(t, err)
	require.Len(t, layers, 3)
	assert.Equal(t, "root", layers[0]["level"])
	assert.Equal(t, "provider", layers[1]["level"])
	assert.Equal(t, "version", layers[2]["level"])
}
