package index_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specmap/specmap/internal/gitlog"
	"github.com/specmap/specmap/internal/index"
	"github.com/specmap/specmap/internal/store"
	"github.com/specmap/specmap/pkg/errors"
	"github.com/specmap/specmap/pkg/specs"
)

func fixedDates() gitlog.Fixed {
	added := utc.Time{Time: time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)}
	updated := utc.Time{Time: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)}
	return gitlog.Fixed{Added: added, Updated: updated}
}

func storeDoc(t *testing.T, s *store.Store, provider, service, version string, preferred any) {
	t.Helper()
	info := map[string]any{
		"title":          "API " + version,
		"version":        version,
		"description":    "Test API.",
		"x-providerName": provider,
	}
	if service != "" {
		info["x-serviceName"] = service
	}
	if preferred != nil {
		info["x-preferred"] = preferred
	}
	info["x-origin"] = []any{map[string]any{
		"format":  "swagger_2",
		"version": "2.0",
		"url":     "https://" + provider + "/swagger.json",
	}}
	doc := specs.Document{
		"swagger": "2.0",
		"info":    info,
		"host":    provider,
		"schemes": []any{"https"},
		"paths":   map[string]any{},
	}
	id := specs.Identity{Provider: provider, Service: service, Version: version}
	require.NoError(t, s.WriteJSON(id.Dir()+"/swagger.json", doc))
}

func TestBuildPreferredSelection(t *testing.T) {
	s := store.New(t.TempDir())
	storeDoc(t, s, "foo", "", "1.0", nil)
	storeDoc(t, s, "foo", "", "2.0", true)

	list, err := index.New(s, fixedDates(), "https://specs.example.com").Build()
	require.NoError(t, err)

	api := list["foo"]
	require.NotNil(t, api)
	assert.Equal(t, "2.0", api.Preferred)
	assert.Len(t, api.Versions, 2)
	assert.Contains(t, api.Versions, "1.0")
	assert.Contains(t, api.Versions, "2.0")
	assert.Equal(t, "https://specs.example.com/foo/2.0/swagger.json", api.Versions["2.0"].SwaggerURL)
}

func TestBuildSingleVersionAutoPreferred(t *testing.T) {
	s := store.New(t.TempDir())
	storeDoc(t, s, "example.com", "pets", "1.0.0", nil)

	list, err := index.New(s, fixedDates(), "https://specs.example.com").Build()
	require.NoError(t, err)

	api := list["example.com:pets"]
	require.NotNil(t, api)
	assert.Equal(t, "1.0.0", api.Preferred)
}

func TestBuildAmbiguousPreferredFails(t *testing.T) {
	s := store.New(t.TempDir())
	storeDoc(t, s, "foo", "", "1.0", nil)
	storeDoc(t, s, "foo", "", "2.0", nil)

	_, err := index.New(s, fixedDates(), "").Build()
	require.Error(t, err)
	assert.True(t, errors.IsMissingMetadata(err), "ambiguous preferred is an invariant violation")
}

func TestBuildTwoFlaggedPreferredFails(t *testing.T) {
	s := store.New(t.TempDir())
	storeDoc(t, s, "foo", "", "1.0", true)
	storeDoc(t, s, "foo", "", "2.0", true)

	_, err := index.New(s, fixedDates(), "").Build()
	require.Error(t, err)
	assert.True(t, errors.IsMissingMetadata(err))
}

func TestWriteCSV(t *testing.T) {
	s := store.New(t.TempDir())
	storeDoc(t, s, "foo", "", "1.0", nil)
	storeDoc(t, s, "foo", "", "2.0", true)
	storeDoc(t, s, "bar", "svc", "3.0", nil)

	list, err := index.New(s, fixedDates(), "https://specs.example.com").Build()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, index.WriteCSV(&buf, list))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3, "header plus one row per preferred version")
	assert.Equal(t,
		"provider,service,version,title,added,updated,swagger_url,swagger_yaml_url,origin_url",
		lines[0])
	assert.Contains(t, lines[1], "bar,svc,3.0")
	assert.Contains(t, lines[2], "foo,,2.0")
	assert.NotContains(t, buf.String(), ",1.0,", "non-preferred versions are excluded")
}

func TestDirectory(t *testing.T) {
	s := store.New(t.TempDir())
	storeDoc(t, s, "foo", "", "2.0", nil)

	list, err := index.New(s, fixedDates(), "").Build()
	require.NoError(t, err)

	entries := index.Directory(list)
	require.Len(t, entries, 1)
	assert.Equal(t, "foo", entries[0].Name)
	assert.Equal(t, "2.0", entries[0].Version)
	assert.Equal(t, "Test API.", entries[0].Description)
	assert.Equal(t, "https://foo", entries[0].BaseURL)
}
