package specmap_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specmap/specmap"
	"github.com/specmap/specmap/pkg/errors"
	"github.com/specmap/specmap/pkg/specs"
)

// sourceDoc builds a valid Swagger 2.0 source the test server can serve.
func sourceDoc() map[string]any {
	return map[string]any{
		"swagger": "2.0",
		"info": map[string]any{
			"title":          "Petstore",
			"version":        "1.0.0",
			"x-providerName": "example.com",
		},
		"host":     "example.com",
		"basePath": "/v1",
		"schemes":  []any{"https"},
		"paths": map[string]any{
			"/pets/{petId}": map[string]any{
				"get": map[string]any{
					"parameters": []any{
						map[string]any{
							"name":     "petId",
							"in":       "path",
							"type":     "string",
							"required": true,
						},
					},
					"responses": map[string]any{
						"200": map[string]any{"description": "OK"},
					},
				},
			},
		},
	}
}

// serveDoc serves *doc as JSON; mutating the pointed-to map between requests
// changes what later fetches see.
func serveDoc(t *testing.T, doc *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(*doc)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newCollection(t *testing.T, dir string) specmap.Collection {
	t.Helper()
	c, err := specmap.New(specmap.WithDir(dir))
	require.NoError(t, err)
	return c
}

func readStored(t *testing.T, dir, rel string) specs.Document {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	var doc specs.Document
	require.NoError(t, json.Unmarshal(raw, &doc))
	return doc
}

func TestWriteSpecPersistsCanonicalArtifacts(t *testing.T) {
	doc := sourceDoc()
	srv := serveDoc(t, &doc)
	dir := t.TempDir()
	c := newCollection(t, dir)

	wr, err := c.WriteSpec(context.Background(), srv.URL, "", nil)
	require.NoError(t, err)
	require.True(t, wr.OK())
	assert.Equal(t, "example.com/1.0.0/swagger.json", wr.Path)

	stored := readStored(t, dir, wr.Path)
	origin, err := stored.Origin()
	require.NoError(t, err)
	assert.Equal(t, "swagger_2", origin.Format)
	assert.Equal(t, "2.0", origin.Version)
	assert.Equal(t, srv.URL, origin.URL)

	_, err = os.Stat(filepath.Join(dir, "example.com", "1.0.0", "swagger.yaml"))
	assert.NoError(t, err)
}

func TestWriteSpecServicePathFromCallerPatch(t *testing.T) {
	doc := sourceDoc()
	srv := serveDoc(t, &doc)
	dir := t.TempDir()
	c := newCollection(t, dir)

	extra := specs.Document{"info": map[string]any{"x-serviceName": "admin"}}
	wr, err := c.WriteSpec(context.Background(), srv.URL, "", extra)
	require.NoError(t, err)
	assert.Equal(t, "example.com/admin/1.0.0/swagger.json", wr.Path)

	stored := readStored(t, dir, wr.Path)
	info := stored["info"].(map[string]any)
	assert.Equal(t, "admin", info["x-serviceName"])
}

func TestWriteSpecAppliesPatchLayers(t *testing.T) {
	doc := sourceDoc()
	srv := serveDoc(t, &doc)
	dir := t.TempDir()

	// Provider-level layer plus a version-level layer; the inner one wins.
	writeJSON(t, filepath.Join(dir, "example.com", "patch.json"), map[string]any{
		"info": map[string]any{
			"contact": map[string]any{"name": "Outer", "url": "https://example.com"},
		},
	})
	writeJSON(t, filepath.Join(dir, "example.com", "1.0.0", "patch.json"), map[string]any{
		"info": map[string]any{
			"contact": map[string]any{"name": "Inner"},
		},
	})

	c := newCollection(t, dir)
	wr, err := c.WriteSpec(context.Background(), srv.URL, "", nil)
	require.NoError(t, err)

	stored := readStored(t, dir, wr.Path)
	contact, ok := specs.Resolve(stored, []string{"info", "contact"})
	require.True(t, ok)
	assert.Equal(t, "Inner", contact.(map[string]any)["name"])
	assert.Equal(t, "https://example.com", contact.(map[string]any)["url"])
}

func TestWriteSpecFixesRecoverableErrors(t *testing.T) {
	doc := sourceDoc()
	paths := doc["paths"].(map[string]any)
	// Undeclared path parameter: the fix loop should declare it.
	paths["/pets/{petId}"].(map[string]any)["get"].(map[string]any)["parameters"] = []any{}
	srv := serveDoc(t, &doc)
	dir := t.TempDir()
	c := newCollection(t, dir)

	wr, err := c.WriteSpec(context.Background(), srv.URL, "", nil)
	require.NoError(t, err)
	require.True(t, wr.OK())

	stored := readStored(t, dir, wr.Path)
	params, ok := specs.Resolve(stored, []string{"paths", "/pets/{petId}", "get", "parameters"})
	require.True(t, ok)
	require.Len(t, params.([]any), 1)
	param := params.([]any)[0].(map[string]any)
	assert.Equal(t, "petId", param["name"])
	assert.Equal(t, "path", param["in"])
}

func TestWriteSpecUnfixableFailurePersistsNothing(t *testing.T) {
	doc := sourceDoc()
	info := doc["info"].(map[string]any)
	delete(info, "title")
	srv := serveDoc(t, &doc)
	dir := t.TempDir()
	c := newCollection(t, dir)

	wr, err := c.WriteSpec(context.Background(), srv.URL, "", nil)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	require.NotNil(t, wr)
	assert.False(t, wr.OK())
	assert.NotEmpty(t, wr.Errors)

	_, err = os.Stat(filepath.Join(dir, "example.com", "1.0.0", "swagger.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestRecordFixupAndReplay(t *testing.T) {
	doc := sourceDoc()
	srv := serveDoc(t, &doc)
	dir := t.TempDir()
	c := newCollection(t, dir)

	wr, err := c.WriteSpec(context.Background(), srv.URL, "", nil)
	require.NoError(t, err)

	preEdit := readStored(t, dir, wr.Path)
	postEdit := preEdit.Copy()
	postEdit["info"].(map[string]any)["description"] = "hand edited"
	require.NoError(t, c.RecordFixup(preEdit, postEdit))

	_, err = os.Stat(filepath.Join(dir, "example.com", "1.0.0", "fixup.json"))
	require.NoError(t, err)

	// The next run replays the edit on top of the regenerated document.
	wr, err = c.WriteSpec(context.Background(), srv.URL, "", nil)
	require.NoError(t, err)
	stored := readStored(t, dir, wr.Path)
	assert.Equal(t, "hand edited", stored["info"].(map[string]any)["description"])
}

func TestRecordFixupEmptyDiffWritesNothing(t *testing.T) {
	doc := sourceDoc()
	srv := serveDoc(t, &doc)
	dir := t.TempDir()
	c := newCollection(t, dir)

	wr, err := c.WriteSpec(context.Background(), srv.URL, "", nil)
	require.NoError(t, err)

	stored := readStored(t, dir, wr.Path)
	require.NoError(t, c.RecordFixup(stored, stored.Copy()))
	_, err = os.Stat(filepath.Join(dir, "example.com", "1.0.0", "fixup.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestFixMissingDocument(t *testing.T) {
	c := newCollection(t, t.TempDir())

	err := c.Fix(context.Background(), "example.com/1.0.0")
	assert.True(t, errors.IsNotFound(err))
}

func TestRecordFixupRevertedEditRemovesRecordedFixup(t *testing.T) {
	doc := sourceDoc()
	srv := serveDoc(t, &doc)
	dir := t.TempDir()
	c := newCollection(t, dir)

	wr, err := c.WriteSpec(context.Background(), srv.URL, "", nil)
	require.NoError(t, err)

	original := readStored(t, dir, wr.Path)
	edited := original.Copy()
	edited["info"].(map[string]any)["description"] = "hand edited"
	require.NoError(t, c.RecordFixup(original, edited))

	fixupPath := filepath.Join(dir, "example.com", "1.0.0", "fixup.json")
	_, err = os.Stat(fixupPath)
	require.NoError(t, err)

	// A second session that undoes the edit must not leave the old diff
	// behind to be replayed.
	require.NoError(t, c.RecordFixup(edited, original))
	_, err = os.Stat(fixupPath)
	assert.True(t, os.IsNotExist(err))
}

func TestUpdateRefetchesFromOrigin(t *testing.T) {
	doc := sourceDoc()
	srv := serveDoc(t, &doc)
	dir := t.TempDir()
	c := newCollection(t, dir)

	_, err := c.WriteSpec(context.Background(), srv.URL, "", nil)
	require.NoError(t, err)

	doc["info"].(map[string]any)["description"] = "second revision"
	res, err := c.Update(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 1, res.Succeeded)
	assert.False(t, res.HasFailures())

	stored := readStored(t, dir, "example.com/1.0.0/swagger.json")
	assert.Equal(t, "second revision", stored["info"].(map[string]any)["description"])
}

func TestUpdateKeepsCuratedServicePath(t *testing.T) {
	doc := sourceDoc()
	srv := serveDoc(t, &doc)
	dir := t.TempDir()
	c := newCollection(t, dir)

	_, err := c.Add(context.Background(), "", srv.URL, "admin", true)
	require.NoError(t, err)

	res, err := c.Update(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)

	stored := readStored(t, dir, "example.com/admin/1.0.0/swagger.json")
	info := stored["info"].(map[string]any)
	assert.Equal(t, "admin", info["x-serviceName"])
	assert.Equal(t, true, info["x-preferred"])
}

func TestURLs(t *testing.T) {
	doc := sourceDoc()
	srv := serveDoc(t, &doc)
	dir := t.TempDir()
	c := newCollection(t, dir)

	_, err := c.WriteSpec(context.Background(), srv.URL, "", nil)
	require.NoError(t, err)

	urls, err := c.URLs()
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL}, urls)
}

func TestValidateReportsStoredErrors(t *testing.T) {
	doc := sourceDoc()
	srv := serveDoc(t, &doc)
	dir := t.TempDir()
	c := newCollection(t, dir)

	_, err := c.WriteSpec(context.Background(), srv.URL, "", nil)
	require.NoError(t, err)

	// Corrupt the stored artifact behind the collection's back.
	stored := readStored(t, dir, "example.com/1.0.0/swagger.json")
	delete(stored["info"].(map[string]any), "title")
	writeJSON(t, filepath.Join(dir, "example.com", "1.0.0", "swagger.json"), stored)

	res, err := c.Validate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 0, res.Succeeded)
	require.Len(t, res.Failures, 1)
	assert.True(t, errors.IsValidation(res.Failures[0].Err))
}

func TestAddPatchComposesPersistedLayer(t *testing.T) {
	dir := t.TempDir()
	c := newCollection(t, dir)

	require.NoError(t, c.AddPatch("example.com/1.0.0", specs.Document{
		"info": map[string]any{"contact": map[string]any{"name": "First"}},
	}))
	require.NoError(t, c.AddPatch("example.com/1.0.0", specs.Document{
		"info": map[string]any{"contact": map[string]any{"email": "api@example.com"}},
	}))

	raw, err := os.ReadFile(filepath.Join(dir, "example.com", "1.0.0", "patch.json"))
	require.NoError(t, err)
	var patch specs.Document
	require.NoError(t, json.Unmarshal(raw, &patch))
	contact, ok := specs.Resolve(patch, []string{"info", "contact"})
	require.True(t, ok)
	assert.Equal(t, "First", contact.(map[string]any)["name"])
	assert.Equal(t, "api@example.com", contact.(map[string]any)["email"])
}

func writeJSON(t *testing.T, abs string, v any) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(abs, raw, 0o644))
}
