package editor_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specmap/specmap/internal/editor"
	"github.com/specmap/specmap/pkg/errors"
)

// fakeEditor writes a shell script that acts as the editor.
func fakeEditor(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "editor.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestEditReturnsEditedContent(t *testing.T) {
	t.Setenv("VISUAL", fakeEditor(t, `echo "description: edited" >> "$1"`))
	t.Setenv("EDITOR", "")

	out, err := editor.Edit(context.Background(), []byte("title: Petstore\n"), ".yaml")
	require.NoError(t, err)
	assert.Contains(t, string(out), "title: Petstore")
	assert.Contains(t, string(out), "description: edited")
}

func TestEditUnchangedContentAborts(t *testing.T) {
	t.Setenv("VISUAL", fakeEditor(t, "exit 0"))
	t.Setenv("EDITOR", "")

	_, err := editor.Edit(context.Background(), []byte("title: Petstore\n"), ".yaml")
	assert.ErrorIs(t, err, errors.ErrEditAborted)
}

func TestEditNonzeroExitAborts(t *testing.T) {
	t.Setenv("VISUAL", fakeEditor(t, "exit 1"))
	t.Setenv("EDITOR", "")

	_, err := editor.Edit(context.Background(), []byte("title: Petstore\n"), ".yaml")
	assert.ErrorIs(t, err, errors.ErrEditAborted)
}
