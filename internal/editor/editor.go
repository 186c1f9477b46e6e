// Package editor runs an external editor session over a temporary file.
// It is the boundary behind which manual fixup authoring happens: the
// caller hands in text, a human edits it, and the edited text comes back
// or the session is reported as aborted.
package editor

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/specmap/specmap/pkg/errors"
)

// DefaultEditor is used when neither $VISUAL nor $EDITOR is set.
const DefaultEditor = "vi"

// Edit writes content to a temporary file with the given extension, opens
// the configured editor on it, and returns the edited bytes. An editor that
// exits nonzero, or content returned unchanged, aborts the session with
// errors.ErrEditAborted.
func Edit(ctx context.Context, content []byte, ext string) ([]byte, error) {
	tmp, err := os.CreateTemp("", "specmap-*"+ext)
	if err != nil {
		return nil, errors.WrapIO("create", "tempfile", err)
	}
	path := tmp.Name()
	defer func() { _ = os.Remove(path) }()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return nil, errors.WrapIO("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, errors.WrapIO("write", path, err)
	}

	name, args := command(path)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.ErrEditAborted
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	if string(edited) == string(content) {
		return nil, errors.ErrEditAborted
	}
	return edited, nil
}

// command resolves the editor command line. $VISUAL wins over $EDITOR;
// either may carry arguments.
func command(path string) (string, []string) {
	raw := os.Getenv("VISUAL")
	if raw == "" {
		raw = os.Getenv("EDITOR")
	}
	if raw == "" {
		raw = DefaultEditor
	}
	parts := strings.Fields(raw)
	return parts[0], append(parts[1:], path)
}
