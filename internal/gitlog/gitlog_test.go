package gitlog_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specmap/specmap/internal/gitlog"
)

func TestDatesFallsBackToModTime(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(dir, "swagger.json")
	require.NoError(t, os.WriteFile(abs, []byte("{}"), 0o644))
	stamp := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(abs, stamp, stamp))

	added, updated := gitlog.New(dir).Dates("swagger.json")
	assert.True(t, added.Equal(utc.Time{Time: stamp}))
	assert.True(t, updated.Equal(utc.Time{Time: stamp}))
}

func TestDatesMissingFileUsesNow(t *testing.T) {
	before := time.Now().Add(-time.Minute)
	added, updated := gitlog.New(t.TempDir()).Dates("absent.json")
	assert.True(t, added.After(utc.Time{Time: before}))
	assert.True(t, updated.Equal(added))
}

func TestFixedDater(t *testing.T) {
	a := utc.Time{Time: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
	u := utc.Time{Time: time.Date(2021, 2, 3, 0, 0, 0, 0, time.UTC)}
	added, updated := gitlog.Fixed{Added: a, Updated: u}.Dates("anything")
	assert.Equal(t, a, added)
	assert.Equal(t, u, updated)
}
