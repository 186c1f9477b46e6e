// Package gitlog derives display dates for collection artifacts from git
// history. The dates are metadata only; nothing downstream depends on their
// accuracy, so a missing repository degrades to file modification times.
package gitlog

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/agentstation/utc"
)

// Dater reports when an artifact first appeared and was last touched.
type Dater interface {
	Dates(rel string) (added, updated utc.Time)
}

// Git reads dates from the history of the repository containing dir.
// Queries run one at a time against one working tree; the collection loop
// is strictly sequential, so no locking is needed here.
type Git struct {
	dir string
}

// New returns a Git dater for artifacts under dir.
func New(dir string) *Git {
	return &Git{dir: dir}
}

// Dates returns the author dates of the first and last commits touching the
// artifact, falling back to the file's modification time when the artifact
// has no history.
func (g *Git) Dates(rel string) (added, updated utc.Time) {
	out, err := exec.Command(
		"git", "-C", g.dir, "log", "--follow", "--format=%aI", "--", filepath.FromSlash(rel),
	).Output()
	if err == nil {
		lines := strings.Fields(strings.TrimSpace(string(out)))
		if len(lines) > 0 {
			// git log emits newest first.
			updatedAt, errNew := time.Parse(time.RFC3339, lines[0])
			addedAt, errOld := time.Parse(time.RFC3339, lines[len(lines)-1])
			if errNew == nil && errOld == nil {
				return utc.Time{Time: addedAt.UTC()}, utc.Time{Time: updatedAt.UTC()}
			}
		}
	}
	return g.mtime(rel)
}

func (g *Git) mtime(rel string) (added, updated utc.Time) {
	fi, err := os.Stat(filepath.Join(g.dir, filepath.FromSlash(rel)))
	if err != nil {
		now := utc.Now()
		return now, now
	}
	at := utc.Time{Time: fi.ModTime().UTC()}
	return at, at
}

// Fixed is a Dater returning constant dates, for tests and deterministic
// index generation.
type Fixed struct {
	Added   utc.Time
	Updated utc.Time
}

// Dates implements Dater.
func (f Fixed) Dates(string) (utc.Time, utc.Time) {
	return f.Added, f.Updated
}
