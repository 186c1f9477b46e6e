package specmap

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/specmap/specmap/pkg/convert"
	"github.com/specmap/specmap/pkg/specs"
	"github.com/specmap/specmap/pkg/validate"
)

// WriteResult is the outcome of one document pipeline run. On success Path
// names the persisted canonical artifact; on validation failure Doc holds
// the document as far as it got, together with the source it came from and
// the remaining findings, so the failure can be rendered for diagnosis.
type WriteResult struct {
	Identity specs.Identity
	Path     string
	Doc      specs.Document
	Source   *convert.SourceSpec
	Errors   []validate.Error
	Warnings []validate.Error

	// CapReached marks a fix loop that hit its iteration cap instead of
	// reaching a fixed point.
	CapReached bool
}

// OK reports whether the document converged and was persisted.
func (r *WriteResult) OK() bool {
	return r != nil && r.Path != "" && len(r.Errors) == 0
}

const diagnosticBanner = "=========================================="

// Diagnose renders a framed diagnostic dump of a failed run: the source
// document, the canonical document as far as it got, and the findings.
func (r *WriteResult) Diagnose(w io.Writer) {
	fmt.Fprintln(w, diagnosticBanner)
	if r.Source != nil {
		fmt.Fprintf(w, "source: %s (%s)\n", r.Source.URL, r.Source.FormatVersion())
		dumpJSON(w, r.Source.Doc)
		fmt.Fprintln(w, diagnosticBanner)
	}
	if r.Doc != nil {
		fmt.Fprintln(w, "canonical document:")
		dumpJSON(w, r.Doc)
		fmt.Fprintln(w, diagnosticBanner)
	}
	if r.CapReached {
		fmt.Fprintln(w, "fix iteration cap reached")
	}
	for _, e := range r.Errors {
		fmt.Fprintf(w, "error: %s\n", e.String())
	}
	for _, e := range r.Warnings {
		fmt.Fprintf(w, "warning: %s\n", e.String())
	}
	fmt.Fprintln(w, diagnosticBanner)
}

func dumpJSON(w io.Writer, v any) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "<unrenderable: %v>\n", err)
		return
	}
	w.Write(raw)
	io.WriteString(w, "\n")
}

// Failure records one document that did not make it through a batch
// operation. Result is nil when the failure happened before a pipeline run
// produced one.
type Failure struct {
	Source string
	Err    error
	Result *WriteResult
}

// UpdateResult accumulates the outcome of a batch operation over the
// collection. Failures are collected per document; a batch aborts early
// only on errors that indicate corrupted durable state.
type UpdateResult struct {
	Processed int
	Succeeded int
	Failures  []Failure
}

// HasFailures reports whether any document failed.
func (r *UpdateResult) HasFailures() bool {
	return len(r.Failures) > 0
}

func (r *UpdateResult) record(source string, res *WriteResult, err error) {
	r.Failures = append(r.Failures, Failure{Source: source, Err: err, Result: res})
}

// Render writes a human-readable batch report: one diagnostic block per
// failure followed by a summary line.
func (r *UpdateResult) Render(w io.Writer) {
	for _, f := range r.Failures {
		fmt.Fprintf(w, "failed: %s: %v\n", f.Source, f.Err)
		if f.Result != nil {
			f.Result.Diagnose(w)
		}
	}
	fmt.Fprintf(w, "processed %d, succeeded %d, failed %d\n",
		r.Processed, r.Succeeded, len(r.Failures))
}

// Summary returns the one-line batch outcome.
func (r *UpdateResult) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "processed %d, succeeded %d, failed %d",
		r.Processed, r.Succeeded, len(r.Failures))
	return b.String()
}
