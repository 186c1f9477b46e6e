// Package convert turns source API descriptions of any supported dialect
// into canonical Swagger 2.0 documents. A SourceSpec is the parsed source
// plus its detected dialect; converters are looked up by dialect name.
package convert

import (
	"context"
	"encoding/json"
	"net/url"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/specmap/specmap/pkg/constants"
	"github.com/specmap/specmap/pkg/errors"
	"github.com/specmap/specmap/pkg/specs"
)

// Fetcher retrieves the raw bytes of a remote source.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Converter translates one source dialect into the canonical format.
type Converter interface {
	// Name is the dialect name recorded in the document's origin.
	Name() string

	// Detect reports whether a parsed document is in this dialect.
	Detect(doc map[string]any) bool

	// Version returns the dialect version of a source document.
	Version(doc map[string]any) string

	// Convert produces the canonical Swagger 2.0 form of the source.
	Convert(doc map[string]any) (specs.Document, error)
}

// converters in detection order. Swagger 2.0 first: it is the cheapest to
// detect and the most common input.
var converters = []Converter{
	swagger2Converter{},
	openapi3Converter{},
	googleConverter{},
}

// Lookup returns the converter for a dialect name.
func Lookup(name string) (Converter, error) {
	for _, c := range converters {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, errors.NewConversionError("", name, errors.New("unsupported dialect"))
}

// Formats lists the supported dialect names in detection order.
func Formats() []string {
	names := make([]string, len(converters))
	for i, c := range converters {
		names[i] = c.Name()
	}
	return names
}

// GetTypeName maps an origin (format, version) pair back to the dialect
// name used for re-conversion. Origins recorded by older tooling name the
// family ("swagger", "openapi") rather than the dialect.
func GetTypeName(format, version string) string {
	switch format {
	case "swagger":
		if strings.HasPrefix(version, "2") {
			return "swagger_2"
		}
		return format
	case "openapi":
		return "openapi_3"
	default:
		return format
	}
}

// SourceSpec is a parsed source document with its detected dialect.
type SourceSpec struct {
	// Format is the dialect name.
	Format string

	// URL is where the source came from; a local path for file sources.
	URL string

	// Doc is the parsed source tree.
	Doc map[string]any

	converter Converter
}

// Converted is the canonical form of a source.
type Converted struct {
	Doc specs.Document

	// Format and Version describe the source dialect, for provenance.
	Format  string
	Version string
}

// GetSpec fetches and parses a source, detecting its dialect. An empty
// typeHint enables auto-detection; a non-empty hint must match a supported
// dialect. Sources that are not URLs are read from the local filesystem.
func GetSpec(ctx context.Context, fetcher Fetcher, source, typeHint string) (*SourceSpec, error) {
	raw, err := load(ctx, fetcher, source)
	if err != nil {
		return nil, errors.NewConversionError(source, typeHint, err)
	}
	doc, err := parse(raw)
	if err != nil {
		return nil, errors.NewConversionError(source, typeHint, err)
	}

	var converter Converter
	if typeHint != "" {
		converter, err = Lookup(typeHint)
		if err != nil {
			return nil, errors.NewConversionError(source, typeHint, err)
		}
	} else {
		for _, c := range converters {
			if c.Detect(doc) {
				converter = c
				break
			}
		}
		if converter == nil {
			return nil, errors.NewConversionError(source, "", errors.New("could not detect source dialect"))
		}
	}

	return &SourceSpec{
		Format:    converter.Name(),
		URL:       source,
		Doc:       doc,
		converter: converter,
	}, nil
}

// FormatVersion returns the dialect version of the source document.
func (s *SourceSpec) FormatVersion() string {
	return s.converter.Version(s.Doc)
}

// ConvertTo converts the source into the named canonical format. Only the
// canonical Swagger 2.0 format is supported as a target.
func (s *SourceSpec) ConvertTo(format string) (*Converted, error) {
	if format != constants.CanonicalFormat {
		return nil, errors.NewConversionError(s.URL, s.Format, errors.New("unsupported target format: "+format))
	}
	doc, err := s.converter.Convert(s.Doc)
	if err != nil {
		return nil, errors.NewConversionError(s.URL, s.Format, err)
	}
	return &Converted{
		Doc:     doc,
		Format:  s.Format,
		Version: s.FormatVersion(),
	}, nil
}

// ProviderFromURL derives a provider name from a source URL host, stripping
// a leading www. and any port. File sources have no host and yield "".
func ProviderFromURL(source string) string {
	u, err := url.Parse(source)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	return strings.TrimPrefix(host, "www.")
}

func load(ctx context.Context, fetcher Fetcher, source string) ([]byte, error) {
	if isURL(source) {
		if fetcher == nil {
			return nil, errors.New("no fetcher configured for remote source")
		}
		return fetcher.Fetch(ctx, source)
	}
	raw, err := os.ReadFile(source)
	if err != nil {
		return nil, errors.WrapIO("read", source, err)
	}
	return raw, nil
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// parse decodes JSON or, failing that, YAML. Either way the result is
// normalized to generic JSON types.
func parse(raw []byte) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err == nil {
		return doc, nil
	}
	var yamlDoc map[string]any
	if err := yaml.Unmarshal(raw, &yamlDoc); err != nil {
		return nil, errors.WrapParse("yaml", "source", err)
	}
	normalized, err := json.Marshal(yamlDoc)
	if err != nil {
		return nil, errors.WrapParse("json", "source", err)
	}
	if err := json.Unmarshal(normalized, &doc); err != nil {
		return nil, errors.WrapParse("json", "source", err)
	}
	return doc, nil
}
