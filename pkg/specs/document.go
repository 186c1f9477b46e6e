// Package specs defines the canonical document tree and the identity and
// provenance accessors derived from it. A Document is the in-memory form of
// one canonical API description; its metadata subtree carries the extension
// fields that name the provider, optional service, and original source.
package specs

// Document is a canonical API description: a JSON object tree in the
// canonical (Swagger 2.0) shape. Values are the generic JSON types
// (map[string]any, []any, string, float64, bool, nil).
type Document map[string]any

// Extension field names on the info subtree.
const (
	// XOrigin records the provenance chain of a document. Element 0 is the
	// original source: {format, version, url}.
	XOrigin = "x-origin"

	// XProviderName names the organization publishing the API.
	XProviderName = "x-providerName"

	// XServiceName distinguishes multiple APIs from one provider.
	XServiceName = "x-serviceName"

	// XPreferred flags the canonical version among several of one API.
	XPreferred = "x-preferred"

	// XLogo carries the provider logo entry ({url, backgroundColor}).
	XLogo = "x-logo"
)

// Info returns the info subtree, creating it if absent.
func (d Document) Info() Document {
	if info, ok := d["info"].(map[string]any); ok {
		return Document(info)
	}
	info := map[string]any{}
	d["info"] = info
	return Document(info)
}

// Copy returns a deep copy of the document. Each pipeline step owns the
// document for its duration; callers that need to keep a pre-step snapshot
// (for example to diff against later) must copy first.
func (d Document) Copy() Document {
	return Document(copyValue(map[string]any(d)).(map[string]any))
}

func copyValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = copyValue(e)
		}
		return out
	case Document:
		return copyValue(map[string]any(v))
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}

// Resolve walks a path of segments from root. Map segments are keys; slice
// segments are decimal indexes. The second result reports whether every
// segment resolved.
func Resolve(root any, path []string) (any, bool) {
	node := root
	for _, seg := range path {
		switch n := node.(type) {
		case Document:
			v, ok := n[seg]
			if !ok {
				return nil, false
			}
			node = v
		case map[string]any:
			v, ok := n[seg]
			if !ok {
				return nil, false
			}
			node = v
		case []any:
			i, ok := sliceIndex(seg, len(n))
			if !ok {
				return nil, false
			}
			node = n[i]
		default:
			return nil, false
		}
	}
	return node, true
}

// ResolveParent resolves the parent of the node a path names, returning the
// parent node and the final segment. An empty path has no parent.
func ResolveParent(root any, path []string) (any, string, bool) {
	if len(path) == 0 {
		return nil, "", false
	}
	parent, ok := Resolve(root, path[:len(path)-1])
	if !ok {
		return nil, "", false
	}
	return parent, path[len(path)-1], true
}

func sliceIndex(seg string, length int) (int, bool) {
	i := 0
	for _, r := range seg {
		if r < '0' || r > '9' {
			return 0, false
		}
		i = i*10 + int(r-'0')
	}
	if seg == "" || i >= length {
		return 0, false
	}
	return i, true
}
