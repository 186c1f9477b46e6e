package specs

import (
	"path"
	"strings"

	"github.com/specmap/specmap/pkg/errors"
)

// Identity is the three-level name of a collection entry. Provider and
// Version are always set; Service is set only when one provider publishes
// more than one API. The on-disk layout is provider[/service]/version.
type Identity struct {
	Provider string
	Service  string
	Version  string
}

// delimiters that may not appear in a provider or service name. Slashes
// would escape the directory layout and ':' is the list-index key separator.
const identityDelimiters = `/\:`

// Key returns the index key for this identity: provider[:service].
func (id Identity) Key() string {
	if id.Service != "" {
		return id.Provider + ":" + id.Service
	}
	return id.Provider
}

// Dir returns the directory of this entry relative to the collection root.
func (id Identity) Dir() string {
	return path.Join(id.PathComponents()...)
}

// PathComponents returns [provider, service?, version].
func (id Identity) PathComponents() []string {
	if id.Service != "" {
		return []string{id.Provider, id.Service, id.Version}
	}
	return []string{id.Provider, id.Version}
}

// String returns the human-readable form provider[/service]/version.
func (id Identity) String() string {
	return id.Dir()
}

// ParseIdentity parses a provider[/service]/version path into an Identity.
func ParseIdentity(s string) (Identity, error) {
	parts := strings.Split(strings.Trim(s, "/"), "/")
	switch len(parts) {
	case 2:
		return Identity{Provider: parts[0], Version: parts[1]}, nil
	case 3:
		return Identity{Provider: parts[0], Service: parts[1], Version: parts[2]}, nil
	default:
		return Identity{}, &errors.MetadataError{Field: "identity", Reason: "must be provider[/service]/version: " + s}
	}
}

// Identity derives the entry identity from document metadata. Provider name
// and version are required; their absence after conversion is an invariant
// violation, not a user error.
func (d Document) Identity() (Identity, error) {
	info, ok := d["info"].(map[string]any)
	if !ok {
		return Identity{}, errors.NewMetadataError("info")
	}
	provider, _ := info[XProviderName].(string)
	if provider == "" {
		return Identity{}, errors.NewMetadataError(XProviderName)
	}
	if strings.ContainsAny(provider, identityDelimiters) {
		return Identity{}, &errors.MetadataError{Field: XProviderName, Reason: "contains a path delimiter: " + provider}
	}
	version, _ := info["version"].(string)
	if version == "" {
		return Identity{}, errors.NewMetadataError("version")
	}
	id := Identity{Provider: provider, Version: version}
	if service, ok := info[XServiceName].(string); ok && service != "" {
		if strings.ContainsAny(service, identityDelimiters) {
			return Identity{}, &errors.MetadataError{Field: XServiceName, Reason: "contains a path delimiter: " + service}
		}
		id.Service = service
	}
	return id, nil
}

// PathComponents returns the storage path components for this document:
// [provider, service?, version].
func (d Document) PathComponents() ([]string, error) {
	id, err := d.Identity()
	if err != nil {
		return nil, err
	}
	return id.PathComponents(), nil
}

// ArtifactPath returns the relative storage path of an artifact of this
// document. An empty filename names the canonical document itself.
func (d Document) ArtifactPath(filename string) (string, error) {
	if filename == "" {
		filename = "swagger.json"
	}
	components, err := d.PathComponents()
	if err != nil {
		return "", err
	}
	return path.Join(append(components, filename)...), nil
}

// Preferred reports whether the document carries an explicit preferred flag,
// and whether the flag is present at all.
func (d Document) Preferred() (value, ok bool) {
	info, isMap := d["info"].(map[string]any)
	if !isMap {
		return false, false
	}
	v, ok := info[XPreferred].(bool)
	return v, ok
}
