package candidate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Registry is an explicit registration table mapping version identifiers
// to implementations. It is built at startup by the host; the harness core
// assumes no particular loading mechanism.
type Registry struct {
	impls map[string]Implementation
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{impls: make(map[string]Implementation)}
}

// Register adds an implementation under its own version identifier.
// Re-registering a version replaces the previous entry.
func (r *Registry) Register(impl Implementation) {
	r.impls[impl.Version()] = impl
}

// Versions returns the registered version identifiers, ordered by numeric
// suffix ("v2" before "v10"), falling back to lexical order.
func (r *Registry) Versions() []string {
	versions := make([]string, 0, len(r.impls))
	for v := range r.impls {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool {
		ni, iok := versionNumber(versions[i])
		nj, jok := versionNumber(versions[j])
		if iok && jok {
			return ni < nj
		}
		return versions[i] < versions[j]
	})
	return versions
}

// Resolve looks up an implementation by version identifier. Unknown
// versions fail with an error listing the available ones.
func (r *Registry) Resolve(version string) (Implementation, error) {
	impl, ok := r.impls[version]
	if !ok {
		return nil, fmt.Errorf("unknown implementation: %s. Available: %s",
			version, strings.Join(r.Versions(), ", "))
	}
	return impl, nil
}

func versionNumber(version string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(version, "v"))
	return n, err == nil
}

// Default returns a registry pre-loaded with the built-in candidates.
func Default() *Registry {
	r := NewRegistry()
	r.Register(V1{})
	r.Register(V2{})
	r.Register(V3{})
	r.Register(V4{})
	return r
}
