// Package convert turns an imported scene into an SBM document.
package convert

// MaterialRegistry assigns dense global indices to material names in
// first-seen order. Names are opaque keys; no normalization is applied.
type MaterialRegistry struct {
	index map[string]uint32
	names []string
}

// NewMaterialRegistry returns an empty registry.
func NewMaterialRegistry() *MaterialRegistry {
	return &MaterialRegistry{index: make(map[string]uint32)}
}

// Register returns the index of name, assigning the next free index the
// first time a name is seen.
func (r *MaterialRegistry) Register(name string) uint32 {
	if idx, ok := r.index[name]; ok {
		return idx
	}
	idx := uint32(len(r.names))
	r.index[name] = idx
	r.names = append(r.names, name)
	return idx
}

// Lookup returns the index of a registered name.
func (r *MaterialRegistry) Lookup(name string) (uint32, bool) {
	idx, ok := r.index[name]
	return idx, ok
}

// Count returns the number of distinct registered names.
func (r *MaterialRegistry) Count() uint32 {
	return uint32(len(r.names))
}

// NameOf returns the name registered at index.
func (r *MaterialRegistry) NameOf(index uint32) (string, bool) {
	if int64(index) >= int64(len(r.names)) {
		return "", false
	}
	return r.names[index], true
}

// Names returns a copy of all names in index order.
func (r *MaterialRegistry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
