package shrine

import "sort"

// Holder is the two-namespace key/value map inside a shrine: a public
// namespace and a private namespace, each keyed by non-empty UTF-8
// strings. A key exists in at most one of the two namespaces.
type Holder struct {
	public  map[string]Secret
	private map[string]Secret
}

// NewHolder returns an empty Holder.
func NewHolder() *Holder {
	return &Holder{
		public:  make(map[string]Secret),
		private: make(map[string]Secret),
	}
}

// Get returns the public secret stored under key.
func (h *Holder) Get(key string) (Secret, error) {
	s, ok := h.public[key]
	if !ok {
		return Secret{}, &KeyNotFoundError{Key: key}
	}
	return s, nil
}

// GetPrivate returns the private secret stored under key.
func (h *Holder) GetPrivate(key string) (Secret, error) {
	s, ok := h.private[key]
	if !ok {
		return Secret{}, &KeyNotFoundError{Key: key}
	}
	return s, nil
}

// Set stores value under key in the public namespace, overwriting any
// existing entry. Keys starting with "." are rejected: private access
// goes through SetPrivate or the dotted-lookup convention at the shrine
// level (spec.md §4.B).
func (h *Holder) Set(key string, value Secret) error {
	if key == "" {
		return &InvalidKeyError{Key: key, Reason: "key cannot be empty"}
	}
	if key[0] == '.' {
		return &InvalidKeyError{Key: key, Reason: "public keys cannot start with '.'"}
	}
	h.public[key] = value
	return nil
}

// SetPrivate stores value under key in the private namespace, overwriting
// any existing entry. The key is stored as given; the shrine-level dotted
// lookup strips the leading dot before calling this.
func (h *Holder) SetPrivate(key string, value Secret) error {
	if key == "" {
		return &InvalidKeyError{Key: key, Reason: "key cannot be empty"}
	}
	h.private[key] = value
	return nil
}

// Remove deletes key from the public namespace, reporting whether it was
// present.
func (h *Holder) Remove(key string) bool {
	if _, ok := h.public[key]; !ok {
		return false
	}
	delete(h.public, key)
	return true
}

// RemovePrivate deletes key from the private namespace, reporting whether
// it was present.
func (h *Holder) RemovePrivate(key string) bool {
	if _, ok := h.private[key]; !ok {
		return false
	}
	delete(h.private, key)
	return true
}

// Keys returns the public namespace's keys in deterministic (sorted)
// order.
func (h *Holder) Keys() []string {
	return sortedKeys(h.public)
}

// KeysPrivate returns the private namespace's keys in deterministic
// (sorted) order.
func (h *Holder) KeysPrivate() []string {
	return sortedKeys(h.private)
}

func sortedKeys(m map[string]Secret) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep-enough copy of h: a new Holder with independent
// namespace maps, used by mv to hand the destination its own copy of the
// source's secrets.
func (h *Holder) Clone() *Holder {
	clone := NewHolder()
	for k, v := range h.public {
		clone.public[k] = v
	}
	for k, v := range h.private {
		clone.private[k] = v
	}
	return clone
}

// Destroy zeroizes every secret held in both namespaces.
func (h *Holder) Destroy() {
	for k, s := range h.public {
		s.Destroy()
		h.public[k] = s
	}
	for k, s := range h.private {
		s.Destroy()
		h.private[k] = s
	}
}
