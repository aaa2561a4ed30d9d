package shrine

import "github.com/google/uuid"

// RemoteShrine presents the same Open-state operations as a local shrine
// by forwarding to an agent over Client. It carries only the path and the
// client: open/close are logical no-ops because the agent persists
// synchronously on every mutation (spec.md §4.K).
type RemoteShrine struct {
	path   string
	client Client
}

// NewRemoteShrine builds a façade over path, forwarding through client.
func NewRemoteShrine(path string, client Client) *RemoteShrine {
	return &RemoteShrine{path: path, client: client}
}

// UUID returns uuid.Nil: RemoteShrine carries only the path and the
// client, and no agent response reports the shrine's uuid.
func (r *RemoteShrine) UUID() uuid.UUID { return uuid.Nil }

// Path returns the shrine file path this façade forwards operations for.
func (r *RemoteShrine) Path() string { return r.path }

// Set forwards to the agent's PUT /keys/{key}?path=....
func (r *RemoteShrine) Set(key string, value []byte, mode Mode) error {
	return r.client.SetKey(r.path, key, value, mode)
}

// Get forwards to the agent's GET /keys/{key}?path=....
func (r *RemoteShrine) Get(key string) (Secret, error) {
	return r.client.GetKey(r.path, key)
}

// Rm forwards to the agent's DELETE /keys/{key}?path=....
func (r *RemoteShrine) Rm(key string) bool {
	removed, err := r.client.RemoveKey(r.path, key)
	if err != nil {
		return false
	}
	return removed
}

// Keys forwards to the agent's GET /keys?path=....
func (r *RemoteShrine) Keys() []string {
	keys, err := r.client.ListKeys(r.path)
	if err != nil {
		return nil
	}
	return keys
}

// KeysPrivate forwards to the agent's private-namespace listing.
func (r *RemoteShrine) KeysPrivate() []string {
	keys, err := r.client.ListKeysPrivate(r.path)
	if err != nil {
		return nil
	}
	return keys
}
