package shrine

import (
	"github.com/google/uuid"
)

// Client is the minimal contract RemoteShrine needs from an agent client.
// agent.Client satisfies this structurally; shrine does not import agent
// to avoid a package cycle (the agent imports shrine to open/close/persist
// files).
type Client interface {
	IsRunning() bool
	GetKey(path, key string) (Secret, error)
	SetKey(path, key string, value []byte, mode Mode) error
	RemoveKey(path, key string) (bool, error)
	ListKeys(path string) ([]string, error)
	ListKeysPrivate(path string) ([]string, error)
}

// ClosedShrine is a tagged variant over the closed shapes a shrine can
// take: a local file (clear or encrypted, both held in the local field) or
// a remote shrine forwarding to an agent. Exactly one of the two fields is
// set.
// This mirrors the Rust original's `enum ClosedShrine<L>`, represented as
// a dynamic tagged struct per spec.md §9's guidance for languages without
// typestate machinery.
type ClosedShrine struct {
	local  *LocalClosed
	remote *RemoteShrine
}

// NewClosedLocal wraps a LocalClosed shrine.
func NewClosedLocal(s *LocalClosed) ClosedShrine { return ClosedShrine{local: s} }

// NewClosedRemote wraps a RemoteShrine.
func NewClosedRemote(s *RemoteShrine) ClosedShrine { return ClosedShrine{remote: s} }

// Open opens the shrine. passwordProvider is consulted only when the
// underlying local shrine is Aes-encrypted; it is never called for Clear
// or Remote shrines.
func (c ClosedShrine) Open(passwordProvider func(uuid.UUID) []byte) (OpenShrine, error) {
	switch {
	case c.local != nil:
		if c.local.RequiresPassword() {
			open, err := c.local.OpenAes(passwordProvider(c.local.UUID()))
			if err != nil {
				return OpenShrine{}, err
			}
			return OpenShrine{local: open}, nil
		}
		open, err := c.local.OpenClear()
		if err != nil {
			return OpenShrine{}, err
		}
		return OpenShrine{local: open}, nil
	case c.remote != nil:
		// Opening a remote shrine is logically a no-op: the façade only
		// carries the path and the client (spec.md §4.K).
		return OpenShrine{remote: c.remote}, nil
	default:
		return OpenShrine{}, ErrInvalidTransition
	}
}

// UUID returns the shrine's identity.
func (c ClosedShrine) UUID() uuid.UUID {
	switch {
	case c.local != nil:
		return c.local.UUID()
	case c.remote != nil:
		return c.remote.UUID()
	default:
		return uuid.Nil
	}
}

// Version returns the file format version.
func (c ClosedShrine) Version() uint8 {
	if c.local != nil {
		return c.local.Version()
	}
	return VERSION
}

// Encryption returns the cryptographic variant.
func (c ClosedShrine) Encryption() Encryption {
	if c.local != nil {
		return c.local.Encryption()
	}
	return Plain
}

// Format returns the serialization format.
func (c ClosedShrine) Format() Format {
	if c.local != nil {
		return c.local.Format()
	}
	return BinaryDoc
}

// Persist writes the shrine's closed form to path. Unsupported on a
// remote shrine: the agent persists synchronously on every mutation
// (spec.md §4.K).
func (c ClosedShrine) Persist(path string) error {
	if c.local != nil {
		return c.local.Persist(path)
	}
	return ErrUnsupported
}

// IsLocal reports whether this is a local (non-agent-backed) shrine.
func (c ClosedShrine) IsLocal() bool { return c.local != nil }

// Local returns the wrapped LocalClosed and true if this is a local
// shrine.
func (c ClosedShrine) Local() (*LocalClosed, bool) { return c.local, c.local != nil }

// OpenShrine is the open-state counterpart of ClosedShrine: a tagged
// variant over a local open shrine and a remote shrine.
type OpenShrine struct {
	local  *LocalOpen
	remote *RemoteShrine
}

// NewOpenLocal wraps an open LocalOpen shrine.
func NewOpenLocal(s *LocalOpen) OpenShrine { return OpenShrine{local: s} }

// UUID returns the shrine's identity.
func (o OpenShrine) UUID() uuid.UUID {
	switch {
	case o.local != nil:
		return o.local.UUID()
	case o.remote != nil:
		return o.remote.UUID()
	default:
		return uuid.Nil
	}
}

// Set stores value under key (spec.md §4.F "Mutation operations").
func (o OpenShrine) Set(key string, value []byte, mode Mode) error {
	if o.local != nil {
		return o.local.Set(key, value, mode)
	}
	return o.remote.Set(key, value, mode)
}

// Get returns the secret stored under key.
func (o OpenShrine) Get(key string) (Secret, error) {
	if o.local != nil {
		return o.local.Get(key)
	}
	return o.remote.Get(key)
}

// Rm removes key, reporting whether it was present.
func (o OpenShrine) Rm(key string) bool {
	if o.local != nil {
		return o.local.Rm(key)
	}
	return o.remote.Rm(key)
}

// Keys returns the public namespace's keys.
func (o OpenShrine) Keys() []string {
	if o.local != nil {
		return o.local.Keys()
	}
	return o.remote.Keys()
}

// KeysPrivate returns the private namespace's keys.
func (o OpenShrine) KeysPrivate() []string {
	if o.local != nil {
		return o.local.KeysPrivate()
	}
	return o.remote.KeysPrivate()
}

// Mv replaces dst's Holder with o's Holder. Moving into a remote
// destination is unsupported (spec.md §4.F).
func (o OpenShrine) Mv(dst OpenShrine) error {
	if o.local == nil || dst.local == nil {
		return ErrUnsupported
	}
	o.local.Mv(dst.local)
	return nil
}

// IsLocal reports whether this is a local (non-agent-backed) shrine.
func (o OpenShrine) IsLocal() bool { return o.local != nil }

// Local returns the wrapped LocalOpen and true if this is a local shrine.
func (o OpenShrine) Local() (*LocalOpen, bool) { return o.local, o.local != nil }

// Close closes the shrine. For a remote shrine this is a no-op: mutations
// are persisted synchronously by the agent on every Set/Rm (spec.md
// §4.K).
func (o OpenShrine) Close() (ClosedShrine, error) {
	if o.local != nil {
		closed, err := o.local.Close()
		if err != nil {
			return ClosedShrine{}, err
		}
		return ClosedShrine{local: closed}, nil
	}
	return ClosedShrine{remote: o.remote}, nil
}

// New opens the shrine at path: if an agent is reachable via client, the
// returned ClosedShrine forwards to it (RemoteShrine); otherwise it is
// loaded directly from disk (spec.md §3 "New").
func New(client Client, path string) (ClosedShrine, error) {
	if client != nil && client.IsRunning() {
		return NewClosedRemote(NewRemoteShrine(path, client)), nil
	}
	loaded, err := LoadFromPath(path)
	if err != nil {
		return ClosedShrine{}, err
	}
	return NewClosedLocal(loaded.Closed), nil
}
