package registry

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/relaycore/protocol"
)

// Registry maps identities to live connections and discovery tokens to
// identities. At most one session exists per identity; registering again
// overwrites the previous handle (last-register-wins).
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]protocol.Conn
	tokens   map[string]string
	keys     map[string]string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		sessions: make(map[string]protocol.Conn),
		tokens:   make(map[string]string),
		keys:     make(map[string]string),
	}
}

// Register binds identity to conn and publishes token as its discovery
// handle. Any token previously resolving to this identity is invalidated
// first, so a token maps to exactly one identity while its session lives.
// A non-empty publicKey refreshes the key directory.
func (r *Registry) Register(identity, token, publicKey string, conn protocol.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for t, id := range r.tokens {
		if id == identity {
			delete(r.tokens, t)
		}
	}

	r.sessions[identity] = conn
	r.tokens[token] = identity
	if publicKey != "" {
		r.keys[identity] = publicKey
	}

	logrus.WithFields(logrus.Fields{
		"identity": identity,
		"conn":     conn.ID(),
	}).Info("session registered")
}

// ResolveToken maps a discovery token to its identity. Unknown tokens fail
// silently with ok=false.
func (r *Registry) ResolveToken(token string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.tokens[token]
	return id, ok
}

// Lookup returns the live connection for an identity, if any.
func (r *Registry) Lookup(identity string) (protocol.Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.sessions[identity]
	return conn, ok
}

// RemoveByConn tears down whatever session is bound to the given connection
// handle, invalidating every token pointing at its identity. The session
// scan is linear; session counts stay small enough that an index is not
// worth carrying. Returns the identity that was bound, if any.
//
// A stale handle (one already replaced by a re-register) matches nothing
// and returns ok=false, which keeps last-register-wins intact when the old
// connection finally drops.
func (r *Registry) RemoveByConn(conn protocol.Conn) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for identity, bound := range r.sessions {
		if bound.ID() != conn.ID() {
			continue
		}

		delete(r.sessions, identity)
		for t, id := range r.tokens {
			if id == identity {
				delete(r.tokens, t)
			}
		}

		logrus.WithFields(logrus.Fields{
			"identity": identity,
			"conn":     conn.ID(),
		}).Info("session removed")
		return identity, true
	}
	return "", false
}

// PublicKey returns the cached public key for an identity.
func (r *Registry) PublicKey(identity string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key, ok := r.keys[identity]
	return key, ok
}

// SetPublicKey refreshes the cached public key for an identity. Empty key
// material is ignored.
func (r *Registry) SetPublicKey(identity, publicKey string) {
	if publicKey == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[identity] = publicKey
}
