package history

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Message is one immutable relayed message. Body is ciphertext and opaque;
// Timestamp is server-assigned at acceptance, in milliseconds since the
// Unix epoch.
type Message struct {
	Body      string `json:"message"`
	Timestamp int64  `json:"timestamp"`
	From      string `json:"from"`
	To        string `json:"to"`
}

// Store holds per-identity, per-peer ordered message logs.
type Store struct {
	mu   sync.RWMutex
	logs map[string]map[string][]Message
}

// New creates an empty history store.
func New() *Store {
	return &Store{
		logs: make(map[string]map[string][]Message),
	}
}

// Ensure guarantees an outer log map exists for the identity.
func (s *Store) Ensure(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLocked(id)
}

// EnsurePair guarantees both identities have a (possibly empty) log for each
// other, so a fresh contact pair reads an empty conversation instead of a
// missing one.
func (s *Store) EnsurePair(a, b string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLocked(a)
	s.ensureLocked(b)
	if _, ok := s.logs[a][b]; !ok {
		s.logs[a][b] = []Message{}
	}
	if _, ok := s.logs[b][a]; !ok {
		s.logs[b][a] = []Message{}
	}
}

func (s *Store) ensureLocked(id string) {
	if _, ok := s.logs[id]; !ok {
		s.logs[id] = make(map[string][]Message)
	}
}

// Append records one accepted message in both conversation logs: the
// sender's log keyed by receiver and the receiver's log keyed by sender.
func (s *Store) Append(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLocked(msg.From)
	s.ensureLocked(msg.To)
	s.logs[msg.From][msg.To] = append(s.logs[msg.From][msg.To], msg)
	s.logs[msg.To][msg.From] = append(s.logs[msg.To][msg.From], msg)

	logrus.WithFields(logrus.Fields{
		"from": msg.From,
		"to":   msg.To,
		"size": len(msg.Body),
	}).Debug("message appended to history")
}

// Conversation returns user's ordered log of messages with friend. The
// result is a copy and is empty, never nil, when no log exists.
func (s *Store) Conversation(user, friend string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.logs[user][friend]
	out := make([]Message, len(log))
	copy(out, log)
	return out
}

// Snapshot returns the whole store in the persisted shape:
// identity -> peer -> ordered messages.
func (s *Store) Snapshot() map[string]map[string][]Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]map[string][]Message, len(s.logs))
	for id, peers := range s.logs {
		inner := make(map[string][]Message, len(peers))
		for peer, log := range peers {
			msgs := make([]Message, len(log))
			copy(msgs, log)
			inner[peer] = msgs
		}
		out[id] = inner
	}
	return out
}

// Restore replaces the store contents with a previously persisted snapshot.
func (s *Store) Restore(snapshot map[string]map[string][]Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs = make(map[string]map[string][]Message, len(snapshot))
	for id, peers := range snapshot {
		inner := make(map[string][]Message, len(peers))
		for peer, log := range peers {
			msgs := make([]Message, len(log))
			copy(msgs, log)
			inner[peer] = msgs
		}
		s.logs[id] = inner
	}
}
