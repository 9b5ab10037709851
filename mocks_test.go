package relaycore

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opd-ai/relaycore/protocol"
	"github.com/opd-ai/relaycore/storage"
)

// testConn is an in-memory connection handle recording every outbound event.
type testConn struct {
	id string

	mu     sync.Mutex
	events []protocol.Event
}

func newTestConn(id string) *testConn {
	return &testConn{id: id}
}

func (c *testConn) ID() string { return c.id }

func (c *testConn) Send(evt protocol.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, evt)
	return nil
}

// eventsOfType returns all recorded events of one type, in order.
func (c *testConn) eventsOfType(eventType string) []protocol.Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []protocol.Event
	for _, evt := range c.events {
		if evt.Type == eventType {
			out = append(out, evt)
		}
	}
	return out
}

// lastOfType decodes the most recent event of one type into payload and
// fails the test when none was recorded.
func (c *testConn) lastOfType(t *testing.T, eventType string, payload interface{}) {
	t.Helper()
	evts := c.eventsOfType(eventType)
	require.NotEmpty(t, evts, "no %q event recorded on %s", eventType, c.id)
	require.NoError(t, evts[len(evts)-1].Decode(payload))
}

func (c *testConn) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
}

// failingStore loads nothing and refuses every save, for exercising the
// persistence-failure policy.
type failingStore struct{}

func (failingStore) Load(string) ([]byte, error) { return nil, storage.ErrNotFound }

func (failingStore) Save(string, []byte) error { return errors.New("disk full") }

func (failingStore) Close() error { return nil }

func newTestBroker(t *testing.T, store storage.BlobStore) *Broker {
	t.Helper()
	if store == nil {
		store = storage.NewMemoryStore()
	}
	b, err := New(&Options{Store: store})
	require.NoError(t, err)
	return b
}

// mustEvent builds an inbound event envelope or fails the test.
func mustEvent(t *testing.T, eventType string, payload interface{}) protocol.Event {
	t.Helper()
	evt, err := protocol.NewEvent(eventType, payload)
	require.NoError(t, err)
	return evt
}

// register dispatches a register event for identity on conn.
func register(t *testing.T, b *Broker, conn *testConn, pid, temp, publicKey string) {
	t.Helper()
	b.Dispatch(conn, mustEvent(t, protocol.EventRegister, protocol.RegisterPayload{
		PID:       pid,
		Temp:      temp,
		PublicKey: publicKey,
	}))
}

// connectPeers performs the full handshake between two registered peers.
func connectPeers(t *testing.T, b *Broker, senderConn *testConn, sender string, acceptorConn *testConn, acceptor, acceptorToken string) {
	t.Helper()
	b.Dispatch(senderConn, mustEvent(t, protocol.EventRequestConnect, protocol.RequestConnectPayload{
		SenderPID:  sender,
		TargetTemp: acceptorToken,
	}))
	b.Dispatch(acceptorConn, mustEvent(t, protocol.EventAcceptRequest, protocol.AcceptRequestPayload{
		Acceptor:     acceptor,
		Sender:       sender,
		EncryptedKey: "wrapped-session-key",
		PublicKey:    "pk-" + acceptor,
	}))
}
