package relaycore

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/relaycore/contact"
	"github.com/opd-ai/relaycore/history"
	"github.com/opd-ai/relaycore/protocol"
	"github.com/opd-ai/relaycore/registry"
	"github.com/opd-ai/relaycore/storage"
	"github.com/opd-ai/relaycore/transport"
)

// Typed failure strings carried on request_failed and error events.
const (
	failTargetUnavailable = "User not found or offline"
	failAlreadyContact    = "Already in contacts"
	failNotAuthorized     = "not authorized"
	failBadPayload        = "malformed payload"
)

// Options configures a Broker.
type Options struct {
	// Store is the durable blob store for the contact-graph and
	// message-history snapshots. Nil means a volatile in-memory store.
	Store storage.BlobStore
}

// Broker is the single dispatch point of the relay. All shared state is
// owned here and mutated only under mu, one inbound event at a time.
type Broker struct {
	mu sync.Mutex

	sessions *registry.Registry
	contacts *contact.Graph
	messages *history.Store
	store    storage.BlobStore
}

// New creates a Broker and restores both state snapshots from the store.
// Missing blobs mean a fresh start; corrupt blobs fail construction.
func New(opts *Options) (*Broker, error) {
	store := storage.BlobStore(nil)
	if opts != nil {
		store = opts.Store
	}
	if store == nil {
		store = storage.NewMemoryStore()
	}

	b := &Broker{
		sessions: registry.New(),
		contacts: contact.New(),
		messages: history.New(),
		store:    store,
	}

	if err := b.restore(); err != nil {
		return nil, err
	}
	return b, nil
}

// Attach wires the broker to a transport: every inbound event type routes
// into Dispatch and connection teardown routes into Disconnect.
func (b *Broker) Attach(t *transport.TCPTransport) {
	for _, name := range protocol.Inbound {
		t.RegisterHandler(name, func(conn *transport.Conn, evt protocol.Event) {
			b.Dispatch(conn, evt)
		})
	}
	t.OnDisconnect(func(conn *transport.Conn) {
		b.Disconnect(conn)
	})
}

// Dispatch processes one inbound event to completion. Events are serialized:
// no two handlers ever interleave.
func (b *Broker) Dispatch(conn protocol.Conn, evt protocol.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"conn":  conn.ID(),
		"event": evt.Type,
	}).Debug("dispatching event")

	switch evt.Type {
	case protocol.EventRegister:
		b.handleRegister(conn, evt)
	case protocol.EventRequestConnect:
		b.handleRequestConnect(conn, evt)
	case protocol.EventAcceptRequest:
		b.handleAcceptRequest(conn, evt)
	case protocol.EventRequestKeyExchange:
		b.handleKeyExchange(conn, evt, protocol.EventKeyExchangeRequest)
	case protocol.EventKeyExchangeResp:
		b.handleKeyExchange(conn, evt, protocol.EventKeyExchangeResp)
	case protocol.EventSendMessage:
		b.handleSendMessage(conn, evt)
	case protocol.EventLoadHistory:
		b.handleLoadHistory(conn, evt)
	case protocol.EventTyping:
		b.handleTyping(conn, evt, protocol.EventTyping)
	case protocol.EventStopTyping:
		b.handleTyping(conn, evt, protocol.EventStopTyping)
	case protocol.EventDeleteContact:
		b.handleDeleteContact(conn, evt)
	default:
		logrus.WithFields(logrus.Fields{
			"event": evt.Type,
		}).Debug("ignoring unknown event")
	}
}

// Disconnect tears down whatever session rode on the connection and tells
// every connected contact the identity went offline.
func (b *Broker) Disconnect(conn protocol.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()

	identity, ok := b.sessions.RemoveByConn(conn)
	if !ok {
		return
	}
	b.broadcastPresence(identity, protocol.EventContactOffline)
}

// send delivers one outbound event, best-effort. Failures are logged and
// never retried; presence and relay notices carry no delivery guarantee.
func (b *Broker) send(conn protocol.Conn, eventType string, payload interface{}) {
	evt, err := protocol.NewEvent(eventType, payload)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"event": eventType,
		}).WithError(err).Error("building outbound event")
		return
	}
	if err := conn.Send(evt); err != nil {
		logrus.WithFields(logrus.Fields{
			"conn":  conn.ID(),
			"event": eventType,
		}).WithError(err).Debug("outbound send failed")
	}
}

// sendError reports a generic operation failure to the offending client.
func (b *Broker) sendError(conn protocol.Conn, message string) {
	b.send(conn, protocol.EventError, protocol.ErrorPayload{Message: message})
}

// broadcastPresence notifies every currently connected contact of identity.
func (b *Broker) broadcastPresence(identity, eventType string) {
	for _, peer := range b.contacts.Neighbors(identity) {
		peerConn, ok := b.sessions.Lookup(peer)
		if !ok {
			continue
		}
		b.send(peerConn, eventType, identity)
	}
}
