package relaycore

import (
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/relaycore/limits"
	"github.com/opd-ai/relaycore/protocol"
)

// handleRequestConnect resolves a discovery token and relays a contact
// request to its owner. The protocol is stateless on the broker: nothing is
// recorded, so an ignored request simply evaporates. Failures are typed and
// go to the requester only.
func (b *Broker) handleRequestConnect(conn protocol.Conn, evt protocol.Event) {
	var p protocol.RequestConnectPayload
	if err := evt.Decode(&p); err != nil {
		b.sendError(conn, failBadPayload)
		return
	}
	if err := limits.ValidateIdentity(p.SenderPID); err != nil {
		b.sendError(conn, err.Error())
		return
	}
	if err := limits.ValidateToken(p.TargetTemp); err != nil {
		b.sendError(conn, err.Error())
		return
	}

	target, ok := b.sessions.ResolveToken(p.TargetTemp)
	if !ok {
		b.failRequest(conn, failTargetUnavailable)
		return
	}
	if b.contacts.AreContacts(p.SenderPID, target) {
		b.failRequest(conn, failAlreadyContact)
		return
	}
	targetConn, ok := b.sessions.Lookup(target)
	if !ok {
		b.failRequest(conn, failTargetUnavailable)
		return
	}

	senderKey, _ := b.sessions.PublicKey(p.SenderPID)
	b.send(targetConn, protocol.EventIncomingRequest, protocol.IncomingRequestPayload{
		SenderPID: p.SenderPID,
		PublicKey: senderKey,
	})

	logrus.WithFields(logrus.Fields{
		"sender": p.SenderPID,
		"target": target,
	}).Info("contact request relayed")
}

// handleAcceptRequest completes the handshake: the symmetric edge becomes
// durable first, then each side that is still online gets its notice. An
// offline side misses the key material and discovers the new contact via
// restore_contacts on its next register.
func (b *Broker) handleAcceptRequest(conn protocol.Conn, evt protocol.Event) {
	var p protocol.AcceptRequestPayload
	if err := evt.Decode(&p); err != nil {
		b.sendError(conn, failBadPayload)
		return
	}
	if err := limits.ValidateIdentity(p.Acceptor); err != nil {
		b.sendError(conn, err.Error())
		return
	}
	if err := limits.ValidateIdentity(p.Sender); err != nil {
		b.sendError(conn, err.Error())
		return
	}
	if err := limits.ValidateKeyMaterial(p.EncryptedKey); err != nil {
		b.sendError(conn, err.Error())
		return
	}
	if err := limits.ValidateKeyMaterial(p.PublicKey); err != nil {
		b.sendError(conn, err.Error())
		return
	}

	if b.contacts.AddEdge(p.Acceptor, p.Sender) {
		b.saveContacts()
	}
	b.messages.EnsurePair(p.Acceptor, p.Sender)
	b.sessions.SetPublicKey(p.Acceptor, p.PublicKey)

	if senderConn, ok := b.sessions.Lookup(p.Sender); ok {
		b.send(senderConn, protocol.EventRequestAccepted, protocol.RequestAcceptedPayload{
			FriendPID:    p.Acceptor,
			EncryptedKey: p.EncryptedKey,
			PublicKey:    p.PublicKey,
		})
	}
	if acceptorConn, ok := b.sessions.Lookup(p.Acceptor); ok {
		senderKey, _ := b.sessions.PublicKey(p.Sender)
		b.send(acceptorConn, protocol.EventRequestAccepted, protocol.RequestAcceptedPayload{
			FriendPID: p.Sender,
			PublicKey: senderKey,
		})
	}

	logrus.WithFields(logrus.Fields{
		"acceptor": p.Acceptor,
		"sender":   p.Sender,
	}).Info("handshake completed")
}

// failRequest reports a typed handshake failure to the requester only. No
// state changes on any failure path.
func (b *Broker) failRequest(conn protocol.Conn, reason string) {
	b.send(conn, protocol.EventRequestFailed, protocol.RequestFailedPayload{Error: reason})
}
