package relaycore

import (
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/relaycore/limits"
	"github.com/opd-ai/relaycore/protocol"
)

// handleRegister binds the identity to the calling connection, publishes its
// discovery token, replays the contact list for reconnect recovery and tells
// connected contacts the identity is online.
func (b *Broker) handleRegister(conn protocol.Conn, evt protocol.Event) {
	var p protocol.RegisterPayload
	if err := evt.Decode(&p); err != nil {
		b.sendError(conn, failBadPayload)
		return
	}
	if err := limits.ValidateIdentity(p.PID); err != nil {
		b.sendError(conn, err.Error())
		return
	}
	if err := limits.ValidateToken(p.Temp); err != nil {
		b.sendError(conn, err.Error())
		return
	}
	if err := limits.ValidateKeyMaterial(p.PublicKey); err != nil {
		b.sendError(conn, err.Error())
		return
	}

	b.sessions.Register(p.PID, p.Temp, p.PublicKey, conn)
	if b.contacts.Ensure(p.PID) {
		b.saveContacts()
	}
	b.messages.Ensure(p.PID)

	b.send(conn, protocol.EventRestoreContacts, b.contacts.Neighbors(p.PID))
	b.broadcastPresence(p.PID, protocol.EventContactOnline)

	logrus.WithFields(logrus.Fields{
		"identity": p.PID,
		"conn":     conn.ID(),
	}).Info("identity online")
}
