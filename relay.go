package relaycore

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/relaycore/history"
	"github.com/opd-ai/relaycore/limits"
	"github.com/opd-ai/relaycore/protocol"
)

// handleSendMessage accepts one ciphertext message between contacts: it
// gets a server timestamp, lands in both history logs, the snapshot is
// persisted, the recipient gets a push if online, and the sender always
// gets an echo marked sent_by_me.
func (b *Broker) handleSendMessage(conn protocol.Conn, evt protocol.Event) {
	var p protocol.SendMessagePayload
	if err := evt.Decode(&p); err != nil {
		b.sendError(conn, failBadPayload)
		return
	}
	if err := limits.ValidateIdentity(p.From); err != nil {
		b.sendError(conn, err.Error())
		return
	}
	if err := limits.ValidateIdentity(p.To); err != nil {
		b.sendError(conn, err.Error())
		return
	}
	if err := limits.ValidateCiphertext(p.Message); err != nil {
		b.sendError(conn, err.Error())
		return
	}
	if !b.contacts.AreContacts(p.From, p.To) {
		b.sendError(conn, failNotAuthorized)
		return
	}

	msg := history.Message{
		Body:      p.Message,
		Timestamp: time.Now().UnixMilli(),
		From:      p.From,
		To:        p.To,
	}
	b.messages.Append(msg)
	b.saveHistory()

	if recipientConn, ok := b.sessions.Lookup(p.To); ok {
		b.send(recipientConn, protocol.EventReceiveMessage, protocol.ReceiveMessagePayload{
			From:      p.From,
			Message:   msg.Body,
			Timestamp: msg.Timestamp,
		})
	}
	b.send(conn, protocol.EventReceiveMessage, protocol.ReceiveMessagePayload{
		From:      p.From,
		Message:   msg.Body,
		Timestamp: msg.Timestamp,
		SentByMe:  true,
	})
}

// handleKeyExchange forwards key-exchange material between contacts. The
// relay is pure: nothing is persisted, and the event is silently dropped
// when the pair are not contacts or the target is offline. The carried
// public key refreshes the in-process key directory.
func (b *Broker) handleKeyExchange(conn protocol.Conn, evt protocol.Event, forwardType string) {
	var p protocol.KeyExchangePayload
	if err := evt.Decode(&p); err != nil {
		b.sendError(conn, failBadPayload)
		return
	}
	if err := limits.ValidateKeyMaterial(p.PublicKey); err != nil {
		b.sendError(conn, err.Error())
		return
	}
	if err := limits.ValidateKeyMaterial(p.EncryptedKey); err != nil {
		b.sendError(conn, err.Error())
		return
	}
	if !b.contacts.AreContacts(p.From, p.To) {
		logrus.WithFields(logrus.Fields{
			"from": p.From,
			"to":   p.To,
		}).Debug("dropping key exchange between non-contacts")
		return
	}

	b.sessions.SetPublicKey(p.From, p.PublicKey)

	targetConn, ok := b.sessions.Lookup(p.To)
	if !ok {
		return
	}
	b.send(targetConn, forwardType, protocol.KeyExchangeEventPayload{
		From:         p.From,
		PublicKey:    p.PublicKey,
		EncryptedKey: p.EncryptedKey,
	})
}

// handleTyping forwards a typing signal between contacts, fire-and-forget.
func (b *Broker) handleTyping(conn protocol.Conn, evt protocol.Event, forwardType string) {
	var p protocol.TypingPayload
	if err := evt.Decode(&p); err != nil {
		return
	}
	if !b.contacts.AreContacts(p.From, p.To) {
		return
	}
	targetConn, ok := b.sessions.Lookup(p.To)
	if !ok {
		return
	}
	b.send(targetConn, forwardType, protocol.TypingEventPayload{From: p.From})
}

// handleLoadHistory returns the stored conversation between two identities.
// A pure read: absent logs come back as an empty list. This is the only
// recovery path for messages sent while the recipient was offline.
func (b *Broker) handleLoadHistory(conn protocol.Conn, evt protocol.Event) {
	var p protocol.LoadHistoryPayload
	if err := evt.Decode(&p); err != nil {
		b.sendError(conn, failBadPayload)
		return
	}

	b.send(conn, protocol.EventMessageHistory, protocol.MessageHistoryPayload{
		FriendPID: p.FriendPID,
		Messages:  b.messages.Conversation(p.UserPID, p.FriendPID),
	})
}

// handleDeleteContact removes the contact from the requesting user's list
// only; the other side keeps its edge. The removal is persisted and
// confirmed to the requester.
func (b *Broker) handleDeleteContact(conn protocol.Conn, evt protocol.Event) {
	var p protocol.DeleteContactPayload
	if err := evt.Decode(&p); err != nil {
		b.sendError(conn, failBadPayload)
		return
	}
	if err := limits.ValidateIdentity(p.UserPID); err != nil {
		b.sendError(conn, err.Error())
		return
	}
	if err := limits.ValidateIdentity(p.ContactPID); err != nil {
		b.sendError(conn, err.Error())
		return
	}

	if b.contacts.RemoveEdge(p.UserPID, p.ContactPID) {
		b.saveContacts()
	}
	b.send(conn, protocol.EventContactDeleted, protocol.ContactDeletedPayload{
		ContactPID: p.ContactPID,
	})
}
