package protocol

import "github.com/opd-ai/relaycore/history"

// RegisterPayload announces an identity on a fresh connection. PublicKey is
// optional; when present it is cached for handshake bootstrapping.
type RegisterPayload struct {
	PID       string `json:"pid"`
	Temp      string `json:"temp"`
	PublicKey string `json:"publicKey,omitempty"`
}

// RequestConnectPayload asks the broker to relay a contact request to
// whichever identity currently owns the discovery token.
type RequestConnectPayload struct {
	SenderPID  string `json:"sender_pid"`
	TargetTemp string `json:"target_temp"`
}

// AcceptRequestPayload completes a handshake. EncryptedKey is the key
// material the acceptor negotiated for the original sender; both key fields
// are opaque to the broker.
type AcceptRequestPayload struct {
	Acceptor     string `json:"acceptor"`
	Sender       string `json:"sender"`
	EncryptedKey string `json:"encryptedKey"`
	PublicKey    string `json:"publicKey"`
}

// KeyExchangePayload carries a key-exchange request or response between two
// established contacts. EncryptedKey is only present on responses.
type KeyExchangePayload struct {
	From         string `json:"from"`
	To           string `json:"to"`
	PublicKey    string `json:"publicKey"`
	EncryptedKey string `json:"encryptedKey,omitempty"`
}

// SendMessagePayload submits one ciphertext message for relay.
type SendMessagePayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Message string `json:"message"`
}

// LoadHistoryPayload requests the stored conversation between two contacts.
type LoadHistoryPayload struct {
	UserPID   string `json:"user_pid"`
	FriendPID string `json:"friend_pid"`
}

// TypingPayload signals typing start or stop to a contact.
type TypingPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// DeleteContactPayload removes a contact from the requesting user's list.
type DeleteContactPayload struct {
	UserPID    string `json:"user_pid"`
	ContactPID string `json:"contact_pid"`
}

// IncomingRequestPayload notifies the target of a contact request.
type IncomingRequestPayload struct {
	SenderPID string `json:"sender_pid"`
	PublicKey string `json:"publicKey,omitempty"`
}

// RequestFailedPayload reports a typed handshake failure to the requester.
type RequestFailedPayload struct {
	Error string `json:"error"`
}

// RequestAcceptedPayload notifies one side of a completed handshake.
// EncryptedKey is set only on the copy sent to the original sender.
type RequestAcceptedPayload struct {
	FriendPID    string `json:"friend_pid"`
	EncryptedKey string `json:"encryptedKey,omitempty"`
	PublicKey    string `json:"publicKey,omitempty"`
}

// KeyExchangeEventPayload is the forwarded form of a key-exchange message;
// the broker strips the routing target before delivery.
type KeyExchangeEventPayload struct {
	From         string `json:"from"`
	PublicKey    string `json:"publicKey"`
	EncryptedKey string `json:"encryptedKey,omitempty"`
}

// ReceiveMessagePayload delivers one relayed message. SentByMe marks the
// echo copy the sender receives for its own accepted message.
type ReceiveMessagePayload struct {
	From      string `json:"from"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
	SentByMe  bool   `json:"sent_by_me,omitempty"`
}

// TypingEventPayload is the forwarded form of a typing signal.
type TypingEventPayload struct {
	From string `json:"from"`
}

// MessageHistoryPayload returns one stored conversation in order.
type MessageHistoryPayload struct {
	FriendPID string            `json:"friend_pid"`
	Messages  []history.Message `json:"messages"`
}

// ContactDeletedPayload confirms a one-sided contact removal.
type ContactDeletedPayload struct {
	ContactPID string `json:"contact_pid"`
}

// ErrorPayload carries a generic operation failure to the offending client.
type ErrorPayload struct {
	Message string `json:"message"`
}
