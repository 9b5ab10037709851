package protocol

import (
	"encoding/json"
	"errors"
)

// Inbound event names. These are the events clients send to the broker.
const (
	EventRegister           = "register"
	EventRequestConnect     = "request_connect"
	EventAcceptRequest      = "accept_request"
	EventRequestKeyExchange = "request_key_exchange"
	EventKeyExchangeResp    = "key_exchange_response"
	EventSendMessage        = "send_message"
	EventLoadHistory        = "load_message_history"
	EventTyping             = "typing"
	EventStopTyping         = "stop_typing"
	EventDeleteContact      = "delete_contact"
)

// Outbound event names. These are the events the broker pushes to clients.
const (
	EventRestoreContacts    = "restore_contacts"
	EventContactOnline      = "contact_online"
	EventContactOffline     = "contact_offline"
	EventIncomingRequest    = "incoming_request"
	EventRequestFailed      = "request_failed"
	EventRequestAccepted    = "request_accepted"
	EventKeyExchangeRequest = "key_exchange_request"
	EventReceiveMessage     = "receive_message"
	EventMessageHistory     = "message_history"
	EventContactDeleted     = "contact_deleted"
	EventError              = "error"
)

// Inbound lists every event name the broker accepts from clients.
var Inbound = []string{
	EventRegister,
	EventRequestConnect,
	EventAcceptRequest,
	EventRequestKeyExchange,
	EventKeyExchangeResp,
	EventSendMessage,
	EventLoadHistory,
	EventTyping,
	EventStopTyping,
	EventDeleteContact,
}

// ErrEmptyEvent indicates an event with no type name.
var ErrEmptyEvent = errors.New("event has no type")

// Event is the envelope for every message exchanged with a client.
type Event struct {
	Type string          `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEvent builds an Event of the given type carrying payload serialized as
// JSON. A nil payload produces an event with no data.
func NewEvent(eventType string, payload interface{}) (Event, error) {
	evt := Event{Type: eventType}
	if payload == nil {
		return evt, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	evt.Data = data
	return evt, nil
}

// Decode unmarshals the event payload into v.
func (e Event) Decode(v interface{}) error {
	if len(e.Data) == 0 {
		return errors.New("event has no payload")
	}
	return json.Unmarshal(e.Data, v)
}

// Marshal serializes the event for transmission.
func (e Event) Marshal() ([]byte, error) {
	if e.Type == "" {
		return nil, ErrEmptyEvent
	}
	return json.Marshal(e)
}

// ParseEvent deserializes a received event envelope.
func ParseEvent(data []byte) (Event, error) {
	var evt Event
	if err := json.Unmarshal(data, &evt); err != nil {
		return Event{}, err
	}
	if evt.Type == "" {
		return Event{}, ErrEmptyEvent
	}
	return evt, nil
}

// Conn is a live connection handle capable of delivering outbound events to
// one client. The TCP transport provides the production implementation;
// tests substitute in-memory fakes.
type Conn interface {
	// ID uniquely identifies the underlying connection for the lifetime of
	// the process. Two connections never share an ID.
	ID() string

	// Send delivers one outbound event. Delivery is best-effort: a failed
	// send never retries.
	Send(evt Event) error
}
