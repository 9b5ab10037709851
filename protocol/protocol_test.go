package protocol

import (
	"errors"
	"strings"
	"testing"
)

func TestEventRoundTrip(t *testing.T) {
	evt, err := NewEvent(EventSendMessage, SendMessagePayload{
		From:    "alice",
		To:      "bob",
		Message: "ct1",
	})
	if err != nil {
		t.Fatalf("NewEvent failed: %v", err)
	}

	data, err := evt.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	parsed, err := ParseEvent(data)
	if err != nil {
		t.Fatalf("ParseEvent failed: %v", err)
	}
	if parsed.Type != EventSendMessage {
		t.Errorf("type = %q, want %q", parsed.Type, EventSendMessage)
	}

	var p SendMessagePayload
	if err := parsed.Decode(&p); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if p.From != "alice" || p.To != "bob" || p.Message != "ct1" {
		t.Errorf("payload = %+v", p)
	}
}

func TestEnvelopeFieldNames(t *testing.T) {
	// Clients key on these exact JSON names; renaming the struct tags is a
	// wire break.
	evt, err := NewEvent(EventRegister, RegisterPayload{
		PID:       "alice",
		Temp:      "t1",
		PublicKey: "pk",
	})
	if err != nil {
		t.Fatalf("NewEvent failed: %v", err)
	}
	data, err := evt.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	for _, field := range []string{`"event":"register"`, `"pid":"alice"`, `"temp":"t1"`, `"publicKey":"pk"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("wire form %s missing %s", data, field)
		}
	}
}

func TestNewEventNilPayload(t *testing.T) {
	evt, err := NewEvent(EventContactOnline, nil)
	if err != nil {
		t.Fatalf("NewEvent failed: %v", err)
	}
	if evt.Data != nil {
		t.Errorf("nil payload should produce no data, got %s", evt.Data)
	}

	data, err := evt.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(data), "data") {
		t.Errorf("empty data must be omitted from the envelope: %s", data)
	}
}

func TestParseEventErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "not json at all"},
		{"missing type", `{"data":{"pid":"alice"}}`},
		{"empty type", `{"event":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseEvent([]byte(tt.input)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestMarshalEmptyType(t *testing.T) {
	if _, err := (Event{}).Marshal(); !errors.Is(err, ErrEmptyEvent) {
		t.Errorf("err = %v, want ErrEmptyEvent", err)
	}
}

func TestDecodeWithoutPayload(t *testing.T) {
	evt := Event{Type: EventTyping}
	var p TypingPayload
	if err := evt.Decode(&p); err == nil {
		t.Error("decoding an empty payload should fail")
	}
}
