package limits

import (
	"errors"
	"fmt"
)

const (
	// MaxIdentity is the maximum length of a permanent identity in bytes.
	MaxIdentity = 128

	// MaxToken is the maximum length of a discovery token in bytes.
	MaxToken = 64

	// MaxCiphertext is the maximum size of one relayed message body.
	// Ciphertext is opaque to the broker; this bounds memory only.
	MaxCiphertext = 64 * 1024

	// MaxKeyMaterial is the maximum size of a public-key or wrapped-key
	// blob carried through handshake and key-exchange events.
	MaxKeyMaterial = 8 * 1024

	// MaxEventSize is the absolute maximum for a single wire event,
	// enforced by the transport before JSON decoding.
	MaxEventSize = 128 * 1024
)

var (
	// ErrEmpty indicates a required field was empty.
	ErrEmpty = errors.New("empty value")

	// ErrTooLarge indicates a field exceeds its maximum size.
	ErrTooLarge = errors.New("value too large")
)

// ValidateIdentity validates a permanent identity string.
func ValidateIdentity(id string) error {
	if id == "" {
		return fmt.Errorf("identity: %w", ErrEmpty)
	}
	if len(id) > MaxIdentity {
		return fmt.Errorf("identity: %w: length %d exceeds limit %d", ErrTooLarge, len(id), MaxIdentity)
	}
	return nil
}

// ValidateToken validates a discovery token string.
func ValidateToken(token string) error {
	if token == "" {
		return fmt.Errorf("token: %w", ErrEmpty)
	}
	if len(token) > MaxToken {
		return fmt.Errorf("token: %w: length %d exceeds limit %d", ErrTooLarge, len(token), MaxToken)
	}
	return nil
}

// ValidateCiphertext validates a relayed message body.
func ValidateCiphertext(body string) error {
	if body == "" {
		return fmt.Errorf("message: %w", ErrEmpty)
	}
	if len(body) > MaxCiphertext {
		return fmt.Errorf("message: %w: size %d exceeds limit %d", ErrTooLarge, len(body), MaxCiphertext)
	}
	return nil
}

// ValidateKeyMaterial validates an opaque key blob. Empty key material is
// allowed; keys are optional throughout the protocol.
func ValidateKeyMaterial(key string) error {
	if len(key) > MaxKeyMaterial {
		return fmt.Errorf("key material: %w: size %d exceeds limit %d", ErrTooLarge, len(key), MaxKeyMaterial)
	}
	return nil
}
