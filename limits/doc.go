// Package limits provides centralized size constants and validation
// functions for the relay broker. All untrusted client input is validated
// against these limits before it reaches the dispatch path.
//
// The broker treats ciphertext and key material as opaque, so the limits
// here bound only resource usage, never content:
//
//   - MaxIdentity / MaxToken: caps on client-supplied identifiers.
//   - MaxCiphertext: the largest relayed message body.
//   - MaxKeyMaterial: the largest public-key or wrapped-key blob.
//   - MaxEventSize: the absolute maximum for one wire event, applied by the
//     transport before decoding. This prevents memory exhaustion from a
//     single oversized frame.
package limits
