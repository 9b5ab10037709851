// Package protocol defines the wire-level event vocabulary of the relay
// broker.
//
// Every inbound and outbound message is an Event: a named envelope carrying
// an opaque JSON payload. The broker never inspects ciphertext or key
// material inside payloads; it only routes them.
package protocol
