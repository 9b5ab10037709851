// Package relaycore implements the core of a real-time relay broker for an
// end-to-end-encrypted peer messaging application.
//
// The broker never sees plaintext. It forwards opaque ciphertext and key
// material between connected peers, coordinates identity discovery through
// short-lived tokens, establishes contact relationships via a two-message
// handshake, broadcasts presence, and mirrors every accepted message into a
// durable history store for offline recovery.
//
// # Getting Started
//
// Create a Broker over a blob store and attach it to a transport:
//
//	store, err := storage.NewFileStore("data")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	broker, err := relaycore.New(&relaycore.Options{Store: store})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	t, err := transport.NewTCPTransport("127.0.0.1:9190")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	broker.Attach(t)
//
// # Concurrency
//
// A single mutex serializes every inbound event, so each handler runs
// atomically with respect to the session registry, the contact graph, the
// history store and the key directory. No handler ever blocks waiting on
// another peer; every relay is fire-and-forget.
package relaycore
