// Package transport implements the network transport layer for the relay
// broker.
//
// Clients hold one persistent TCP connection and exchange newline-delimited
// JSON event envelopes over it. The transport delivers inbound events to
// registered handlers one connection at a time, signals connect and
// disconnect, and offers best-effort outbound delivery through Conn.
//
// Example:
//
//	t, err := transport.NewTCPTransport("127.0.0.1:9190")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	t.RegisterHandler(protocol.EventRegister, func(conn *transport.Conn, evt protocol.Event) {
//	    // handle registration
//	})
//	t.OnDisconnect(func(conn *transport.Conn) {
//	    // tear down session state
//	})
package transport
