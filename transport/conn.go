package transport

import (
	"encoding/json"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opd-ai/relaycore/protocol"
)

// writeTimeout bounds one outbound event write so a stalled client cannot
// wedge the dispatch path.
const writeTimeout = 5 * time.Second

// Conn is one live client connection. It implements protocol.Conn.
type Conn struct {
	id      string
	netConn net.Conn

	writeMu sync.Mutex
}

func newConn(netConn net.Conn) *Conn {
	return &Conn{
		id:      uuid.NewString(),
		netConn: netConn,
	}
}

// ID uniquely identifies this connection for the process lifetime.
func (c *Conn) ID() string {
	return c.id
}

// RemoteAddr returns the peer address, for logging.
func (c *Conn) RemoteAddr() net.Addr {
	return c.netConn.RemoteAddr()
}

// Send delivers one event as a newline-terminated JSON envelope. Writes are
// serialized per connection; delivery is best-effort and never retried.
func (c *Conn) Send(evt protocol.Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.netConn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	_, err = c.netConn.Write(data)
	return err
}

// Close tears down the underlying connection.
func (c *Conn) Close() error {
	return c.netConn.Close()
}
