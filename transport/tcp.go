package transport

import (
	"bufio"
	"context"
	"errors"
	"net"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/relaycore/limits"
	"github.com/opd-ai/relaycore/protocol"
)

// EventHandler processes one inbound event from a connection.
type EventHandler func(conn *Conn, evt protocol.Event)

// ConnHandler observes a connection lifecycle transition.
type ConnHandler func(conn *Conn)

// TCPTransport accepts client connections and feeds decoded events to
// registered handlers.
type TCPTransport struct {
	listener   net.Listener
	listenAddr net.Addr

	mu           sync.RWMutex
	handlers     map[string]EventHandler
	clients      map[string]*Conn
	onConnect    ConnHandler
	onDisconnect ConnHandler

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTCPTransport starts listening on listenAddr and accepting connections.
func NewTCPTransport(listenAddr string) (*TCPTransport, error) {
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	t := &TCPTransport{
		listener:   listener,
		listenAddr: listener.Addr(),
		handlers:   make(map[string]EventHandler),
		clients:    make(map[string]*Conn),
		ctx:        ctx,
		cancel:     cancel,
	}

	t.wg.Add(1)
	go t.acceptConnections()

	logrus.WithFields(logrus.Fields{
		"addr": t.listenAddr.String(),
	}).Info("transport listening")
	return t, nil
}

// RegisterHandler registers a handler for a specific event type. Events
// with no registered handler are dropped.
func (t *TCPTransport) RegisterHandler(eventType string, handler EventHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[eventType] = handler
}

// OnConnect sets the handler invoked when a client connects.
func (t *TCPTransport) OnConnect(handler ConnHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onConnect = handler
}

// OnDisconnect sets the handler invoked when a client connection ends.
func (t *TCPTransport) OnDisconnect(handler ConnHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDisconnect = handler
}

// LocalAddr returns the address the transport is listening on.
func (t *TCPTransport) LocalAddr() net.Addr {
	return t.listenAddr
}

// Close shuts down the listener and every client connection, then waits for
// connection goroutines to drain.
func (t *TCPTransport) Close() error {
	t.cancel()
	err := t.listener.Close()

	t.mu.Lock()
	for _, conn := range t.clients {
		conn.Close()
	}
	t.mu.Unlock()

	t.wg.Wait()
	return err
}

func (t *TCPTransport) acceptConnections() {
	defer t.wg.Done()

	for {
		netConn, err := t.listener.Accept()
		if err != nil {
			if t.ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			logrus.WithError(err).Warn("accept failed")
			continue
		}

		t.wg.Add(1)
		go t.handleConnection(netConn)
	}
}

// handleConnection owns one client connection from accept to teardown.
func (t *TCPTransport) handleConnection(netConn net.Conn) {
	defer t.wg.Done()
	defer netConn.Close()

	conn := newConn(netConn)
	t.registerClient(conn)
	defer t.unregisterClient(conn)

	logrus.WithFields(logrus.Fields{
		"conn":   conn.ID(),
		"remote": conn.RemoteAddr().String(),
	}).Debug("client connected")

	if h := t.connectHandler(); h != nil {
		h(conn)
	}
	defer func() {
		if h := t.disconnectHandler(); h != nil {
			h(conn)
		}
		logrus.WithFields(logrus.Fields{
			"conn": conn.ID(),
		}).Debug("client disconnected")
	}()

	t.readLoop(conn, netConn)
}

// readLoop decodes newline-delimited event envelopes until the connection
// ends or a frame exceeds the event size limit.
func (t *TCPTransport) readLoop(conn *Conn, netConn net.Conn) {
	scanner := bufio.NewScanner(netConn)
	scanner.Buffer(make([]byte, 0, 4096), limits.MaxEventSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		evt, err := protocol.ParseEvent(line)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"conn": conn.ID(),
			}).WithError(err).Debug("dropping malformed event")
			continue
		}

		t.dispatch(conn, evt)
	}
}

func (t *TCPTransport) dispatch(conn *Conn, evt protocol.Event) {
	t.mu.RLock()
	handler, ok := t.handlers[evt.Type]
	t.mu.RUnlock()

	if !ok {
		logrus.WithFields(logrus.Fields{
			"conn":  conn.ID(),
			"event": evt.Type,
		}).Debug("dropping event with no handler")
		return
	}
	handler(conn, evt)
}

func (t *TCPTransport) registerClient(conn *Conn) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clients[conn.ID()] = conn
}

func (t *TCPTransport) unregisterClient(conn *Conn) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.clients, conn.ID())
}

func (t *TCPTransport) connectHandler() ConnHandler {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.onConnect
}

func (t *TCPTransport) disconnectHandler() ConnHandler {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.onDisconnect
}
