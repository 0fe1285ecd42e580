// The connection package provides a TCP connection that reconnects itself.
//
// A Connection starts empty.  Acquire returns the open socket, connecting
// first if necessary, and says whether the socket is one that was already
// open or one that has just been made, so that the caller can run any
// protocol handshake on a new one:
//
//	switch handle := conn.Acquire().(type) {
//	case *connection.NewConnection:
//	    ... handshake on handle.Conn() ...
//	case *connection.ExistingConnection:
//	    ... carry on using handle.Conn() ...
//	}
//
// When the caller finds that the socket is dead it calls Discard, and the
// next Acquire connects again.  Connection attempts are never closer
// together than the reconnect interval, so a server that refuses
// connections or drops them immediately isn't hammered.  Acquire keeps
// trying until it succeeds.
//
// A Connection is not safe for concurrent use.
package connection

import (
	"net"
	"strconv"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	"github.com/goblimey/rtcm-json/clock"
)

// DefaultReconnectInterval is the minimum time between connection attempts.
const DefaultReconnectInterval = 10 * time.Second

// Endpoint is a host and port.
type Endpoint struct {
	Host string `json:"host"`
	Port uint16 `json:"port"`
}

// String returns the endpoint in the form host:port.
func (e Endpoint) String() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(int(e.Port)))
}

// ParseEndpoint parses host:port.  The port must be a number.
func ParseEndpoint(hostPort string) (Endpoint, error) {
	host, portStr, err := net.SplitHostPort(hostPort)
	if err != nil {
		return Endpoint{}, errors.Wrapf(err, "bad endpoint %q", hostPort)
	}
	if host == "" {
		return Endpoint{}, errors.Errorf("bad endpoint %q - no host", hostPort)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return Endpoint{}, errors.Errorf("bad endpoint %q - port must be a number from 0 to 65535", hostPort)
	}
	return Endpoint{Host: host, Port: uint16(port)}, nil
}

// Dialer makes network connections.  *net.Dialer satisfies it.
type Dialer interface {
	Dial(network, address string) (net.Conn, error)
}

// Handle is the result of Acquire - either an *ExistingConnection or a
// *NewConnection.
type Handle interface {
	// Conn returns the open socket.
	Conn() net.Conn
	handle()
}

// ExistingConnection is a socket that was already open.
type ExistingConnection struct {
	conn net.Conn
}

// Conn returns the socket.
func (h *ExistingConnection) Conn() net.Conn { return h.conn }
func (h *ExistingConnection) handle()        {}

// NewConnection is a socket that Acquire has just opened.
type NewConnection struct {
	conn net.Conn
}

// Conn returns the socket.
func (h *NewConnection) Conn() net.Conn { return h.conn }
func (h *NewConnection) handle()        {}

// Connection is a TCP client connection that is remade on demand.
type Connection struct {
	endpoint          Endpoint
	conn              net.Conn
	reconnectInterval time.Duration
	lastAttempt       time.Time
	dialer            Dialer
	clock             clock.Clock
	logger            hclog.Logger

	// failing is true after a failed attempt, until the next success.  It
	// stops a long outage filling the log.
	failing bool
}

// Option configures a Connection.
type Option func(*Connection)

// WithReconnectInterval sets the minimum time between connection attempts.
func WithReconnectInterval(d time.Duration) Option {
	return func(c *Connection) { c.reconnectInterval = d }
}

// WithDialer sets the Dialer.  The default is a *net.Dialer.
func WithDialer(d Dialer) Option {
	return func(c *Connection) { c.dialer = d }
}

// WithClock sets the clock used to pace connection attempts.
func WithClock(cl clock.Clock) Option {
	return func(c *Connection) { c.clock = cl }
}

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(c *Connection) { c.logger = l }
}

// New creates an unconnected Connection to the endpoint.
func New(endpoint Endpoint, options ...Option) *Connection {
	c := Connection{
		endpoint:          endpoint,
		reconnectInterval: DefaultReconnectInterval,
		dialer:            &net.Dialer{},
		clock:             clock.NewSystemClock(),
		logger:            hclog.NewNullLogger(),
	}
	for _, option := range options {
		option(&c)
	}

	// Allow the first attempt straight away.
	c.lastAttempt = c.clock.Now().Add(-c.reconnectInterval)

	return &c
}

// Endpoint returns the endpoint that the Connection connects to.
func (c *Connection) Endpoint() Endpoint {
	return c.endpoint
}

// Acquire returns the open socket, connecting first if there isn't one.
// It blocks until a connection is made.
func (c *Connection) Acquire() Handle {
	if c.conn != nil {
		return &ExistingConnection{conn: c.conn}
	}

	for {
		elapsed := c.clock.Now().Sub(c.lastAttempt)
		if remaining := c.reconnectInterval - elapsed; remaining > 0 {
			c.clock.Sleep(remaining)
		}

		c.lastAttempt = c.clock.Now()
		conn, err := c.dialer.Dial("tcp", c.endpoint.String())
		if err != nil {
			if !c.failing {
				c.logger.Warn("cannot connect, will keep trying",
					"endpoint", c.endpoint.String(), "interval", c.reconnectInterval, "error", err)
				c.failing = true
			} else {
				c.logger.Debug("connection attempt failed", "endpoint", c.endpoint.String(), "error", err)
			}
			continue
		}

		c.failing = false
		c.logger.Info("connected", "endpoint", c.endpoint.String())
		c.conn = conn
		return &NewConnection{conn: conn}
	}
}

// Current returns the open socket or nil.  It never connects.
func (c *Connection) Current() net.Conn {
	return c.conn
}

// Discard closes the socket, if there is one.  The next Acquire connects
// again.
func (c *Connection) Discard() {
	if c.conn == nil {
		return
	}
	c.logger.Debug("discarding connection", "endpoint", c.endpoint.String())
	c.conn.Close()
	c.conn = nil
}

// Close closes the socket, if there is one, and returns any error from
// closing it.
func (c *Connection) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
