// The tcpclient package provides a byte stream over a TCP connection that
// reconnects itself.  Any failure drops the connection and the failing call
// returns an error.  The next call connects again, waiting first if the
// last attempt was too recent, so a caller that simply retries will carry on
// once the server is back.
package tcpclient

import (
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	"github.com/goblimey/rtcm-json/connection"
)

// ErrNotConnected is returned when the connection has been lost, or there
// is no connection to flush.
var ErrNotConnected = errors.New("not connected")

// flusher is a socket that buffers writes.
type flusher interface {
	Flush() error
}

// Client is a reconnecting TCP client.  It is an io.ReadWriteCloser.
type Client struct {
	conn   *connection.Connection
	logger hclog.Logger
}

// New creates a Client using the given Connection.
func New(conn *connection.Connection, logger hclog.Logger) *Client {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Client{conn: conn, logger: logger}
}

// Read reads from the connection, connecting first if necessary.
func (c *Client) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	socket := c.conn.Acquire().Conn()

	n, err := socket.Read(p)
	if n > 0 {
		if err != nil {
			// Hand over the data.  The next call will connect again.
			c.logger.Debug("read failed", "error", err)
			c.conn.Discard()
		}
		return n, nil
	}

	c.conn.Discard()
	if err == nil || err == io.EOF {
		c.logger.Debug("connection closed by peer", "endpoint", c.conn.Endpoint().String())
		return 0, ErrNotConnected
	}
	return 0, errors.Wrap(err, "read")
}

// Write writes to the connection, connecting first if necessary.
func (c *Client) Write(p []byte) (int, error) {
	socket := c.conn.Acquire().Conn()

	n, err := socket.Write(p)
	if err != nil {
		c.conn.Discard()
		return n, errors.Wrap(err, "write")
	}
	if n == 0 && len(p) > 0 {
		c.conn.Discard()
		return 0, ErrNotConnected
	}
	return n, nil
}

// Flush flushes the connection if it's open.  It never connects.
func (c *Client) Flush() error {
	socket := c.conn.Current()
	if socket == nil {
		return ErrNotConnected
	}
	f, ok := socket.(flusher)
	if !ok {
		return nil
	}
	if err := f.Flush(); err != nil {
		c.conn.Discard()
		return errors.Wrap(err, "flush")
	}
	return nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
