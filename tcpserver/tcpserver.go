// The tcpserver package provides a TCP server that broadcasts everything
// written to it to all of the clients connected at the time.
//
// A goroutine accepts connections and passes them over a channel.  Nothing
// else runs in the background: the writer picks up new clients at the start
// of each Write or Flush and then writes to each client in turn.  A client
// that can't keep up doesn't hold up the others.  Each write to a client is
// given a short deadline and anything that doesn't go out in time is kept
// for that client and sent ahead of the next data.  A client that falls too
// far behind, or whose connection fails, is dropped.
//
// The server never reports a write error.  Data written while there are no
// clients is lost.
package tcpserver

import (
	"net"
	"os"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/goblimey/rtcm-json/connection"
)

// DefaultWriteWindow is how long a write to one client may take before the
// rest of the data is kept for later.
const DefaultWriteWindow = time.Millisecond

// DefaultMaxPending is the most data kept for a slow client before it is
// dropped.
const DefaultMaxPending = 1024 * 1024

// acceptQueueSize is the number of accepted connections that can wait for
// the writer to pick them up.
const acceptQueueSize = 64

// acceptRetryPause is the pause after a failed accept.
const acceptRetryPause = 50 * time.Millisecond

// Stats holds the server's counters.
type Stats struct {
	// Accepted is the number of connections accepted.
	Accepted uint64
	// Active is the number of clients being written to.
	Active int64
	// Dropped is the number of clients removed because of an error or
	// because they fell too far behind.
	Dropped uint64
}

// client is a connection with any data not yet sent to it.
type client struct {
	conn    net.Conn
	address string
	pending []byte
}

// Server is a broadcasting TCP server.  Write, Flush and Close must be
// called from one goroutine at a time.  Stats may be called from any
// goroutine.
type Server struct {
	listener    net.Listener
	incoming    chan net.Conn
	done        chan struct{}
	closeOnce   sync.Once
	clients     []*client
	writeWindow time.Duration
	maxPending  int
	logger      hclog.Logger

	accepted *atomic.Uint64
	active   *atomic.Int64
	dropped  *atomic.Uint64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithWriteWindow sets the time allowed for each write to a client.
func WithWriteWindow(d time.Duration) Option {
	return func(s *Server) { s.writeWindow = d }
}

// WithMaxPending sets the most data kept for a slow client.
func WithMaxPending(n int) Option {
	return func(s *Server) { s.maxPending = n }
}

// New binds to the endpoint and starts accepting connections.
func New(endpoint connection.Endpoint, options ...Option) (*Server, error) {
	listener, err := net.Listen("tcp", endpoint.String())
	if err != nil {
		return nil, errors.Wrapf(err, "cannot listen on %s", endpoint.String())
	}

	s := Server{
		listener:    listener,
		incoming:    make(chan net.Conn, acceptQueueSize),
		done:        make(chan struct{}),
		writeWindow: DefaultWriteWindow,
		maxPending:  DefaultMaxPending,
		logger:      hclog.NewNullLogger(),
		accepted:    atomic.NewUint64(0),
		active:      atomic.NewInt64(0),
		dropped:     atomic.NewUint64(0),
	}
	for _, option := range options {
		option(&s)
	}

	s.logger.Info("listening", "address", listener.Addr().String())
	go s.accept()

	return &s, nil
}

// Addr returns the address that the server is listening on.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Stats returns the current counters.
func (s *Server) Stats() Stats {
	return Stats{
		Accepted: s.accepted.Load(),
		Active:   s.active.Load(),
		Dropped:  s.dropped.Load(),
	}
}

// accept runs until the server is closed, passing new connections to the
// writer.
func (s *Server) accept() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("accept failed", "error", err)
			time.Sleep(acceptRetryPause)
			continue
		}

		s.accepted.Inc()
		select {
		case s.incoming <- conn:
		case <-s.done:
			conn.Close()
			return
		}
	}
}

// collect adds any newly accepted connections to the list of clients.
func (s *Server) collect() {
	for {
		select {
		case conn := <-s.incoming:
			c := client{conn: conn, address: conn.RemoteAddr().String()}
			s.clients = append(s.clients, &c)
			s.active.Inc()
			s.logger.Info("client connected", "client", c.address)
		default:
			return
		}
	}
}

// Write sends p to every client.  It always returns len(p) and nil.
func (s *Server) Write(p []byte) (int, error) {
	s.collect()

	live := s.clients[:0]
	for _, c := range s.clients {
		if len(c.pending)+len(p) > s.maxPending {
			s.drop(c, errors.Errorf("more than %d bytes waiting", s.maxPending))
			continue
		}
		c.pending = append(c.pending, p...)
		if err := s.send(c); err != nil {
			s.drop(c, err)
			continue
		}
		live = append(live, c)
	}
	s.prune(live)

	return len(p), nil
}

// Flush tries again to send any data waiting for slow clients.  It always
// returns nil.
func (s *Server) Flush() error {
	s.collect()

	live := s.clients[:0]
	for _, c := range s.clients {
		if err := s.send(c); err != nil {
			s.drop(c, err)
			continue
		}
		live = append(live, c)
	}
	s.prune(live)

	return nil
}

// Close stops accepting connections and disconnects all clients.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.listener.Close()
		s.collect()
		for _, c := range s.clients {
			c.conn.Close()
		}
		s.active.Sub(int64(len(s.clients)))
		s.clients = nil
	})
	return err
}

// send writes as much of the client's pending data as it can within the
// write window.  It returns an error only if the client should be dropped.
func (s *Server) send(c *client) error {
	if len(c.pending) == 0 {
		return nil
	}

	if err := c.conn.SetWriteDeadline(time.Now().Add(s.writeWindow)); err != nil {
		return err
	}
	n, err := c.conn.Write(c.pending)
	c.pending = append(c.pending[:0], c.pending[n:]...)

	if err != nil && !wouldBlock(err) {
		return err
	}
	if err != nil {
		s.logger.Trace("client is slow", "client", c.address, "waiting", len(c.pending))
	}
	return nil
}

func (s *Server) drop(c *client, reason error) {
	s.logger.Info("client dropped", "client", c.address, "reason", reason)
	c.conn.Close()
	s.active.Dec()
	s.dropped.Inc()
}

// prune replaces the client list with live, clearing the dropped entries
// at the end of the backing array.
func (s *Server) prune(live []*client) {
	for i := len(live); i < len(s.clients); i++ {
		s.clients[i] = nil
	}
	s.clients = live
}

// wouldBlock returns true if the error means that the write ran out of
// time rather than failed.
func wouldBlock(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
