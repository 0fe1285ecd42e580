// The converter package pumps data from an input stream to an output
// stream, converting RTCM3 message frames to lines of JSON (forward) or
// lines of JSON to RTCM3 message frames (backward).
//
// Forward conversion reads the input into a buffer big enough to hold two
// of the largest possible frames, takes all of the complete frames out of
// the buffer and leaves any part frame at the end for the next read.  Junk
// between frames is skipped.  Each frame becomes one line of JSON ending in
// CR LF.  When the input ends, a part frame left in the buffer is dropped,
// but any complete frames behind it are still converted.
//
// Backward conversion reads lines of JSON (ending in LF or CR LF) and
// writes the frame for each.
//
// In both directions a record that can't be converted is logged and skipped.
// Errors writing the output are logged and the record is lost - an output
// that reconnects itself will pick up again with a later record.  Both
// conversions run until the input reaches end of file.  A read error from an
// input that reconnects itself is retried; any other read error stops the
// conversion.
package converter

import (
	"bufio"
	"bytes"
	"io"
	"net"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	circularbuffer "github.com/goblimey/rtcm-json/circular_buffer"
	"github.com/goblimey/rtcm-json/ntripclient"
	"github.com/goblimey/rtcm-json/rtcm/frame"
	"github.com/goblimey/rtcm-json/rtcm/message"
	"github.com/goblimey/rtcm-json/rtcm/utils"
	"github.com/goblimey/rtcm-json/tcpclient"
)

// BufferSize is the size of the forward conversion buffer.
const BufferSize = 2 * utils.MaxFrameLengthBytes

// lineEnd ends each line of JSON.
var lineEnd = []byte("\r\n")

// Flusher is an output that buffers data.
type Flusher interface {
	Flush() error
}

// Stats counts the records handled by a conversion.
type Stats struct {
	// Converted is the number of records written.
	Converted int
	// Skipped is the number of records that could not be converted.
	Skipped int
	// WriteErrors is the number of converted records that could not be
	// written.
	WriteErrors int
	// ReadErrors is the number of read errors retried.
	ReadErrors int
}

// Converter runs conversions.
type Converter struct {
	logger      hclog.Logger
	prettyPrint bool
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(c *Converter) { c.logger = l }
}

// WithPrettyPrint sets indented JSON for forward conversion.
func WithPrettyPrint(prettyPrint bool) Option {
	return func(c *Converter) { c.prettyPrint = prettyPrint }
}

// New creates a Converter.
func New(options ...Option) *Converter {
	c := Converter{logger: hclog.NewNullLogger()}
	for _, option := range options {
		option(&c)
	}
	return &c
}

// Forward converts RTCM3 frames from input to JSON lines on output.
func (c *Converter) Forward(input io.Reader, output io.Writer) (Stats, error) {
	var stats Stats
	buffer := circularbuffer.New(BufferSize)
	line := make([]byte, 0, 4*BufferSize)

	for {
		n, err := input.Read(buffer.Space())
		if n > 0 {
			buffer.Fill(n)
			it := frame.NewIterator(buffer.Data())
			line = c.convertFrames(it, line, output, &stats)
			buffer.Consume(it.Consumed())
		}

		if err == io.EOF || (n == 0 && err == nil) {
			break
		}
		if err != nil {
			if !retryable(err) {
				c.finish(buffer, line, output, &stats)
				return stats, errors.Wrap(err, "reading input")
			}
			c.logger.Debug("read failed, retrying", "error", err)
			stats.ReadErrors++
		}
	}

	c.finish(buffer, line, output, &stats)
	return stats, nil
}

// convertFrames writes the JSON for each frame the iterator yields.  It
// returns the line buffer for reuse.
func (c *Converter) convertFrames(it *frame.Iterator, line []byte, output io.Writer, stats *Stats) []byte {
	for f, ok := it.Next(); ok; f, ok = it.Next() {
		var convErr error
		line, convErr = c.frameToJSON(line[:0], f)
		if convErr != nil {
			c.logger.Debug("skipping frame", "error", convErr)
			stats.Skipped++
			continue
		}
		if _, err := output.Write(line); err != nil {
			c.logger.Debug("write failed", "error", err)
			stats.WriteErrors++
			continue
		}
		stats.Converted++
	}
	return line
}

// finish converts any frames left behind a leader whose frame will now
// never arrive, then flushes the output.
func (c *Converter) finish(buffer *circularbuffer.CircularBuffer, line []byte, output io.Writer, stats *Stats) {
	if len(buffer.Data()) > 0 {
		it := frame.NewFinalIterator(buffer.Data())
		c.convertFrames(it, line, output, stats)
		buffer.Consume(it.Consumed())
	}
	c.flush(output)
}

// frameToJSON appends the JSON for the frame and the line ending to dst.
func (c *Converter) frameToJSON(dst []byte, f []byte) ([]byte, error) {
	m, err := message.Decode(f)
	if err != nil {
		return dst, err
	}

	var text []byte
	if c.prettyPrint {
		text, err = message.MarshalIndent(m)
	} else {
		text, err = message.Marshal(m)
	}
	if err != nil {
		return dst, err
	}

	dst = append(dst, text...)
	dst = append(dst, lineEnd...)
	return dst, nil
}

// Backward converts JSON lines from input to RTCM3 frames on output.
func (c *Converter) Backward(input io.Reader, output io.Writer) (Stats, error) {
	var stats Stats
	reader := bufio.NewReader(input)
	builder := message.NewBuilder()

	for {
		line, err := reader.ReadBytes('\n')
		if err != nil && err != io.EOF {
			if !retryable(err) {
				return stats, errors.Wrap(err, "reading input")
			}
			// Part of a line is no use.
			c.logger.Debug("read failed, retrying", "error", err)
			stats.ReadErrors++
			continue
		}

		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			c.convertLine(line, builder, output, &stats)
		}

		if err == io.EOF {
			return stats, nil
		}
	}
}

func (c *Converter) convertLine(line []byte, builder *message.Builder, output io.Writer, stats *Stats) {
	m, err := message.Unmarshal(line)
	if err != nil {
		c.logger.Debug("skipping line", "error", err)
		stats.Skipped++
		return
	}
	f, err := builder.Build(m)
	if err != nil {
		c.logger.Debug("skipping message", "message_type", m.MessageType, "error", err)
		stats.Skipped++
		return
	}
	if _, err := output.Write(f); err != nil {
		c.logger.Debug("write failed", "error", err)
		stats.WriteErrors++
		return
	}
	stats.Converted++
}

func (c *Converter) flush(output io.Writer) {
	f, ok := output.(Flusher)
	if !ok {
		return
	}
	if err := f.Flush(); err != nil {
		c.logger.Debug("flush failed", "error", err)
	}
}

// retryable returns true if a read error comes from an input that
// reconnects itself.
func retryable(err error) bool {
	if errors.Is(err, tcpclient.ErrNotConnected) || errors.Is(err, ntripclient.ErrPermissionDenied) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
