// CircularBuffer holds bytes read from a stream until they have been used.
//
// New(n) creates a buffer that holds up to n bytes.
//
// Space() returns the free space at the end of the buffer, ready to be read
// into.  Fill(n) marks n bytes of that space as holding data.
//
// Data() returns the bytes that have been filled but not consumed.
// Consume(n) marks the first n of them as used.
//
// Bytes that have not been consumed are never lost.  When the unused bytes
// don't start at the beginning of the buffer, Space moves them to the
// front so that all of the free space is in one piece.
//
// The buffer is not safe for concurrent use.
package circularbuffer

// CircularBuffer is a fixed size byte buffer.
type CircularBuffer struct {
	buf   []byte
	start int // The first unconsumed byte.
	end   int // One past the last filled byte.
}

// New creates a CircularBuffer that holds up to capacity bytes.
func New(capacity int) *CircularBuffer {
	return &CircularBuffer{buf: make([]byte, capacity)}
}

// Capacity returns the size of the buffer.
func (cb *CircularBuffer) Capacity() int {
	return len(cb.buf)
}

// Len returns the number of bytes filled and not yet consumed.
func (cb *CircularBuffer) Len() int {
	return cb.end - cb.start
}

// Available returns the number of bytes that can be filled.
func (cb *CircularBuffer) Available() int {
	return len(cb.buf) - cb.Len()
}

// Space returns the free space.  It is empty if the buffer is full.
func (cb *CircularBuffer) Space() []byte {
	if cb.start > 0 {
		cb.shift()
	}
	return cb.buf[cb.end:]
}

// Fill marks n bytes at the start of the free space as holding data.
func (cb *CircularBuffer) Fill(n int) {
	if n < 0 || cb.end+n > len(cb.buf) {
		panic("circularbuffer: fill beyond the end of the buffer")
	}
	cb.end += n
}

// Data returns the filled bytes that haven't been consumed.  The slice is
// only valid until the next call of Space.
func (cb *CircularBuffer) Data() []byte {
	return cb.buf[cb.start:cb.end]
}

// Consume marks the first n bytes of data as used.
func (cb *CircularBuffer) Consume(n int) {
	if n < 0 || n > cb.Len() {
		panic("circularbuffer: consume more than the buffer holds")
	}
	cb.start += n
	if cb.start == cb.end {
		// Empty - start again at the beginning.
		cb.start = 0
		cb.end = 0
	}
}

// shift moves the unconsumed data to the start of the buffer.
func (cb *CircularBuffer) shift() {
	n := copy(cb.buf, cb.buf[cb.start:cb.end])
	cb.start = 0
	cb.end = n
}
