// The frame package finds RTCM3 message frames in a stream of bytes and
// builds new frames around embedded messages.
//
// An RTCM3 message frame is a 3-byte leader, an embedded message and a
// 3-byte CRC.  The leader is the start of frame byte 0xd3, six reserved bits
// which are always zero and a 10-bit length giving the size of the embedded
// message in bytes:
//
//	+----------+--------+-----------+--------------------+----------+
//	| preamble | 000000 |  length   |  embedded message  |  CRC24Q  |
//	+----------+--------+-----------+--------------------+----------+
//	  8 bits    6 bits    10 bits     length bytes          24 bits
//
// The embedded message starts with a 12-bit message type.
//
// An Iterator scans a buffer holding part of a stream:
//
//	it := frame.NewIterator(data)
//	for f, ok := it.Next(); ok; f, ok = it.Next() {
//	    ... use f ...
//	}
//	consumed := it.Consumed()
//
// Bytes that can't be the start of a valid frame are skipped.  A frame that
// runs off the end of the buffer is left for the next call, after more data
// has arrived, so Consumed never counts the start of an incomplete frame.
// When no more data will arrive, NewFinalIterator treats a leader whose
// frame runs off the end as junk, so any frames after it are still found.
package frame

import (
	"github.com/goblimey/go-crc24q/crc24q"
	"github.com/pkg/errors"

	"github.com/goblimey/rtcm-json/rtcm/utils"
)

// ErrShortFrame is returned when a frame is too short to hold a leader,
// a message type and a CRC.
var ErrShortFrame = errors.New("frame too short")

// ErrBadLeader is returned when a frame does not start with a valid leader.
var ErrBadLeader = errors.New("invalid frame leader")

// ErrCRC is returned when the CRC at the end of a frame doesn't match its
// contents.
var ErrCRC = errors.New("CRC check failed")

// ErrPayloadLength is returned when an embedded message is empty or too long
// to fit in a frame.
var ErrPayloadLength = errors.New("embedded message length out of range")

// Iterator yields the complete, valid message frames in a buffer.
type Iterator struct {
	buf   []byte
	pos   int
	final bool // No more data will follow buf.
}

// NewIterator creates an Iterator over buf.  The Iterator does not copy
// buf, so the frames it returns are only valid until buf is changed.
func NewIterator(buf []byte) *Iterator {
	return &Iterator{buf: buf}
}

// NewFinalIterator creates an Iterator over the last bytes of a stream.
// An incomplete frame is skipped instead of ending the scan.
func NewFinalIterator(buf []byte) *Iterator {
	return &Iterator{buf: buf, final: true}
}

// Next returns the next valid frame and true, or nil and false if there are
// no more complete frames in the buffer.
func (it *Iterator) Next() ([]byte, bool) {
	for it.pos < len(it.buf) {
		if it.buf[it.pos] != utils.StartOfMessageFrame {
			it.pos++
			continue
		}

		remaining := it.buf[it.pos:]
		if len(remaining) < utils.LeaderLengthBytes {
			// The leader is incomplete.
			if it.final {
				it.pos = len(it.buf)
			}
			return nil, false
		}

		// The six bits after the start byte must be zero.
		if remaining[1]&0xfc != 0 {
			it.pos++
			continue
		}

		frameLength := utils.LeaderLengthBytes + PayloadLength(remaining) + utils.CRCLengthBytes
		if len(remaining) < frameLength {
			if it.final {
				// The rest will never come.
				it.pos++
				continue
			}
			// Wait for the rest of the frame.
			return nil, false
		}

		f := remaining[:frameLength]
		if CheckCRC(f) != nil {
			// The 0xd3 was just part of some other data.
			it.pos++
			continue
		}

		it.pos += frameLength
		return f, true
	}

	return nil, false
}

// Consumed returns the number of bytes at the start of the buffer that the
// Iterator has finished with - the frames returned so far and any junk
// skipped.
func (it *Iterator) Consumed() int {
	return it.pos
}

// PayloadLength returns the length of the embedded message given by the
// leader at the start of frame.  frame must be at least three bytes long.
func PayloadLength(frame []byte) int {
	return int(utils.GetBitsAsUint64(frame, 14, 10))
}

// MessageType returns the message type of the frame.
func MessageType(frame []byte) (int, error) {
	const minLength = utils.LeaderLengthBytes + 2
	if len(frame) < minLength {
		return 0, ErrShortFrame
	}
	return int(utils.GetBitsAsUint64(frame, utils.LeaderLengthBits, utils.LenMessageType)), nil
}

// Payload returns the embedded message within a frame, checking the leader
// and the frame length but not the CRC.
func Payload(frame []byte) ([]byte, error) {
	if len(frame) < utils.LeaderLengthBytes+utils.CRCLengthBytes {
		return nil, ErrShortFrame
	}
	if frame[0] != utils.StartOfMessageFrame || frame[1]&0xfc != 0 {
		return nil, ErrBadLeader
	}
	payloadLength := PayloadLength(frame)
	if len(frame) != utils.LeaderLengthBytes+payloadLength+utils.CRCLengthBytes {
		return nil, errors.Wrapf(ErrShortFrame,
			"leader gives %d bytes of message, frame is %d bytes", payloadLength, len(frame))
	}
	return frame[utils.LeaderLengthBytes : utils.LeaderLengthBytes+payloadLength], nil
}

// CheckCRC checks the CRC at the end of a frame.
func CheckCRC(frame []byte) error {
	if len(frame) < utils.LeaderLengthBytes+utils.CRCLengthBytes {
		return ErrShortFrame
	}

	startOfCRC := len(frame) - utils.CRCLengthBytes
	crcHiByte := frame[startOfCRC]
	crcMiByte := frame[startOfCRC+1]
	crcLoByte := frame[startOfCRC+2]

	newCRC := crc24q.Hash(frame[:startOfCRC])

	if crc24q.HiByte(newCRC) != crcHiByte ||
		crc24q.MiByte(newCRC) != crcMiByte ||
		crc24q.LoByte(newCRC) != crcLoByte {

		return errors.Wrapf(ErrCRC, "given %02x %02x %02x, calculated %02x %02x %02x",
			crcHiByte, crcMiByte, crcLoByte,
			crc24q.HiByte(newCRC), crc24q.MiByte(newCRC), crc24q.LoByte(newCRC))
	}

	return nil
}

// Append builds a frame around the embedded message and appends it to dst,
// returning the extended slice.
func Append(dst []byte, payload []byte) ([]byte, error) {
	if len(payload) == 0 || len(payload) > utils.MaxPayloadLengthBytes {
		return dst, errors.Wrapf(ErrPayloadLength, "got %d bytes", len(payload))
	}

	start := len(dst)
	dst = append(dst,
		utils.StartOfMessageFrame,
		byte(len(payload)>>8)&0x03,
		byte(len(payload)),
	)
	dst = append(dst, payload...)

	crc := crc24q.Hash(dst[start:])
	dst = append(dst, crc24q.HiByte(crc), crc24q.MiByte(crc), crc24q.LoByte(crc))
	return dst, nil
}

// Build returns a new frame wrapped around the embedded message.
func Build(payload []byte) ([]byte, error) {
	return Append(make([]byte, 0, len(payload)+utils.LeaderLengthBytes+utils.CRCLengthBytes), payload)
}
