// the utils package contains general-purpose functions and constants for
// handling RTCM3 message frames.
package utils

import (
	"math"
)

// StartOfMessageFrame is the value of the byte that starts an RTCM3 message frame.
const StartOfMessageFrame byte = 0xd3

// MaxMessageType is the largest message type.  The message type is 12 bits
// unsigned.
const MaxMessageType = 4095

// RTCM3 Message types that get special treatment.
const MessageType1005 = 1005 // Base position.
const MessageType1006 = 1006 // Base position and height.

// LeaderLengthBytes is the length of the message frame leader in bytes.
const LeaderLengthBytes = 3

// LeaderLengthBits is the length of the message frame leader in bits.
const LeaderLengthBits = LeaderLengthBytes * 8

// CRCLengthBytes is the length of the Cyclic Redundancy check value in bytes.
const CRCLengthBytes = 3

// CRCLengthBits is the length of the Cyclic Redundancy check value in bits.
const CRCLengthBits = CRCLengthBytes * 8

// MaxPayloadLengthBytes is the biggest embedded message that the 10-bit
// length field in the leader can describe.
const MaxPayloadLengthBytes = 1023

// MaxFrameLengthBytes is the length of the biggest possible message frame,
// leader, embedded message and CRC.
const MaxFrameLengthBytes = LeaderLengthBytes + MaxPayloadLengthBytes + CRCLengthBytes

// LenMessageType is the length of the message type field that starts every
// embedded message.
const LenMessageType = 12

// LenStationID is the length of the reference station ID which follows the
// message type in the standard message types.
const LenStationID = 12

// GetBitsAsUint64 extracts len bits from a slice of bytes, starting at bit
// position pos and returns them as a uint.  See RTKLIB's getbitu() function.
func GetBitsAsUint64(buff []byte, pos uint, len uint) uint64 {
	// The C version in RTKLIB is:
	//
	// extern unsigned int getbitu(const unsigned char *buff, int pos, int len)
	// {
	//     unsigned int bits=0;
	//     int i;
	//     for (i=pos;i<pos+len;i++) bits=(bits<<1)+((buff[i/8]>>(7-i%8))&1u);
	//     return bits;
	// }
	//
	var result uint64 = 0
	for i := pos; i < pos+len; i++ {
		bit := uint64(buff[i/8]>>(7-i%8)) & 1
		result = (result << 1) | bit
	}
	return result
}

// GetBitsAsInt64 extracts len bits from a slice of bytes, starting at bit
// position pos, interprets the bits as a twos-complement integer and returns
// the resulting as a 64-bit signed int.  See RTKLIB's getbits() function.
func GetBitsAsInt64(buff []byte, pos uint, len uint) int64 {
	u := GetBitsAsUint64(buff, pos, len)
	if len == 0 || len >= 64 {
		return int64(u)
	}
	// If the top bit is set the value is negative.  Extend the sign.
	signBit := uint64(1) << (len - 1)
	if u&signBit != 0 {
		return int64(u) - int64(signBit<<1)
	}
	return int64(u)
}

// SetBitsFromUint64 writes the bottom len bits of value into buff starting
// at bit position pos.  See RTKLIB's setbitu() function.  buff must be big
// enough to hold the bits.
func SetBitsFromUint64(buff []byte, pos uint, len uint, value uint64) {
	// RTKLIB:
	//
	// extern void setbitu(unsigned char *buff, int pos, int len, unsigned int data)
	// {
	//     unsigned int mask=1u<<(len-1);
	//     int i;
	//     if (len<=0||32<len) return;
	//     for (i=pos;i<pos+len;i++,mask>>=1) {
	//         if (data&mask) buff[i/8]|=1u<<(7-i%8); else buff[i/8]&=~(1u<<(7-i%8));
	//     }
	// }
	//
	if len == 0 || len > 64 {
		return
	}
	mask := uint64(1) << (len - 1)
	for i := pos; i < pos+len; i++ {
		bit := byte(1) << (7 - i%8)
		if value&mask != 0 {
			buff[i/8] |= bit
		} else {
			buff[i/8] &^= bit
		}
		mask >>= 1
	}
}

// SetBitsFromInt64 writes value into buff as a len-bit twos-complement
// integer starting at bit position pos.
func SetBitsFromInt64(buff []byte, pos uint, len uint, value int64) {
	SetBitsFromUint64(buff, pos, len, uint64(value))
}

// FitsInBits returns true if the signed value can be held in a len-bit twos
// complement field.
func FitsInBits(value int64, len uint) bool {
	if len >= 64 {
		return true
	}
	limit := int64(1) << (len - 1)
	return value >= -limit && value < limit
}

// EqualWithin return true if the given float64 values are equal
// within (precision) decimal places after rounding.  (This can fail if
// either of the numbers or the difference between them are too large.)
func EqualWithin(precision uint, f1, f2 float64) bool {

	// see http://docs.oracle.com/cd/E19957-01/806-3568/ncg_goldberg.html

	var scaleFactor float64 = math.Pow(10, float64(precision))

	f1 = math.Round(f1 * scaleFactor)
	f2 = math.Round(f2 * scaleFactor)

	return math.Abs(f1-f2) <= 0.1
}
