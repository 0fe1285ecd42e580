// type1005 handles messages of type 1005 - Stationary RTK Reference Station
// ARP (base position).  The antenna reference point is given as Earth
// Centred Earth Fixed (ECEF) coordinates.
//
// The same layout starts a message of type 1006, which adds the antenna
// height, so Parse and Put are shared with the type1006 package.
package type1005

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/goblimey/rtcm-json/rtcm/utils"
)

// Lengths of the fields in the bit stream.
const lenMessageType = utils.LenMessageType
const lenStationID = utils.LenStationID
const lenITRFRealisationYear = 6
const lenIgnoredBits1 = 4
const lenAntennaRefX = 38
const lenIgnoredBits2 = 2
const lenAntennaRefY = 38
const lenIgnoredBits3 = 2
const lenAntennaRefZ = 38

// LengthOfMessageInBits is the length of the embedded message.
const LengthOfMessageInBits = lenMessageType + lenStationID +
	lenITRFRealisationYear + lenIgnoredBits1 +
	lenAntennaRefX + lenIgnoredBits2 + lenAntennaRefY +
	lenIgnoredBits3 + lenAntennaRefZ

// LengthOfMessageInBytes is the length of the embedded message, rounded up
// to a whole number of bytes.
const LengthOfMessageInBytes = (LengthOfMessageInBits + 7) / 8

// ScaleFactor converts the antenna reference coordinates to metres.  They
// are in units of 1/10,000 of a metre.
const ScaleFactor = 0.0001

// ErrFieldRange is returned by Put when a field is too big for its place in
// the bit stream.
var ErrFieldRange = errors.New("field value out of range")

// Message contains a message of type 1005 - antenna position.
type Message struct {
	// Some bits in the message are ignored by the RTKLIB decoder so
	// we're not sure what they are.  We just store them so that the
	// message can be rebuilt.

	// MessageType - uint12 - 1005, or 1006 when embedded in a type1006.Message.
	MessageType uint `json:"message_type"`

	// station ID - uint12.
	StationID uint `json:"station_id"`

	// Reserved for ITRF Realisaton Year - uint6.
	ITRFRealisationYear uint `json:"itrf_realisation_year"`

	// Ignored 1 represents the next four bits (the GPS, Glonass, Galileo
	// and reference station indicators).
	Ignored1 uint `json:"ignored1"`

	// AntennaRefX is the antenna Reference Point coordinate X in ECEF - int38.
	// Scaled integer in 0.0001 m units.
	AntennaRefX int64 `json:"antenna_ref_x"`

	// Ignored2 represents the next two bits (single receiver oscillator
	// indicator and a reserved bit).
	Ignored2 uint `json:"ignored2"`

	// AntennaRefY is the antenna Reference Point coordinate Y in ECEF - int38.
	AntennaRefY int64 `json:"antenna_ref_y"`

	// Ignored3 represents the next two bits (quarter cycle indicator).
	Ignored3 uint `json:"ignored3"`

	// AntennaRefZ is the antenna Reference Point coordinate Z in ECEF - int38.
	AntennaRefZ int64 `json:"antenna_ref_z"`
}

// New creates a message of type 1005.
func New(stationID, itrfRealisationYear, ignored1 uint,
	antennaRefX int64, ignored2 uint, antennaRefY int64, ignored3 uint, antennaRefZ int64) *Message {

	message := Message{
		MessageType:         utils.MessageType1005,
		StationID:           stationID,
		ITRFRealisationYear: itrfRealisationYear,
		Ignored1:            ignored1,
		AntennaRefX:         antennaRefX,
		Ignored2:            ignored2,
		AntennaRefY:         antennaRefY,
		Ignored3:            ignored3,
		AntennaRefZ:         antennaRefZ,
	}

	return &message
}

// ECEF returns the antenna reference point in metres.
func (message *Message) ECEF() (x, y, z float64) {
	x = float64(message.AntennaRefX) * ScaleFactor
	y = float64(message.AntennaRefY) * ScaleFactor
	z = float64(message.AntennaRefZ) * ScaleFactor
	return x, y, z
}

// String returns a text version of the message.
func (message *Message) String() string {
	display := fmt.Sprintf("stationID %d, ITRF realisation year %d, unknown bits %04b,\n",
		message.StationID, message.ITRFRealisationYear, message.Ignored1)
	display += fmt.Sprintf("x %d, unknown bits %02b, y %d, unknown bits %02b, z %d,\n",
		message.AntennaRefX, message.Ignored2, message.AntennaRefY,
		message.Ignored3, message.AntennaRefZ)

	x, y, z := message.ECEF()
	display += fmt.Sprintf("ECEF coords in metres (%.4f, %.4f, %.4f)\n", x, y, z)
	return display
}

// GetMessage decodes the embedded message of a frame of type 1005.
func GetMessage(payload []byte) (*Message, error) {
	return Parse(payload, utils.MessageType1005)
}

// Parse decodes the antenna reference point fields at the start of an
// embedded message of the expected type.
func Parse(payload []byte, expectedMessageType uint) (*Message, error) {

	lenMessageInBits := len(payload) * 8

	// Check that the bit stream is long enough.
	if lenMessageInBits < LengthOfMessageInBits {
		return nil, errors.Errorf("overrun - expected %d bits in a message type %d, got %d",
			LengthOfMessageInBits, expectedMessageType, lenMessageInBits)
	}

	// Pos is the position within the bitstream.
	var pos uint = 0

	messageType := uint(utils.GetBitsAsUint64(payload, pos, lenMessageType))
	pos += lenMessageType

	// Sanity check.
	if messageType != expectedMessageType {
		return nil, errors.Errorf("expected message type %d got %d",
			expectedMessageType, messageType)
	}

	stationID := uint(utils.GetBitsAsUint64(payload, pos, lenStationID))
	pos += lenStationID
	itrfRealisationYear := uint(utils.GetBitsAsUint64(payload, pos, lenITRFRealisationYear))
	pos += lenITRFRealisationYear
	ignored1 := uint(utils.GetBitsAsUint64(payload, pos, lenIgnoredBits1))
	pos += lenIgnoredBits1
	antennaRefX := utils.GetBitsAsInt64(payload, pos, lenAntennaRefX)
	pos += lenAntennaRefX
	ignored2 := uint(utils.GetBitsAsUint64(payload, pos, lenIgnoredBits2))
	pos += lenIgnoredBits2
	antennaRefY := utils.GetBitsAsInt64(payload, pos, lenAntennaRefY)
	pos += lenAntennaRefY
	ignored3 := uint(utils.GetBitsAsUint64(payload, pos, lenIgnoredBits3))
	pos += lenIgnoredBits3
	antennaRefZ := utils.GetBitsAsInt64(payload, pos, lenAntennaRefZ)

	message := New(stationID, itrfRealisationYear, ignored1,
		antennaRefX, ignored2, antennaRefY, ignored3, antennaRefZ)
	message.MessageType = messageType
	return message, nil
}

// Encode returns the embedded message for a frame of type 1005.
func (message *Message) Encode() ([]byte, error) {
	if message.MessageType != utils.MessageType1005 {
		return nil, errors.Errorf("expected message type %d got %d",
			utils.MessageType1005, message.MessageType)
	}
	payload := make([]byte, LengthOfMessageInBytes)
	if err := message.Put(payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Put writes the fields into the first LengthOfMessageInBits bits of
// payload, which must be long enough to hold them.
func (message *Message) Put(payload []byte) error {
	if len(payload)*8 < LengthOfMessageInBits {
		return errors.Errorf("overrun - need %d bits, have %d", LengthOfMessageInBits, len(payload)*8)
	}

	unsigned := []struct {
		name  string
		value uint
		len   uint
	}{
		{"message type", message.MessageType, lenMessageType},
		{"station ID", message.StationID, lenStationID},
		{"ITRF realisation year", message.ITRFRealisationYear, lenITRFRealisationYear},
		{"ignored1", message.Ignored1, lenIgnoredBits1},
		{"ignored2", message.Ignored2, lenIgnoredBits2},
		{"ignored3", message.Ignored3, lenIgnoredBits3},
	}
	for _, f := range unsigned {
		if uint64(f.value) >= uint64(1)<<f.len {
			return errors.Wrapf(ErrFieldRange, "%s %d does not fit in %d bits", f.name, f.value, f.len)
		}
	}

	signed := []struct {
		name  string
		value int64
	}{
		{"antenna_ref_x", message.AntennaRefX},
		{"antenna_ref_y", message.AntennaRefY},
		{"antenna_ref_z", message.AntennaRefZ},
	}
	for _, f := range signed {
		if !utils.FitsInBits(f.value, lenAntennaRefX) {
			return errors.Wrapf(ErrFieldRange, "%s %d does not fit in %d bits", f.name, f.value, lenAntennaRefX)
		}
	}

	var pos uint = 0
	utils.SetBitsFromUint64(payload, pos, lenMessageType, uint64(message.MessageType))
	pos += lenMessageType
	utils.SetBitsFromUint64(payload, pos, lenStationID, uint64(message.StationID))
	pos += lenStationID
	utils.SetBitsFromUint64(payload, pos, lenITRFRealisationYear, uint64(message.ITRFRealisationYear))
	pos += lenITRFRealisationYear
	utils.SetBitsFromUint64(payload, pos, lenIgnoredBits1, uint64(message.Ignored1))
	pos += lenIgnoredBits1
	utils.SetBitsFromInt64(payload, pos, lenAntennaRefX, message.AntennaRefX)
	pos += lenAntennaRefX
	utils.SetBitsFromUint64(payload, pos, lenIgnoredBits2, uint64(message.Ignored2))
	pos += lenIgnoredBits2
	utils.SetBitsFromInt64(payload, pos, lenAntennaRefY, message.AntennaRefY)
	pos += lenAntennaRefY
	utils.SetBitsFromUint64(payload, pos, lenIgnoredBits3, uint64(message.Ignored3))
	pos += lenIgnoredBits3
	utils.SetBitsFromInt64(payload, pos, lenAntennaRefZ, message.AntennaRefZ)

	return nil
}
