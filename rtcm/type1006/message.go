// type1006 handles messages of type 1006 - Stationary RTK Reference Station
// ARP with Antenna Height (base position and height).
package type1006

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/goblimey/rtcm-json/rtcm/type1005"
	"github.com/goblimey/rtcm-json/rtcm/utils"
)

const lenAntennaHeight = 16

// LengthOfMessageInBits is the length of the embedded message.
const LengthOfMessageInBits = type1005.LengthOfMessageInBits + lenAntennaHeight

// LengthOfMessageInBytes is the length of the embedded message in bytes.
const LengthOfMessageInBytes = (LengthOfMessageInBits + 7) / 8

// Message contains a message of type 1006 - antenna position and height.
// The position fields are the same as in a message of type 1005.
type Message struct {
	type1005.Message

	// AntennaHeight is the height of the antenna above some base height
	// (for example the height above ground level) in units of 0.0001 m.
	AntennaHeight uint `json:"antenna_height"`
}

// New creates a message of type 1006.
func New(stationID, itrfRealisationYear, ignored1 uint,
	antennaRefX int64, ignored2 uint, antennaRefY int64, ignored3 uint, antennaRefZ int64,
	antennaHeight uint) *Message {

	arp := type1005.New(stationID, itrfRealisationYear, ignored1,
		antennaRefX, ignored2, antennaRefY, ignored3, antennaRefZ)
	arp.MessageType = utils.MessageType1006

	return &Message{Message: *arp, AntennaHeight: antennaHeight}
}

// String returns a text version of a message type 1006
func (message *Message) String() string {
	height := float64(message.AntennaHeight) * type1005.ScaleFactor
	return message.Message.String() + fmt.Sprintf("Antenna height %.4f metres\n", height)
}

// GetMessage decodes the embedded message of a frame of type 1006.
func GetMessage(payload []byte) (*Message, error) {

	// Check that the bit stream is long enough.
	if len(payload)*8 < LengthOfMessageInBits {
		return nil, errors.Errorf("overrun - expected %d bits in a message type 1006, got %d",
			LengthOfMessageInBits, len(payload)*8)
	}

	arp, err := type1005.Parse(payload, utils.MessageType1006)
	if err != nil {
		return nil, err
	}

	antennaHeight := uint(utils.GetBitsAsUint64(payload, type1005.LengthOfMessageInBits, lenAntennaHeight))

	return &Message{Message: *arp, AntennaHeight: antennaHeight}, nil
}

// Encode returns the embedded message for a frame of type 1006.
func (message *Message) Encode() ([]byte, error) {
	if message.MessageType != utils.MessageType1006 {
		return nil, errors.Errorf("expected message type %d got %d",
			utils.MessageType1006, message.MessageType)
	}
	if message.AntennaHeight >= 1<<lenAntennaHeight {
		return nil, errors.Wrapf(type1005.ErrFieldRange,
			"antenna height %d does not fit in %d bits", message.AntennaHeight, lenAntennaHeight)
	}

	payload := make([]byte, LengthOfMessageInBytes)
	if err := message.Message.Put(payload); err != nil {
		return nil, err
	}
	utils.SetBitsFromUint64(payload, type1005.LengthOfMessageInBits, lenAntennaHeight,
		uint64(message.AntennaHeight))

	return payload, nil
}
