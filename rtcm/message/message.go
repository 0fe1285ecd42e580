// The message package converts RTCM3 message frames to and from a JSON
// friendly form.
//
// Every message carries its type.  The standard message types (1001-1299)
// also carry the reference station ID, which follows the type in the bit
// stream.  Messages of type 1005 and 1006 (the base station position) are
// broken out into their fields.  Other messages carry the embedded message
// as base64 in the data field, so any message can be turned into JSON and
// back again:
//
//	{"message_type":1097,"station_id":0,"data":"RJAAM/bq4gAADFAAEAgAAAAgAQAAP6qq..."}
//	{"message_type":1005,"station_id":2,"type1005":{"message_type":1005,"station_id":2,...}}
package message

import (
	"github.com/pkg/errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/goblimey/rtcm-json/rtcm/frame"
	"github.com/goblimey/rtcm-json/rtcm/type1005"
	"github.com/goblimey/rtcm-json/rtcm/type1006"
	"github.com/goblimey/rtcm-json/rtcm/utils"
)

// ErrNoPayload is returned by the Builder when a message has neither data
// nor a broken out type 1005/1006 message.
var ErrNoPayload = errors.New("message has no content")

// ErrTypeMismatch is returned by the Builder when the message type doesn't
// agree with the content.
var ErrTypeMismatch = errors.New("message type does not match content")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Message is one RTCM3 message.
type Message struct {
	// MessageType is the 12-bit message type.
	MessageType int `json:"message_type"`

	// StationID is the reference station ID, for the standard message types.
	StationID *uint `json:"station_id,omitempty"`

	// Data is the embedded message from the frame, for message types that
	// are not broken out.
	Data []byte `json:"data,omitempty"`

	// Type1005 is set for a message of type 1005.
	Type1005 *type1005.Message `json:"type1005,omitempty"`

	// Type1006 is set for a message of type 1006.
	Type1006 *type1006.Message `json:"type1006,omitempty"`
}

// hasStationID returns true if messages of the given type carry a reference
// station ID after the message type.
func hasStationID(messageType int) bool {
	return messageType >= 1001 && messageType <= 1299
}

// Decode converts a complete message frame to a Message.  The Message
// doesn't refer to the frame, so the caller may reuse it.
func Decode(f []byte) (*Message, error) {
	payload, err := frame.Payload(f)
	if err != nil {
		return nil, err
	}
	if err := frame.CheckCRC(f); err != nil {
		return nil, err
	}
	if len(payload) < 2 {
		return nil, errors.Wrap(frame.ErrShortFrame, "no room for the message type")
	}

	messageType := int(utils.GetBitsAsUint64(payload, 0, utils.LenMessageType))
	message := Message{MessageType: messageType}

	if hasStationID(messageType) && len(payload)*8 >= utils.LenMessageType+utils.LenStationID {
		stationID := uint(utils.GetBitsAsUint64(payload, utils.LenMessageType, utils.LenStationID))
		message.StationID = &stationID
	}

	switch messageType {
	case utils.MessageType1005:
		m, err := type1005.GetMessage(payload)
		if err != nil {
			return nil, errors.Wrap(err, "decoding message type 1005")
		}
		message.Type1005 = m
	case utils.MessageType1006:
		m, err := type1006.GetMessage(payload)
		if err != nil {
			return nil, errors.Wrap(err, "decoding message type 1006")
		}
		message.Type1006 = m
	default:
		message.Data = append([]byte(nil), payload...)
	}

	return &message, nil
}

// Marshal returns the message as a single line of JSON.
func Marshal(message *Message) ([]byte, error) {
	return json.Marshal(message)
}

// MarshalIndent returns the message as indented JSON.
func MarshalIndent(message *Message) ([]byte, error) {
	return json.MarshalIndent(message, "", "  ")
}

// Unmarshal parses a JSON message.
func Unmarshal(data []byte) (*Message, error) {
	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// Builder turns Messages back into message frames.  It reuses its buffer,
// so a frame returned by Build is only valid until the next call.
type Builder struct {
	buf []byte
}

// NewBuilder creates a Builder.
func NewBuilder() *Builder {
	return &Builder{buf: make([]byte, 0, utils.MaxFrameLengthBytes)}
}

// Build returns the message frame for the message.  A broken out type
// 1005 or 1006 message takes precedence over data.
func (b *Builder) Build(message *Message) ([]byte, error) {
	if message.MessageType < 0 || message.MessageType > utils.MaxMessageType {
		return nil, errors.Wrapf(ErrTypeMismatch, "message type %d out of range", message.MessageType)
	}

	var payload []byte
	var err error
	switch {
	case message.Type1006 != nil:
		if message.MessageType != utils.MessageType1006 {
			return nil, errors.Wrapf(ErrTypeMismatch, "message type %d with a type1006 object", message.MessageType)
		}
		payload, err = message.Type1006.Encode()
	case message.Type1005 != nil:
		if message.MessageType != utils.MessageType1005 {
			return nil, errors.Wrapf(ErrTypeMismatch, "message type %d with a type1005 object", message.MessageType)
		}
		payload, err = message.Type1005.Encode()
	case len(message.Data) > 0:
		if len(message.Data) < 2 {
			return nil, errors.Wrap(ErrTypeMismatch, "data too short to hold the message type")
		}
		dataType := int(utils.GetBitsAsUint64(message.Data, 0, utils.LenMessageType))
		if dataType != message.MessageType {
			return nil, errors.Wrapf(ErrTypeMismatch, "message type %d, data holds %d", message.MessageType, dataType)
		}
		payload = message.Data
	default:
		return nil, ErrNoPayload
	}
	if err != nil {
		return nil, err
	}

	b.buf, err = frame.Append(b.buf[:0], payload)
	if err != nil {
		return nil, err
	}
	return b.buf, nil
}
