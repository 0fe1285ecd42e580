package message

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kylelemons/godebug/diff"
	"github.com/pkg/errors"

	"github.com/goblimey/rtcm-json/rtcm/frame"
	"github.com/goblimey/rtcm-json/rtcm/samples"
	"github.com/goblimey/rtcm-json/rtcm/type1005"
	"github.com/goblimey/rtcm-json/rtcm/type1006"
)

func mustFrame(t *testing.T, payload []byte) []byte {
	t.Helper()
	f, err := frame.Build(payload)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

// TestDecodeGeneric checks that a message that isn't broken out keeps its
// embedded message as data.
func TestDecodeGeneric(t *testing.T) {
	got, err := Decode(samples.Frame1097)
	if err != nil {
		t.Fatal(err)
	}

	if got.MessageType != 1097 {
		t.Errorf("want type 1097 got %d", got.MessageType)
	}
	if got.StationID == nil || *got.StationID != 0 {
		t.Errorf("want station ID 0 got %v", got.StationID)
	}
	if !bytes.Equal(samples.Frame1097[3:len(samples.Frame1097)-3], got.Data) {
		t.Error("data does not match the embedded message")
	}
	if got.Type1005 != nil || got.Type1006 != nil {
		t.Error("unexpected broken out message")
	}
}

func TestDecode1005(t *testing.T) {
	want := type1005.New(2, 0, 0, 38285551234, 0, -112345678, 0, 50765432109)
	payload, _ := want.Encode()

	got, err := Decode(mustFrame(t, payload))
	if err != nil {
		t.Fatal(err)
	}
	if got.Data != nil {
		t.Error("data should not be set for type 1005")
	}
	if !cmp.Equal(want, got.Type1005) {
		t.Error(cmp.Diff(want, got.Type1005))
	}
	if got.StationID == nil || *got.StationID != 2 {
		t.Errorf("want station ID 2 got %v", got.StationID)
	}
}

func TestDecode1006(t *testing.T) {
	want := type1006.New(7, 0, 0, 1, 0, 2, 0, 3, 15000)
	payload, _ := want.Encode()

	got, err := Decode(mustFrame(t, payload))
	if err != nil {
		t.Fatal(err)
	}
	if !cmp.Equal(want, got.Type1006) {
		t.Error(cmp.Diff(want, got.Type1006))
	}
}

// TestDecodeErrors checks the frames that Decode refuses.
func TestDecodeErrors(t *testing.T) {
	badCRC := append([]byte{}, samples.Frame1097...)
	badCRC[20] ^= 0x80

	var testData = []struct {
		description string
		frame       []byte
	}{
		{"bad CRC", badCRC},
		{"truncated", samples.Frame1097[:100]},
		{"one byte payload", mustFrame(t, []byte{0x3e})},
		// A type 1005 message must be 19 bytes.
		{"short 1005", mustFrame(t, []byte{0x3e, 0xd0, 0x02, 0x00})},
		{"short 1006", mustFrame(t, []byte{0x3e, 0xe0, 0x02, 0x00})},
	}

	for _, td := range testData {
		got, err := Decode(td.frame)
		if err == nil {
			t.Errorf("%s: expected an error", td.description)
		}
		if got != nil {
			t.Errorf("%s: expected nil message", td.description)
		}
	}
}

// TestMarshal checks the JSON produced for messages.
func TestMarshal(t *testing.T) {
	stationID := uint(2)
	m := Message{
		MessageType: 1005,
		StationID:   &stationID,
		Type1005:    type1005.New(2, 0, 0, 1, 0, -2, 0, 3),
	}

	const want = `{"message_type":1005,"station_id":2,"type1005":{"message_type":1005,"station_id":2,` +
		`"itrf_realisation_year":0,"ignored1":0,"antenna_ref_x":1,"ignored2":0,"antenna_ref_y":-2,` +
		`"ignored3":0,"antenna_ref_z":3}}`

	got, err := Marshal(&m)
	if err != nil {
		t.Fatal(err)
	}
	if want != string(got) {
		t.Error(diff.Diff(want, string(got)))
	}

	generic := Message{MessageType: 4094, Data: []byte{0xff, 0xe0, 0x01}}
	got, err = Marshal(&generic)
	if err != nil {
		t.Fatal(err)
	}
	const wantGeneric = `{"message_type":4094,"data":"/+AB"}`
	if wantGeneric != string(got) {
		t.Error(diff.Diff(wantGeneric, string(got)))
	}
}

// TestMarshalIndent checks that indented JSON spans several lines and
// parses back to the same message.
func TestMarshalIndent(t *testing.T) {
	m := Message{MessageType: 4094, Data: []byte{0xff, 0xe0, 0x01}}
	got, err := MarshalIndent(&m)
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(string(got), "\n"); lines < 3 {
		t.Errorf("want at least 3 line breaks got %d in %s", lines, got)
	}
	if !strings.Contains(string(got), "  \"data\"") {
		t.Errorf("want indented fields, got %s", got)
	}

	back, err := Unmarshal(got)
	if err != nil {
		t.Fatal(err)
	}
	if !cmp.Equal(&m, back) {
		t.Error(cmp.Diff(&m, back))
	}
}

// TestRoundTrip checks that frames survive conversion to JSON and back.
func TestRoundTrip(t *testing.T) {
	p1005, _ := type1005.New(2, 0, 0xf, 38285551234, 1, -112345678, 2, 50765432109).Encode()
	p1006, _ := type1006.New(3, 1, 0, 1, 0, 2, 0, 3, 65535).Encode()

	frames := [][]byte{
		samples.Frame1097,
		mustFrame(t, p1005),
		mustFrame(t, p1006),
		mustFrame(t, []byte{0xff, 0xe0, 0x01, 0x02}),
	}

	builder := NewBuilder()
	for i, f := range frames {
		m, err := Decode(f)
		if err != nil {
			t.Errorf("%d: decode: %v", i, err)
			continue
		}
		text, err := Marshal(m)
		if err != nil {
			t.Errorf("%d: marshal: %v", i, err)
			continue
		}
		if strings.ContainsAny(string(text), "\r\n") {
			t.Errorf("%d: JSON contains a line break", i)
		}
		parsed, err := Unmarshal(text)
		if err != nil {
			t.Errorf("%d: unmarshal: %v", i, err)
			continue
		}
		got, err := builder.Build(parsed)
		if err != nil {
			t.Errorf("%d: build: %v", i, err)
			continue
		}
		if !bytes.Equal(f, got) {
			t.Errorf("%d: want\n%x\ngot\n%x", i, f, got)
		}
	}
}

// TestBuildErrors checks the messages that the Builder refuses.
func TestBuildErrors(t *testing.T) {
	var testData = []struct {
		description string
		message     *Message
		want        error
	}{
		{"empty", &Message{MessageType: 1097}, ErrNoPayload},
		{"type out of range", &Message{MessageType: 4096, Data: []byte{0, 0}}, ErrTypeMismatch},
		{"data disagrees", &Message{MessageType: 1097, Data: []byte{0x3e, 0xd0, 0x00}}, ErrTypeMismatch},
		{"data too short", &Message{MessageType: 1097, Data: []byte{0x44}}, ErrTypeMismatch},
		{"1005 object with type 1006", &Message{MessageType: 1006,
			Type1005: type1005.New(0, 0, 0, 0, 0, 0, 0, 0)}, ErrTypeMismatch},
		{"1006 object with type 1005", &Message{MessageType: 1005,
			Type1006: type1006.New(0, 0, 0, 0, 0, 0, 0, 0, 0)}, ErrTypeMismatch},
		{"data too long", &Message{MessageType: 4095, Data: append([]byte{0xff, 0xf0}, make([]byte, 1022)...)},
			frame.ErrPayloadLength},
	}

	builder := NewBuilder()
	for _, td := range testData {
		got, err := builder.Build(td.message)
		if !errors.Is(err, td.want) {
			t.Errorf("%s: want %v got %v", td.description, td.want, err)
		}
		if got != nil {
			t.Errorf("%s: expected no frame", td.description)
		}
	}
}

// TestUnmarshalErrors checks that malformed JSON is refused.
func TestUnmarshalErrors(t *testing.T) {
	inputs := []string{
		"",
		"{",
		`{"message_type":"x"}`,
		`{"message_type":1097,"data":"!!!"}`,
	}
	for _, input := range inputs {
		if _, err := Unmarshal([]byte(input)); err == nil {
			t.Errorf("%q: expected an error", input)
		}
	}
}

// TestDecodeMSM4 checks the message types of a batch of real MSM4 frames
// and that each one survives the trip to JSON and back.
func TestDecodeMSM4(t *testing.T) {
	var testData = []struct {
		description string
		frame       []byte
		want        int
	}{
		{"BeiDou", samples.Frame1124, 1124},
		{"Galileo", samples.Frame1094, 1094},
		{"GLONASS", samples.Frame1084, 1084},
		{"GPS", samples.Frame1074, 1074},
	}

	builder := NewBuilder()
	for _, td := range testData {
		m, err := Decode(td.frame)
		if err != nil {
			t.Errorf("%s: %v", td.description, err)
			continue
		}
		if m.MessageType != td.want {
			t.Errorf("%s: want type %d got %d", td.description, td.want, m.MessageType)
		}
		text, err := Marshal(m)
		if err != nil {
			t.Errorf("%s: %v", td.description, err)
			continue
		}
		back, err := Unmarshal(text)
		if err != nil {
			t.Errorf("%s: %v", td.description, err)
			continue
		}
		got, err := builder.Build(back)
		if err != nil {
			t.Errorf("%s: %v", td.description, err)
			continue
		}
		if !bytes.Equal(td.frame, got) {
			t.Errorf("%s: want\n%x\ngot\n%x", td.description, td.frame, got)
		}
	}
}
