package utils

import (
	"testing"
)

// TestGetBitsAsUint64 checks that GetBitsAsUint64 extracts unsigned values
// that cross byte boundaries.
func TestGetBitsAsUint64(t *testing.T) {
	// 0xd3 0x00 0x13 0x3e 0xd0 is the start of a message type 1005 frame.
	bitStream := []byte{0xd3, 0x00, 0x13, 0x3e, 0xd0, 0x02}

	var testData = []struct {
		description string
		pos         uint
		len         uint
		want        uint64
	}{
		{"start byte", 0, 8, 0xd3},
		{"reserved bits", 8, 6, 0},
		{"length", 14, 10, 0x13},
		{"message type", 24, 12, 1005},
		{"station ID", 36, 12, 2},
		{"single bit", 0, 1, 1},
		{"zero length", 5, 0, 0},
	}

	for _, td := range testData {
		got := GetBitsAsUint64(bitStream, td.pos, td.len)
		if got != td.want {
			t.Errorf("%s: want %d got %d", td.description, td.want, got)
		}
	}
}

// TestGetBitsAsInt64 checks that GetBitsAsInt64 handles the sign bit.
func TestGetBitsAsInt64(t *testing.T) {
	var testData = []struct {
		description string
		bitStream   []byte
		pos         uint
		len         uint
		want        int64
	}{
		{"positive", []byte{0x7f}, 0, 8, 127},
		{"minus one", []byte{0xff}, 0, 8, -1},
		{"most negative", []byte{0x80}, 0, 8, -128},
		{"four bit negative", []byte{0x0e}, 4, 4, -2},
		{"across bytes", []byte{0x0f, 0xf0}, 4, 8, -1},
	}

	for _, td := range testData {
		got := GetBitsAsInt64(td.bitStream, td.pos, td.len)
		if got != td.want {
			t.Errorf("%s: want %d got %d", td.description, td.want, got)
		}
	}
}

// TestSetBits checks that values written with the setters are read back
// unchanged by the getters and that neighbouring bits are preserved.
func TestSetBits(t *testing.T) {
	var testData = []struct {
		description string
		pos         uint
		len         uint
		value       int64
	}{
		{"message type", 0, 12, 1006},
		{"odd position", 3, 7, 50},
		{"odd position negative", 3, 7, -37},
		{"smallest 7 bit", 3, 7, -64},
		{"negative 38 bit", 17, 38, -123456789012},
		{"positive 38 bit", 17, 38, 123456789012},
		{"minus one", 60, 4, -1},
	}

	for _, td := range testData {
		buff := make([]byte, 10)
		for i := range buff {
			buff[i] = 0xff
		}
		SetBitsFromInt64(buff, td.pos, td.len, td.value)
		got := GetBitsAsInt64(buff, td.pos, td.len)
		if got != td.value {
			t.Errorf("%s: want %d got %d", td.description, td.value, got)
		}
		if td.pos > 0 {
			before := GetBitsAsUint64(buff, 0, td.pos)
			want := uint64(1)<<td.pos - 1
			if before != want {
				t.Errorf("%s: leading bits changed - want %b got %b", td.description, want, before)
			}
		}
	}
}

// TestSetBitsFromUint64 checks the unsigned setter against known bytes.
func TestSetBitsFromUint64(t *testing.T) {
	buff := make([]byte, 3)
	SetBitsFromUint64(buff, 0, 8, 0xd3)
	SetBitsFromUint64(buff, 14, 10, 0x13)

	want := []byte{0xd3, 0x00, 0x13}
	for i := range want {
		if buff[i] != want[i] {
			t.Errorf("byte %d: want 0x%02x got 0x%02x", i, want[i], buff[i])
		}
	}
}

func TestFitsInBits(t *testing.T) {
	var testData = []struct {
		value int64
		len   uint
		want  bool
	}{
		{127, 8, true},
		{128, 8, false},
		{-128, 8, true},
		{-129, 8, false},
		{0, 1, true},
		{1 << 37, 38, false},
		{1<<37 - 1, 38, true},
		{63, 7, true},
		{64, 7, false},
		{100, 7, false},
		{-64, 7, true},
		{-65, 7, false},
	}

	for _, td := range testData {
		got := FitsInBits(td.value, td.len)
		if got != td.want {
			t.Errorf("%d in %d bits: want %v got %v", td.value, td.len, td.want, got)
		}
	}
}

func TestEqualWithin(t *testing.T) {

	var testData = []struct {
		N    uint
		F1   float64
		F2   float64
		Want bool
	}{
		{0, 100.1, 100.04, true},
		{1, 0.01, 0.04, true},
		{1, 0.01, 0.09, false}, // 0.09 will b rounded up to 0.1.
		{1, 0.5, 0.6, false},
		{2, 1.111, 1.113, true},
		{3, 9.9991, 9.9992, true},
	}

	for _, td := range testData {
		got := EqualWithin(td.N, td.F1, td.F2)

		if got != td.Want {
			t.Errorf("%d %f %f: want %v, got %v",
				td.N, td.F1, td.F2, td.Want, got)
		}
	}
}
