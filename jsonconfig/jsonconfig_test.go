package jsonconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	"github.com/goblimey/rtcm-json/connection"
	"github.com/goblimey/rtcm-json/coordinate"
	"github.com/goblimey/rtcm-json/ntripclient"
)

const exampleConfig = `{
	"backward": false,
	"pretty_print": true,
	"reconnect_seconds": 5,
	"log_level": "debug",
	"input": {
		"kind": "ntrip",
		"address": "caster.example.com:2101",
		"mountpoint": "MOUNT1",
		"username": "user",
		"password": "password",
		"llh": [52.5, -1.25, 100.0],
		"nmea_repeat_seconds": 60
	},
	"output": {
		"kind": "tcp-server",
		"address": "0.0.0.0:5000"
	}
}`

// TestParseJSON checks that getJSONConfig correctly parses a JSON string.
func TestParseJSON(t *testing.T) {
	config, err := getJSONConfig(strings.NewReader(exampleConfig))
	if err != nil {
		t.Fatal(err)
	}

	want := Config{
		PrettyPrint:      true,
		ReconnectSeconds: 5,
		LogLevel:         "debug",
		Input: Input{
			Kind:              InputNTRIP,
			Address:           "caster.example.com:2101",
			Mountpoint:        "MOUNT1",
			Username:          "user",
			Password:          "password",
			LLH:               []float64{52.5, -1.25, 100.0},
			NMEARepeatSeconds: 60,
		},
		Output: Output{Kind: OutputTCPServer, Address: "0.0.0.0:5000"},
	}
	if !cmp.Equal(&want, config) {
		t.Error(cmp.Diff(&want, config))
	}

	if err := config.Validate(); err != nil {
		t.Errorf("unexpected error %v", err)
	}
	if config.ReconnectInterval() != 5*time.Second {
		t.Errorf("want 5s got %v", config.ReconnectInterval())
	}
	if config.Level() != hclog.Debug {
		t.Errorf("want debug got %v", config.Level())
	}
}

// TestParseJSONErrors checks that bad JSON and unknown fields are refused.
func TestParseJSONErrors(t *testing.T) {
	var testData = []struct {
		description string
		json        string
	}{
		{"empty", ""},
		{"truncated", `{"backward": true`},
		{"wrong type", `{"backward": "yes"}`},
		{"misspelt field", `{"prety_print": true}`},
		{"misspelt input field", `{"input": {"kind": "file", "pth": "x"}}`},
	}

	for _, td := range testData {
		if _, err := getJSONConfig(strings.NewReader(td.json)); err == nil {
			t.Errorf("%s: expected an error", td.description)
		}
	}
}

// TestGetJSONConfigFromFile reads a config file from the filestore.
func TestGetJSONConfigFromFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(name, []byte(exampleConfig), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := GetJSONConfigFromFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if config.Input.Mountpoint != "MOUNT1" {
		t.Errorf("want mountpoint MOUNT1 got %q", config.Input.Mountpoint)
	}

	if _, err := GetJSONConfigFromFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

// TestApplyDefaults checks that an empty config becomes stdin to stdout.
func TestApplyDefaults(t *testing.T) {
	var config Config
	config.ApplyDefaults()

	want := Config{
		ReconnectSeconds: DefaultReconnectSeconds,
		LogLevel:         DefaultLogLevel,
		Input:            Input{Kind: InputStdin},
		Output:           Output{Kind: OutputStdout},
	}
	if !cmp.Equal(want, config) {
		t.Error(cmp.Diff(want, config))
	}
	if err := config.Validate(); err != nil {
		t.Errorf("unexpected error %v", err)
	}

	serial := Config{Input: Input{Kind: InputSerial, Path: "/dev/ttyACM0"}}
	serial.ApplyDefaults()
	if serial.Input.BaudRate != DefaultBaudRate {
		t.Errorf("want baud rate %d got %d", DefaultBaudRate, serial.Input.BaudRate)
	}

	// Values already set are left alone.
	set := Config{ReconnectSeconds: 3, LogLevel: "warn"}
	set.ApplyDefaults()
	if set.ReconnectSeconds != 3 || set.LogLevel != "warn" {
		t.Errorf("defaults overwrote settings: %+v", set)
	}
}

// TestValidate checks the configurations that Validate refuses.
func TestValidate(t *testing.T) {
	var testData = []struct {
		description string
		input       Input
		output      Output
		logLevel    string
		wantError   bool
	}{
		{"stdin to stdout", Input{Kind: InputStdin}, Output{Kind: OutputStdout}, "info", false},
		{"file to file", Input{Kind: InputFile, Path: "in"}, Output{Kind: OutputFile, Path: "out"}, "info", false},
		{"file with no path", Input{Kind: InputFile}, Output{Kind: OutputStdout}, "info", true},
		{"output file with no path", Input{Kind: InputStdin}, Output{Kind: OutputFile}, "info", true},
		{"tcp client", Input{Kind: InputTCPClient, Address: "localhost:2101"}, Output{Kind: OutputStdout}, "info", false},
		{"tcp client no port", Input{Kind: InputTCPClient, Address: "localhost"}, Output{Kind: OutputStdout}, "info", true},
		{"tcp client bad port", Input{Kind: InputTCPClient, Address: "localhost:http"}, Output{Kind: OutputStdout}, "info", true},
		{"tcp client port too big", Input{Kind: InputTCPClient, Address: "localhost:65536"}, Output{Kind: OutputStdout}, "info", true},
		{"ntrip", Input{Kind: InputNTRIP, Address: "caster:2101", Mountpoint: "M"}, Output{Kind: OutputStdout}, "info", false},
		{"ntrip without mountpoint", Input{Kind: InputNTRIP, Address: "caster:2101"}, Output{Kind: OutputStdout}, "info", true},
		{"username without password", Input{Kind: InputNTRIP, Address: "caster:2101", Mountpoint: "M", Username: "u"}, Output{Kind: OutputStdout}, "info", true},
		{"password without username", Input{Kind: InputNTRIP, Address: "caster:2101", Mountpoint: "M", Password: "p"}, Output{Kind: OutputStdout}, "info", true},
		{"llh and xyz", Input{Kind: InputNTRIP, Address: "caster:2101", Mountpoint: "M",
			LLH: []float64{1, 2, 3}, XYZ: []float64{1, 2, 3}}, Output{Kind: OutputStdout}, "info", true},
		{"short llh", Input{Kind: InputNTRIP, Address: "caster:2101", Mountpoint: "M",
			LLH: []float64{1, 2}}, Output{Kind: OutputStdout}, "info", true},
		{"nmea repeat without position", Input{Kind: InputNTRIP, Address: "caster:2101", Mountpoint: "M",
			NMEARepeatSeconds: 60}, Output{Kind: OutputStdout}, "info", true},
		{"nmea repeat with xyz", Input{Kind: InputNTRIP, Address: "caster:2101", Mountpoint: "M",
			XYZ: []float64{3900000, -85000, 5000000}, NMEARepeatSeconds: 60}, Output{Kind: OutputStdout}, "info", false},
		{"mountpoint without ntrip", Input{Kind: InputTCPClient, Address: "h:1", Mountpoint: "M"}, Output{Kind: OutputStdout}, "info", true},
		{"serial", Input{Kind: InputSerial, Path: "/dev/ttyACM0", BaudRate: 115200}, Output{Kind: OutputStdout}, "info", false},
		{"serial with no baud rate", Input{Kind: InputSerial, Path: "/dev/ttyACM0"}, Output{Kind: OutputStdout}, "info", true},
		{"unknown input", Input{Kind: "carrier-pigeon"}, Output{Kind: OutputStdout}, "info", true},
		{"unknown output", Input{Kind: InputStdin}, Output{Kind: "smoke-signals"}, "info", true},
		{"tcp server with no host", Input{Kind: InputStdin}, Output{Kind: OutputTCPServer, Address: ":5000"}, "info", true},
		{"tcp server all interfaces", Input{Kind: InputStdin}, Output{Kind: OutputTCPServer, Address: "0.0.0.0:5000"}, "info", false},
		{"bad log level", Input{Kind: InputStdin}, Output{Kind: OutputStdout}, "loud", true},
	}

	for _, td := range testData {
		config := Config{Input: td.input, Output: td.output, LogLevel: td.logLevel}
		err := config.Validate()
		if td.wantError {
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("%s: want ErrInvalid got %v", td.description, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error %v", td.description, err)
		}
	}
}

// TestNTRIPConfig checks the conversion to the NTRIP client settings.
func TestNTRIPConfig(t *testing.T) {
	input := Input{
		Kind:              InputNTRIP,
		Address:           "caster.example.com:2101",
		Mountpoint:        "MOUNT1",
		Username:          "user",
		Password:          "password",
		LLH:               []float64{52.5, -1.25, 100.0},
		NMEARepeatSeconds: 60,
	}

	position := coordinate.FromLLH(52.5, -1.25, 100.0)
	want := ntripclient.Config{
		Mountpoint:     "MOUNT1",
		Credentials:    &ntripclient.Credentials{Username: "user", Password: "password"},
		Position:       &position,
		ResendInterval: time.Minute,
	}
	got := input.NTRIPConfig()
	if !cmp.Equal(want, got) {
		t.Error(cmp.Diff(want, got))
	}

	endpoint, err := input.Endpoint()
	if err != nil {
		t.Fatal(err)
	}
	wantEndpoint := connection.Endpoint{Host: "caster.example.com", Port: 2101}
	if endpoint != wantEndpoint {
		t.Errorf("want %v got %v", wantEndpoint, endpoint)
	}

	// An anonymous request with no position.
	plain := Input{Kind: InputNTRIP, Address: "caster:2101", Mountpoint: "M"}
	nc := plain.NTRIPConfig()
	if nc.Credentials != nil || nc.Position != nil || nc.ResendInterval != 0 {
		t.Errorf("unexpected settings %+v", nc)
	}

	// A position given as ECEF coordinates.
	x, y, z := position.ToXYZ()
	ecef := Input{Kind: InputNTRIP, Address: "caster:2101", Mountpoint: "M", XYZ: []float64{x, y, z}}
	nc = ecef.NTRIPConfig()
	if nc.Position == nil {
		t.Fatal("no position")
	}
	if diff := nc.Position.Latitude - 52.5; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("want latitude 52.5 got %f", nc.Position.Latitude)
	}
}
