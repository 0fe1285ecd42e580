package jsonconfig

// The jsonconfig package holds the configuration of an rtcmjson run: the
// direction of conversion, where the data comes from, where it goes and how
// the run behaves.  The configuration can be read from a JSON file and
// changed by command line flags.
//
// An example config file:
//
//	{
//		"backward": false,
//		"pretty_print": false,
//		"reconnect_seconds": 10,
//		"log_level": "info",
//		"input": {
//			"kind": "ntrip",
//			"address": "caster.example.com:2101",
//			"mountpoint": "MOUNT1",
//			"username": "user",
//			"password": "password",
//			"llh": [52.5, -1.25, 100.0],
//			"nmea_repeat_seconds": 60
//		},
//		"output": {
//			"kind": "tcp-server",
//			"address": "0.0.0.0:5000"
//		}
//	}
//
// This example suits a machine that fetches corrections from an NTRIP
// caster that needs the rough position of the user, converts them to JSON
// and serves the result to any programs that connect to port 5000.
//
// An input is one of:
//
//	stdin      - standard input
//	file       - the file given by path
//	tcp-client - a TCP connection to address (host:port)
//	ntrip      - an NTRIP caster at address
//	serial     - the serial device given by path, at baud_rate
//
// An output is one of:
//
//	stdout     - standard output
//	file       - the file given by path (created or truncated)
//	tcp-client - a TCP connection to address
//	tcp-server - a server listening on address
//
// Call ApplyDefaults and then Validate before using a Config.

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/goblimey/rtcm-json/connection"
	"github.com/goblimey/rtcm-json/coordinate"
	"github.com/goblimey/rtcm-json/ntripclient"
)

// Input kinds.
const (
	InputStdin     = "stdin"
	InputFile      = "file"
	InputTCPClient = "tcp-client"
	InputNTRIP     = "ntrip"
	InputSerial    = "serial"
)

// Output kinds.
const (
	OutputStdout    = "stdout"
	OutputFile      = "file"
	OutputTCPClient = "tcp-client"
	OutputTCPServer = "tcp-server"
)

// DefaultReconnectSeconds is the default minimum time between attempts to
// connect to a remote host.
const DefaultReconnectSeconds = 10

// DefaultBaudRate is the default speed of a serial input.
const DefaultBaudRate = 9600

// DefaultLogLevel is the default level of the event log.
const DefaultLogLevel = "info"

// ErrInvalid is wrapped by all errors from Validate.
var ErrInvalid = errors.New("invalid configuration")

// The config file must not contain fields that we don't know about - they are
// probably misspelt.
var json = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	DisallowUnknownFields:  true,
}.Froze()

// Input describes where the data comes from.
type Input struct {
	Kind string `json:"kind"`

	// Path is the file or serial device name.
	Path string `json:"path,omitempty"`

	// Address is host:port for the tcp-client and ntrip kinds.
	Address string `json:"address,omitempty"`

	// BaudRate is the speed of a serial device.
	BaudRate int `json:"baud_rate,omitempty"`

	// The rest only apply to the ntrip kind.
	Mountpoint string `json:"mountpoint,omitempty"`
	Username   string `json:"username,omitempty"`
	Password   string `json:"password,omitempty"`

	// LLH is the position sent to the caster as latitude and longitude in
	// degrees and height in metres.
	LLH []float64 `json:"llh,omitempty"`

	// XYZ is the position sent to the caster as ECEF X, Y and Z in metres.
	XYZ []float64 `json:"xyz,omitempty"`

	// NMEARepeatSeconds is the time between sending the position.  Zero
	// means send it once per connection.
	NMEARepeatSeconds uint `json:"nmea_repeat_seconds,omitempty"`
}

// Output describes where the converted data goes.
type Output struct {
	Kind string `json:"kind"`

	// Path is the file name.
	Path string `json:"path,omitempty"`

	// Address is host:port to connect to (tcp-client) or listen on
	// (tcp-server).
	Address string `json:"address,omitempty"`
}

// Config is the configuration of a run.
type Config struct {
	// Backward is true to convert JSON to RTCM3, false to convert RTCM3 to
	// JSON.
	Backward bool `json:"backward"`

	// PrettyPrint produces indented JSON.  The result can't be converted
	// back.
	PrettyPrint bool `json:"pretty_print"`

	// ReconnectSeconds is the minimum time between attempts to connect to a
	// remote host.
	ReconnectSeconds uint `json:"reconnect_seconds"`

	// LogLevel is trace, debug, info, warn or error.
	LogLevel string `json:"log_level"`

	Input  Input  `json:"input"`
	Output Output `json:"output"`
}

// GetJSONConfigFromFile gets the config from the file given by configFileName.
func GetJSONConfigFromFile(configFileName string) (*Config, error) {
	jsonReader, err := os.Open(configFileName)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open the JSON control file")
	}
	defer jsonReader.Close()

	return getJSONConfig(jsonReader)
}

// getJSONConfig reads from the given source and returns the config.
func getJSONConfig(jsonSource io.Reader) (*Config, error) {
	jsonBytes, err := io.ReadAll(jsonSource)
	if err != nil {
		// We can't read the control file - permissions?
		return nil, errors.Wrap(err, "cannot read the JSON control file")
	}

	var config Config
	if err := json.Unmarshal(jsonBytes, &config); err != nil {
		return nil, errors.Wrap(err, "cannot parse the JSON control file")
	}

	return &config, nil
}

// ApplyDefaults sets the fields that have not been set.
func (config *Config) ApplyDefaults() {
	if config.Input.Kind == "" {
		config.Input.Kind = InputStdin
	}
	if config.Output.Kind == "" {
		config.Output.Kind = OutputStdout
	}
	if config.ReconnectSeconds == 0 {
		config.ReconnectSeconds = DefaultReconnectSeconds
	}
	if config.LogLevel == "" {
		config.LogLevel = DefaultLogLevel
	}
	if config.Input.Kind == InputSerial && config.Input.BaudRate == 0 {
		config.Input.BaudRate = DefaultBaudRate
	}
}

// Validate checks that the config describes a run that can be set up.
func (config *Config) Validate() error {
	if hclog.LevelFromString(config.LogLevel) == hclog.NoLevel {
		return invalid("unknown log level %q", config.LogLevel)
	}
	if err := config.Input.validate(); err != nil {
		return err
	}
	return config.Output.validate()
}

func (input *Input) validate() error {
	switch input.Kind {
	case InputStdin:
	case InputFile:
		if input.Path == "" {
			return invalid("file input needs a path")
		}
	case InputSerial:
		if input.Path == "" {
			return invalid("serial input needs a device path")
		}
		if input.BaudRate <= 0 {
			return invalid("serial input needs a positive baud rate, not %d", input.BaudRate)
		}
	case InputTCPClient, InputNTRIP:
		if _, err := connection.ParseEndpoint(input.Address); err != nil {
			return errors.Wrapf(ErrInvalid, "%s input: %v", input.Kind, err)
		}
	default:
		return invalid("unknown input kind %q", input.Kind)
	}

	ntrip := input.Kind == InputNTRIP
	if ntrip && input.Mountpoint == "" {
		return invalid("ntrip input needs a mountpoint")
	}
	if (input.Username == "") != (input.Password == "") {
		return invalid("the username and password must be given together")
	}
	if input.LLH != nil && input.XYZ != nil {
		return invalid("give the position as llh or xyz, not both")
	}
	if input.LLH != nil && len(input.LLH) != 3 {
		return invalid("llh needs latitude, longitude and height")
	}
	if input.XYZ != nil && len(input.XYZ) != 3 {
		return invalid("xyz needs x, y and z")
	}
	if input.NMEARepeatSeconds != 0 && input.LLH == nil && input.XYZ == nil {
		return invalid("nmea repeat needs a position (llh or xyz) to send")
	}
	if !ntrip && (input.Mountpoint != "" || input.Username != "" ||
		input.LLH != nil || input.XYZ != nil || input.NMEARepeatSeconds != 0) {
		return invalid("mountpoint, credentials and position only apply to ntrip input")
	}

	return nil
}

func (output *Output) validate() error {
	switch output.Kind {
	case OutputStdout:
	case OutputFile:
		if output.Path == "" {
			return invalid("file output needs a path")
		}
	case OutputTCPClient, OutputTCPServer:
		if _, err := connection.ParseEndpoint(output.Address); err != nil {
			return errors.Wrapf(ErrInvalid, "%s output: %v", output.Kind, err)
		}
	default:
		return invalid("unknown output kind %q", output.Kind)
	}
	return nil
}

// ReconnectInterval returns the minimum time between connection attempts.
func (config *Config) ReconnectInterval() time.Duration {
	return time.Duration(config.ReconnectSeconds) * time.Second
}

// Level returns the log level.
func (config *Config) Level() hclog.Level {
	return hclog.LevelFromString(config.LogLevel)
}

// Endpoint returns the remote host and port.
func (input *Input) Endpoint() (connection.Endpoint, error) {
	return connection.ParseEndpoint(input.Address)
}

// Endpoint returns the remote host and port, or the local address to
// listen on.
func (output *Output) Endpoint() (connection.Endpoint, error) {
	return connection.ParseEndpoint(output.Address)
}

// NTRIPConfig returns the settings for an NTRIP client.
func (input *Input) NTRIPConfig() ntripclient.Config {
	nc := ntripclient.Config{
		Mountpoint:     input.Mountpoint,
		ResendInterval: time.Duration(input.NMEARepeatSeconds) * time.Second,
	}
	if input.Username != "" {
		nc.Credentials = &ntripclient.Credentials{Username: input.Username, Password: input.Password}
	}
	switch {
	case len(input.LLH) == 3:
		c := coordinate.FromLLH(input.LLH[0], input.LLH[1], input.LLH[2])
		nc.Position = &c
	case len(input.XYZ) == 3:
		c := coordinate.FromXYZ(input.XYZ[0], input.XYZ[1], input.XYZ[2])
		nc.Position = &c
	}
	return nc
}

func invalid(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalid, format, args...)
}
