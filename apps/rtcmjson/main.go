// The rtcmjson program converts a stream of RTCM3 messages into newline
// delimited JSON, one message per line, or (with -b) converts such a stream
// of JSON back into RTCM3.
//
// The data can come from standard input, a file, a serial device, a TCP
// connection or an NTRIP caster and can go to standard output, a file, a TCP
// connection or a TCP server that sends it to all of its clients.  For
// example, to fetch corrections from a caster and serve them as JSON on port
// 5000:
//
//	rtcmjson -n caster.example.com:2101 -m MOUNT1 -u user -p password \
//	    -l 52.5,-1.25,100 -r 60 -S 0.0.0.0:5000
//
// The settings can also be given in a JSON config file (--config).  Flags
// override the file.  The event log is written to stderr.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/goblimey/rtcm-json/apps/appcore"
	"github.com/goblimey/rtcm-json/jsonconfig"
)

func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "rtcmjson",
		Output: os.Stderr,
		Level:  hclog.Info,
	})

	config, err := getConfig(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		logger.Error("bad configuration", "error", err)
		os.Exit(1)
	}
	logger.SetLevel(config.Level())

	if _, err := appcore.New(config, logger).Run(); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

// getConfig builds the configuration from the command line arguments and
// the config file, if there is one.  Usage messages go to usageWriter.
func getConfig(args []string, usageWriter io.Writer) (*jsonconfig.Config, error) {
	flags := pflag.NewFlagSet("rtcmjson", pflag.ContinueOnError)
	flags.SetOutput(usageWriter)
	flags.SortFlags = false
	flags.Usage = func() {
		fmt.Fprintf(usageWriter, "usage: rtcmjson [flags]\n\nJSON serialization and deserialization of RTCM v3\n\n")
		flags.PrintDefaults()
	}

	backward := flags.BoolP("backward", "b", false, "backward conversion, from JSON (ndjson) to binary RTCM")
	stdinInput := flags.BoolP("stdin-input", "i", false, "input from standard input [default]")
	fileInput := flags.StringP("file-input", "f", "", "input from `file`")
	tcpClientInput := flags.StringP("tcp-client-input", "c", "", "input from a TCP connection to `host:port`")
	ntripInput := flags.StringP("ntrip-client-input", "n", "", "input from an NTRIP (v1) caster at `host:port` (needs --mountpoint)")
	serialInput := flags.String("serial-input", "", "input from the serial `device`")
	baudRate := flags.Int("baud", jsonconfig.DefaultBaudRate, "speed of the serial device")
	mountpoint := flags.StringP("mountpoint", "m", "", "NTRIP caster `mountpoint` to connect to")
	username := flags.StringP("username", "u", "", "`username` if the caster needs one")
	password := flags.StringP("password", "p", "", "`password` if the caster needs one")
	llh := flags.Float64SliceP("llh", "l", nil, "position `lat,lon,height` to send to the caster in an NMEA GGA sentence")
	xyz := flags.Float64SliceP("xyz", "x", nil, "position `x,y,z` (ECEF) to send to the caster in an NMEA GGA sentence")
	nmeaRepeat := flags.UintP("nmea-repeat", "r", 0, "`seconds` between sending the position again (needs --llh or --xyz)")
	stdoutOutput := flags.BoolP("stdout-output", "O", false, "output to standard output [default]")
	fileOutput := flags.StringP("file-output", "F", "", "output to `file`")
	tcpClientOutput := flags.StringP("tcp-client-output", "C", "", "output to a TCP connection to `host:port`")
	tcpServerOutput := flags.StringP("tcp-server-output", "S", "", "serve output on `host:port`")
	prettyPrint := flags.BoolP("pretty-print", "P", false, "pretty print the JSON (this can't be converted back)")
	reconnect := flags.Uint("reconnect", jsonconfig.DefaultReconnectSeconds, "minimum `seconds` between connection attempts")
	logLevel := flags.String("log-level", jsonconfig.DefaultLogLevel, "trace, debug, info, warn or error")
	configFile := flags.String("config", "", "JSON config `file`")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if flags.NArg() > 0 {
		return nil, errors.Errorf("unexpected argument %q", flags.Arg(0))
	}

	var config jsonconfig.Config
	if *configFile != "" {
		fromFile, err := jsonconfig.GetJSONConfigFromFile(*configFile)
		if err != nil {
			return nil, err
		}
		config = *fromFile
	}

	// At most one input and one output.
	inputs := map[string]bool{
		"stdin-input":        *stdinInput,
		"file-input":         flags.Changed("file-input"),
		"tcp-client-input":   flags.Changed("tcp-client-input"),
		"ntrip-client-input": flags.Changed("ntrip-client-input"),
		"serial-input":       flags.Changed("serial-input"),
	}
	if err := atMostOne(inputs); err != nil {
		return nil, err
	}
	outputs := map[string]bool{
		"stdout-output":     *stdoutOutput,
		"file-output":       flags.Changed("file-output"),
		"tcp-client-output": flags.Changed("tcp-client-output"),
		"tcp-server-output": flags.Changed("tcp-server-output"),
	}
	if err := atMostOne(outputs); err != nil {
		return nil, err
	}

	if flags.Changed("username") != flags.Changed("password") {
		return nil, errors.New("--username and --password must be given together")
	}
	if flags.Changed("llh") && flags.Changed("xyz") {
		return nil, errors.New("--llh and --xyz can't be given together")
	}
	if flags.Changed("ntrip-client-input") && !flags.Changed("mountpoint") &&
		(config.Input.Kind != jsonconfig.InputNTRIP || config.Input.Mountpoint == "") {
		return nil, errors.New("--ntrip-client-input needs --mountpoint")
	}

	switch {
	case *stdinInput:
		config.Input = jsonconfig.Input{Kind: jsonconfig.InputStdin}
	case flags.Changed("file-input"):
		config.Input = jsonconfig.Input{Kind: jsonconfig.InputFile, Path: *fileInput}
	case flags.Changed("tcp-client-input"):
		config.Input = jsonconfig.Input{Kind: jsonconfig.InputTCPClient, Address: *tcpClientInput}
	case flags.Changed("ntrip-client-input"):
		// Keep the rest of an NTRIP input from the config file.
		if config.Input.Kind != jsonconfig.InputNTRIP {
			config.Input = jsonconfig.Input{Kind: jsonconfig.InputNTRIP}
		}
		config.Input.Address = *ntripInput
	case flags.Changed("serial-input"):
		config.Input = jsonconfig.Input{Kind: jsonconfig.InputSerial, Path: *serialInput}
	}

	if flags.Changed("baud") {
		config.Input.BaudRate = *baudRate
	}
	if flags.Changed("mountpoint") {
		config.Input.Mountpoint = *mountpoint
	}
	if flags.Changed("username") {
		config.Input.Username = *username
		config.Input.Password = *password
	}
	if flags.Changed("llh") {
		config.Input.LLH = *llh
		config.Input.XYZ = nil
	}
	if flags.Changed("xyz") {
		config.Input.XYZ = *xyz
		config.Input.LLH = nil
	}
	if flags.Changed("nmea-repeat") {
		config.Input.NMEARepeatSeconds = *nmeaRepeat
	}

	switch {
	case *stdoutOutput:
		config.Output = jsonconfig.Output{Kind: jsonconfig.OutputStdout}
	case flags.Changed("file-output"):
		config.Output = jsonconfig.Output{Kind: jsonconfig.OutputFile, Path: *fileOutput}
	case flags.Changed("tcp-client-output"):
		config.Output = jsonconfig.Output{Kind: jsonconfig.OutputTCPClient, Address: *tcpClientOutput}
	case flags.Changed("tcp-server-output"):
		config.Output = jsonconfig.Output{Kind: jsonconfig.OutputTCPServer, Address: *tcpServerOutput}
	}

	if flags.Changed("backward") {
		config.Backward = *backward
	}
	if flags.Changed("pretty-print") {
		config.PrettyPrint = *prettyPrint
	}
	if flags.Changed("reconnect") {
		if *reconnect == 0 {
			return nil, errors.New("--reconnect must be at least one second")
		}
		config.ReconnectSeconds = *reconnect
	}
	if flags.Changed("log-level") {
		config.LogLevel = *logLevel
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// atMostOne returns an error if more than one of the choices is set.
func atMostOne(choices map[string]bool) error {
	var chosen []string
	for name, set := range choices {
		if set {
			chosen = append(chosen, "--"+name)
		}
	}
	if len(chosen) > 1 {
		sort.Strings(chosen)
		return errors.Errorf("only one of %s can be given", strings.Join(chosen, ", "))
	}
	return nil
}
