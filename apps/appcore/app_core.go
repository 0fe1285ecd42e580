// This is the core of the rtcmjson application.  It sets up the input and
// output streams described by the configuration and runs the conversion
// between them until the input is exhausted.
//
// The remote streams (TCP client, NTRIP client and TCP server) look after
// themselves: a lost connection is made again on the next read or write, at
// most once per reconnect interval, so a run with one of those as its input
// only ends when the process is killed.  A run from standard input, a file
// or a serial device ends when the input does.
package appcore

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
	"go.bug.st/serial"

	"github.com/goblimey/rtcm-json/connection"
	"github.com/goblimey/rtcm-json/converter"
	"github.com/goblimey/rtcm-json/jsonconfig"
	"github.com/goblimey/rtcm-json/ntripclient"
	"github.com/goblimey/rtcm-json/tcpclient"
	"github.com/goblimey/rtcm-json/tcpserver"
)

// SerialOpener opens a serial device.  serial.Open satisfies it.
type SerialOpener func(name string, mode *serial.Mode) (serial.Port, error)

type AppCore struct {
	Conf   *jsonconfig.Config
	Logger hclog.Logger

	// Stdin and Stdout are used for the stdin input and stdout output.
	Stdin  io.Reader
	Stdout io.Writer

	// OpenSerial opens a serial input.
	OpenSerial SerialOpener
}

// New creates an AppCore for the given configuration, which should already
// have been validated.
func New(conf *jsonconfig.Config, logger hclog.Logger) *AppCore {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	appCore := AppCore{
		Conf:       conf,
		Logger:     logger,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		OpenSerial: serial.Open,
	}
	return &appCore
}

// Run opens the input and output, runs the conversion and closes them
// again.  It returns the conversion counts.  An error means that the
// input or output couldn't be opened or that the input failed.
func (appCore *AppCore) Run() (converter.Stats, error) {
	input, err := appCore.OpenInput()
	if err != nil {
		return converter.Stats{}, err
	}
	defer input.Close()

	output, err := appCore.OpenOutput()
	if err != nil {
		return converter.Stats{}, err
	}
	defer output.Close()

	conv := converter.New(
		converter.WithLogger(appCore.Logger.Named("converter")),
		converter.WithPrettyPrint(appCore.Conf.PrettyPrint),
	)

	var stats converter.Stats
	if appCore.Conf.Backward {
		appCore.Logger.Info("converting JSON to RTCM3",
			"input", appCore.Conf.Input.Kind, "output", appCore.Conf.Output.Kind)
		stats, err = conv.Backward(input, output)
	} else {
		appCore.Logger.Info("converting RTCM3 to JSON",
			"input", appCore.Conf.Input.Kind, "output", appCore.Conf.Output.Kind)
		stats, err = conv.Forward(input, output)
	}

	appCore.Logger.Info("conversion finished",
		"converted", stats.Converted, "skipped", stats.Skipped,
		"write_errors", stats.WriteErrors, "read_errors", stats.ReadErrors)
	if server, ok := output.(*tcpserver.Server); ok {
		s := server.Stats()
		appCore.Logger.Info("server clients",
			"accepted", s.Accepted, "active", s.Active, "dropped", s.Dropped)
	}

	return stats, err
}

// OpenInput opens the configured input.
func (appCore *AppCore) OpenInput() (io.ReadCloser, error) {
	in := &appCore.Conf.Input

	switch in.Kind {
	case jsonconfig.InputStdin:
		return io.NopCloser(appCore.Stdin), nil

	case jsonconfig.InputFile:
		file, err := os.Open(in.Path)
		if err != nil {
			return nil, errors.Wrap(err, "cannot open input file")
		}
		return file, nil

	case jsonconfig.InputSerial:
		mode := serial.Mode{BaudRate: in.BaudRate}
		port, err := appCore.OpenSerial(in.Path, &mode)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot open serial device %s", in.Path)
		}
		appCore.Logger.Info("opened serial device", "device", in.Path, "baud_rate", in.BaudRate)
		return port, nil

	case jsonconfig.InputTCPClient:
		conn, err := appCore.newConnection(in.Address)
		if err != nil {
			return nil, err
		}
		return tcpclient.New(conn, appCore.Logger.Named("tcpclient")), nil

	case jsonconfig.InputNTRIP:
		conn, err := appCore.newConnection(in.Address)
		if err != nil {
			return nil, err
		}
		return ntripclient.New(conn, in.NTRIPConfig(), nil, appCore.Logger.Named("ntrip")), nil
	}

	return nil, errors.Wrapf(jsonconfig.ErrInvalid, "unknown input kind %q", in.Kind)
}

// OpenOutput opens the configured output.
func (appCore *AppCore) OpenOutput() (io.WriteCloser, error) {
	out := &appCore.Conf.Output

	switch out.Kind {
	case jsonconfig.OutputStdout:
		return nopWriteCloser{appCore.Stdout}, nil

	case jsonconfig.OutputFile:
		file, err := os.Create(out.Path)
		if err != nil {
			return nil, errors.Wrap(err, "cannot create output file")
		}
		return file, nil

	case jsonconfig.OutputTCPClient:
		conn, err := appCore.newConnection(out.Address)
		if err != nil {
			return nil, err
		}
		return tcpclient.New(conn, appCore.Logger.Named("tcpclient")), nil

	case jsonconfig.OutputTCPServer:
		endpoint, err := out.Endpoint()
		if err != nil {
			return nil, errors.Wrap(jsonconfig.ErrInvalid, err.Error())
		}
		server, err := tcpserver.New(endpoint, tcpserver.WithLogger(appCore.Logger.Named("tcpserver")))
		if err != nil {
			return nil, err
		}
		return server, nil
	}

	return nil, errors.Wrapf(jsonconfig.ErrInvalid, "unknown output kind %q", out.Kind)
}

// newConnection creates a reconnecting connection.  Nothing is dialled
// until the first read or write.
func (appCore *AppCore) newConnection(address string) (*connection.Connection, error) {
	endpoint, err := connection.ParseEndpoint(address)
	if err != nil {
		return nil, errors.Wrap(jsonconfig.ErrInvalid, err.Error())
	}
	conn := connection.New(endpoint,
		connection.WithReconnectInterval(appCore.Conf.ReconnectInterval()),
		connection.WithLogger(appCore.Logger.Named("connection")),
	)
	return conn, nil
}

// nopWriteCloser leaves the underlying writer open.
type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
