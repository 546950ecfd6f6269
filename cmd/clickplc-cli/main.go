// Command clickplc-cli scans CLICK PLC memory over Modbus by memory type
// symbol.
//
//	clickplc-cli list                                  print the supported memory types
//	clickplc-cli -address tcp://10.0.0.5:502 DF        scan all float registers
//	clickplc-cli -start 12 -count 1 DF                 scan DF12 only
//	clickplc-cli -write-instance 3 -write-value 1 Y0   switch output Y003 on
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/grid-x/modbus"
	"github.com/grid-x/serial"

	clickplc "github.com/Robert-litts/clickplc-modbus"
)

func main() {
	var opt option
	// general
	flag.StringVar(&opt.address, "address", "tcp://127.0.0.1:502", "Example: tcp://127.0.0.1:502, rtu:///dev/ttyUSB0")
	flag.IntVar(&opt.slaveID, "slaveID", 1, "Is used for intra-system routing purpose, typically for serial connections, TCP default 0xFF")
	flag.DurationVar(&opt.timeout, "timeout", 3*time.Second, "Modbus connection timeout")
	// tcp
	flag.DurationVar(&opt.tcp.linkRecoveryTimeout, "tcp-timeout-link-recovery", 20*time.Second, "Link timeout")
	flag.DurationVar(&opt.tcp.protocolRecoveryTimeout, "tcp-timeout-protocol-recovery", 20*time.Second, "Proto timeout")
	// rtu
	flag.IntVar(&opt.rtu.baudrate, "rtu-baudrate", 2400, "Symbol rate, e.g.: 300, 600, 1200, 2400, 4800, 9600, 19200, 38400")
	flag.IntVar(&opt.rtu.dataBits, "rtu-databits", 8, "5, 6, 7 or 8")
	flag.StringVar(&opt.rtu.parity, "rtu-parity", "E", "Parity: N - None, E - Even, O - Odd")
	flag.IntVar(&opt.rtu.stopBits, "rtu-stopbits", 1, "1 or 2")
	// rs485
	flag.BoolVar(&opt.rtu.rs485.enabled, "rs485-enable", false, "enables rs485 cfg")
	flag.DurationVar(&opt.rtu.rs485.delayRtsBeforeSend, "rs485-delayRtsBeforeSend", 0, "Delay rts before send")
	flag.DurationVar(&opt.rtu.rs485.delayRtsAfterSend, "rs485-delayRtsAfterSend", 0, "Delay rts after send")
	flag.BoolVar(&opt.rtu.rs485.rtsHighDuringSend, "rs485-rtsHighDuringSend", false, "Allow rts high during send")
	flag.BoolVar(&opt.rtu.rs485.rtsHighAfterSend, "rs485-rtsHighAfterSend", false, "Allow rts high after send")
	flag.BoolVar(&opt.rtu.rs485.rxDuringTx, "rs485-rxDuringTx", false, "Allow bidirectional rx during tx")

	var (
		start      = flag.Int("start", -1, "first instance to scan, defaults to the start of the type's range")
		count      = flag.Int("count", -1, "number of instances to scan, defaults to the rest of the range")
		writeIndex = flag.Int("write-instance", -1, "write this instance instead of scanning")
		writeValue = flag.Int("write-value", 0, "value for -write-instance; bit types treat nonzero as ON")
		filename   = flag.String("filename", "", "also write scan output to this file")
		verbose    = flag.Bool("verbose", false, "enable debug logging")
		logframe   = flag.Bool("log-frame", false, "prints received and send modbus frame to stdout")
	)

	flag.Parse()

	if len(os.Args) == 1 || flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: clickplc-cli [flags] <memory-type|list>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	target := flag.Arg(0)
	if strings.EqualFold(target, "list") {
		for _, mt := range clickplc.Types() {
			fmt.Printf("%s: %s\n", mt.Symbol, mt.Name)
		}
		return
	}

	// Resolve the symbol before touching the network so a typo never costs
	// a connection attempt.
	mt, err := clickplc.Lookup(target)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	from, to, err := scanBounds(mt, *start, *count)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	if *logframe {
		opt.logger = logger
	}

	handler, err := newHandler(opt)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	ctx := context.Background()
	if err := handler.Connect(ctx); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	defer handler.Close()

	scanner := clickplc.NewScanner(modbus.NewClient(handler))

	if *writeIndex >= 0 {
		if err := scanner.Write(ctx, mt.Symbol, *writeIndex, uint16(*writeValue)); err != nil {
			logger.Error(err.Error())
			os.Exit(1)
		}
		logger.Info("write ok", "target", mt.Symbol, "instance", *writeIndex, "value", *writeValue)
		return
	}

	var buf bytes.Buffer
	out := io.Writer(os.Stdout)
	if *filename != "" {
		out = io.MultiWriter(os.Stdout, &buf)
	}

	err = scanner.ScanRange(ctx, mt.Symbol, from, to, func(v clickplc.Value) error {
		_, err := fmt.Fprintf(out, "%s : %s\n", v.Name(), v)
		return err
	})
	var pr *clickplc.PartialResultError
	switch {
	case errors.As(err, &pr):
		// Device answered with less than asked for; what decoded is valid.
		logger.Warn(err.Error())
	case err != nil:
		logger.Error(err.Error())
		os.Exit(1)
	}

	if *filename != "" {
		if err := os.WriteFile(*filename, buf.Bytes(), 0644); err != nil {
			logger.Error(err.Error())
			os.Exit(1)
		}
		logger.Info(*filename + " successfully written")
	}
}

// scanBounds applies the optional -start/-count window to the type's
// catalogued instance range. Negative values mean "not set".
func scanBounds(mt *clickplc.MemType, start, count int) (from, to int, err error) {
	from, to = mt.Min, mt.Max
	if start >= 0 {
		from = start
	}
	if count >= 0 {
		to = from + count - 1
	}
	if from < mt.Min || to > mt.Max || from > to {
		return 0, 0, fmt.Errorf("scan window %d..%d outside %s range %d..%d", from, to, mt.Symbol, mt.Min, mt.Max)
	}
	return from, to, nil
}

type option struct {
	address string
	slaveID int
	timeout time.Duration

	logger *slog.Logger

	rtu struct {
		baudrate int
		dataBits int
		parity   string
		stopBits int
		rs485    struct {
			enabled            bool
			delayRtsBeforeSend time.Duration
			delayRtsAfterSend  time.Duration
			rtsHighDuringSend  bool
			rtsHighAfterSend   bool
			rxDuringTx         bool
		}
	}

	tcp struct {
		linkRecoveryTimeout     time.Duration
		protocolRecoveryTimeout time.Duration
	}
}

// frameLogger adapts *slog.Logger to the modbus.Logger Printf interface.
type frameLogger struct {
	*slog.Logger
}

func (l *frameLogger) Printf(msg string, args ...any) {
	l.Logger.Debug(msg, args...)
}

func newHandler(o option) (modbus.ClientHandler, error) {
	u, err := url.Parse(o.address)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "rtu":
		h := modbus.NewRTUClientHandler(u.Path)
		h.Timeout = o.timeout
		h.SlaveID = byte(o.slaveID)
		if o.logger != nil {
			h.Logger = &frameLogger{o.logger}
		}
		h.BaudRate = o.rtu.baudrate
		h.DataBits = o.rtu.dataBits
		h.Parity = o.rtu.parity
		h.StopBits = o.rtu.stopBits
		h.RS485 = serial.RS485Config{
			Enabled:            o.rtu.rs485.enabled,
			DelayRtsBeforeSend: o.rtu.rs485.delayRtsBeforeSend,
			DelayRtsAfterSend:  o.rtu.rs485.delayRtsAfterSend,
			RtsHighDuringSend:  o.rtu.rs485.rtsHighDuringSend,
			RtsHighAfterSend:   o.rtu.rs485.rtsHighAfterSend,
			RxDuringTx:         o.rtu.rs485.rxDuringTx,
		}
		return h, nil
	case "tcp":
		h := modbus.NewTCPClientHandler(u.Host)
		h.Timeout = o.timeout
		h.SlaveID = byte(o.slaveID)
		h.LinkRecoveryTimeout = o.tcp.linkRecoveryTimeout
		h.ProtocolRecoveryTimeout = o.tcp.protocolRecoveryTimeout
		if o.logger != nil {
			h.Logger = &frameLogger{o.logger}
		}
		return h, nil
	case "udp":
		h := modbus.NewRTUOverUDPClientHandler(u.Host)
		h.SlaveID = byte(o.slaveID)
		if o.logger != nil {
			h.Logger = &frameLogger{o.logger}
		}
		return h, nil
	}

	return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
}
