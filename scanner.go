package clickplc

import (
	"context"
	"errors"
)

// Client is the subset of a Modbus client the scanner needs. The Client
// interface of github.com/grid-x/modbus satisfies it.
type Client interface {
	ReadCoils(ctx context.Context, address, quantity uint16) ([]byte, error)
	ReadDiscreteInputs(ctx context.Context, address, quantity uint16) ([]byte, error)
	ReadHoldingRegisters(ctx context.Context, address, quantity uint16) ([]byte, error)
	ReadInputRegisters(ctx context.Context, address, quantity uint16) ([]byte, error)
	WriteSingleCoil(ctx context.Context, address, value uint16) ([]byte, error)
	WriteSingleRegister(ctx context.Context, address, value uint16) ([]byte, error)
}

// Scanner executes scan plans against one Modbus connection. Reads are
// issued one at a time in plan order; register pairs and the split control
// relay blocks depend on that ordering, so requests within a scan are never
// parallelized. Scanners for independent connections may run concurrently.
type Scanner struct {
	client Client
}

// NewScanner returns a scanner reading through the given client.
func NewScanner(client Client) *Scanner {
	return &Scanner{client: client}
}

// Scan reads every instance of the memory type named by symbol and calls fn
// once per decoded value, in ascending instance order. A transport failure
// aborts the remaining plan and is returned as a TransportError carrying
// the failing address and count. Short reads are non-fatal: the scan keeps
// going and the accumulated PartialResultErrors are returned at the end.
// A non-nil error from fn stops the scan and is returned as-is.
func (s *Scanner) Scan(ctx context.Context, symbol string, fn func(Value) error) error {
	mt, err := Lookup(symbol)
	if err != nil {
		return err
	}
	return s.scan(ctx, mt, mt.Min, mt.Max, fn)
}

// ScanRange is Scan limited to instances from..to inclusive.
func (s *Scanner) ScanRange(ctx context.Context, symbol string, from, to int, fn func(Value) error) error {
	mt, err := Lookup(symbol)
	if err != nil {
		return err
	}
	return s.scan(ctx, mt, from, to, fn)
}

func (s *Scanner) scan(ctx context.Context, mt *MemType, from, to int, fn func(Value) error) error {
	plan, err := PlanRange(mt, from, to)
	if err != nil {
		return err
	}
	var short []error
	for _, req := range plan {
		data, err := s.read(ctx, req)
		if err != nil {
			return &TransportError{Addr: req.Addr, Quantity: req.Count, Err: err}
		}
		vals, err := Decode(mt, req, data)
		if err != nil {
			var pr *PartialResultError
			if !errors.As(err, &pr) {
				return err
			}
			short = append(short, err)
		}
		for _, v := range vals {
			if err := fn(v); err != nil {
				return err
			}
		}
	}
	return errors.Join(short...)
}

func (s *Scanner) read(ctx context.Context, req ReadRequest) ([]byte, error) {
	switch req.Class {
	case DiscreteInput:
		return s.client.ReadDiscreteInputs(ctx, req.Addr, req.Count)
	case Coil:
		return s.client.ReadCoils(ctx, req.Addr, req.Count)
	case InputRegister:
		return s.client.ReadInputRegisters(ctx, req.Addr, req.Count)
	default:
		return s.client.ReadHoldingRegisters(ctx, req.Addr, req.Count)
	}
}

// Query collects the scan of symbol into a slice. On a partial result the
// returned slice still holds every value that decoded cleanly.
func (s *Scanner) Query(ctx context.Context, symbol string) ([]Value, error) {
	var vals []Value
	err := s.Scan(ctx, symbol, func(v Value) error {
		vals = append(vals, v)
		return nil
	})
	return vals, err
}

// Modbus single-coil write states.
const (
	coilOn  uint16 = 0xFF00
	coilOff uint16 = 0x0000
)

// Write sets a single value: ON/OFF for coil types (any nonzero value is
// ON) or a 16-bit word for single-word holding register types. Read-only
// classes and multi-word kinds are rejected, since the latter cannot be
// written consistently through the single-register function.
func (s *Scanner) Write(ctx context.Context, symbol string, instance int, value uint16) error {
	mt, err := Lookup(symbol)
	if err != nil {
		return err
	}
	addr, err := mt.Address(instance)
	if err != nil {
		return err
	}
	switch {
	case mt.Class == Coil:
		v := coilOff
		if value != 0 {
			v = coilOn
		}
		_, err = s.client.WriteSingleCoil(ctx, addr, v)
	case mt.Class == HoldingRegister && mt.Words == 1:
		_, err = s.client.WriteSingleRegister(ctx, addr, value)
	default:
		return &UnsupportedMemoryTypeError{Symbol: mt.Symbol, Op: "single-value write"}
	}
	if err != nil {
		return &TransportError{Addr: addr, Quantity: 1, Err: err}
	}
	return nil
}
