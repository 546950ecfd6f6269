package clickplc

import "fmt"

// UnknownMemoryTypeError reports a symbol that is not in the catalog.
type UnknownMemoryTypeError struct {
	Symbol string
}

func (e *UnknownMemoryTypeError) Error() string {
	return fmt.Sprintf("clickplc: unknown memory type %q", e.Symbol)
}

// UnsupportedMemoryTypeError reports an operation that the catalogued class
// and kind of a memory type cannot support.
type UnsupportedMemoryTypeError struct {
	Symbol string
	Op     string
}

func (e *UnsupportedMemoryTypeError) Error() string {
	return fmt.Sprintf("clickplc: memory type %s does not support %s", e.Symbol, e.Op)
}

// TransportError wraps a failure reported by the Modbus client, recording
// the request that failed.
type TransportError struct {
	Addr     uint16
	Quantity uint16
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("clickplc: read of %d objects at address 0x%04X failed: %v", e.Quantity, e.Addr, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// PartialResultError reports that the device returned fewer objects than a
// request asked for, so only the leading complete values were decoded.
type PartialResultError struct {
	Symbol    string
	Addr      uint16
	Requested int // values the request should have produced
	Decoded   int // values actually reconstructed
}

func (e *PartialResultError) Error() string {
	return fmt.Sprintf("clickplc: short read at address 0x%04X for %s: decoded %d of %d values", e.Addr, e.Symbol, e.Decoded, e.Requested)
}
