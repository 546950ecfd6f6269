package clickplc

import "fmt"

// Per-request bounds for the CLICK family. Bit reads accept up to 1000
// objects; block reads of single-word registers go out in chunks of 100.
const (
	maxBitsPerRead = 1000
	maxRegsPerRead = 100
)

// ReadRequest is one bounded Modbus read within a scan plan.
type ReadRequest struct {
	Class ObjectClass
	Addr  uint16
	Count uint16 // objects to read: bits or registers

	first int // first instance covered
	n     int // instances covered
}

// Plan returns the ordered reads covering every instance of the memory
// type. Requests are contiguous in instance order with no gaps or overlap.
func Plan(mt *MemType) ([]ReadRequest, error) {
	return PlanRange(mt, mt.Min, mt.Max)
}

// PlanRange plans reads for instances from..to inclusive. The window must
// lie within the type's catalogued range.
func PlanRange(mt *MemType, from, to int) ([]ReadRequest, error) {
	if from > to || from < mt.Min || to > mt.Max {
		return nil, fmt.Errorf("clickplc: %s range %d..%d outside %d..%d", mt.Symbol, from, to, mt.Min, mt.Max)
	}
	switch {
	case mt.bit():
		return planChunks(mt, from, to, maxBitsPerRead), nil
	case mt.Words == 1 && (mt.Kind == Uint16 || mt.Kind == Hex16):
		return planChunks(mt, from, to, maxRegsPerRead), nil
	case mt.Words == 2 && (mt.Kind == Uint32 || mt.Kind == Float32):
		return planValues(mt, from, to), nil
	}
	// The catalog should make this unreachable.
	return nil, &UnsupportedMemoryTypeError{Symbol: mt.Symbol, Op: "read"}
}

// planChunks covers the window with fixed-size blocks of single-object
// values, clamping the last block to the end of the window. The control
// relay range (C1..C2000) lands here as two contiguous 1000-bit blocks.
func planChunks(mt *MemType, from, to, size int) []ReadRequest {
	var reqs []ReadRequest
	for first := from; first <= to; first += size {
		n := to - first + 1
		if n > size {
			n = size
		}
		reqs = append(reqs, ReadRequest{
			Class: mt.Class,
			Addr:  mt.addr(first),
			Count: uint16(n),
			first: first,
			n:     n,
		})
	}
	return reqs
}

// planValues issues one read per logical value so register pairs are never
// split across requests.
func planValues(mt *MemType, from, to int) []ReadRequest {
	var reqs []ReadRequest
	for i := from; i <= to; i++ {
		reqs = append(reqs, ReadRequest{
			Class: mt.Class,
			Addr:  mt.addr(i),
			Count: mt.Words,
			first: i,
			n:     1,
		})
	}
	return reqs
}
