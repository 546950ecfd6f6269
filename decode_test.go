package clickplc

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"
)

func mustLookup(t *testing.T, symbol string) *MemType {
	t.Helper()
	mt, err := Lookup(symbol)
	if err != nil {
		t.Fatal(err)
	}
	return mt
}

func TestDecodeFloat(t *testing.T) {
	// Registers 0x4049 0x0FDB concatenated big-endian are pi as an
	// IEEE-754 single. The PLC's own display rounds differently, so the
	// comparison stays within an epsilon.
	mt := mustLookup(t, "DF")
	req := ReadRequest{Class: HoldingRegister, Addr: 0x7000, Count: 2, first: 1, n: 1}
	vals, err := Decode(mt, req, []byte{0x40, 0x49, 0x0F, 0xDB})
	if err != nil {
		t.Fatal(err)
	}
	if len(vals) != 1 {
		t.Fatalf("decoded %d values, want 1", len(vals))
	}
	if v := vals[0]; math.Abs(float64(v.Float)-3.14159) > 1e-4 {
		t.Errorf("DF%d decoded to %v, want ~3.14159", v.Instance, v.Float)
	}
	if got := vals[0].String(); got != "3.1416" {
		t.Errorf("float presentation %q, want %q", got, "3.1416")
	}
}

func TestDecodeUint32(t *testing.T) {
	mt := mustLookup(t, "DD")
	req := ReadRequest{Class: HoldingRegister, Addr: 0x4000, Count: 2, first: 1, n: 1}
	vals, err := Decode(mt, req, []byte{0x00, 0x01, 0x00, 0x00})
	if err != nil {
		t.Fatal(err)
	}
	if vals[0].Uint != 65536 {
		t.Errorf("DD1 decoded to %d, want 65536", vals[0].Uint)
	}
}

func TestDecodeRegisterBlock(t *testing.T) {
	mt := mustLookup(t, "DS")
	req := ReadRequest{Class: HoldingRegister, Addr: 0x0000, Count: 3, first: 1, n: 3}
	vals, err := Decode(mt, req, []byte{0x00, 0x2A, 0xFF, 0xFF, 0x00, 0x00})
	if err != nil {
		t.Fatal(err)
	}
	got := make([]uint32, len(vals))
	for i, v := range vals {
		got[i] = v.Uint
	}
	if diff := cmp.Diff([]uint32{42, 65535, 0}, got); diff != "" {
		t.Errorf("DS block mismatch (-want +got):\n%s", diff)
	}
	for i, v := range vals {
		if v.Instance != i+1 {
			t.Errorf("value %d numbered DS%d", i, v.Instance)
		}
	}
}

func TestDecodeHexPresentation(t *testing.T) {
	mt := mustLookup(t, "DH")
	req := ReadRequest{Class: HoldingRegister, Addr: 0x6000, Count: 1, first: 1, n: 1}
	vals, err := Decode(mt, req, []byte{0xBE, 0xEF})
	if err != nil {
		t.Fatal(err)
	}
	// Same wire decode as a plain register, hex only in presentation.
	if vals[0].Uint != 0xBEEF {
		t.Errorf("DH1 decoded to %d, want %d", vals[0].Uint, 0xBEEF)
	}
	if got := vals[0].String(); got != "0xbeef" {
		t.Errorf("hex presentation %q, want %q", got, "0xbeef")
	}
}

func TestDecodeBits(t *testing.T) {
	mt := mustLookup(t, "X3")
	req := ReadRequest{Class: DiscreteInput, Addr: 0x0060, Count: 16, first: 1, n: 16}
	// Bits pack LSB first: 0x05 sets the first and third input.
	vals, err := Decode(mt, req, []byte{0x05, 0x00})
	if err != nil {
		t.Fatal(err)
	}
	if len(vals) != 16 {
		t.Fatalf("decoded %d bits, want 16", len(vals))
	}
	for i, want := range []bool{true, false, true} {
		if vals[i].Bool != want {
			t.Errorf("X3 bit %d = %v, want %v", i+1, vals[i].Bool, want)
		}
	}
	if got := vals[0].Name(); got != "X301" {
		t.Errorf("input point name %q, want %q", got, "X301")
	}
}

func TestDecodeNames(t *testing.T) {
	tests := []struct {
		symbol   string
		instance int
		want     string
	}{
		{"X0", 1, "X001"},
		{"Y8", 12, "Y812"},
		{"C", 145, "C145"},
		{"DF", 12, "DF12"},
		{"XD", 0, "XD0"},
	}
	for _, tc := range tests {
		v := Value{Type: mustLookup(t, tc.symbol), Instance: tc.instance}
		if got := v.Name(); got != tc.want {
			t.Errorf("%s instance %d: name %q, want %q", tc.symbol, tc.instance, got, tc.want)
		}
	}
}

func TestDecodeShortFloat(t *testing.T) {
	// One register short of a float pair: nothing may be decoded from the
	// truncated pair.
	mt := mustLookup(t, "DF")
	req := ReadRequest{Class: HoldingRegister, Addr: 0x7000, Count: 2, first: 1, n: 1}
	vals, err := Decode(mt, req, []byte{0x40, 0x49})
	if len(vals) != 0 {
		t.Errorf("decoded %d values from a truncated pair", len(vals))
	}
	var partial *PartialResultError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialResultError, got %v", err)
	}
	if partial.Decoded != 0 || partial.Requested != 1 {
		t.Errorf("partial result counts %d/%d, want 0/1", partial.Decoded, partial.Requested)
	}
}

func TestDecodeShortBlock(t *testing.T) {
	mt := mustLookup(t, "DS")
	req := ReadRequest{Class: HoldingRegister, Addr: 0x0000, Count: 100, first: 1, n: 100}
	vals, err := Decode(mt, req, make([]byte, 100)) // 50 of 100 registers
	if len(vals) != 50 {
		t.Errorf("decoded %d values, want 50", len(vals))
	}
	var partial *PartialResultError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialResultError, got %v", err)
	}
	if partial.Decoded != 50 || partial.Requested != 100 {
		t.Errorf("partial result counts %d/%d, want 50/100", partial.Decoded, partial.Requested)
	}
}

// Chunking must not change the decoded sequence: splitting a register range
// across the planned block boundaries yields the same values as one
// synthetic read of the whole range.
func TestDecodeChunkingIdempotent(t *testing.T) {
	mt := mustLookup(t, "DS")
	const n = 250
	data := make([]byte, n*2)
	for i := 0; i < n; i++ {
		binary.BigEndian.PutUint16(data[i*2:], uint16(i*3))
	}

	whole := ReadRequest{Class: HoldingRegister, Addr: 0x0000, Count: n, first: 1, n: n}
	want, err := Decode(mt, whole, data)
	if err != nil {
		t.Fatal(err)
	}

	plan, err := PlanRange(mt, 1, n)
	if err != nil {
		t.Fatal(err)
	}
	var got []Value
	for _, req := range plan {
		off := (req.first - 1) * 2
		vals, err := Decode(mt, req, data[off:off+int(req.Count)*2])
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, vals...)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("chunked decode differs from whole-range decode (-want +got):\n%s", diff)
	}
}

func TestDecodeUint32Roundtrip(t *testing.T) {
	mt := mustLookup(t, "DD")
	rapid.Check(t, func(t *rapid.T) {
		want := rapid.Uint32().Draw(t, "value")
		data := make([]byte, 4)
		binary.BigEndian.PutUint32(data, want)

		req := ReadRequest{Class: HoldingRegister, Addr: 0x4000, Count: 2, first: 1, n: 1}
		vals, err := Decode(mt, req, data)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if vals[0].Uint != want {
			t.Errorf("decoded %d, want %d", vals[0].Uint, want)
		}
		// First register carries the high-order half.
		if hi := binary.BigEndian.Uint16(vals[0].Raw); uint32(hi) != want>>16 {
			t.Errorf("high register %d, want %d", hi, want>>16)
		}
	})
}

func TestDecodeFloatRoundtrip(t *testing.T) {
	mt := mustLookup(t, "DF")
	rapid.Check(t, func(t *rapid.T) {
		want := rapid.Float32().Draw(t, "value")
		data := make([]byte, 4)
		binary.BigEndian.PutUint32(data, math.Float32bits(want))

		req := ReadRequest{Class: HoldingRegister, Addr: 0x7000, Count: 2, first: 1, n: 1}
		vals, err := Decode(mt, req, data)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got := vals[0].Float; math.Float32bits(got) != math.Float32bits(want) {
			t.Errorf("decoded %v, want %v", got, want)
		}
	})
}
