package clickplc

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

// Value is one decoded memory instance. The field matching the type's Kind
// carries the payload: Bool for bits, Uint for 16- and 32-bit integers
// (hex types included), Float for floats.
type Value struct {
	Type     *MemType
	Instance int
	Raw      []byte // transport bytes backing this value

	Bool  bool
	Uint  uint32
	Float float32
}

// Name formats the instance the way the vendor documentation writes it.
// Input and output points are zero-padded to two digits (X01, Y12), all
// other types print the bare index (C145, DF12).
func (v Value) Name() string {
	if v.Type.bit() && (v.Type.Symbol[0] == 'X' || v.Type.Symbol[0] == 'Y') {
		return fmt.Sprintf("%s%02d", v.Type.Symbol, v.Instance)
	}
	return v.Type.Symbol + strconv.Itoa(v.Instance)
}

// String renders the payload in the type's presentation: decimal for plain
// registers, 0x-prefixed hex for DH/TXT, four decimals for floats.
func (v Value) String() string {
	switch v.Type.Kind {
	case Bit:
		return strconv.FormatBool(v.Bool)
	case Hex16:
		return fmt.Sprintf("0x%x", v.Uint)
	case Float32:
		return strconv.FormatFloat(float64(v.Float), 'f', 4, 32)
	default:
		return strconv.FormatUint(uint64(v.Uint), 10)
	}
}

// Decode reconstructs the values addressed by req from a raw transport
// response. Bit responses arrive packed eight per byte, least significant
// bit first; register responses arrive as big-endian byte pairs, first
// register high. If the response is shorter than the request implies, the
// leading complete values are returned together with a PartialResultError;
// a truncated register pair is never decoded.
func Decode(mt *MemType, req ReadRequest, data []byte) ([]Value, error) {
	var vals []Value
	if mt.bit() {
		for i := 0; i < req.n && i/8 < len(data); i++ {
			vals = append(vals, Value{
				Type:     mt,
				Instance: req.first + i,
				Raw:      data[i/8 : i/8+1],
				Bool:     data[i/8]>>(uint(i)%8)&1 == 1,
			})
		}
	} else {
		stride := int(mt.Words) * 2
		for i := 0; i < req.n && (i+1)*stride <= len(data); i++ {
			raw := data[i*stride : (i+1)*stride]
			v := Value{Type: mt, Instance: req.first + i, Raw: raw}
			switch mt.Kind {
			case Uint16, Hex16:
				v.Uint = uint32(binary.BigEndian.Uint16(raw))
			case Uint32:
				v.Uint = binary.BigEndian.Uint32(raw)
			case Float32:
				v.Float = math.Float32frombits(binary.BigEndian.Uint32(raw))
			}
			vals = append(vals, v)
		}
	}
	if len(vals) < req.n {
		return vals, &PartialResultError{
			Symbol:    mt.Symbol,
			Addr:      req.Addr,
			Requested: req.n,
			Decoded:   len(vals),
		}
	}
	return vals, nil
}
