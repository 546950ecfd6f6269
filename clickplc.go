/*
Package clickplc reads and writes CLICK PLC memory over Modbus using the
vendor's symbolic notation (DF12, X003, C145) instead of raw object
addresses.

The CLICK Modbus map partitions PLC storage into memory types. Each type
occupies its own address range and carries its own wire encoding: single
bits for input/output points and relays, single 16-bit registers for plain
data words, and 16-bit register pairs for 32-bit integers and IEEE-754
floats. The catalog in this package encodes the published map; a Scanner
turns a memory type symbol into bounded Modbus reads through any client
implementing the Client interface, for example github.com/grid-x/modbus.
*/
package clickplc

import (
	"fmt"
	"strings"
)

// ObjectClass identifies the Modbus object family backing a memory type.
type ObjectClass int

const (
	// DiscreteInput is a single-bit read-only object.
	DiscreteInput ObjectClass = iota
	// Coil is a single-bit read/write object.
	Coil
	// HoldingRegister is a 16-bit read/write object.
	HoldingRegister
	// InputRegister is a 16-bit read-only object.
	InputRegister
)

func (c ObjectClass) String() string {
	switch c {
	case DiscreteInput:
		return "discrete input"
	case Coil:
		return "coil"
	case HoldingRegister:
		return "holding register"
	case InputRegister:
		return "input register"
	}
	return fmt.Sprintf("object class %d", int(c))
}

// Kind is the engineering encoding of a memory type's values.
type Kind int

const (
	// Bit values are booleans, one Modbus bit per instance.
	Bit Kind = iota
	// Uint16 values are unsigned 16-bit integers, one register per instance.
	Uint16
	// Hex16 values are Uint16 on the wire but presented as hexadecimal.
	Hex16
	// Uint32 values combine two consecutive registers big-endian, first
	// register holding the high-order 16 bits.
	Uint32
	// Float32 values reinterpret the same two-register concatenation as an
	// IEEE-754 single-precision float.
	Float32
)

// MemType describes one CLICK memory type: its slot in the Modbus map and
// how its values are encoded. All entries are fixed constants from the
// vendor's published address map.
type MemType struct {
	Symbol string
	Name   string

	// Min and Max bound the instance range, inclusive. Most types number
	// from 1; XD/YD number modules from 0.
	Min, Max int

	Class ObjectClass
	Addr  uint16 // Modbus address of the first instance
	Words uint16 // registers per value, 0 for bit types
	Kind  Kind
}

// catalog holds every supported memory type in vendor manual order. Bit
// and register types may share base addresses (T and TD are both 0xB000)
// because they live in different Modbus object tables; class membership is
// the tag here, never the symbol text.
var catalog = []MemType{
	{Symbol: "X0", Name: "Module 0 input point", Min: 1, Max: 36, Class: DiscreteInput, Addr: 0x0000, Kind: Bit},
	{Symbol: "X1", Name: "Module 1 input point", Min: 1, Max: 16, Class: DiscreteInput, Addr: 0x0020, Kind: Bit},
	{Symbol: "X2", Name: "Module 2 input point", Min: 1, Max: 16, Class: DiscreteInput, Addr: 0x0040, Kind: Bit},
	{Symbol: "X3", Name: "Module 3 input point", Min: 1, Max: 16, Class: DiscreteInput, Addr: 0x0060, Kind: Bit},
	{Symbol: "X4", Name: "Module 4 input point", Min: 1, Max: 16, Class: DiscreteInput, Addr: 0x0080, Kind: Bit},
	{Symbol: "X5", Name: "Module 5 input point", Min: 1, Max: 16, Class: DiscreteInput, Addr: 0x00A0, Kind: Bit},
	{Symbol: "X6", Name: "Module 6 input point", Min: 1, Max: 16, Class: DiscreteInput, Addr: 0x00C0, Kind: Bit},
	{Symbol: "X7", Name: "Module 7 input point", Min: 1, Max: 16, Class: DiscreteInput, Addr: 0x00E0, Kind: Bit},
	{Symbol: "X8", Name: "Module 8 input point", Min: 1, Max: 16, Class: DiscreteInput, Addr: 0x0100, Kind: Bit},
	{Symbol: "Y0", Name: "Module 0 output point", Min: 1, Max: 36, Class: Coil, Addr: 0x2000, Kind: Bit},
	{Symbol: "Y1", Name: "Module 1 output point", Min: 1, Max: 16, Class: Coil, Addr: 0x2020, Kind: Bit},
	{Symbol: "Y2", Name: "Module 2 output point", Min: 1, Max: 16, Class: Coil, Addr: 0x2040, Kind: Bit},
	{Symbol: "Y3", Name: "Module 3 output point", Min: 1, Max: 16, Class: Coil, Addr: 0x2060, Kind: Bit},
	{Symbol: "Y4", Name: "Module 4 output point", Min: 1, Max: 16, Class: Coil, Addr: 0x2080, Kind: Bit},
	{Symbol: "Y5", Name: "Module 5 output point", Min: 1, Max: 16, Class: Coil, Addr: 0x20A0, Kind: Bit},
	{Symbol: "Y6", Name: "Module 6 output point", Min: 1, Max: 16, Class: Coil, Addr: 0x20C0, Kind: Bit},
	{Symbol: "Y7", Name: "Module 7 output point", Min: 1, Max: 16, Class: Coil, Addr: 0x20E0, Kind: Bit},
	{Symbol: "Y8", Name: "Module 8 output point", Min: 1, Max: 16, Class: Coil, Addr: 0x2100, Kind: Bit},
	{Symbol: "C", Name: "Control relay", Min: 1, Max: 2000, Class: Coil, Addr: 0x4000, Kind: Bit},
	{Symbol: "T", Name: "Timer", Min: 1, Max: 500, Class: Coil, Addr: 0xB000, Kind: Bit},
	{Symbol: "CT", Name: "Counter", Min: 1, Max: 250, Class: Coil, Addr: 0xC000, Kind: Bit},
	{Symbol: "SC", Name: "System control relay", Min: 1, Max: 1000, Class: Coil, Addr: 0xF000, Kind: Bit},
	{Symbol: "DS", Name: "Data register int", Min: 1, Max: 4500, Class: HoldingRegister, Addr: 0x0000, Words: 1, Kind: Uint16},
	{Symbol: "DD", Name: "Data register int2", Min: 1, Max: 1000, Class: HoldingRegister, Addr: 0x4000, Words: 2, Kind: Uint32},
	{Symbol: "DH", Name: "Data register hex", Min: 1, Max: 500, Class: HoldingRegister, Addr: 0x6000, Words: 1, Kind: Hex16},
	{Symbol: "DF", Name: "Data register float", Min: 1, Max: 500, Class: HoldingRegister, Addr: 0x7000, Words: 2, Kind: Float32},
	{Symbol: "XD", Name: "Input register", Min: 0, Max: 8, Class: InputRegister, Addr: 0xE000, Words: 2, Kind: Uint32},
	{Symbol: "YD", Name: "Output register", Min: 0, Max: 8, Class: HoldingRegister, Addr: 0xE200, Words: 2, Kind: Uint32},
	{Symbol: "TD", Name: "Timer register", Min: 1, Max: 500, Class: HoldingRegister, Addr: 0xB000, Words: 1, Kind: Uint16},
	{Symbol: "CTD", Name: "Counter register", Min: 1, Max: 250, Class: HoldingRegister, Addr: 0xC000, Words: 2, Kind: Uint32},
	{Symbol: "SD", Name: "System data register", Min: 1, Max: 1000, Class: HoldingRegister, Addr: 0xF000, Words: 1, Kind: Uint16},
	{Symbol: "TXT", Name: "Text data", Min: 1, Max: 1000, Class: HoldingRegister, Addr: 0x9000, Words: 1, Kind: Hex16},
}

var bySymbol = func() map[string]*MemType {
	m := make(map[string]*MemType, len(catalog))
	for i := range catalog {
		m[catalog[i].Symbol] = &catalog[i]
	}
	return m
}()

// Lookup returns the memory type for a symbol. Symbols are matched without
// regard to case.
func Lookup(symbol string) (*MemType, error) {
	if mt, ok := bySymbol[strings.ToUpper(symbol)]; ok {
		return mt, nil
	}
	return nil, &UnknownMemoryTypeError{Symbol: symbol}
}

// Types returns every supported memory type in catalog order.
func Types() []MemType {
	out := make([]MemType, len(catalog))
	copy(out, catalog)
	return out
}

// bit reports whether the memory type lives in a single-bit object table.
func (mt *MemType) bit() bool {
	return mt.Class == DiscreteInput || mt.Class == Coil
}
