package clickplc

import "fmt"

// Address returns the Modbus address of one instance of the memory type.
// Bit types advance one address per instance, register types one address
// per 16-bit word, so multi-word values occupy consecutive register pairs.
func (mt *MemType) Address(instance int) (uint16, error) {
	if instance < mt.Min || instance > mt.Max {
		return 0, fmt.Errorf("clickplc: %s instance %d out of range %d..%d", mt.Symbol, instance, mt.Min, mt.Max)
	}
	return mt.addr(instance), nil
}

func (mt *MemType) addr(instance int) uint16 {
	off := instance - mt.Min
	if !mt.bit() {
		off *= int(mt.Words)
	}
	return mt.Addr + uint16(off)
}
