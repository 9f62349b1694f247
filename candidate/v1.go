package candidate

import (
	"fmt"

	"github.com/colorfulnotion/sloppyvm/vm"
)

// V1 is the initial cut of the machine and the buggiest candidate:
//   - PUSH4 operands are read little-endian and without a bounds check, so
//     a truncated operand silently yields a partial value.
//   - No stack underflow checking; underflow surfaces as a panic.
//   - Unknown opcodes panic instead of failing with a tagged error.
//   - BYTE pops its operands in the wrong order and shifts by i*8 instead
//     of (7-i)*8.
type V1 struct{}

// Version implements Implementation.
func (V1) Version() string { return "v1" }

// Execute implements Implementation.
func (V1) Execute(bytecode []byte) ([]uint64, error) {
	var stack []uint64
	offset := 0

	for offset < len(bytecode) {
		switch op := bytecode[offset]; op {
		case vm.OpPush4:
			var value uint64
			for i, b := range bytecode[offset+1 : min(offset+5, len(bytecode))] {
				value |= uint64(b) << (8 * i)
			}
			stack = append(stack, value)
			offset += 5

		case vm.OpAdd:
			a := stack[len(stack)-1]
			b := stack[len(stack)-2]
			stack = append(stack[:len(stack)-2], a+b)
			offset++

		case vm.OpMul:
			a := stack[len(stack)-1]
			b := stack[len(stack)-2]
			stack = append(stack[:len(stack)-2], a*b)
			offset++

		case vm.OpByte:
			x := stack[len(stack)-1]
			i := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			if i >= 8 {
				stack = append(stack, 0)
			} else {
				stack = append(stack, (x>>(i*8))&0xFF)
			}
			offset++

		default:
			panic(fmt.Sprintf("unknown opcode: 0x%02X", op))
		}
	}

	return stack, nil
}
