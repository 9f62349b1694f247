package candidate

import (
	"encoding/binary"
	"fmt"

	"github.com/colorfulnotion/sloppyvm/vm"
)

// V3 fixes the V2 pop order and shift direction for BYTE, but keeps an
// off-by-one in the bound check: i >= 7 instead of i >= 8, so extracting
// the least significant byte wrongly yields 0.
type V3 struct{}

// Version implements Implementation.
func (V3) Version() string { return "v3" }

// Execute implements Implementation.
func (V3) Execute(bytecode []byte) ([]uint64, error) {
	var stack []uint64
	offset := 0

	for offset < len(bytecode) {
		switch op := bytecode[offset]; op {
		case vm.OpPush4:
			if offset+5 > len(bytecode) {
				return nil, fmt.Errorf("%w: truncated PUSH4 at offset %d: need 5 bytes, have %d",
					vm.ErrInvalidInstruction, offset, len(bytecode)-offset)
			}
			stack = append(stack, uint64(binary.BigEndian.Uint32(bytecode[offset+1:offset+5])))
			offset += 5

		case vm.OpAdd:
			if len(stack) < 2 {
				return nil, fmt.Errorf("%w: ADD requires 2 stack elements", vm.ErrStackUnderflow)
			}
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = append(stack[:len(stack)-2], a+b)
			offset++

		case vm.OpMul:
			if len(stack) < 2 {
				return nil, fmt.Errorf("%w: MUL requires 2 stack elements", vm.ErrStackUnderflow)
			}
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = append(stack[:len(stack)-2], a*b)
			offset++

		case vm.OpByte:
			if len(stack) < 2 {
				return nil, fmt.Errorf("%w: BYTE requires 2 stack elements", vm.ErrStackUnderflow)
			}
			i := stack[len(stack)-1]
			x := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			if i >= 7 {
				stack = append(stack, 0)
			} else {
				stack = append(stack, (x>>((7-i)*8))&0xFF)
			}
			offset++

		default:
			return nil, fmt.Errorf("%w: unknown opcode 0x%02X at offset %d",
				vm.ErrInvalidInstruction, op, offset)
		}
	}

	return stack, nil
}
