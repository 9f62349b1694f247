package candidate

import (
	"fmt"

	"github.com/colorfulnotion/sloppyvm/vm"
)

// V2 fixes the crash behavior of V1: unknown opcodes, truncated operands
// and stack underflow all fail with tagged errors the harness recognizes.
// The BYTE instruction semantics are still wrong: operands are popped in
// the wrong order, the bound check is i >= 7 and the shift is i*8.
type V2 struct{}

// Version implements Implementation.
func (V2) Version() string { return "v2" }

// Execute implements Implementation.
func (V2) Execute(bytecode []byte) ([]uint64, error) {
	var stack []uint64
	offset := 0

	for offset < len(bytecode) {
		switch op := bytecode[offset]; op {
		case vm.OpPush4:
			if offset+5 > len(bytecode) {
				return nil, fmt.Errorf("%w: truncated PUSH4 at offset %d: need 5 bytes, have %d",
					vm.ErrInvalidInstruction, offset, len(bytecode)-offset)
			}
			var value uint64
			for _, b := range bytecode[offset+1 : offset+5] {
				value = value<<8 | uint64(b)
			}
			stack = append(stack, value)
			offset += 5

		case vm.OpAdd:
			if len(stack) < 2 {
				return nil, fmt.Errorf("%w: ADD requires 2 stack elements", vm.ErrStackUnderflow)
			}
			a := stack[len(stack)-1]
			b := stack[len(stack)-2]
			stack = append(stack[:len(stack)-2], a+b)
			offset++

		case vm.OpMul:
			if len(stack) < 2 {
				return nil, fmt.Errorf("%w: MUL requires 2 stack elements", vm.ErrStackUnderflow)
			}
			a := stack[len(stack)-1]
			b := stack[len(stack)-2]
			stack = append(stack[:len(stack)-2], a*b)
			offset++

		case vm.OpByte:
			if len(stack) < 2 {
				return nil, fmt.Errorf("%w: BYTE requires 2 stack elements", vm.ErrStackUnderflow)
			}
			x := stack[len(stack)-1]
			i := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			if i >= 7 {
				stack = append(stack, 0)
			} else {
				stack = append(stack, (x>>(i*8))&0xFF)
			}
			offset++

		default:
			return nil, fmt.Errorf("%w: unknown opcode 0x%02X at offset %d",
				vm.ErrInvalidInstruction, op, offset)
		}
	}

	return stack, nil
}
