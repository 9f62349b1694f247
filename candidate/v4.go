package candidate

import (
	"encoding/binary"
	"fmt"

	"github.com/colorfulnotion/sloppyvm/vm"
)

// V4 is the fully repaired candidate. It still interleaves decode and
// execute in a single pass (unlike the reference machine's decode-then-run
// split), which is exactly the structural difference the outcome
// classifier is designed to absorb.
type V4 struct{}

// Version implements Implementation.
func (V4) Version() string { return "v4" }

// Execute implements Implementation.
func (V4) Execute(bytecode []byte) ([]uint64, error) {
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
			if i >= 8 {
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
