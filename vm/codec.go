package vm

import (
	"encoding/binary"
	"fmt"
)

// EncodeInstruction serializes a single instruction.
//
// Wire format:
//
//	PUSH4: [0x01] [value: 4 bytes big-endian]  (5 bytes total)
//	ADD:   [0x02]                              (1 byte)
//	MUL:   [0x03]                              (1 byte)
//	BYTE:  [0x04]                              (1 byte)
func EncodeInstruction(instr Instruction) []byte {
	switch in := instr.(type) {
	case Push4:
		buf := make([]byte, 5)
		buf[0] = OpPush4
		binary.BigEndian.PutUint32(buf[1:], in.Value)
		return buf
	case Add:
		return []byte{OpAdd}
	case Mul:
		return []byte{OpMul}
	case Byte:
		return []byte{OpByte}
	default:
		// Unreachable for the closed variant set.
		panic(fmt.Sprintf("unknown instruction: %v", instr))
	}
}

// EncodeProgram serializes a program as the concatenation of its
// instruction encodings, in order. No header, no length prefix.
func EncodeProgram(instrs []Instruction) []byte {
	out := make([]byte, 0, len(instrs))
	for _, instr := range instrs {
		out = append(out, EncodeInstruction(instr)...)
	}
	return out
}

// DecodeInstruction decodes a single instruction starting at offset and
// returns it together with the offset of the next instruction.
func DecodeInstruction(data []byte, offset int) (Instruction, int, error) {
	if offset >= len(data) {
		return nil, 0, fmt.Errorf("%w: cannot decode from empty or truncated bytecode (offset %d, length %d)",
			ErrInvalidInstruction, offset, len(data))
	}

	switch opcode := data[offset]; opcode {
	case OpPush4:
		if offset+5 > len(data) {
			return nil, 0, fmt.Errorf("%w: truncated PUSH4 at offset %d: need 5 bytes, have %d",
				ErrInvalidInstruction, offset, len(data)-offset)
		}
		value := binary.BigEndian.Uint32(data[offset+1 : offset+5])
		return Push4{Value: value}, offset + 5, nil
	case OpAdd:
		return Add{}, offset + 1, nil
	case OpMul:
		return Mul{}, offset + 1, nil
	case OpByte:
		return Byte{}, offset + 1, nil
	default:
		return nil, 0, fmt.Errorf("%w: unknown opcode 0x%02X at offset %d",
			ErrInvalidInstruction, opcode, offset)
	}
}

// DecodeProgram decodes bytecode into an instruction list. Decoding is
// all-or-nothing: the first failure aborts the whole decode and no partial
// instruction list is ever returned. This keeps "malformed bytecode"
// cleanly separated from "well-formed but semantically failing bytecode"
// for outcome classification.
func DecodeProgram(data []byte) ([]Instruction, error) {
	var instrs []Instruction
	offset := 0
	for offset < len(data) {
		instr, next, err := DecodeInstruction(data, offset)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, instr)
		offset = next
	}
	return instrs, nil
}
