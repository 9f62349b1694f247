package vm

import (
	"fmt"
	"strings"
)

// Disassemble renders a decoded program as a bracketed instruction list,
// e.g. "[PUSH4(3) PUSH4(4) ADD]".
func Disassemble(instrs []Instruction) string {
	parts := make([]string, len(instrs))
	for i, instr := range instrs {
		parts[i] = instr.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// DisassembleBytecode is the best-effort variant used by defect reports:
// it decodes instruction by instruction and stops at the first malformed
// record, appending a marker for the undecodable tail.
func DisassembleBytecode(data []byte) []string {
	var out []string
	offset := 0
	for offset < len(data) {
		instr, next, err := DecodeInstruction(data, offset)
		if err != nil {
			out = append(out, fmt.Sprintf("<undecodable from offset %d: % x>", offset, data[offset:]))
			return out
		}
		out = append(out, instr.String())
		offset = next
	}
	return out
}
