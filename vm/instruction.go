package vm

import "fmt"

// Opcode is the one-byte instruction tag on the wire.
type Opcode = byte

const (
	OpPush4 Opcode = 0x01 // push a 4-byte big-endian value
	OpAdd   Opcode = 0x02 // pop two, push sum mod 2^64
	OpMul   Opcode = 0x03 // pop two, push product mod 2^64
	OpByte  Opcode = 0x04 // pop index and value, push extracted byte
)

// MaxPush4Value is the largest value a PUSH4 operand can carry.
const MaxPush4Value = 0xFFFFFFFF

// Instruction is a single decoded SloppyVM instruction. The variant set is
// closed: Push4, Add, Mul and Byte are the only implementations, and every
// dispatch over Instruction must handle all four plus an internal-consistency
// default.
type Instruction interface {
	fmt.Stringer
	isInstruction()
}

// Push4 pushes its 32-bit operand onto the stack, widened to 64 bits.
type Push4 struct {
	Value uint32
}

// Add pops two values and pushes their sum mod 2^64.
type Add struct{}

// Mul pops two values and pushes their product mod 2^64.
type Mul struct{}

// Byte pops an index i and a value x, and pushes the i-th big-endian byte
// of x (index 0 is the most significant byte), or 0 when i >= 8.
type Byte struct{}

func (Push4) isInstruction() {}
func (Add) isInstruction()   {}
func (Mul) isInstruction()   {}
func (Byte) isInstruction()  {}

func (p Push4) String() string { return fmt.Sprintf("PUSH4(%d)", p.Value) }
func (Add) String() string     { return "ADD" }
func (Mul) String() string     { return "MUL" }
func (Byte) String() string    { return "BYTE" }

// NewPush4 validates the operand range before constructing a Push4. Passing
// a value above MaxPush4Value is a caller contract violation, not a decode
// failure.
func NewPush4(value uint64) (Push4, error) {
	if value > MaxPush4Value {
		return Push4{}, fmt.Errorf("PUSH4 value must be 0-0x%08X, got %d", MaxPush4Value, value)
	}
	return Push4{Value: uint32(value)}, nil
}
