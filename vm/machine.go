package vm

import "fmt"

// State is the machine state: a LIFO stack of unsigned 64-bit values.
// States have value semantics: Step never mutates its receiver, it returns
// a fresh State. A faulting instruction can therefore never be blamed for
// partial mutation of a state another holder still references.
type State struct {
	stack []uint64
}

// NewState builds a state from an initial stack, bottom-to-top. The input
// slice is copied.
func NewState(initial []uint64) State {
	stack := make([]uint64, len(initial))
	copy(stack, initial)
	return State{stack: stack}
}

// Stack returns the stack bottom-to-top as a fresh slice.
func (s State) Stack() []uint64 {
	out := make([]uint64, len(s.stack))
	copy(out, s.stack)
	return out
}

// Depth returns the number of values on the stack.
func (s State) Depth() int { return len(s.stack) }

func (s State) push(v uint64) State {
	stack := make([]uint64, len(s.stack), len(s.stack)+1)
	copy(stack, s.stack)
	return State{stack: append(stack, v)}
}

// pop2 removes the top two values, returning them as (next, top).
func (s State) pop2() (State, uint64, uint64) {
	n := len(s.stack)
	stack := make([]uint64, n-2)
	copy(stack, s.stack[:n-2])
	return State{stack: stack}, s.stack[n-2], s.stack[n-1]
}

// Step executes one instruction over s and returns the resulting state.
func (s State) Step(instr Instruction) (State, error) {
	switch in := instr.(type) {
	case Push4:
		return s.push(uint64(in.Value)), nil

	case Add:
		if s.Depth() < 2 {
			return State{}, fmt.Errorf("%w: ADD requires 2 stack elements", ErrStackUnderflow)
		}
		rest, a, b := s.pop2()
		return rest.push(a + b), nil // native uint64 wrap is the mod 2^64 semantics

	case Mul:
		if s.Depth() < 2 {
			return State{}, fmt.Errorf("%w: MUL requires 2 stack elements", ErrStackUnderflow)
		}
		rest, a, b := s.pop2()
		return rest.push(a * b), nil

	case Byte:
		if s.Depth() < 2 {
			return State{}, fmt.Errorf("%w: BYTE requires 2 stack elements", ErrStackUnderflow)
		}
		rest, x, i := s.pop2()
		if i >= 8 {
			return rest.push(0), nil
		}
		// Index 0 is the most significant byte, 7 the least significant.
		return rest.push((x >> ((7 - i) * 8)) & 0xFF), nil

	default:
		// Unreachable via the codec, but dispatch must stay total.
		return State{}, fmt.Errorf("%w: unknown instruction type %T", ErrInvalidInstruction, instr)
	}
}

// Execute applies instructions left-to-right starting from initial. The
// first failing instruction aborts the run; no instructions after it
// execute.
func Execute(instrs []Instruction, initial State) (State, error) {
	state := initial
	for _, instr := range instrs {
		next, err := state.Step(instr)
		if err != nil {
			return State{}, err
		}
		state = next
	}
	return state, nil
}

// Run decodes bytecode and executes it from an empty stack.
func Run(bytecode []byte) (State, error) {
	instrs, err := DecodeProgram(bytecode)
	if err != nil {
		return State{}, err
	}
	return Execute(instrs, NewState(nil))
}
