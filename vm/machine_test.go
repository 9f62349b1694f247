package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteArithmetic(t *testing.T) {
	// (3 + 4) * 5 = 35
	program := []Instruction{Push4{Value: 3}, Push4{Value: 4}, Add{}, Push4{Value: 5}, Mul{}}
	state, err := Execute(program, NewState(nil))
	require.NoError(t, err)
	assert.Equal(t, []uint64{35}, state.Stack())
}

func TestNumericClosure(t *testing.T) {
	maxU64 := uint64(0xFFFFFFFFFFFFFFFF)

	state, err := Execute([]Instruction{Add{}}, NewState([]uint64{maxU64, 2}))
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, state.Stack(), "ADD wraps mod 2^64")

	state, err = Execute([]Instruction{Mul{}}, NewState([]uint64{maxU64, 2}))
	require.NoError(t, err)
	assert.Equal(t, []uint64{maxU64 - 1}, state.Stack(), "MUL wraps mod 2^64")
}

func TestByteExtraction(t *testing.T) {
	testCases := []struct {
		value    uint64
		index    uint64
		expected uint64
	}{
		{0x12345678, 7, 0x78},
		{0x12345678, 4, 0x12},
		{0x12345678, 5, 0x34},
		{0x0102030405060708, 0, 0x01},
		{0x0102030405060708, 7, 0x08},
		{0xFFFFFFFFFFFFFFFF, 3, 0xFF},
		{0x12345678, 8, 0},
		{0x12345678, 9, 0},
		{0x12345678, 0xFFFFFFFFFFFFFFFF, 0},
	}

	for _, tc := range testCases {
		state, err := Execute([]Instruction{Byte{}}, NewState([]uint64{tc.value, tc.index}))
		require.NoError(t, err)
		assert.Equal(t, []uint64{tc.expected}, state.Stack(),
			"BYTE(%#x, %d)", tc.value, tc.index)
	}
}

func TestStackUnderflow(t *testing.T) {
	testCases := []struct {
		name    string
		program []Instruction
		initial []uint64
	}{
		{"add on empty stack", []Instruction{Add{}}, nil},
		{"mul on empty stack", []Instruction{Mul{}}, nil},
		{"byte on empty stack", []Instruction{Byte{}}, nil},
		{"add with one operand", []Instruction{Push4{Value: 7}, Add{}}, nil},
		{"mul with one operand", []Instruction{Mul{}}, []uint64{1}},
		{"byte with one operand", []Instruction{Byte{}}, []uint64{1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Execute(tc.program, NewState(tc.initial))
			assert.ErrorIs(t, err, ErrStackUnderflow)
		})
	}
}

func TestFirstFailureAborts(t *testing.T) {
	// The ADD faults with one operand; the trailing PUSH4 must not run.
	program := []Instruction{Push4{Value: 7}, Add{}, Push4{Value: 1}}
	_, err := Execute(program, NewState(nil))
	assert.ErrorIs(t, err, ErrStackUnderflow)
}

func TestStepValueSemantics(t *testing.T) {
	before := NewState([]uint64{1, 2})

	after, err := before.Step(Add{})
	require.NoError(t, err)

	// The pre-step state is untouched by the step.
	assert.Equal(t, []uint64{1, 2}, before.Stack())
	assert.Equal(t, []uint64{3}, after.Stack())

	// Mutating a returned stack copy never aliases the state.
	stack := after.Stack()
	stack[0] = 99
	assert.Equal(t, []uint64{3}, after.Stack())
}

func TestRunBytecode(t *testing.T) {
	state, err := Run(EncodeProgram([]Instruction{Push4{Value: 3}, Push4{Value: 4}, Add{}, Push4{Value: 5}, Mul{}}))
	require.NoError(t, err)
	assert.Equal(t, []uint64{35}, state.Stack())

	_, err = Run([]byte{0xFF})
	assert.ErrorIs(t, err, ErrInvalidInstruction)

	_, err = Run([]byte{0x01, 0x00, 0x00})
	assert.ErrorIs(t, err, ErrInvalidInstruction)

	_, err = Run(EncodeProgram([]Instruction{Push4{Value: 7}, Add{}}))
	assert.ErrorIs(t, err, ErrStackUnderflow)
}

func TestDisassembleBytecode(t *testing.T) {
	lines := DisassembleBytecode(EncodeProgram([]Instruction{Push4{Value: 3}, Add{}}))
	assert.Equal(t, []string{"PUSH4(3)", "ADD"}, lines)

	lines = DisassembleBytecode([]byte{0x02, 0xFF})
	require.Len(t, lines, 2)
	assert.Equal(t, "ADD", lines[0])
	assert.Contains(t, lines[1], "undecodable")
}
