package candidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colorfulnotion/sloppyvm/vm"
)

func TestDefaultRegistry(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{"v1", "v2", "v3", "v4"}, r.Versions())

	impl, err := r.Resolve("v3")
	require.NoError(t, err)
	assert.Equal(t, "v3", impl.Version())
}

func TestResolveUnknownVersion(t *testing.T) {
	r := Default()
	_, err := r.Resolve("v99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "v99")
	assert.Contains(t, err.Error(), "v1, v2, v3, v4")
}

func TestVersionOrderingNumeric(t *testing.T) {
	r := NewRegistry()
	r.Register(V4{})
	r.Register(named{"v10"})
	r.Register(V2{})
	assert.Equal(t, []string{"v2", "v4", "v10"}, r.Versions())
}

type named struct{ version string }

func (n named) Version() string                { return n.version }
func (named) Execute([]byte) ([]uint64, error) { return nil, nil }

func TestV4Conformance(t *testing.T) {
	// The repaired candidate agrees with the reference machine on the
	// canonical scenarios.
	program := vm.EncodeProgram([]vm.Instruction{
		vm.Push4{Value: 3}, vm.Push4{Value: 4}, vm.Add{}, vm.Push4{Value: 5}, vm.Mul{},
	})
	stack, err := V4{}.Execute(program)
	require.NoError(t, err)
	assert.Equal(t, []uint64{35}, stack)

	byteProg := vm.EncodeProgram([]vm.Instruction{
		vm.Push4{Value: 0x12345678}, vm.Push4{Value: 7}, vm.Byte{},
	})
	stack, err = V4{}.Execute(byteProg)
	require.NoError(t, err)
	assert.Equal(t, []uint64{0x78}, stack)

	_, err = V4{}.Execute([]byte{0xFF})
	assert.ErrorIs(t, err, vm.ErrInvalidInstruction)

	_, err = V4{}.Execute([]byte{0x01, 0x00, 0x00})
	assert.ErrorIs(t, err, vm.ErrInvalidInstruction)

	_, err = V4{}.Execute([]byte{0x02})
	assert.ErrorIs(t, err, vm.ErrStackUnderflow)
}

func TestV1Endianness(t *testing.T) {
	// v1 reads the PUSH4 operand little-endian; the divergence is visible
	// on any asymmetric operand.
	program := vm.EncodeProgram([]vm.Instruction{vm.Push4{Value: 0x12345678}})
	stack, err := V1{}.Execute(program)
	require.NoError(t, err)
	assert.Equal(t, []uint64{0x78563412}, stack)
}

func TestV1PanicsOnUnderflow(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = V1{}.Execute([]byte{0x02}) // ADD on empty stack
	})
}

func TestV1PanicsOnUnknownOpcode(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = V1{}.Execute([]byte{0xFF})
	})
}

func TestV3ByteBoundaryBug(t *testing.T) {
	// Index 7 is valid (least significant byte) but v3 treats it as out of
	// range and pushes 0.
	program := vm.EncodeProgram([]vm.Instruction{
		vm.Push4{Value: 0x12345678}, vm.Push4{Value: 7}, vm.Byte{},
	})
	stack, err := V3{}.Execute(program)
	require.NoError(t, err)
	assert.Equal(t, []uint64{0}, stack)

	// Indices below 7 are handled correctly.
	program = vm.EncodeProgram([]vm.Instruction{
		vm.Push4{Value: 0x12345678}, vm.Push4{Value: 6}, vm.Byte{},
	})
	stack, err = V3{}.Execute(program)
	require.NoError(t, err)
	assert.Equal(t, []uint64{0x56}, stack)
}

func TestV2ByteSemantics(t *testing.T) {
	// v2 pops BYTE operands in the wrong order, so the value 0xFF lands in
	// the index slot and trips the (also wrong) i >= 7 bound check. The
	// reference yields 0xFF here.
	program := vm.EncodeProgram([]vm.Instruction{
		vm.Push4{Value: 0xFF}, vm.Push4{Value: 7}, vm.Byte{},
	})
	stack, err := V2{}.Execute(program)
	require.NoError(t, err)
	assert.Equal(t, []uint64{0}, stack)
}
