package fuzz

import (
	"fmt"
	"math/rand"

	"github.com/colorfulnotion/sloppyvm/expr"
	"github.com/colorfulnotion/sloppyvm/vm"
)

// Generator defaults shared by the four strategies.
const (
	DefaultMaxLength       = 20 // unstructured random buffers
	DefaultMaxInstructions = 10 // structure-aware programs
	DefaultMaxExprDepth    = 3  // expression-based programs
)

// defaultConstPool is the small constant pool of the default expression
// generator: single digits plus the PUSH4 maximum.
var defaultConstPool = []uint32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, vm.MaxPush4Value}

// Generator produces one candidate input buffer per invocation. Strategies
// share no state beyond the injected random source.
type Generator func(rng *rand.Rand) []byte

// RandomBytes generates a completely unstructured buffer: length uniform
// in [1, maxLength], independently uniform bytes. Mostly exercises
// decode-failure paths since most byte values are not valid opcodes.
func RandomBytes(rng *rand.Rand, maxLength int) []byte {
	buf := make([]byte, rng.Intn(maxLength)+1)
	for i := range buf {
		buf[i] = byte(rng.Intn(256))
	}
	return buf
}

// Structure-aware instruction weights.
const (
	wPush4 = 0.45
	wAdd   = 0.20
	wMul   = 0.17
	wByte  = 0.15
	// Invalid opcode takes the remaining 0.03.

	pTruncatePush4 = 0.05
)

// StructureAware generates up to maxInstructions instructions by weighted
// choice, mixing syntactically valid (but possibly underflowing) programs
// with malformed ones. Two deliberate early stops shape the distribution:
// a truncated PUSH4 operand (the malformed tail is always last) and an
// invalid opcode byte. The policy is what fixes the malformed-vs-valid
// ratio that candidate bug-detection rates are compared on.
func StructureAware(rng *rand.Rand, maxInstructions int) []byte {
	var out []byte
	numInstructions := rng.Intn(maxInstructions) + 1

	for i := 0; i < numInstructions; i++ {
		switch roll := rng.Float64(); {
		case roll < wPush4:
			operand := vm.EncodeInstruction(vm.Push4{Value: rng.Uint32()})
			if rng.Float64() < pTruncatePush4 {
				keep := rng.Intn(3) + 1 // 1-3 operand bytes
				return append(out, operand[:1+keep]...)
			}
			out = append(out, operand...)

		case roll < wPush4+wAdd:
			out = append(out, vm.OpAdd)

		case roll < wPush4+wAdd+wMul:
			out = append(out, vm.OpMul)

		case roll < wPush4+wAdd+wMul+wByte:
			out = append(out, vm.OpByte)

		default:
			return append(out, invalidOpcode(rng))
		}
	}
	return out
}

// invalidOpcode draws uniformly from the 252 byte values outside the valid
// opcode set: 0x00 and 0x05..0xFF.
func invalidOpcode(rng *rand.Rand) byte {
	pick := rng.Intn(252)
	if pick == 0 {
		return 0x00
	}
	return byte(0x04 + pick)
}

// Expression generates guaranteed-valid, underflow-free bytecode by
// compiling one synthesized expression tree. fullRange selects uniform
// 32-bit constants; otherwise constants come from the small default pool.
func Expression(rng *rand.Rand, maxDepth int, fullRange bool) []byte {
	constGen := expr.PoolConst(defaultConstPool)
	if fullRange {
		constGen = expr.UniformConst
	}
	return expr.CompileBytes(expr.Random(rng, maxDepth, constGen))
}

// Mixed selects uniformly among the other three families (expression in
// both constant modes) to balance negative-path and positive-path coverage.
func Mixed(rng *rand.Rand, maxInstructions int) []byte {
	switch roll := rng.Float64(); {
	case roll < 0.25:
		return RandomBytes(rng, DefaultMaxLength)
	case roll < 0.50:
		return StructureAware(rng, maxInstructions)
	case roll < 0.75:
		return Expression(rng, DefaultMaxExprDepth, false)
	default:
		return Expression(rng, DefaultMaxExprDepth, true)
	}
}

// Generator selector names accepted at the harness boundary.
const (
	GenRandom     = "random"
	GenStructured = "structured"
	GenExpression = "expression"
	GenMixed      = "mixed"
)

// ForName resolves a generator family by selector name, with the default
// parameters.
func ForName(name string) (Generator, error) {
	switch name {
	case GenRandom:
		return func(rng *rand.Rand) []byte { return RandomBytes(rng, DefaultMaxLength) }, nil
	case GenStructured:
		return func(rng *rand.Rand) []byte { return StructureAware(rng, DefaultMaxInstructions) }, nil
	case GenExpression:
		return func(rng *rand.Rand) []byte { return Expression(rng, DefaultMaxExprDepth, false) }, nil
	case GenMixed:
		return func(rng *rand.Rand) []byte { return Mixed(rng, DefaultMaxInstructions) }, nil
	default:
		return nil, fmt.Errorf("%w: unknown generator %q (use %s, %s, %s or %s)",
			errInvalidConfig, name, GenRandom, GenStructured, GenExpression, GenMixed)
	}
}
