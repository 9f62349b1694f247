package fuzz

import (
	"github.com/colorfulnotion/sloppyvm/expr"
	"github.com/colorfulnotion/sloppyvm/vm"
)

// Enumeration is the deterministic, exhaustive-within-bounds alternative
// to randomized generation: two invocations with identical parameters
// yield byte-identical, identically-ordered sequences, so suites are
// regenerable.

// BoundaryConstants are the constants used for boundary value analysis.
var BoundaryConstants = []uint32{
	0,          // zero
	1,          // one
	2,          // small value
	7,          // BYTE boundary (max valid index)
	8,          // BYTE boundary (first invalid index)
	0xFF,       // byte max
	0xFFFF,     // 16-bit max
	0xFFFFFFFF, // 32-bit max (PUSH4 max)
}

// MinimalConstants is the small constant set for compact suites.
var MinimalConstants = []uint32{0, 1, 7, 8}

// EnumerateExpressions exhaustively enumerates expressions of exactly the
// given depth bound. Depth 0 yields one Const per constant, in the given
// order. Depth d yields Add, Mul and Byte over the Cartesian product of
// the full depth-(d-1) enumeration (ordered pairs, no deduplication),
// followed by the constants again.
func EnumerateExpressions(depth int, constants []uint32) []expr.Expr {
	consts := make([]expr.Expr, len(constants))
	for i, c := range constants {
		consts[i] = expr.Const{Value: c}
	}
	if depth == 0 {
		return consts
	}

	subs := EnumerateExpressions(depth-1, constants)
	out := make([]expr.Expr, 0, 3*len(subs)*len(subs)+len(consts))
	for _, left := range subs {
		for _, right := range subs {
			out = append(out, expr.Add{Left: left, Right: right})
			out = append(out, expr.Mul{Left: left, Right: right})
			out = append(out, expr.Byte{Value: left, Index: right})
		}
	}
	return append(out, consts...)
}

// EnumerateExpressionPrograms compiles every expression enumerated at
// depths 0..maxDepth, in depth order.
func EnumerateExpressionPrograms(maxDepth int, constants []uint32) [][]byte {
	var out [][]byte
	for depth := 0; depth <= maxDepth; depth++ {
		for _, e := range EnumerateExpressions(depth, constants) {
			out = append(out, expr.CompileBytes(e))
		}
	}
	return out
}

// ByteBoundaryTests emits PUSH4(value), PUSH4(index), BYTE for a fixed set
// of representative values and indices 0..9, deliberately straddling the
// index=7 / index=8 edge where off-by-one bugs live.
func ByteBoundaryTests() [][]byte {
	testValues := []uint64{0, 1, 0xFF, 0xFFFF, 0xFFFFFFFF, 0x123456789ABCDEF}

	var out [][]byte
	for _, value := range testValues {
		for index := uint32(0); index < 10; index++ {
			out = append(out, vm.EncodeProgram([]vm.Instruction{
				vm.Push4{Value: uint32(value & 0xFFFFFFFF)},
				vm.Push4{Value: index},
				vm.Byte{},
			}))
		}
	}
	return out
}

// ArithmeticOverflowTests emits every ordered pair of large values through
// ADD and, separately, through MUL, to probe 64-bit wraparound.
func ArithmeticOverflowTests() [][]byte {
	largeValues := []uint32{0xFFFFFFFF, 0x80000000, 0x7FFFFFFF}

	var out [][]byte
	for _, v1 := range largeValues {
		for _, v2 := range largeValues {
			out = append(out, vm.EncodeProgram([]vm.Instruction{
				vm.Push4{Value: v1}, vm.Push4{Value: v2}, vm.Add{},
			}))
		}
	}
	for _, v1 := range largeValues {
		for _, v2 := range largeValues {
			out = append(out, vm.EncodeProgram([]vm.Instruction{
				vm.Push4{Value: v1}, vm.Push4{Value: v2}, vm.Mul{},
			}))
		}
	}
	return out
}

// StackUnderflowTests emits each operator with zero operands, then with
// exactly one operand for every minimal constant. Every case is guaranteed
// to fail with StackUnderflow under the reference semantics.
func StackUnderflowTests() [][]byte {
	out := [][]byte{
		vm.EncodeProgram([]vm.Instruction{vm.Add{}}),
		vm.EncodeProgram([]vm.Instruction{vm.Mul{}}),
		vm.EncodeProgram([]vm.Instruction{vm.Byte{}}),
	}
	for _, value := range MinimalConstants {
		out = append(out, vm.EncodeProgram([]vm.Instruction{vm.Push4{Value: value}, vm.Add{}}))
		out = append(out, vm.EncodeProgram([]vm.Instruction{vm.Push4{Value: value}, vm.Mul{}}))
		out = append(out, vm.EncodeProgram([]vm.Instruction{vm.Push4{Value: value}, vm.Byte{}}))
	}
	return out
}

// ComprehensiveSuite concatenates bounded expression enumeration (over the
// boundary constants) with the three targeted suites, deduplicated by
// exact byte identity in first-seen order. Fully deterministic.
func ComprehensiveSuite(maxExprDepth int) [][]byte {
	seen := make(map[string]bool)
	var out [][]byte

	add := func(cases [][]byte) {
		for _, bytecode := range cases {
			key := string(bytecode)
			if !seen[key] {
				seen[key] = true
				out = append(out, bytecode)
			}
		}
	}

	add(EnumerateExpressionPrograms(maxExprDepth, BoundaryConstants))
	add(ByteBoundaryTests())
	add(ArithmeticOverflowTests())
	add(StackUnderflowTests())
	return out
}
