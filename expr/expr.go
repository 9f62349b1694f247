// Package expr builds arithmetic expression trees that compile to valid,
// underflow-free SloppyVM programs. Compiled expressions are the
// positive-path half of the fuzzing input space: they always decode and
// always execute successfully.
package expr

import (
	"fmt"

	"github.com/colorfulnotion/sloppyvm/vm"
)

// Expr is an immutable expression tree node. The variant set is closed:
// Const, Add, Mul and Byte are the only implementations.
type Expr interface {
	isExpr()
}

// Const is a 32-bit unsigned constant leaf.
type Const struct {
	Value uint32
}

// Add is the sum of two subexpressions.
type Add struct {
	Left, Right Expr
}

// Mul is the product of two subexpressions.
type Mul struct {
	Left, Right Expr
}

// Byte extracts a byte from Value at position Index.
type Byte struct {
	Value, Index Expr
}

func (Const) isExpr() {}
func (Add) isExpr()   {}
func (Mul) isExpr()   {}
func (Byte) isExpr()  {}

// Compile lowers an expression tree to instructions by post-order
// traversal: operands first, operator last. The ordering guarantees every
// operator finds exactly its operands on the stack, so compiled programs
// are underflow-free by construction.
func Compile(e Expr) []vm.Instruction {
	switch ex := e.(type) {
	case Const:
		return []vm.Instruction{vm.Push4{Value: ex.Value}}
	case Add:
		return append(append(Compile(ex.Left), Compile(ex.Right)...), vm.Add{})
	case Mul:
		return append(append(Compile(ex.Left), Compile(ex.Right)...), vm.Mul{})
	case Byte:
		return append(append(Compile(ex.Value), Compile(ex.Index)...), vm.Byte{})
	default:
		panic(fmt.Sprintf("unknown expression type: %T", e))
	}
}

// CompileBytes lowers an expression straight to bytecode.
func CompileBytes(e Expr) []byte {
	return vm.EncodeProgram(Compile(e))
}
