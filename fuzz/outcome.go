// Package fuzz is the differential-testing core: it generates SloppyVM
// bytecode (randomized and enumerative), runs the reference machine and a
// candidate implementation on identical input, and classifies divergence
// as discovered defects.
package fuzz

import "fmt"

// Outcome classifies one execution of a test input. The variant set is
// closed: Success, ExceptionThrown and Crash are the only implementations.
type Outcome interface {
	fmt.Stringer
	isOutcome()
}

// Success carries the final stack, bottom-to-top.
type Success struct {
	Stack []uint64
}

// ExceptionThrown is a failure in one of the recognized categories
// (invalid instruction, stack underflow).
type ExceptionThrown struct {
	Reason string
}

// Crash is any failure outside the recognized categories, including
// panics and contract violations by a candidate.
type Crash struct {
	Reason string
}

func (Success) isOutcome()         {}
func (ExceptionThrown) isOutcome() {}
func (Crash) isOutcome()           {}

func (o Success) String() string         { return fmt.Sprintf("Success(%v)", o.Stack) }
func (o ExceptionThrown) String() string { return fmt.Sprintf("ExceptionThrown(%s)", o.Reason) }
func (o Crash) String() string           { return fmt.Sprintf("Crash(%s)", o.Reason) }

// Kind returns the outcome kind name used in reports.
func Kind(o Outcome) string {
	switch o.(type) {
	case Success:
		return "success"
	case ExceptionThrown:
		return "exception"
	case Crash:
		return "crash"
	default:
		return "unknown"
	}
}

// Equivalent is the differential equivalence predicate: two outcomes match
// iff they are the same kind, and, only when both are Success, their
// stacks are identical element-for-element. Failure text is deliberately
// ignored so that differently-implemented candidates are judged solely on
// observable behavior.
func Equivalent(expected, actual Outcome) bool {
	switch exp := expected.(type) {
	case Success:
		act, ok := actual.(Success)
		if !ok || len(exp.Stack) != len(act.Stack) {
			return false
		}
		for i := range exp.Stack {
			if exp.Stack[i] != act.Stack[i] {
				return false
			}
		}
		return true
	case ExceptionThrown:
		_, ok := actual.(ExceptionThrown)
		return ok
	case Crash:
		_, ok := actual.(Crash)
		return ok
	default:
		return false
	}
}
