package fuzz

import (
	"errors"
	"fmt"

	"github.com/colorfulnotion/sloppyvm/candidate"
	"github.com/colorfulnotion/sloppyvm/log"
	"github.com/colorfulnotion/sloppyvm/vm"
)

// invalidBytecodeReason is the canonical reason for a decode failure; the
// classifier treats all decode failures as one equivalence class.
const invalidBytecodeReason = "invalid bytecode"

// RunReference executes bytecode under the reference semantics. Both
// taxonomy errors map to ExceptionThrown: decode failures carry the
// canonical invalid-bytecode reason (and invalid=true), execution failures
// carry the underlying error text.
func RunReference(bytecode []byte) (out Outcome, invalid bool) {
	instrs, err := vm.DecodeProgram(bytecode)
	if err != nil {
		log.Trace(log.VMMonitoring, "decode failed", "err", err)
		return ExceptionThrown{Reason: invalidBytecodeReason}, true
	}
	state, err := vm.Execute(instrs, vm.NewState(nil))
	if err != nil {
		log.Trace(log.VMMonitoring, "execution failed", "err", err)
		return ExceptionThrown{Reason: err.Error()}, false
	}
	log.Trace(log.VMMonitoring, "execution ok", "instructions", len(instrs), "depth", state.Depth())
	return Success{Stack: state.Stack()}, false
}

// RunCandidate executes bytecode with a candidate implementation and maps
// its behavior into an Outcome. Errors tagged with one of the recognized
// taxonomy categories become ExceptionThrown; untagged errors and panics
// become Crash.
func RunCandidate(bytecode []byte, impl candidate.Implementation) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Crash{Reason: fmt.Sprintf("implementation panicked: %v", r)}
		}
	}()

	stack, err := impl.Execute(bytecode)
	if err != nil {
		if vm.IsTaxonomyError(err) {
			return ExceptionThrown{Reason: err.Error()}
		}
		return Crash{Reason: fmt.Sprintf("implementation failed: %v", err)}
	}
	return Success{Stack: stack}
}

// errInvalidConfig tags generation-phase contract violations, which are
// fatal to a whole run rather than per-test-case outcomes.
var errInvalidConfig = errors.New("invalid fuzzing configuration")
