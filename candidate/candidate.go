// Package candidate defines the capability contract a SloppyVM
// implementation under test exposes to the harness, plus an explicit
// registry of known implementations. The harness never inspects how a
// candidate is built or loaded; it only invokes Execute and classifies
// the result.
package candidate

// Implementation is the single capability a candidate exposes: execute
// bytecode and either return the final stack (bottom-to-top) or fail.
// Failures tagged with vm.ErrInvalidInstruction or vm.ErrStackUnderflow
// are classified as recognized exceptions; any other failure, including a
// panic, is classified as a crash.
type Implementation interface {
	// Version returns the candidate's version identifier, e.g. "v1".
	Version() string

	// Execute runs bytecode from an empty stack and returns the final
	// stack bottom-to-top.
	Execute(bytecode []byte) ([]uint64, error)
}
