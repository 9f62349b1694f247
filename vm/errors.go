package vm

import "errors"

// Error taxonomy of the reference semantics. InvalidInstruction is raised
// only while decoding bytecode, never during execution of an already
// decoded program. StackUnderflow is raised only during execution.
var (
	ErrInvalidInstruction = errors.New("InvalidInstruction")
	ErrStackUnderflow     = errors.New("StackUnderflow")
)

// IsTaxonomyError reports whether err belongs to one of the two recognized
// failure categories. Candidates tag their failures with these sentinels;
// anything untagged is classified as a crash by the harness.
func IsTaxonomyError(err error) bool {
	return errors.Is(err, ErrInvalidInstruction) || errors.Is(err, ErrStackUnderflow)
}
