package fuzz

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/colorfulnotion/sloppyvm/common"
	"github.com/colorfulnotion/sloppyvm/vm"
)

// OutcomeRecord is the JSON-friendly projection of an Outcome used in
// persisted reports.
type OutcomeRecord struct {
	Kind   string   `json:"kind"`
	Stack  []uint64 `json:"stack,omitempty"`
	Reason string   `json:"reason,omitempty"`
}

func recordOutcome(o Outcome) OutcomeRecord {
	switch out := o.(type) {
	case Success:
		return OutcomeRecord{Kind: Kind(o), Stack: out.Stack}
	case ExceptionThrown:
		return OutcomeRecord{Kind: Kind(o), Reason: out.Reason}
	case Crash:
		return OutcomeRecord{Kind: Kind(o), Reason: out.Reason}
	default:
		return OutcomeRecord{Kind: Kind(o)}
	}
}

// Report captures one divergence between the reference machine and a
// candidate: the exact input bytes, a best-effort disassembly, and both
// outcomes verbatim.
type Report struct {
	TestIndex    int           `json:"test_index"`
	Version      string        `json:"version"`
	Input        string        `json:"input"` // hex-encoded bytecode
	Instructions []string      `json:"instructions,omitempty"`
	Expected     OutcomeRecord `json:"expected"`
	Actual       OutcomeRecord `json:"actual"`
}

// NewReport builds a defect report for one mismatching test case.
func NewReport(testIndex int, bytecode []byte, version string, expected, actual Outcome) Report {
	return Report{
		TestIndex:    testIndex,
		Version:      version,
		Input:        common.ToHex(bytecode),
		Instructions: vm.DisassembleBytecode(bytecode),
		Expected:     recordOutcome(expected),
		Actual:       recordOutcome(actual),
	}
}

// Bytecode returns the report's input bytes.
func (r Report) Bytecode() []byte {
	return common.FromHex(r.Input)
}

// JSON serializes the report for corpus persistence.
func (r Report) JSON() ([]byte, error) {
	return json.Marshal(r)
}

func (rec OutcomeRecord) String() string {
	switch rec.Kind {
	case "success":
		return fmt.Sprintf("Success(%v)", rec.Stack)
	case "exception":
		return fmt.Sprintf("ExceptionThrown(%s)", rec.Reason)
	case "crash":
		return fmt.Sprintf("Crash(%s)", rec.Reason)
	default:
		return rec.Kind
	}
}

// String renders the report the way the console shows it.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%sTest %d: Bug found (%s)%s\n", common.ColorRed, r.TestIndex+1, r.Version, common.ColorReset)
	fmt.Fprintf(&b, "  Bytecode: %s\n", r.Input)
	if len(r.Instructions) > 0 {
		fmt.Fprintf(&b, "    [%s]\n", strings.Join(r.Instructions, " "))
	}
	fmt.Fprintf(&b, "  Expected: %s%s%s\n", common.ColorGreen, r.Expected, common.ColorReset)
	fmt.Fprintf(&b, "  Actual:   %s%s%s", common.ColorYellow, r.Actual, common.ColorReset)
	return b.String()
}
