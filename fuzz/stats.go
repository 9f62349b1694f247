package fuzz

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/colorfulnotion/sloppyvm/log"
)

// Stats aggregates the counters of one fuzzing session. Counters are plain
// associative sums, so per-shard Stats merge without locking.
type Stats struct {
	Total            int `json:"total"`
	InvalidBytecodes int `json:"invalid_bytecodes"`
	BugsFound        int `json:"bugs_found"`
	Crashes          int `json:"crashes"`
}

// Ratio returns numerator/denominator rounded to 3 decimals, 0 when the
// denominator is 0.
func Ratio(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0.0
	}
	ratio := float64(numerator) / float64(denominator)
	return math.Round(ratio*1000) / 1000
}

// Merge adds another shard's counters into s.
func (s *Stats) Merge(other Stats) {
	s.Total += other.Total
	s.InvalidBytecodes += other.InvalidBytecodes
	s.BugsFound += other.BugsFound
	s.Crashes += other.Crashes
}

// Metrics returns the derived rates alongside the raw counters.
func (s *Stats) Metrics() map[string]interface{} {
	if s.Total == 0 {
		return nil
	}
	return map[string]interface{}{
		"counters": map[string]interface{}{
			"Total":            s.Total,
			"Valid":            s.Total - s.InvalidBytecodes,
			"InvalidBytecodes": s.InvalidBytecodes,
			"BugsFound":        s.BugsFound,
			"Crashes":          s.Crashes,
		},
		"rates": map[string]interface{}{
			"InvalidRate": Ratio(s.InvalidBytecodes, s.Total),
			"BugRate":     Ratio(s.BugsFound, s.Total),
			"CrashRate":   Ratio(s.Crashes, s.Total),
		},
	}
}

// DumpMetrics renders Metrics as indented JSON.
func (s *Stats) DumpMetrics() string {
	jsonBytes, err := json.MarshalIndent(s.Metrics(), "", "  ")
	if err != nil {
		log.Error(log.FuzzMonitoring, "Error marshalling metrics to JSON", "err", err)
		return "{}"
	}
	return string(jsonBytes)
}

// Summary renders the human-readable end-of-run block.
func (s *Stats) Summary() string {
	var b strings.Builder
	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString("Fuzzer Summary\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	fmt.Fprintf(&b, "Total tests run:           %d\n", s.Total)
	fmt.Fprintf(&b, "Invalid bytecodes:         %d\n", s.InvalidBytecodes)
	fmt.Fprintf(&b, "Valid:                     %d\n", s.Total-s.InvalidBytecodes)
	fmt.Fprintf(&b, "Bugs found:                %d\n", s.BugsFound)
	fmt.Fprintf(&b, "Impl crashes:              %d\n", s.Crashes)
	fmt.Fprintf(&b, "Correct:                   %d\n", s.Total-s.BugsFound)
	if s.BugsFound > 0 {
		fmt.Fprintf(&b, "Bug detection rate:        %.1f%%\n", Ratio(s.BugsFound, s.Total)*100)
	} else {
		b.WriteString("No bugs detected\n")
	}
	return b.String()
}
