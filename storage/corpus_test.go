package storage

import (
	"testing"
)

func TestCorpusStore_BasicOperations(t *testing.T) {
	// Create in-memory store
	cs, err := NewMemoryCorpusStore()
	if err != nil {
		t.Fatalf("Failed to create memory store: %v", err)
	}
	defer cs.Close()

	input := []byte{0x01, 0x00, 0x00, 0x00, 0x07}
	report := []byte(`{"version":"v1"}`)

	if err := cs.SaveDefect(input, report); err != nil {
		t.Fatalf("SaveDefect failed: %v", err)
	}

	got, found, err := cs.GetDefect(input)
	if err != nil {
		t.Fatalf("GetDefect failed: %v", err)
	}
	if !found {
		t.Fatal("Expected defect to be found")
	}
	if string(got) != string(report) {
		t.Errorf("GetDefect returned %q, want %q", got, report)
	}

	// Non-existent input
	_, found, err = cs.GetDefect([]byte{0x02})
	if err != nil {
		t.Fatalf("GetDefect non-existent failed: %v", err)
	}
	if found {
		t.Error("Expected defect not to be found")
	}
}

func TestCorpusStore_DeduplicatesByInput(t *testing.T) {
	cs, err := NewMemoryCorpusStore()
	if err != nil {
		t.Fatalf("Failed to create memory store: %v", err)
	}
	defer cs.Close()

	input := []byte{0x03}
	if err := cs.SaveDefect(input, []byte("first")); err != nil {
		t.Fatalf("SaveDefect failed: %v", err)
	}
	if err := cs.SaveDefect(input, []byte("second")); err != nil {
		t.Fatalf("SaveDefect failed: %v", err)
	}

	n, err := cs.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Count returned %d, want 1", n)
	}

	got, _, err := cs.GetDefect(input)
	if err != nil {
		t.Fatalf("GetDefect failed: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("Expected latest report to win, got %q", got)
	}
}

func TestCorpusStore_DefectsOrdering(t *testing.T) {
	cs, err := NewMemoryCorpusStore()
	if err != nil {
		t.Fatalf("Failed to create memory store: %v", err)
	}
	defer cs.Close()

	// Insert out of key order; iteration must come back sorted by input hex.
	inputs := [][]byte{{0x04}, {0x01}, {0x03}}
	for _, input := range inputs {
		if err := cs.SaveDefect(input, []byte{input[0]}); err != nil {
			t.Fatalf("SaveDefect failed: %v", err)
		}
	}

	reports, err := cs.Defects()
	if err != nil {
		t.Fatalf("Defects failed: %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("Defects returned %d reports, want 3", len(reports))
	}
	want := []byte{0x01, 0x03, 0x04}
	for i, report := range reports {
		if len(report) != 1 || report[0] != want[i] {
			t.Errorf("Defects[%d] = %x, want %x", i, report, want[i])
		}
	}
}
