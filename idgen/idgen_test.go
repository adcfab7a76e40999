package idgen

import (
	"strings"
	"testing"
)

func TestNanoID_LengthAndAlphabet(t *testing.T) {
	gen := NanoID(8)
	seen := map[string]bool{}
	for range 100 {
		id := gen()
		if len(id) != 8 {
			t.Fatalf("len = %d, want 8", len(id))
		}
		for _, r := range id {
			if !strings.ContainsRune("0123456789abcdefghijklmnopqrstuvwxyz", r) {
				t.Fatalf("unexpected rune %q in %q", r, id)
			}
		}
		if seen[id] {
			t.Fatalf("duplicate ID %q in 100 draws", id)
		}
		seen[id] = true
	}
}

func TestUUIDv7_Sortable(t *testing.T) {
	// WHAT: consecutive UUIDv7 values sort in generation order.
	gen := UUIDv7()
	a, b := gen(), gen()
	if a >= b {
		t.Errorf("expected %q < %q", a, b)
	}
}

func TestPrefixed(t *testing.T) {
	gen := Prefixed("evt_", NanoID(6))
	id := gen()
	if !strings.HasPrefix(id, "evt_") {
		t.Errorf("id %q missing prefix", id)
	}
	if len(id) != 4+6 {
		t.Errorf("len = %d, want 10", len(id))
	}
}
