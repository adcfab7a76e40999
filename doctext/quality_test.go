package doctext

import (
	"strings"
	"testing"
)

func TestPrintableRatio(t *testing.T) {
	if r := printableRatio("normal readable text"); r != 1.0 {
		t.Errorf("clean text ratio = %v, want 1.0", r)
	}
	garbage := strings.Repeat("�", 90) + "plain text"
	if r := printableRatio(garbage); r > 0.5 {
		t.Errorf("garbage ratio = %v, want low", r)
	}
}

func TestWordlikeRatio(t *testing.T) {
	if r := wordlikeRatio("the quick brown fox"); r != 1.0 {
		t.Errorf("wordlike = %v, want 1.0", r)
	}
	if r := wordlikeRatio("x8f2 9z1k q0mm3"); r != 0 {
		t.Errorf("noise wordlike = %v, want 0", r)
	}
	if r := wordlikeRatio(""); r != 0 {
		t.Errorf("empty wordlike = %v, want 0", r)
	}
}

func TestQuality_NeedsOCR(t *testing.T) {
	cases := []struct {
		name string
		q    Quality
		want bool
	}{
		{"healthy", Quality{CharsPerPage: 1200, PrintableRatio: 0.99}, false},
		{"scanned", Quality{CharsPerPage: 3, PrintableRatio: 0.99}, true},
		{"garbage encoding", Quality{CharsPerPage: 800, PrintableRatio: 0.4}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.q.NeedsOCR(); got != tc.want {
				t.Errorf("NeedsOCR = %v, want %v", got, tc.want)
			}
		})
	}
}
