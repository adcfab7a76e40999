package doctext

import (
	"strings"
	"unicode"
)

// Quality captures metrics about PDF text extraction quality. Scanned PDFs
// with no embedded text layer surface here instead of producing garbage
// profile fields downstream.
type Quality struct {
	PageCount      int     `json:"page_count"`
	CharsPerPage   float64 `json:"chars_per_page"`
	PrintableRatio float64 `json:"printable_ratio"`
	WordlikeRatio  float64 `json:"wordlike_ratio"`
}

// NeedsOCR reports whether the buffer likely needs real OCR: nearly no text
// per page, or mostly non-printable output.
func (q *Quality) NeedsOCR() bool {
	return q.CharsPerPage < 50 || q.PrintableRatio < 0.85
}

// printableRatio returns the ratio of printable characters in text.
// Excludes PUA U+E000..U+F8FF, control chars below U+0020 (except \n\r\t)
// and U+FFFD.
func printableRatio(text string) float64 {
	if len(text) == 0 {
		return 1.0
	}
	total, printable := 0, 0
	for _, r := range text {
		total++
		if isGarbageRune(r) {
			continue
		}
		if unicode.IsPrint(r) || r == '\n' || r == '\r' || r == '\t' {
			printable++
		}
	}
	if total == 0 {
		return 1.0
	}
	return float64(printable) / float64(total)
}

func isGarbageRune(r rune) bool {
	if r >= 0xE000 && r <= 0xF8FF {
		return true
	}
	if r == 0xFFFD {
		return true
	}
	if r < 0x0020 && r != '\n' && r != '\r' && r != '\t' {
		return true
	}
	return false
}

// wordlikeRatio returns the ratio of word-like tokens (2-15 letters) to
// total tokens.
func wordlikeRatio(text string) float64 {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return 0
	}
	wordlike := 0
	for _, tok := range tokens {
		n := 0
		ok := true
		for _, r := range tok {
			if unicode.IsLetter(r) {
				n++
			} else if !unicode.IsPunct(r) {
				ok = false
				break
			}
		}
		if ok && n >= 2 && n <= 15 {
			wordlike++
		}
	}
	return float64(wordlike) / float64(len(tokens))
}
