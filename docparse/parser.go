// Package docparse extracts candidate profile fields from an unstructured
// block of recognized document text. It is pure pattern heuristics: no model,
// no I/O, deterministic for a given input.
//
// Categories run in fixed priority order and each keeps its first match.
// A category with no match is simply absent from the result.
package docparse

import (
	"regexp"
	"strings"

	"github.com/hazyhaar/formfill/schema"
)

var (
	nameRe    = regexp.MustCompile(`^[A-Z][a-zA-Z'.-]+ [A-Z][a-zA-Z'.-]+$`)
	emailRe   = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe   = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4,6}`)
	liRe      = regexp.MustCompile(`(?i)linkedin\.com/in/[A-Za-z0-9_-]+`)
	ghRe      = regexp.MustCompile(`(?i)github\.com/[A-Za-z0-9_-]+`)
	addressRe = regexp.MustCompile(`\d+\s+[A-Za-z0-9 .]+,\s*[A-Za-z .]+,\s*[A-Z]{2}\s+\d{5}`)
	expRe     = regexp.MustCompile(`(?i)(\d+)\+?\s*(?:years?|yrs?)\s*(?:of\s*)?(?:experience|exp)`)

	skillsLabelRe = regexp.MustCompile(`(?i)^skills\s*:?\s*(.*)$`)
)

// degreeKeywords mark a line as a degree statement. Short forms are matched
// on word boundaries so "BS" does not fire inside "jobs".
var degreeKeywords = []string{"Bachelor", "Master", "PhD", "B.Sc", "M.Sc", "BS", "MS", "BA", "MA"}

// sectionBoundaries end the skills block.
var sectionBoundaries = []string{"experience", "education", "project"}

// nameScanLines caps how far down the text the name heuristic looks.
const nameScanLines = 10

// skillsMaxLines caps how many lines of the skills block are kept.
const skillsMaxLines = 5

// Parse returns a best-effort canonical fragment for the given text.
func Parse(text string) schema.Fragment {
	frag := make(schema.Fragment)
	if strings.TrimSpace(text) == "" {
		return frag
	}
	lines := strings.Split(text, "\n")

	parseName(frag, lines)
	parseFirst(frag, schema.FieldEmail, emailRe, text)
	parseFirst(frag, schema.FieldPhone, phoneRe, text)
	parseFirst(frag, schema.FieldLinkedin, liRe, text)
	parseGithub(frag, text)
	parseFirst(frag, schema.FieldAddress, addressRe, text)
	parseDegree(frag, lines)
	parseSkills(frag, lines)
	parseExperience(frag, text)

	return frag
}

// parseName scans the first nameScanLines non-trivial lines for exactly two
// capitalized words with no "@" or "http" substring.
func parseName(frag schema.Fragment, lines []string) {
	scanned := 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) <= 2 {
			continue
		}
		scanned++
		if scanned > nameScanLines {
			return
		}
		if strings.Contains(line, "@") || strings.Contains(line, "http") {
			continue
		}
		if nameRe.MatchString(line) {
			parts := strings.Fields(line)
			frag[schema.FieldFirstName] = parts[0]
			frag[schema.FieldLastName] = parts[1]
			return
		}
	}
}

func parseFirst(frag schema.Fragment, key string, re *regexp.Regexp, text string) {
	if m := re.FindString(text); m != "" {
		frag[key] = strings.TrimSpace(m)
	}
}

// parseGithub maps a github handle to the portfolio field, skipping matches
// that are part of a longer path only in the handle segment.
func parseGithub(frag schema.Fragment, text string) {
	if m := ghRe.FindString(text); m != "" {
		frag[schema.FieldPortfolio] = m
	}
}

// parseDegree keeps the first line containing a degree keyword, verbatim.
func parseDegree(frag schema.Fragment, lines []string) {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if hasDegreeKeyword(trimmed) {
			frag[schema.FieldDegree] = trimmed
			return
		}
	}
}

func hasDegreeKeyword(line string) bool {
	for _, kw := range degreeKeywords {
		if len(kw) <= 2 {
			// Word-boundary match for the two-letter abbreviations.
			re := regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
			if re.MatchString(line) {
				return true
			}
			continue
		}
		if strings.Contains(line, kw) {
			return true
		}
	}
	return false
}

// parseSkills captures text after a "skills" label up to the next section
// boundary, keeping at most skillsMaxLines non-empty lines joined with ", ".
func parseSkills(frag schema.Fragment, lines []string) {
	var collected []string
	collecting := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if !collecting {
			m := skillsLabelRe.FindStringSubmatch(trimmed)
			if m == nil {
				continue
			}
			collecting = true
			if rest := strings.TrimSpace(m[1]); rest != "" {
				collected = append(collected, rest)
			}
			continue
		}

		if isSectionBoundary(trimmed) {
			break
		}
		if trimmed == "" {
			continue
		}
		collected = append(collected, trimmed)
		if len(collected) >= skillsMaxLines {
			break
		}
	}

	if len(collected) > 0 {
		if len(collected) > skillsMaxLines {
			collected = collected[:skillsMaxLines]
		}
		frag[schema.FieldSkills] = strings.Join(collected, ", ")
	}
}

func isSectionBoundary(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range sectionBoundaries {
		if strings.HasPrefix(lower, kw) {
			return true
		}
	}
	return false
}

func parseExperience(frag schema.Fragment, text string) {
	if m := expRe.FindStringSubmatch(text); m != nil {
		frag[schema.FieldExperience] = m[1]
	}
}
