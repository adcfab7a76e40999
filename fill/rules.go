package fill

import (
	"strings"

	"github.com/hazyhaar/formfill/schema"
)

// textRule is one entry of the ordered text-field cascade. Rules are
// evaluated top to bottom, first match wins; a matched rule that resolves to
// an empty value leaves the control untouched rather than falling through.
type textRule struct {
	match    func(c *Control, s string) bool
	field    string
	fallback string // used when the profile lacks the field
}

func anyOf(subs ...string) func(*Control, string) bool {
	return func(_ *Control, s string) bool {
		for _, sub := range subs {
			if strings.Contains(s, sub) {
				return true
			}
		}
		return false
	}
}

func allOf(subs ...string) func(*Control, string) bool {
	return func(_ *Control, s string) bool {
		for _, sub := range subs {
			if !strings.Contains(s, sub) {
				return false
			}
		}
		return true
	}
}

const fieldFullName = "+fullName" // synthetic: firstName and lastName joined

// textRules orders the name-substring heuristics for text inputs and
// textareas. Order matters: "graduation" must win over the generic "year"
// match in the experience rule, and the bare "name" rule must not swallow
// first/last name controls.
var textRules = []textRule{
	{match: allOf("first", "name"), field: schema.FieldFirstName},
	{match: func(c *Control, s string) bool {
		return (strings.Contains(s, "last") || strings.Contains(s, "sur")) && strings.Contains(s, "name")
	}, field: schema.FieldLastName},
	{match: func(c *Control, s string) bool {
		return strings.Contains(s, "name") && !strings.Contains(s, "company")
	}, field: fieldFullName},
	{match: anyOf("email"), field: schema.FieldEmail},
	{match: anyOf("phone", "mobile", "contact"), field: schema.FieldPhone},
	{match: anyOf("linkedin"), field: schema.FieldLinkedin},
	{match: anyOf("portfolio", "github", "website"), field: schema.FieldPortfolio},
	{match: anyOf("address"), field: schema.FieldAddress},
	{match: anyOf("city"), field: schema.FieldCity, fallback: "New York"},
	{match: anyOf("country"), field: schema.FieldCountry, fallback: "United States"},
	{match: func(c *Control, s string) bool {
		if c.Kind == KindTextarea {
			return true
		}
		return anyOf("summary", "about", "description", "cover")(c, s)
	}, field: schema.FieldSummary},
	{match: anyOf("degree", "education"), field: schema.FieldDegree},
	{match: anyOf("university", "college", "school"), field: schema.FieldUniversity},
	{match: anyOf("graduation", "year"), field: schema.FieldGraduationYear},
	{match: anyOf("company", "employer"), field: schema.FieldCompany},
	{match: anyOf("position", "title", "role"), field: schema.FieldPosition},
	{match: anyOf("skill"), field: schema.FieldSkills},
	{match: anyOf("salary", "compensation"), field: schema.FieldSalary, fallback: "90000"},
	{match: anyOf("experience", "year"), field: schema.FieldExperience, fallback: "5"},
}

// resolveText returns the value a text or textarea control should receive,
// or ok=false when no rule matches or the matched rule resolves to nothing.
func resolveText(c *Control, p schema.Profile) (string, bool) {
	s := c.matchText()
	for _, r := range textRules {
		if !r.match(c, s) {
			continue
		}
		var v string
		if r.field == fieldFullName {
			v = strings.TrimSpace(p[schema.FieldFirstName] + " " + p[schema.FieldLastName])
		} else {
			v = p[r.field]
			if v == "" {
				v = r.fallback
			}
		}
		if v == "" {
			return "", false
		}
		return v, true
	}
	return "", false
}

// resolveSelect picks the option index for a select control, or ok=false to
// leave it untouched. Category selects (country, year/experience, degree)
// only accept an option matching their category; everything else takes the
// first non-placeholder option when there is a real choice to make.
func resolveSelect(c *Control, _ schema.Profile) (int, bool) {
	s := c.matchText()
	switch {
	case strings.Contains(s, "country"):
		return findOption(c.Options, "usa", "united states", "america")
	case strings.Contains(s, "year"), strings.Contains(s, "experience"):
		return findOption(c.Options, "5")
	case strings.Contains(s, "degree"):
		return findOption(c.Options, "bachelor")
	}
	if len(c.Options) < 2 {
		return 0, false
	}
	for i, o := range c.Options {
		if o.Value == "" {
			continue
		}
		t := strings.ToLower(o.Text)
		if strings.Contains(t, "select") || strings.Contains(t, "choose") {
			continue
		}
		return i, true
	}
	return 0, false
}

func findOption(opts []Option, subs ...string) (int, bool) {
	for i, o := range opts {
		hay := strings.ToLower(o.Text + " " + o.Value)
		for _, sub := range subs {
			if strings.Contains(hay, sub) {
				return i, true
			}
		}
	}
	return 0, false
}

// resolveRadio picks which control of a radio group to check: the first one
// whose value or id reads affirmative, else the last one so the choice stays
// deterministic.
func resolveRadio(group []Control) int {
	for i, c := range group {
		hay := strings.ToLower(c.Value + " " + c.ID)
		if strings.Contains(hay, "yes") || strings.Contains(hay, "true") ||
			strings.Contains(hay, "male") || c.Value == "1" {
			return i
		}
	}
	return len(group) - 1
}

// radioGroups partitions radio controls by name, keeping first-seen group
// order and document order inside each group. Unnamed radios are dropped:
// without a name they form no group and would not submit anyway.
func radioGroups(radios []Control) [][]Control {
	idx := map[string]int{}
	var groups [][]Control
	for _, c := range radios {
		if c.Name == "" {
			continue
		}
		i, ok := idx[c.Name]
		if !ok {
			i = len(groups)
			idx[c.Name] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], c)
	}
	return groups
}

type checkAction int

const (
	checkSkip checkAction = iota
	checkOn
	checkOff
)

// resolveCheckbox decides whether a checkbox is checked, unchecked, or left
// alone, matched against name, id and label together.
func resolveCheckbox(c *Control) checkAction {
	hay := c.identity()
	switch {
	case strings.Contains(hay, "agree"), strings.Contains(hay, "terms"),
		strings.Contains(hay, "consent"), strings.Contains(hay, "policy"):
		return checkOn
	case strings.Contains(hay, "newsletter"), strings.Contains(hay, "marketing"),
		strings.Contains(hay, "spam"):
		return checkOff
	case strings.Contains(hay, "remote"):
		return checkOn
	}
	return checkSkip
}

// resolveDate maps a date input to a profile field by name.
func resolveDate(c *Control, p schema.Profile) (string, bool) {
	s := c.matchText()
	switch {
	case strings.Contains(s, "start"):
		v := p[schema.FieldWorkStartDate]
		return v, v != ""
	case strings.Contains(s, "end"), strings.Contains(s, "until"):
		v := p[schema.FieldWorkEndDate]
		return v, v != ""
	case strings.Contains(s, "birth"):
		v := p[schema.FieldBirthDate]
		if v == "" {
			v = "1990-01-01"
		}
		return v, true
	}
	return "", false
}

// isAttachmentTarget reports whether a file input looks like the resume/CV
// upload slot, judged over its label, name, id and accept declaration.
func isAttachmentTarget(c *Control) bool {
	hay := c.identity() + " " + c.Accept
	for _, sub := range []string{"cv", "resume", "pdf", "doc"} {
		if strings.Contains(hay, sub) {
			return true
		}
	}
	return false
}

// attachmentTarget returns the index of the first file input that qualifies
// as the resume slot, or ok=false when none does and the fill must fall back
// to marking every file input for manual upload.
func attachmentTarget(files []Control) (int, bool) {
	for i := range files {
		if isAttachmentTarget(&files[i]) {
			return i, true
		}
	}
	return 0, false
}
