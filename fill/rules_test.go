package fill

import (
	"testing"

	"github.com/hazyhaar/formfill/schema"
)

func textControl(name string) *Control {
	return &Control{Kind: KindText, Tag: "input", Type: "text", Name: name}
}

// WHAT: the ordered text cascade against a full profile.
// WHY: rule order is load-bearing: first/last name must win over the bare
// "name" rule, and "graduation" must win over the generic "year" match.
func TestResolveText_Cascade(t *testing.T) {
	p := schema.Profile{
		schema.FieldFirstName:      "Jane",
		schema.FieldLastName:       "Doe",
		schema.FieldEmail:          "jane@example.com",
		schema.FieldPhone:          "555-123-4567",
		schema.FieldLinkedin:       "linkedin.com/in/janedoe",
		schema.FieldPortfolio:      "github.com/janedoe",
		schema.FieldAddress:        "1 Main St, Springfield, IL 62704",
		schema.FieldSummary:        "Engineer.",
		schema.FieldDegree:         "BS Computer Science",
		schema.FieldUniversity:     "State University",
		schema.FieldGraduationYear: "2015",
		schema.FieldCompany:        "Acme",
		schema.FieldPosition:       "Engineer",
		schema.FieldSkills:         "Go, SQL",
		schema.FieldExperience:     "8",
	}

	tests := []struct {
		ctrlName string
		want     string
	}{
		{"first_name", "Jane"},
		{"lastName", "Doe"},
		{"surname", "Doe"},
		{"full-name", "Jane Doe"},
		{"user_email", "jane@example.com"},
		{"mobile", "555-123-4567"},
		{"linkedin_url", "linkedin.com/in/janedoe"},
		{"github", "github.com/janedoe"},
		{"website", "github.com/janedoe"},
		{"street_address", "1 Main St, Springfield, IL 62704"},
		{"about_you", "Engineer."},
		{"education", "BS Computer Science"},
		{"college", "State University"},
		{"graduation_year", "2015"},
		{"current_employer", "Acme"},
		{"job_title", "Engineer"},
		{"skills", "Go, SQL"},
		// "year" belongs to the graduation rule, which sits above the
		// experience rule in the cascade.
		{"years_experience", "2015"},
		{"experience_level", "8"},
	}
	for _, tt := range tests {
		got, ok := resolveText(textControl(tt.ctrlName), p)
		if !ok || got != tt.want {
			t.Errorf("resolveText(%q) = %q, %v, want %q", tt.ctrlName, got, ok, tt.want)
		}
	}
}

// WHAT: built-in fallbacks when the profile lacks the matched field.
func TestResolveText_Defaults(t *testing.T) {
	p := schema.Profile{schema.FieldFirstName: "Jane"}
	tests := []struct {
		ctrlName string
		want     string
	}{
		{"city", "New York"},
		{"country", "United States"},
		{"salary_expectation", "90000"},
		{"experience_level", "5"},
	}
	for _, tt := range tests {
		got, ok := resolveText(textControl(tt.ctrlName), p)
		if !ok || got != tt.want {
			t.Errorf("resolveText(%q) = %q, %v, want default %q", tt.ctrlName, got, ok, tt.want)
		}
	}
}

// WHAT: a matched rule with an empty resolution leaves the control alone
// instead of falling through to a later rule.
func TestResolveText_EmptyValueStops(t *testing.T) {
	if v, ok := resolveText(textControl("email"), schema.Profile{}); ok {
		t.Errorf("resolveText(email) on empty profile = %q, want untouched", v)
	}
	// "company_name" matches the company rule before the bare name rule.
	if v, ok := resolveText(textControl("company_name"), schema.Profile{schema.FieldFirstName: "J"}); ok {
		t.Errorf("resolveText(company_name) = %q, want untouched (no company value)", v)
	}
}

// WHAT: textareas default to summary even with an unrecognized name.
func TestResolveText_TextareaSummary(t *testing.T) {
	c := &Control{Kind: KindTextarea, Tag: "textarea", Name: "free_response"}
	p := schema.Profile{schema.FieldSummary: "Hi."}
	if got, ok := resolveText(c, p); !ok || got != "Hi." {
		t.Errorf("resolveText(textarea) = %q, %v, want summary", got, ok)
	}
}

func TestResolveSelect(t *testing.T) {
	tests := []struct {
		name    string
		ctrl    Control
		wantIdx int
		wantOK  bool
	}{
		{
			name: "country select finds united states",
			ctrl: Control{Name: "country", Options: []Option{
				{Value: "", Text: "Choose"}, {Value: "ca", Text: "Canada"}, {Value: "us", Text: "United States"},
			}},
			wantIdx: 2, wantOK: true,
		},
		{
			name: "experience select finds 5",
			ctrl: Control{Name: "years_experience", Options: []Option{
				{Value: "1", Text: "1-2"}, {Value: "5", Text: "5+"},
			}},
			wantIdx: 1, wantOK: true,
		},
		{
			name: "degree select finds bachelor",
			ctrl: Control{Name: "degree", Options: []Option{
				{Value: "hs", Text: "High School"}, {Value: "ba", Text: "Bachelor's"},
			}},
			wantIdx: 1, wantOK: true,
		},
		{
			name: "generic select skips placeholder",
			ctrl: Control{Name: "referral", Options: []Option{
				{Value: "", Text: "Select one"}, {Value: "ad", Text: "Advertisement"},
			}},
			wantIdx: 1, wantOK: true,
		},
		{
			name:   "single option untouched",
			ctrl:   Control{Name: "referral", Options: []Option{{Value: "x", Text: "Only"}}},
			wantOK: false,
		},
		{
			name: "country select with no match untouched",
			ctrl: Control{Name: "country", Options: []Option{
				{Value: "fr", Text: "France"}, {Value: "de", Text: "Germany"},
			}},
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := resolveSelect(&tt.ctrl, nil)
			if ok != tt.wantOK || (ok && idx != tt.wantIdx) {
				t.Errorf("resolveSelect = %d, %v, want %d, %v", idx, ok, tt.wantIdx, tt.wantOK)
			}
		})
	}
}

// WHAT: radio choice: affirmative value wins, else the last member.
func TestResolveRadio(t *testing.T) {
	affirmative := []Control{
		{Name: "remote", Value: "no"},
		{Name: "remote", Value: "yes"},
		{Name: "remote", Value: "maybe"},
	}
	if got := resolveRadio(affirmative); got != 1 {
		t.Errorf("resolveRadio = %d, want 1 (value yes)", got)
	}

	fallback := []Control{
		{Name: "source", Value: "referral"},
		{Name: "source", Value: "search"},
	}
	if got := resolveRadio(fallback); got != 1 {
		t.Errorf("resolveRadio = %d, want last member", got)
	}
}

func TestResolveCheckbox(t *testing.T) {
	tests := []struct {
		ctrl Control
		want checkAction
	}{
		{Control{Name: "agree_terms"}, checkOn},
		{Control{Name: "x", Label: "I accept the privacy policy"}, checkOn},
		{Control{Name: "newsletter_opt_in"}, checkOff},
		{Control{ID: "marketing-consent"}, checkOn}, // consent outranks marketing
		{Control{Name: "open_to_remote"}, checkOn},
		{Control{Name: "relocation"}, checkSkip},
	}
	for _, tt := range tests {
		if got := resolveCheckbox(&tt.ctrl); got != tt.want {
			t.Errorf("resolveCheckbox(%+v) = %v, want %v", tt.ctrl, got, tt.want)
		}
	}
}

func TestResolveDate(t *testing.T) {
	p := schema.Profile{
		schema.FieldWorkStartDate: "2020-01-15",
		schema.FieldWorkEndDate:   "2023-06-30",
	}
	tests := []struct {
		ctrlName string
		want     string
		wantOK   bool
	}{
		{"employment_start", "2020-01-15", true},
		{"end_date", "2023-06-30", true},
		{"birth_date", "1990-01-01", true}, // default when profile lacks it
		{"appointment", "", false},
	}
	for _, tt := range tests {
		c := &Control{Kind: KindDate, Tag: "input", Type: "date", Name: tt.ctrlName}
		got, ok := resolveDate(c, p)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("resolveDate(%q) = %q, %v, want %q, %v", tt.ctrlName, got, ok, tt.want, tt.wantOK)
		}
	}
}

// WHAT: resume-target detection over label, name and accept declaration.
func TestIsAttachmentTarget(t *testing.T) {
	tests := []struct {
		ctrl Control
		want bool
	}{
		{Control{Name: "resume"}, true},
		{Control{Label: "Upload your CV"}, true},
		{Control{Name: "upload", Accept: ".pdf"}, true},
		{Control{Name: "upload", Accept: "application/msword"}, false},
		{Control{Name: "attachment", Label: "Supporting documents"}, true},
		{Control{Name: "photo", Accept: "image/*"}, false},
	}
	for _, tt := range tests {
		if got := isAttachmentTarget(&tt.ctrl); got != tt.want {
			t.Errorf("isAttachmentTarget(%+v) = %v, want %v", tt.ctrl, got, tt.want)
		}
	}
}

func TestReportPercent(t *testing.T) {
	if p := (Report{}).Percent(); p != 0 {
		t.Errorf("empty report percent = %v, want 0", p)
	}
	if p := (Report{Filled: 3, Total: 4}).Percent(); p != 75 {
		t.Errorf("percent = %v, want 75", p)
	}
}
