// Package fill is the form-filling engine: it scans a live page's fillable
// controls, scores each one against the canonical profile with ordered
// name/placeholder/label heuristics, mutates the page through the browser,
// and reports how much of the form it covered.
//
// The scan and the heuristic rules are pure and operate on a parsed DOM
// snapshot; only applying values touches the browser.
package fill

import "strings"

// Kind classifies a fillable control.
type Kind string

const (
	KindText     Kind = "text"
	KindTextarea Kind = "textarea"
	KindSelect   Kind = "select"
	KindRadio    Kind = "radio"
	KindCheckbox Kind = "checkbox"
	KindDate     Kind = "date"
	KindFile     Kind = "file"
)

// Option is one selectable entry of a select control.
type Option struct {
	Value string
	Text  string
}

// Control describes one fillable control found in a DOM snapshot. It exists
// only for the duration of a single fill pass.
type Control struct {
	Kind        Kind
	Tag         string // "input", "textarea", "select"
	TagIndex    int    // index within document order of Tag elements
	Type        string // input type attribute, lowercased
	Name        string
	ID          string
	Placeholder string
	Label       string // resolved label text, may be empty
	Accept      string // file inputs: accept attribute
	Value       string // current value attribute
	Checked     bool
	Options     []Option // select only
}

// matchText is the haystack for name-based heuristics: the name attribute
// first, falling back to id and placeholder, lowercased.
func (c *Control) matchText() string {
	if c.Name != "" {
		return strings.ToLower(c.Name)
	}
	if c.ID != "" {
		return strings.ToLower(c.ID)
	}
	return strings.ToLower(c.Placeholder)
}

// identity is the widest haystack: name, id, label and placeholder joined.
// Checkbox and file heuristics match against this.
func (c *Control) identity() string {
	return strings.ToLower(c.Name + " " + c.ID + " " + c.Label + " " + c.Placeholder)
}

// Report is the outcome of one fill pass.
type Report struct {
	Filled int `json:"filled"`
	Total  int `json:"total"`

	// FileAttached reports whether the attachment reached a file input.
	// FileFallback is set when no file input matched and every file input
	// was given the attention marker instead.
	FileAttached bool `json:"file_attached,omitempty"`
	FileFallback bool `json:"file_fallback,omitempty"`
}

// Percent returns the completion percentage of the pass, 0 when the page
// had no fillable controls.
func (r Report) Percent() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Filled) / float64(r.Total) * 100
}
