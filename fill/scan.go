package fill

import (
	"strings"

	"golang.org/x/net/html"
)

// hidden input types the engine never touches.
var skipInputTypes = map[string]bool{
	"hidden": true,
	"submit": true,
	"button": true,
	"reset":  true,
	"image":  true,
}

// Scan walks a parsed DOM snapshot and returns every fillable control in
// document order. TagIndex counts elements of the same tag so that the
// browser-side apply step can address the control without a selector.
func Scan(root *html.Node) []Control {
	s := scanner{
		labels:   map[string]string{},
		tagCount: map[string]int{},
	}
	s.collectLabels(root)
	s.walk(root, nil)
	return s.controls
}

// ScanHTML parses raw HTML and scans it. Convenience for callers holding a
// page snapshot as a string.
func ScanHTML(src string) ([]Control, error) {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	return Scan(root), nil
}

type scanner struct {
	labels   map[string]string // label[for] -> label text
	tagCount map[string]int
	controls []Control
}

// collectLabels indexes every <label for=...> by target id before the main
// walk, so label resolution is order-independent.
func (s *scanner) collectLabels(n *html.Node) {
	if n.Type == html.ElementNode && n.Data == "label" {
		if id := attr(n, "for"); id != "" {
			if txt := nodeText(n); txt != "" {
				s.labels[id] = txt
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		s.collectLabels(c)
	}
}

// walk visits elements in document order, tracking the ancestor chain for
// wrapping-label and parent-text resolution.
func (s *scanner) walk(n *html.Node, ancestors []*html.Node) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "input", "textarea", "select":
			idx := s.tagCount[n.Data]
			s.tagCount[n.Data]++
			if c, ok := s.control(n, idx, ancestors); ok {
				s.controls = append(s.controls, c)
			}
		}
	}
	next := append(ancestors, n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		s.walk(c, next)
	}
}

func (s *scanner) control(n *html.Node, idx int, ancestors []*html.Node) (Control, bool) {
	c := Control{
		Tag:         n.Data,
		TagIndex:    idx,
		Name:        attr(n, "name"),
		ID:          attr(n, "id"),
		Placeholder: attr(n, "placeholder"),
		Value:       attr(n, "value"),
		Checked:     hasAttr(n, "checked"),
	}
	c.Label = s.label(n, ancestors)

	switch n.Data {
	case "textarea":
		c.Kind = KindTextarea
		c.Value = nodeText(n)
	case "select":
		c.Kind = KindSelect
		c.Options = options(n)
	case "input":
		c.Type = strings.ToLower(attr(n, "type"))
		if c.Type == "" {
			c.Type = "text"
		}
		if skipInputTypes[c.Type] {
			return Control{}, false
		}
		switch c.Type {
		case "radio":
			c.Kind = KindRadio
		case "checkbox":
			c.Kind = KindCheckbox
		case "date":
			c.Kind = KindDate
		case "file":
			c.Kind = KindFile
			c.Accept = strings.ToLower(attr(n, "accept"))
		default:
			// text, email, tel, url, number, search, password all take
			// the text rules.
			c.Kind = KindText
		}
	}
	return c, true
}

// label resolves the control's label text in priority order: an explicit
// label[for] binding, a wrapping <label>, then the nearest parent whose own
// text is short enough to plausibly be a caption.
func (s *scanner) label(n *html.Node, ancestors []*html.Node) string {
	if id := attr(n, "id"); id != "" {
		if txt, ok := s.labels[id]; ok {
			return txt
		}
	}
	for i := len(ancestors) - 1; i >= 0; i-- {
		a := ancestors[i]
		if a.Type == html.ElementNode && a.Data == "label" {
			return nodeText(a)
		}
	}
	if len(ancestors) > 0 {
		parent := ancestors[len(ancestors)-1]
		if txt := nodeText(parent); txt != "" && len(txt) < 50 {
			return txt
		}
	}
	return ""
}

func options(sel *html.Node) []Option {
	var out []Option
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "option" {
			o := Option{Value: attr(n, "value"), Text: nodeText(n)}
			if o.Value == "" {
				o.Value = o.Text
			}
			out = append(out, o)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	for c := sel.FirstChild; c != nil; c = c.NextSibling {
		visit(c)
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// nodeText concatenates the text nodes under n, whitespace-collapsed.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
