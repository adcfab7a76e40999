package doctext

import (
	"bytes"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var htmlPolicy = bluemonday.UGCPolicy()

// extractHTML sanitizes the HTML buffer and converts it to markdown, which
// keeps the heading/line structure the parser heuristics need. Falls back to
// a plain text walk when conversion produces nothing.
func (p *Pipeline) extractHTML(data []byte) (string, error) {
	clean := htmlPolicy.SanitizeBytes(data)

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
	md, err := conv.ConvertString(string(clean))
	if err == nil && strings.TrimSpace(md) != "" {
		return md, nil
	}
	if err != nil {
		p.logger.Debug("doctext: markdown conversion failed, falling back", "error", err)
	}

	doc, err := html.Parse(bytes.NewReader(clean))
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	collectText(doc, &sb)
	return sb.String(), nil
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			sb.WriteString(t)
			sb.WriteByte('\n')
		}
		return
	}
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}
