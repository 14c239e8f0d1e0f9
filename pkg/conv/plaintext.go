package conv

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/inbucket/html2text"
	"github.com/microcosm-cc/bluemonday"
)

var (
	extensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	htmlFlags  = html.CommonFlags
	textPolicy = bluemonday.NewPolicy()
)

func init() {
	// Structural tags only; everything decorative is stripped before the
	// text pass.
	textPolicy.AllowElements("p", "br", "ul", "ol", "li", "blockquote", "pre", "code",
		"h1", "h2", "h3", "h4", "h5", "h6")
}

// MarkdownToPlainText flattens model output to plain text. The prompts ask
// for prose without markdown, but models drift; transcripts must stay
// markdown-free either way.
func MarkdownToPlainText(md string) string {
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})
	unsafeHTML := markdown.Render(p.Parse([]byte(md)), renderer)

	sanitized := textPolicy.SanitizeBytes(unsafeHTML)

	text, err := html2text.FromString(string(sanitized), html2text.Options{OmitLinks: true, TextOnly: true})
	if err != nil {
		return strings.TrimSpace(md)
	}
	return strings.TrimSpace(text)
}
