package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// CleanFencedBlock strips a single markdown code-fence wrapper around the
// whole text, as models often return the final prompt inside one. Inner
// fences are left untouched.
func CleanFencedBlock(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	firstNewline := strings.Index(trimmed, "\n")
	if firstNewline < 0 {
		return trimmed
	}
	fence := strings.TrimSpace(trimmed[:firstNewline])
	if fence != "```" && !strings.EqualFold(fence, "```markdown") {
		return trimmed
	}

	body := trimmed[firstNewline+1:]
	body = strings.TrimRight(body, " \n\t")
	if !strings.HasSuffix(body, "```") {
		return trimmed
	}
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body)
}

// RenderMarkdown pretty-prints markdown for the terminal. On renderer
// failure the input comes back unchanged; display must never lose content.
func RenderMarkdown(content string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return out
}
