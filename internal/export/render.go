package export

import (
	"github.com/charmbracelet/glamour"

	"github.com/antigravity-dev/autoword-go/internal/errs"
)

// RenderVerbose pretty-prints Markdown for terminal display. Its caller
// is `inspect --render`, which renders the structure summary; on-disk
// artifacts always stay plain Markdown.
func RenderVerbose(markdown string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", errs.Wrap(errs.DocumentError, "could not build markdown renderer", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", errs.Wrap(errs.DocumentError, "could not render markdown", err)
	}
	return out, nil
}
