package report

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const htmlShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; max-width: 860px; margin: 2rem auto; padding: 0 1rem; color: #1a1a2e; }
table { border-collapse: collapse; margin: 1rem 0; width: 100%%; }
th, td { border: 1px solid #d0d0e0; padding: 6px 10px; text-align: left; }
th { background: #f0f0f8; }
h1 { border-bottom: 2px solid #2d6cdf; padding-bottom: 0.3rem; }
h2 { color: #2d6cdf; margin-top: 2rem; }
</style>
</head>
<body>
%s
</body>
</html>
`

// HTML renders the bundle's Markdown report as a standalone HTML page.
func HTML(markdown, title string) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.Strikethrough),
	)
	var body bytes.Buffer
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return fmt.Sprintf(htmlShell, title, body.String()), nil
}
