package main

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//nolint:gochecknoglobals // goldmark parsers are safe for concurrent use.
var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// renderMarkdownToHTML converts exercise description markdown to HTML. The
// markdown comes from our own catalog or the signed-in author, and goldmark
// escapes raw HTML by default.
func (app *application) renderMarkdownToHTML(ctx context.Context, markdown string) template.HTML {
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(markdown), &buf); err != nil {
		app.logger.LogAttrs(ctx, slog.LevelError, "render markdown", slog.Any("error", err))
		return ""
	}
	return template.HTML(buf.String()) //nolint:gosec // raw HTML is escaped by goldmark.
}
