package pageindex

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var markdownParser = goldmark.New().Parser()

// plainTextAndTitle derives the searchable plain text and display title for
// one file's raw content. Markdown is walked as an AST so its punctuation
// does not leak into scoring; YAML/JSON that parses as an OpenAPI document
// contributes its info.title instead of the bare filename.
func plainTextAndTitle(relPath string, content []byte, fallbackTitle string) (plainText, title string) {
	ext := strings.ToLower(filepath.Ext(relPath))

	switch ext {
	case ".md":
		return markdownToPlainText(content), fallbackTitle
	case ".yaml", ".yml", ".json":
		if specTitle := openAPITitle(content); specTitle != "" {
			return string(content), specTitle
		}
		return string(content), fallbackTitle
	default:
		return string(content), fallbackTitle
	}
}

// markdownToPlainText walks the Goldmark AST and concatenates leaf text
// nodes, skipping fenced-code-block syntax markers and link/image targets.
func markdownToPlainText(src []byte) string {
	reader := text.NewReader(src)
	doc := markdownParser.Parse(reader)

	var buf bytes.Buffer

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.CodeSpan:
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				if textNode, ok := child.(*ast.Text); ok {
					buf.Write(textNode.Segment.Value(src))
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			lines := node.Lines()
			for i := range lines.Len() {
				line := lines.At(i)
				buf.Write(line.Value(src))
			}
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.Heading, *ast.ListItem:
			if buf.Len() > 0 && buf.Bytes()[buf.Len()-1] != '\n' {
				buf.WriteByte('\n')
			}
		}

		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(buf.String())
}

// openAPITitle returns the info.title of content if it parses as a valid
// OpenAPI document, or "" otherwise. Parsing is lenient: external refs are
// disabled and validation is skipped, since this is a title sniff, not a
// spec-correctness check.
func openAPITitle(content []byte) string {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = false

	spec, err := loader.LoadFromData(content)
	if err != nil || spec == nil || spec.Info == nil {
		return ""
	}

	return strings.TrimSpace(spec.Info.Title)
}
