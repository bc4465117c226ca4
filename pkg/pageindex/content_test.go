package pageindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdownToPlainText_StripsHeadingAndEmphasisSyntax(t *testing.T) {
	src := []byte("# Title\n\nSome **bold** and *italic* text with a [link](https://example.com).\n")

	text := markdownToPlainText(src)

	assert.NotContains(t, text, "#")
	assert.NotContains(t, text, "**")
	assert.Contains(t, text, "Title")
	assert.Contains(t, text, "bold")
	assert.Contains(t, text, "link")
}

func TestOpenAPITitle_ParsesYAMLSpec(t *testing.T) {
	src := []byte("openapi: 3.0.0\ninfo:\n  title: Widgets API\n  version: 1.0.0\npaths: {}\n")

	title := openAPITitle(src)

	assert.Equal(t, "Widgets API", title)
}

func TestOpenAPITitle_EmptyForNonSpecContent(t *testing.T) {
	src := []byte("just: a\nplain: yaml\nfile: true\n")

	title := openAPITitle(src)

	assert.Equal(t, "", title)
}

func TestPlainTextAndTitle_OpenAPITitleOverridesFilename(t *testing.T) {
	src := []byte("openapi: 3.0.0\ninfo:\n  title: Widgets API\n  version: 1.0.0\npaths: {}\n")

	_, title := plainTextAndTitle("api/spec.yaml", src, "spec.yaml")

	assert.Equal(t, "Widgets API", title)
}
