package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextPlain(t *testing.T) {
	text, err := Text("resume.txt", "text/plain", []byte("Go developer, 5 years."))
	require.NoError(t, err)
	assert.Equal(t, "Go developer, 5 years.", text)
}

func TestTextUnknownDefaultsToPlain(t *testing.T) {
	text, err := Text("resume", "", []byte("raw bytes as text"))
	require.NoError(t, err)
	assert.Equal(t, "raw bytes as text", text)
}

func TestTextMarkdown(t *testing.T) {
	md := "# Jane Doe\n\nBackend **engineer** with `Go` experience.\n\n- Led a team\n- Shipped services\n"
	text, err := Text("resume.md", "", []byte(md))
	require.NoError(t, err)

	assert.Contains(t, text, "Jane Doe")
	assert.Contains(t, text, "Backend")
	assert.Contains(t, text, "engineer")
	assert.Contains(t, text, "Led a team")
	assert.Contains(t, text, "Shipped services")
	assert.NotContains(t, text, "#")
	assert.NotContains(t, text, "**")
}

func TestTextMarkdownByContentType(t *testing.T) {
	text, err := Text("upload", "text/markdown; charset=utf-8", []byte("## Skills\n\nGo, SQL"))
	require.NoError(t, err)
	assert.Contains(t, text, "Skills")
	assert.Contains(t, text, "Go, SQL")
	assert.NotContains(t, text, "##")
}

func TestTextBrokenPDF(t *testing.T) {
	_, err := Text("resume.pdf", "application/pdf", []byte("not a pdf"))
	assert.Error(t, err)
}
