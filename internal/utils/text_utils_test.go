package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNormalizeText(t *testing.T) {
	// "e" followed by a combining acute accent composes to a single rune.
	decomposed := "  Rene\u0301e "
	assert.Equal(t, "Ren\u00e9e", NormalizeText(decomposed))
	assert.Equal(t, "", NormalizeText("   "))
}

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		maxSize int
		want    string
	}{
		{name: "shorter than limit", text: "hello", maxSize: 10, want: "hello"},
		{name: "no limit", text: "hello", maxSize: 0, want: "hello"},
		{name: "cut", text: "hello world", maxSize: 5, want: "hello"},
		{name: "multibyte boundary", text: "héllo", maxSize: 2, want: "h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Excerpt(tt.text, tt.maxSize)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestProcessText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	out := tp.ProcessText(strings.Repeat("a", 20), 10)
	assert.True(t, strings.HasPrefix(out, strings.Repeat("a", 10)))
	assert.Contains(t, out, "truncated")

	assert.Equal(t, "ab", tp.SanitizeUTF8("a\xffb"))
	assert.Equal(t, "short", tp.ProcessText("short", 10))
}

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "Hello there", want: "Hello there"},
		{name: "inline tags", in: "Hi <b>Maya</b>, <i>welcome</i>", want: "Hi Maya, welcome"},
		{name: "breaks", in: "Line one<br>Line two<br/>Line three", want: "Line one\nLine two\nLine three"},
		{name: "paragraphs", in: "<p>First</p><p>Second</p>", want: "First\nSecond"},
		{name: "entities", in: "Tom &amp; Jerry &lt;3", want: "Tom & Jerry <3"},
		{name: "collapses blank lines", in: "<p>A</p>\n\n\n\n<p>B</p>", want: "A\n\nB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTMLToText(tt.in))
		})
	}
}
