package render

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

var formatter = chromahtml.New(
	chromahtml.WithClasses(true),
	chromahtml.WithLineNumbers(true),
)

var plainFormatter = chromahtml.New(chromahtml.WithClasses(true))

// Highlight renders source as highlighted HTML. Lexer selection never fails:
// filename match, then content analysis, then plain text.
func Highlight(filename string, src []byte) (string, error) {
	lexer := lexers.Match(filename)
	if lexer == nil {
		lexer = lexers.Analyse(string(src))
	}
	return highlightWith(lexer, src, formatter)
}

// HighlightDialect renders numeric-dialect source with the Matlab lexer.
func HighlightDialect(src []byte) (string, error) {
	return highlightWith(lexers.Get("matlab"), src, formatter)
}

// HighlightCode renders an executable notebook cell, without line numbers.
func HighlightCode(src []byte) (string, error) {
	return highlightWith(lexers.Get("python"), src, plainFormatter)
}

func highlightWith(lexer chroma.Lexer, src []byte, f *chromahtml.Formatter) (string, error) {
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, string(src))
	if err != nil {
		return "", fmt.Errorf("tokenise source: %w", err)
	}
	var sb strings.Builder
	if err := f.Format(&sb, styles.Get("friendly"), iterator); err != nil {
		return "", fmt.Errorf("format source: %w", err)
	}
	return sb.String(), nil
}
