// Package document extracts checkable text from uploaded files.
package document

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Formats of Document.Content.
const (
	FormatPlainText = "plaintext"
	FormatHTML      = "html"
)

var (
	ErrUnsupported = errors.New("unsupported file type")
	ErrInvalidText = errors.New("file is not valid UTF-8")
)

// Document is an uploaded file ready for display and scanning. Content keeps
// the formatting (HTML for Word files); TextContent is what gets scanned.
type Document struct {
	Content     string
	Format      string
	TextContent string
}

var tagRe = regexp.MustCompile(`<[^>]+>`)

// Parse picks an extractor by the file name's extension.
func Parse(name string, data []byte) (Document, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		return parseText(data)
	case ".docx", ".doc":
		return parseWord(data)
	case ".pdf":
		return parsePDF(data)
	}
	return Document{}, ErrUnsupported
}

func parseText(data []byte) (Document, error) {
	if !utf8.Valid(data) {
		return Document{}, ErrInvalidText
	}
	text := string(data)
	return Document{Content: text, Format: FormatPlainText, TextContent: text}, nil
}

// stripTags drops markup but leaves entities alone, so offsets refer to the
// text as the browser receives it.
func stripTags(html string) string {
	return tagRe.ReplaceAllString(html, "")
}
