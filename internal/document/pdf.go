package document

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

func parsePDF(data []byte) (doc Document, err error) {
	// the pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("解析PDF文档失败: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Document{}, fmt.Errorf("解析PDF文档失败: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return Document{}, fmt.Errorf("解析PDF文档失败: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return Document{}, fmt.Errorf("解析PDF文档失败: %w", err)
	}
	text := buf.String()
	return Document{Content: text, Format: FormatPlainText, TextContent: text}, nil
}
