package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"strings"
)

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// parseWord renders word/document.xml as HTML paragraphs. Empty paragraphs
// are dropped.
func parseWord(data []byte) (Document, error) {
	body, err := wordBodyHTML(data)
	if err != nil {
		return Document{}, fmt.Errorf("解析Word文档失败: %w", err)
	}
	return Document{Content: body, Format: FormatHTML, TextContent: stripTags(body)}, nil
}

func wordBodyHTML(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("word/document.xml not found")
	}
	rc, err := doc.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var (
		out    strings.Builder
		para   strings.Builder
		inText bool
	)
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "p":
				para.Reset()
			case "t":
				inText = true
			case "tab":
				para.WriteString("\t")
			case "br":
				para.WriteString("<br />")
			}
		case xml.EndElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if para.Len() > 0 {
					out.WriteString("<p>")
					out.WriteString(para.String())
					out.WriteString("</p>")
				}
				para.Reset()
			}
		case xml.CharData:
			if inText {
				para.WriteString(html.EscapeString(string(t)))
			}
		}
	}
	return out.String(), nil
}
