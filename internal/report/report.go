// Package report renders findings for callers: a JSON array for machines and
// a numbered summary for people.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"typoguard/internal/detector"
)

// WriteJSON writes findings as a single JSON array followed by a newline.
// Non-ASCII and HTML characters are written as-is.
func WriteJSON(w io.Writer, findings []detector.Finding) error {
	if findings == nil {
		findings = []detector.Finding{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(findings); err != nil {
		return fmt.Errorf("encode findings: %w", err)
	}
	return nil
}

// WriteText writes the human-readable report used by demonstration mode.
func WriteText(w io.Writer, findings []detector.Finding) error {
	if _, err := fmt.Fprintf(w, "检测到 %d 个错误:\n", len(findings)); err != nil {
		return err
	}
	for i, f := range findings {
		_, err := fmt.Fprintf(w, "%d. 原文: '%s' → 修正: '%s'\n   上下文: '%s'\n   位置: %d\n\n",
			i+1, f.Original, f.Corrected, f.Context, f.Position)
		if err != nil {
			return err
		}
	}
	return nil
}
