package detector

import "unicode/utf8"

// charIndex converts increasing byte offsets of one string into character
// offsets without rescanning from the start each time.
type charIndex struct {
	text  string
	bytes int
	chars int
}

func (ci *charIndex) at(off int) int {
	if off < ci.bytes {
		ci.bytes, ci.chars = 0, 0
	}
	ci.chars += utf8.RuneCountInString(ci.text[ci.bytes:off])
	ci.bytes = off
	return ci.chars
}

// backChars returns the byte offset n characters before off, clipped at 0.
func backChars(s string, off, n int) int {
	for ; n > 0 && off > 0; n-- {
		_, size := utf8.DecodeLastRuneInString(s[:off])
		off -= size
	}
	return off
}

// forwardChars returns the byte offset n characters after off, clipped at len(s).
func forwardChars(s string, off, n int) int {
	for ; n > 0 && off < len(s); n-- {
		_, size := utf8.DecodeRuneInString(s[off:])
		off += size
	}
	return off
}
