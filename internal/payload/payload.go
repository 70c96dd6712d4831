// Package payload turns externally supplied input into plain text for the
// detector: base64 command-line arguments and text files on disk.
package payload

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/edsrzf/mmap-go"
)

var (
	ErrInvalidBase64 = errors.New("invalid base64 payload")
	ErrInvalidUTF8   = errors.New("payload is not valid UTF-8")
)

// Decode decodes standard base64 into UTF-8 text. Like a lenient decoder it
// skips characters outside the alphabet (spaces, line wraps), ignores stray
// '=' inside a quantum and stops at the first completed padding. Callers must
// not scan the input when an error is returned.
func Decode(encoded string) (string, error) {
	data, err := dataChars(encoded)
	if err != nil {
		return "", err
	}
	raw, err := base64.RawStdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBase64, err)
	}
	if !utf8.Valid(raw) {
		return "", ErrInvalidUTF8
	}
	return string(raw), nil
}

// dataChars returns the unpadded base64 data characters of s.
func dataChars(s string) (string, error) {
	var b strings.Builder
	quad, pads := 0, 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '=' {
			if quad >= 2 {
				pads++
				if quad+pads >= 4 {
					return b.String(), nil
				}
			}
			continue
		}
		if !isBase64Char(c) {
			continue
		}
		b.WriteByte(c)
		quad = (quad + 1) % 4
		pads = 0
	}
	switch quad {
	case 0:
		return b.String(), nil
	case 1:
		return "", fmt.Errorf("%w: %d data characters is 1 more than a multiple of 4", ErrInvalidBase64, b.Len())
	default:
		return "", fmt.Errorf("%w: incorrect padding", ErrInvalidBase64)
	}
}

func isBase64Char(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '+' || c == '/'
}

// Encode is the inverse of Decode.
func Encode(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

// ReadFile reads a UTF-8 text file through a read-only memory map.
func ReadFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	// mapping an empty file fails on most platforms
	if info.Size() == 0 {
		return "", nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return "", fmt.Errorf("mmap %s: %w", path, err)
	}
	defer m.Unmap()

	if !utf8.Valid(m) {
		return "", fmt.Errorf("%s: %w", path, ErrInvalidUTF8)
	}
	// string() copies, so the result outlives the mapping
	return string(m), nil
}
