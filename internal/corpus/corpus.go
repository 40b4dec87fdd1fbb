// Package corpus reads text inputs and reduces them to lowercase letters.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadLetters reads the file at path and keeps only ASCII letters, lowercased.
// A path of "-" reads from stdin.
func LoadLetters(path string) (string, error) {
	if path == "-" {
		return ReadLetters(os.Stdin)
	}
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only input.
			_ = cerr
		}
	}()
	return ReadLetters(file)
}

// ReadLetters drains r and keeps only ASCII letters, lowercased.
func ReadLetters(r io.Reader) (string, error) {
	var b strings.Builder
	reader := bufio.NewReader(r)
	buf := make([]byte, 32*1024)
	for {
		n, err := reader.Read(buf)
		for _, ch := range buf[:n] {
			if lower, ok := toLower(ch); ok {
				b.WriteByte(lower)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
	}
	return b.String(), nil
}
