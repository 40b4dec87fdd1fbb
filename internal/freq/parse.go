package freq

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Count is one "<token> <count>" entry of a frequency source.
type Count struct {
	Token string
	Count int
}

// ParseCounts reads "<token> <count>" lines from r, in source order.
// Tokens are lowercased and must be made of 'a'..'z'; every token must have the
// length of the first one. Blank lines are skipped.
func ParseCounts(r io.Reader, source string) ([]Count, error) {
	var counts []Count
	width := 0
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fail := func(reason string) error {
			return &DataFormatError{Source: source, Line: lineNo, Text: line, Reason: reason}
		}
		parts := strings.Split(line, " ")
		if len(parts) != 2 {
			return nil, fail("expected \"<token> <count>\"")
		}
		token := strings.ToLower(parts[0])
		if token == "" || !lettersOnly(token) {
			return nil, fail("token must be letters a-z")
		}
		if width == 0 {
			width = len(token)
		} else if len(token) != width {
			return nil, fail(fmt.Sprintf("token length %d, want %d", len(token), width))
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fail("count is not an integer")
		}
		if n <= 0 {
			return nil, fail("count must be positive")
		}
		counts = append(counts, Count{Token: token, Count: n})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	if len(counts) == 0 {
		return nil, &DataFormatError{Source: source, Reason: "no entries"}
	}
	return counts, nil
}

func lettersOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}
