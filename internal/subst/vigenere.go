package subst

import (
	"fmt"
	"strings"
)

// ParseShiftKey validates a Vigenère key and returns its letter shifts.
func ParseShiftKey(key string) ([]int, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return nil, fmt.Errorf("%w: key is empty", ErrInvalidKey)
	}
	shifts := make([]int, len(key))
	for i := 0; i < len(key); i++ {
		ch := key[i]
		if ch < 'a' || ch > 'z' {
			return nil, fmt.Errorf("%w: %q is not a letter", ErrInvalidKey, ch)
		}
		shifts[i] = int(ch - 'a')
	}
	return shifts, nil
}

// EncryptVigenere lowercases text and shifts each letter by the current key letter.
// The key position advances only on letters.
func EncryptVigenere(text, key string) (string, error) {
	shifts, err := ParseShiftKey(key)
	if err != nil {
		return "", err
	}
	return shift(text, shifts), nil
}

// DecryptVigenere reverses EncryptVigenere.
func DecryptVigenere(text, key string) (string, error) {
	shifts, err := ParseShiftKey(key)
	if err != nil {
		return "", err
	}
	return shift(text, ComplementShifts(shifts)), nil
}

// ComplementShifts maps every shift s to (26-s) mod 26.
func ComplementShifts(shifts []int) []int {
	out := make([]int, len(shifts))
	for i, s := range shifts {
		out[i] = (26 - s%26) % 26
	}
	return out
}

// ComplementKey applies ComplementShifts to a lowercase letter key: a<->a, b<->z.
func ComplementKey(key string) string {
	out := make([]byte, len(key))
	for i := 0; i < len(key); i++ {
		out[i] = byte('a' + (26-int(key[i]-'a'))%26)
	}
	return string(out)
}

func shift(text string, shifts []int) string {
	out := make([]byte, len(text))
	pos := 0
	for i := 0; i < len(text); i++ {
		ch := lower(text[i])
		if ch >= 'a' && ch <= 'z' {
			ch = byte('a' + (int(ch-'a')+shifts[pos])%26)
			pos = (pos + 1) % len(shifts)
		}
		out[i] = ch
	}
	return string(out)
}
