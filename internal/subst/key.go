// Package subst implements the monoalphabetic and Vigenère substitution transforms.
package subst

import (
	"errors"
	"fmt"
	"strings"
)

// Alphabet is the plaintext alphabet in index order.
const Alphabet = "abcdefghijklmnopqrstuvwxyz"

// ErrInvalidKey reports a key that cannot drive the requested cipher.
var ErrInvalidKey = errors.New("invalid key")

// Key maps a plaintext letter index to its ciphertext letter.
// A valid Key is always a permutation of 'a'..'z'.
type Key [26]byte

// IdentityKey returns the key that maps every letter to itself.
func IdentityKey() Key {
	var k Key
	for i := range k {
		k[i] = byte('a' + i)
	}
	return k
}

// ParseKey lowercases s and validates that it is a permutation of the alphabet.
func ParseKey(s string) (Key, error) {
	var k Key
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != len(k) {
		return Key{}, fmt.Errorf("%w: need 26 letters, got %d", ErrInvalidKey, len(s))
	}
	var seen [26]bool
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch < 'a' || ch > 'z' {
			return Key{}, fmt.Errorf("%w: %q is not a letter", ErrInvalidKey, ch)
		}
		if seen[ch-'a'] {
			return Key{}, fmt.Errorf("%w: letter %q repeats", ErrInvalidKey, ch)
		}
		seen[ch-'a'] = true
		k[i] = ch
	}
	return k, nil
}

// Valid reports whether k is a permutation of the alphabet.
func (k Key) Valid() bool {
	var seen [26]bool
	for _, ch := range k {
		if ch < 'a' || ch > 'z' || seen[ch-'a'] {
			return false
		}
		seen[ch-'a'] = true
	}
	return true
}

// Inverse returns the key mapping ciphertext letters back to plaintext.
func (k Key) Inverse() Key {
	var inv Key
	for i, ch := range k {
		inv[ch-'a'] = byte('a' + i)
	}
	return inv
}

// Swap returns a copy of k with positions i and j exchanged.
func (k Key) Swap(i, j int) Key {
	k[i], k[j] = k[j], k[i]
	return k
}

func (k Key) String() string {
	return string(k[:])
}
