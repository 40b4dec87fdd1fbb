package corpus

// Letters keeps only the ASCII letters of s, lowercased.
func Letters(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if lower, ok := toLower(s[i]); ok {
			out = append(out, lower)
		}
	}
	return string(out)
}

// IsLowerASCII reports whether s is non-empty and made only of 'a'..'z'.
func IsLowerASCII(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}

func toLower(ch byte) (byte, bool) {
	switch {
	case ch >= 'a' && ch <= 'z':
		return ch, true
	case ch >= 'A' && ch <= 'Z':
		return ch + ('a' - 'A'), true
	default:
		return 0, false
	}
}
