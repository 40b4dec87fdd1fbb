package subst

// EncryptMono lowercases text and substitutes every letter through key.
// Non-letters pass through unchanged.
func EncryptMono(text string, key Key) string {
	return apply(text, key)
}

// DecryptMono reverses EncryptMono.
func DecryptMono(text string, key Key) string {
	return apply(text, key.Inverse())
}

func apply(text string, table Key) string {
	out := make([]byte, len(text))
	for i := 0; i < len(text); i++ {
		ch := lower(text[i])
		if ch >= 'a' && ch <= 'z' {
			ch = table[ch-'a']
		}
		out[i] = ch
	}
	return string(out)
}

func lower(ch byte) byte {
	if ch >= 'A' && ch <= 'Z' {
		return ch + ('a' - 'A')
	}
	return ch
}
