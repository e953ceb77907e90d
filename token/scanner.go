package token

// Scan converts a pattern string into an ordered token sequence terminated
// by an EOF token. It fails with a *ScanError the first time it encounters
// a code point outside the valid set described on ScanError.
func Scan(pattern string) ([]Token, error) {
	runes := []rune(pattern)
	tokens := make([]Token, 0, len(runes)+1)

	i := 0
	for i < len(runes) {
		r := runes[i]
		if !validCodePoint(r) {
			return nil, &ScanError{Pos: i, Rune: r}
		}

		if r == '\\' {
			tok, next, err := scanEscape(runes, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i = next
			continue
		}

		tokens = append(tokens, Token{Kind: classify(r), Value: r, Pos: i})
		i++
	}

	tokens = append(tokens, Token{Kind: EOF, Pos: i})
	return tokens, nil
}

// scanEscape handles a backslash at runes[i]. It returns the produced
// token and the index just past the consumed escape.
func scanEscape(runes []rune, i int) (Token, int, error) {
	if i+1 >= len(runes) {
		// Dangling backslash at end of pattern: the parser will reject
		// this, since no valid production accepts a bare ESCAPE here.
		return Token{Kind: Escape, Pos: i}, i + 1, nil
	}

	next := runes[i+1]
	if !validCodePoint(next) {
		return Token{}, 0, &ScanError{Pos: i + 1, Rune: next}
	}

	if k, ok := classEscapeKinds[next]; ok {
		return Token{Kind: k, Value: next, Pos: i}, i + 2, nil
	}
	if next == '\\' {
		// An escaped backslash is a literal backslash character; punctKinds
		// has no entry for '\\' since a bare backslash is never itself a
		// punctuator token (Scan always routes it through scanEscape).
		return Token{Kind: ASCII, Value: next, Pos: i}, i + 2, nil
	}
	if _, ok := punctKinds[next]; ok {
		// Escaped punctuator degrades to an ASCII literal token carrying
		// the escaped character.
		return Token{Kind: ASCII, Value: next, Pos: i}, i + 2, nil
	}

	return Token{Kind: Escape, Value: next, Pos: i}, i + 2, nil
}

// classify assigns a Kind to an unescaped, already-validated rune.
func classify(r rune) Kind {
	if k, ok := punctKinds[r]; ok {
		return k
	}
	switch {
	case r >= '0' && r <= '9':
		return Int
	case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		return Letter
	case r >= 0x20 && r <= 0x7E:
		return ASCII
	default:
		return Char
	}
}

// validCodePoint reports whether r falls in one of the valid code point
// ranges: {0x9, 0xA, 0xD} ∪ [0x20, 0xD7FF] ∪ [0xE000, 0xFFFD] ∪
// [0x10000, 0x10FFFF].
func validCodePoint(r rune) bool {
	switch {
	case r == 0x9 || r == 0xA || r == 0xD:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	default:
		return false
	}
}
