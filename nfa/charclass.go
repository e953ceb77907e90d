package nfa

// ClassMatcher is a single-rune membership test. CustomMatcher wraps one
// to form a Matcher; CharacterGroup and the six predefined classes all
// compile down to trees of these.
type ClassMatcher interface {
	Contains(r rune) bool
}

// RangeMatcher admits any rune in [From, To] inclusive.
type RangeMatcher struct {
	From, To rune
}

func (m RangeMatcher) Contains(r rune) bool { return r >= m.From && r <= m.To }

// SetMatcher admits an explicit set of individual runes — the literal
// characters collected out of a bracket expression, folded into one
// matcher rather than one CharMatcher per rune.
type SetMatcher struct {
	Members map[rune]bool
}

func (m SetMatcher) Contains(r rune) bool { return m.Members[r] }

// ComplexMatcher is the union of several ClassMatchers, optionally
// negated. A bracket expression [a-z0-9_] compiles to one ComplexMatcher
// whose Parts are a RangeMatcher, a RangeMatcher, and a SetMatcher.
type ComplexMatcher struct {
	Parts    []ClassMatcher
	Negative bool
}

func (m ComplexMatcher) Contains(r rune) bool {
	for _, p := range m.Parts {
		if p.Contains(r) {
			return !m.Negative
		}
	}
	return m.Negative
}

func newSet(runes ...rune) SetMatcher {
	members := make(map[rune]bool, len(runes))
	for _, r := range runes {
		members[r] = true
	}
	return SetMatcher{Members: members}
}

// digitParts, wordParts, and spaceParts are the positive-sense building
// blocks for \d, \w, and \s; the negated classes (\D, \W, \S) reuse the
// same Parts with Negative flipped, and CharacterGroup folds whichever of
// these a bracket expression references directly into its own Parts.
var (
	digitParts = []ClassMatcher{RangeMatcher{'0', '9'}}
	wordParts  = []ClassMatcher{
		RangeMatcher{'a', 'z'},
		RangeMatcher{'A', 'Z'},
		RangeMatcher{'0', '9'},
		newSet('_'),
	}
	// spaceParts covers the Unicode White_Space code points \s is defined
	// over: the common ASCII whitespace runes, the no-break/ideographic/
	// line-and-paragraph separators, and the contiguous U+2000-U+200A run
	// of fixed-width spaces.
	spaceParts = []ClassMatcher{
		newSet(' ', '\t', '\n', '\v', '\f', '\r', 0xA0, 0x1680, 0x2028, 0x2029, 0x202F, 0x205F, 0x3000),
		RangeMatcher{0x2000, 0x200A},
	}
)

// DigitClass, WordClass, and SpaceClass are \d, \w, \s. NotDigitClass,
// NotWordClass, and NotSpaceClass are \D, \W, \S — the same Parts with
// Negative set, so a rune is a non-digit iff it is not in any digit part.
var (
	DigitClass = ComplexMatcher{Parts: digitParts}
	WordClass  = ComplexMatcher{Parts: wordParts}
	SpaceClass = ComplexMatcher{Parts: spaceParts}

	NotDigitClass = ComplexMatcher{Parts: digitParts, Negative: true}
	NotWordClass  = ComplexMatcher{Parts: wordParts, Negative: true}
	NotSpaceClass = ComplexMatcher{Parts: spaceParts, Negative: true}
)

// IsWordRune reports whether r counts as a "word" character for \w and
// for word-boundary (\b, \B) computation.
func IsWordRune(r rune) bool {
	return WordClass.Contains(r)
}
