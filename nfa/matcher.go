package nfa

// MatchContext carries everything a Matcher needs to test a position: the
// subject decoded to runes once up front (so matchers index by code point,
// never by byte offset), the mode flags that change anchor behavior, the
// position the current attempt started at (for \G), the capture spans
// most recently closed (for backreferences), and the current path's
// counted-repetition iteration counts. GroupMatches and Counts are
// reassigned to the frame currently under test immediately before every
// transition test, so a Matcher always sees the state of the one path
// being explored, never a mix of abandoned and live attempts.
type MatchContext struct {
	Subject      []rune
	Multiline    bool
	Lenient      bool // LenientBackreferences: an unset group matches the empty string
	AttemptStart int
	GroupMatches map[int]Span
	Counts       map[*Counter]int
}

// Matcher is the tagged union of atomic 0-or-1-width tests the compiler
// emits as Transition guards. Each variant is its own type rather than a
// shared struct with a kind tag, mirroring the AST's per-variant node
// design. Matches reports whether the matcher admits passage at pos, and
// if so how many runes it consumed (0 for every zero-width assertion and
// epsilon, 1 or the backreference's span length otherwise).
type Matcher interface {
	Matches(ctx *MatchContext, pos int) (ok bool, width int)
}

// EpsilonMatcher always admits passage without consuming input. Used for
// the structural edges alternation, Kleene-star, and optional compile
// into.
type EpsilonMatcher struct{}

func (EpsilonMatcher) Matches(ctx *MatchContext, pos int) (bool, int) { return true, 0 }

// CharMatcher matches one literal rune.
type CharMatcher struct {
	R rune
}

func (m CharMatcher) Matches(ctx *MatchContext, pos int) (bool, int) {
	if pos >= len(ctx.Subject) {
		return false, 0
	}
	return ctx.Subject[pos] == m.R, 1
}

// AnyCharMatcher matches '.': any rune except '\n' and '\r'.
type AnyCharMatcher struct{}

func (AnyCharMatcher) Matches(ctx *MatchContext, pos int) (bool, int) {
	if pos >= len(ctx.Subject) {
		return false, 0
	}
	r := ctx.Subject[pos]
	if r == '\n' || r == '\r' {
		return false, 0
	}
	return true, 1
}

// CustomMatcher matches one rune against a ClassMatcher — a character
// class or bracket expression folded down to a single composite test.
type CustomMatcher struct {
	Class ClassMatcher
}

func (m CustomMatcher) Matches(ctx *MatchContext, pos int) (bool, int) {
	if pos >= len(ctx.Subject) {
		return false, 0
	}
	if m.Class.Contains(ctx.Subject[pos]) {
		return true, 1
	}
	return false, 0
}

// StartOfStringMatcher is \A and the ^ anchor outside multiline mode: the
// absolute start of the subject.
type StartOfStringMatcher struct{}

func (StartOfStringMatcher) Matches(ctx *MatchContext, pos int) (bool, int) {
	return pos == 0, 0
}

// EndOfStringMatcher is the $ anchor outside multiline mode: the absolute
// end of the subject.
type EndOfStringMatcher struct{}

func (EndOfStringMatcher) Matches(ctx *MatchContext, pos int) (bool, int) {
	return pos == len(ctx.Subject), 0
}

// StartOfLineMatcher is the ^ anchor under multiline mode: start of
// subject, or right after a '\n'.
type StartOfLineMatcher struct{}

func (StartOfLineMatcher) Matches(ctx *MatchContext, pos int) (bool, int) {
	return pos == 0 || ctx.Subject[pos-1] == '\n', 0
}

// EndOfLineMatcher is the $ anchor under multiline mode: end of subject,
// or right before a '\n'.
type EndOfLineMatcher struct{}

func (EndOfLineMatcher) Matches(ctx *MatchContext, pos int) (bool, int) {
	return pos == len(ctx.Subject) || ctx.Subject[pos] == '\n', 0
}

// EndOfTextMatcher implements \z (AllowTrailingNewline == false) and \Z
// (true, which additionally admits the position right before a single
// trailing '\n').
type EndOfTextMatcher struct {
	AllowTrailingNewline bool
}

func (m EndOfTextMatcher) Matches(ctx *MatchContext, pos int) (bool, int) {
	if pos == len(ctx.Subject) {
		return true, 0
	}
	if m.AllowTrailingNewline && pos == len(ctx.Subject)-1 && ctx.Subject[pos] == '\n' {
		return true, 0
	}
	return false, 0
}

// StartOfAttemptMatcher is \G: the position the current compute() attempt
// began scanning from, not position 0 of the subject.
type StartOfAttemptMatcher struct{}

func (StartOfAttemptMatcher) Matches(ctx *MatchContext, pos int) (bool, int) {
	return pos == ctx.AttemptStart, 0
}

// WordBoundaryMatcher implements \b (Negate == false) and \B (true): a
// word boundary is where IsWordRune differs on either side of pos, with
// the subject's edges treated as non-word.
type WordBoundaryMatcher struct {
	Negate bool
}

func (m WordBoundaryMatcher) Matches(ctx *MatchContext, pos int) (bool, int) {
	before := pos > 0 && IsWordRune(ctx.Subject[pos-1])
	after := pos < len(ctx.Subject) && IsWordRune(ctx.Subject[pos])
	boundary := before != after
	if m.Negate {
		boundary = !boundary
	}
	return boundary, 0
}

// BackrefMatcher matches the text most recently captured by Group, read
// out of ctx.GroupMatches. If the group never participated in the match
// so far: under lenient mode it matches the empty string (consistent with
// common engine behavior for "optional group never taken"), otherwise it
// fails outright.
type BackrefMatcher struct {
	Group int
}

func (m BackrefMatcher) Matches(ctx *MatchContext, pos int) (bool, int) {
	span, ok := ctx.GroupMatches[m.Group]
	if !ok {
		if ctx.Lenient {
			return true, 0
		}
		return false, 0
	}
	n := span.End - span.Start
	if pos+n > len(ctx.Subject) {
		return false, 0
	}
	for i := 0; i < n; i++ {
		if ctx.Subject[pos+i] != ctx.Subject[span.Start+i] {
			return false, 0
		}
	}
	return true, n
}

// CountIncrementMatcher bumps the current path's count for C in
// ctx.Counts and always admits passage without consuming input. Compiled
// onto the edge leaving a counted repetition's body, just before the
// loop/exit gate. Mutating ctx.Counts in place is safe across
// backtracking: ctx.Counts is always the map owned by the frame currently
// under test, and every frame pushed across this edge gets its own clone
// of it, so an increment never leaks into a sibling attempt that shares
// an ancestor but takes a different path through the body.
type CountIncrementMatcher struct {
	C *Counter
}

func (m CountIncrementMatcher) Matches(ctx *MatchContext, pos int) (bool, int) {
	ctx.Counts[m.C]++
	return true, 0
}

// LoopGateMatcher admits another iteration of a counted repetition's body
// iff the counter has not yet reached its upper bound (or at all, for an
// unbounded {n,}).
type LoopGateMatcher struct {
	C     *Counter
	Low   int
	Up    *int
	Fixed bool
}

func (m LoopGateMatcher) Matches(ctx *MatchContext, pos int) (bool, int) {
	n := ctx.Counts[m.C]
	if m.Fixed {
		return n < m.Low, 0
	}
	if m.Up != nil {
		return n < *m.Up, 0
	}
	return true, 0
}

// ExitGateMatcher admits leaving a counted repetition iff the counter
// satisfies its lower bound (and upper bound, if any).
type ExitGateMatcher struct {
	C     *Counter
	Low   int
	Up    *int
	Fixed bool
}

func (m ExitGateMatcher) Matches(ctx *MatchContext, pos int) (bool, int) {
	n := ctx.Counts[m.C]
	if m.Fixed {
		return n == m.Low, 0
	}
	if m.Up != nil {
		return n >= m.Low && n <= *m.Up, 0
	}
	return n >= m.Low, 0
}
