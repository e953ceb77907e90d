package nfa_test

import (
	"testing"

	"github.com/corebt/btregex/ast"
	"github.com/corebt/btregex/nfa"
	"github.com/corebt/btregex/token"
)

func build(t *testing.T, pattern string, multiline bool) (*nfa.NFA, *ast.Resolved) {
	t.Helper()
	toks, err := token.Scan(pattern)
	if err != nil {
		t.Fatalf("Scan(%q): %v", pattern, err)
	}
	expr, err := ast.Parse(toks)
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	resolved, err := ast.Resolve(expr)
	if err != nil {
		t.Fatalf("Resolve(%q): %v", pattern, err)
	}
	if err := ast.ValidateBackreferences(expr, resolved.GroupCount); err != nil {
		t.Fatalf("ValidateBackreferences(%q): %v", pattern, err)
	}
	n, err := nfa.Compile(expr, resolved, multiline)
	if err != nil {
		t.Fatalf("Compile(%q): %v", pattern, err)
	}
	return n, resolved
}

func mustMatch(t *testing.T, pattern, subject string, start int) map[int]nfa.Span {
	t.Helper()
	n, _ := build(t, pattern, false)
	ok, groups := nfa.Compute(n, []rune(subject), start, false, false, 0)
	if !ok {
		t.Fatalf("pattern %q failed to match %q at %d", pattern, subject, start)
	}
	return groups
}

func mustNotMatch(t *testing.T, pattern, subject string, start int) {
	t.Helper()
	n, _ := build(t, pattern, false)
	if ok, _ := nfa.Compute(n, []rune(subject), start, false, false, 0); ok {
		t.Fatalf("pattern %q unexpectedly matched %q at %d", pattern, subject, start)
	}
}

func TestComputeLiteral(t *testing.T) {
	g := mustMatch(t, "abc", "abc", 0)
	if g[0].Start != 0 || g[0].End != 3 {
		t.Fatalf("got %+v", g[0])
	}
}

func TestComputeAlternationPrefersLeftBranch(t *testing.T) {
	g := mustMatch(t, "a|ab", "ab", 0)
	if g[0].End != 1 {
		t.Fatalf("expected leftmost alternative to win with end=1, got %+v", g[0])
	}
}

func TestComputeStarIsGreedy(t *testing.T) {
	g := mustMatch(t, "a*", "aaa", 0)
	if g[0].End != 3 {
		t.Fatalf("expected greedy star to consume all 3 a's, got %+v", g[0])
	}
}

func TestComputeLazyStarIsMinimal(t *testing.T) {
	g := mustMatch(t, "a*?b", "aaab", 0)
	if g[0].Start != 0 || g[0].End != 4 {
		t.Fatalf("got %+v", g[0])
	}
}

func TestComputeCountedRepetitionRange(t *testing.T) {
	mustMatch(t, "a{2,4}", "aaa", 0)
	mustNotMatch(t, "a{2,4}b$", "ab", 0)
}

func TestComputeCountedRepetitionCountsPerPath(t *testing.T) {
	// The greedy-first path takes the "a" branch in both iterations,
	// completing {2} at position 2, where "x" then fails against "b"; only
	// once the executor backtracks into the second iteration's alternation
	// and retries "ab" does the match succeed. If the iteration count were
	// shared globally instead of tracked per path, the abandoned second
	// "a" iteration and the retry would both register as completed
	// iterations, landing the fixed {2} one iteration over and failing the
	// match.
	mustMatch(t, `(a|ab){2}x`, "aabx", 0)
}

func TestComputeCountedRepetitionFixed(t *testing.T) {
	g := mustMatch(t, "a{3}", "aaaa", 0)
	if g[0].End != 3 {
		t.Fatalf("fixed {3} should stop at 3, got %+v", g[0])
	}
}

func TestComputeCaptureGroups(t *testing.T) {
	g := mustMatch(t, "(a)(b)", "ab", 0)
	if g[1] != (nfa.Span{Start: 0, End: 1}) {
		t.Errorf("group 1: got %+v", g[1])
	}
	if g[2] != (nfa.Span{Start: 1, End: 2}) {
		t.Errorf("group 2: got %+v", g[2])
	}
}

func TestComputeNonCapturingGroupHasNoSpan(t *testing.T) {
	n, resolved := build(t, "(?:a)(b)", false)
	if resolved.GroupCount != 1 {
		t.Fatalf("got GroupCount %d, want 1", resolved.GroupCount)
	}
	ok, groups := nfa.Compute(n, []rune("ab"), 0, false, false, 0)
	if !ok {
		t.Fatal("expected match")
	}
	if _, ok := groups[2]; ok {
		t.Fatal("non-capturing group should not have produced a group id 2")
	}
}

func TestComputeBackreference(t *testing.T) {
	mustMatch(t, `(['"])hi\1`, `'hi'`, 0)
	mustNotMatch(t, `(['"])hi\1`, `'hi"`, 0)
}

func TestComputeLenientBackreferenceOnUnsetGroup(t *testing.T) {
	n, _ := build(t, `(a)?\1b`, false)
	ok, _ := nfa.Compute(n, []rune("b"), 0, false, true, 0)
	if !ok {
		t.Fatal("expected lenient backreference to an unset group to match empty")
	}
	ok, _ = nfa.Compute(n, []rune("b"), 0, false, false, 0)
	if ok {
		t.Fatal("expected strict backreference to an unset group to fail")
	}
}

func TestComputeAtomicGroupDoesNotBacktrackInternally(t *testing.T) {
	// Classic atomic-group example: "bc" is tried first (leftmost
	// alternative) and succeeds, consuming both its characters; the
	// trailing "c" then has nothing left to match. A plain group would
	// backtrack to the "b" alternative and let the match succeed overall;
	// an atomic group commits to "bc" and must fail instead.
	mustNotMatch(t, `a(?>bc|b)c`, "abc", 0)
	mustMatch(t, `a(bc|b)c`, "abc", 0)
}

func TestComputeAnchors(t *testing.T) {
	mustMatch(t, `^abc$`, "abc", 0)
	mustNotMatch(t, `^abc$`, "xabc", 0)
}

func TestComputeWordBoundary(t *testing.T) {
	mustMatch(t, `\bcat\b`, "cat", 0)
}

func TestComputeCharacterClasses(t *testing.T) {
	mustMatch(t, `\d+`, "123", 0)
	mustMatch(t, `[a-z0-9_]+`, "hi_42", 0)
	mustNotMatch(t, `[^a-z]$`, "a", 0)
}

func TestComputeMaxStepsAbortsPathologicalBacktracking(t *testing.T) {
	// (a*)*b against an all-a's subject with no trailing b forces the
	// nested-star engine through exponentially many ways to partition the
	// a's between the inner and outer star before finally failing — the
	// classic catastrophic-backtracking shape. A small step budget must
	// cut the attempt short long before that full exploration completes.
	n, _ := build(t, `(a*)*b`, false)
	subject := []rune("aaaaaaaaaaaaaaaaaaaaaaaaaa")

	ok, _ := nfa.Compute(n, subject, 0, false, false, 2000)
	if ok {
		t.Fatal("expected the bounded attempt to report a non-match")
	}
}

func TestComputeMaxStepsZeroIsUnbounded(t *testing.T) {
	g := mustMatchWithSteps(t, "a{3}", "aaaa", 0, 0)
	if g[0].End != 3 {
		t.Fatalf("got %+v", g[0])
	}
}

func mustMatchWithSteps(t *testing.T, pattern, subject string, start, maxSteps int) map[int]nfa.Span {
	t.Helper()
	n, _ := build(t, pattern, false)
	ok, groups := nfa.Compute(n, []rune(subject), start, false, false, maxSteps)
	if !ok {
		t.Fatalf("pattern %q failed to match %q at %d", pattern, subject, start)
	}
	return groups
}

func TestComputeMultilineAnchors(t *testing.T) {
	toks, _ := token.Scan(`^b`)
	expr, _ := ast.Parse(toks)
	resolved, _ := ast.Resolve(expr)
	n, err := nfa.Compile(expr, resolved, true)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	ok, _ := nfa.Compute(n, []rune("a\nb"), 2, true, false, 0)
	if !ok {
		t.Fatal("expected ^ to match right after a newline in multiline mode")
	}
}
