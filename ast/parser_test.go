package ast

import (
	"testing"

	"github.com/corebt/btregex/token"
)

func mustParse(t *testing.T, pattern string) *Expression {
	t.Helper()
	toks, err := token.Scan(pattern)
	if err != nil {
		t.Fatalf("Scan(%q): %v", pattern, err)
	}
	expr, err := Parse(toks)
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	return expr
}

func TestParseEmptyPattern(t *testing.T) {
	expr := mustParse(t, "")
	if len(expr.Sub.Items) != 0 || expr.Alt != nil {
		t.Fatalf("expected empty SubExpression, got %+v", expr)
	}
}

func TestParseAlternationAndEmptyBranch(t *testing.T) {
	expr := mustParse(t, "a|")
	if len(expr.Sub.Items) != 1 {
		t.Fatalf("left branch: got %d items", len(expr.Sub.Items))
	}
	if expr.Alt == nil || len(expr.Alt.Sub.Items) != 0 {
		t.Fatalf("right branch should be empty, got %+v", expr.Alt)
	}
}

func TestParseGroupKinds(t *testing.T) {
	expr := mustParse(t, "(a)(?:b)(?<g>c)(?>d)")
	if len(expr.Sub.Items) != 4 {
		t.Fatalf("got %d items, want 4", len(expr.Sub.Items))
	}
	g0 := expr.Sub.Items[0].(*Group)
	if g0.NonCapturing || g0.Atomic || g0.Name != "" {
		t.Errorf("plain group: got %+v", g0)
	}
	g1 := expr.Sub.Items[1].(*Group)
	if !g1.NonCapturing || g1.Atomic {
		t.Errorf("non-capturing group: got %+v", g1)
	}
	g2 := expr.Sub.Items[2].(*Group)
	if g2.Name != "g" {
		t.Errorf("named group: got %+v", g2)
	}
	g3 := expr.Sub.Items[3].(*Group)
	if !g3.Atomic || !g3.NonCapturing {
		t.Errorf("atomic group: got %+v", g3)
	}
}

func TestParseCharacterGroupRangeVsLiteralHyphen(t *testing.T) {
	expr := mustParse(t, "[a-z]")
	cg := expr.Sub.Items[0].(*Match).Item.(*CharacterGroup)
	if len(cg.Items) != 1 {
		t.Fatalf("got %d items", len(cg.Items))
	}
	r, ok := cg.Items[0].(*CharRange)
	if !ok || r.From != 'a' || r.To != 'z' {
		t.Fatalf("got %+v", cg.Items[0])
	}

	expr2 := mustParse(t, "[a-]")
	cg2 := expr2.Sub.Items[0].(*Match).Item.(*CharacterGroup)
	if len(cg2.Items) != 2 {
		t.Fatalf("got %d items, want 2 (literal a, literal -)", len(cg2.Items))
	}
	if _, ok := cg2.Items[0].(*Character); !ok {
		t.Errorf("item 0 should be literal Character, got %T", cg2.Items[0])
	}
	if c, ok := cg2.Items[1].(*Character); !ok || c.Rune != '-' {
		t.Errorf("item 1 should be literal '-', got %+v", cg2.Items[1])
	}
}

func TestParseCharacterGroupNegation(t *testing.T) {
	expr := mustParse(t, "[^abc]")
	cg := expr.Sub.Items[0].(*Match).Item.(*CharacterGroup)
	if !cg.Negative {
		t.Fatal("expected negative char group")
	}
	if len(cg.Items) != 3 {
		t.Fatalf("got %d items", len(cg.Items))
	}
}

func TestParseQuantifiers(t *testing.T) {
	cases := map[string]func(Node) bool{
		"a*":  func(n Node) bool { _, ok := n.(*ZeroOrMore); return ok },
		"a+":  func(n Node) bool { _, ok := n.(*OneOrMore); return ok },
		"a?":  func(n Node) bool { _, ok := n.(*ZeroOrOne); return ok },
		"a*?": func(n Node) bool { z, ok := n.(*ZeroOrMore); return ok && z.Lazy },
	}
	for pattern, check := range cases {
		expr := mustParse(t, pattern)
		if !check(expr.Sub.Items[0]) {
			t.Errorf("pattern %q: got %+v", pattern, expr.Sub.Items[0])
		}
	}
}

func TestParseRangeQuantifier(t *testing.T) {
	expr := mustParse(t, "a{2,5}")
	r := expr.Sub.Items[0].(*Range)
	if r.Low != 2 || r.Up == nil || *r.Up != 5 || r.Fixed {
		t.Fatalf("got %+v", r)
	}

	expr = mustParse(t, "a{3}")
	r = expr.Sub.Items[0].(*Range)
	if r.Low != 3 || r.Up != nil || !r.Fixed {
		t.Fatalf("got %+v", r)
	}

	expr = mustParse(t, "a{3,}")
	r = expr.Sub.Items[0].(*Range)
	if r.Low != 3 || r.Up != nil || r.Fixed {
		t.Fatalf("got %+v", r)
	}
}

func TestParseRangeQuantifierOutOfOrderFails(t *testing.T) {
	toks, _ := token.Scan("a{5,2}")
	_, err := Parse(toks)
	if err == nil {
		t.Fatal("expected RangeError for {5,2}")
	}
	if _, ok := err.(*RangeError); !ok {
		t.Fatalf("got %T, want *RangeError", err)
	}
}

func TestParseCharRangeOutOfOrderFails(t *testing.T) {
	toks, _ := token.Scan("[z-a]")
	_, err := Parse(toks)
	if _, ok := err.(*RangeError); !ok {
		t.Fatalf("got %v (%T), want *RangeError", err, err)
	}
}

func TestParseBackreference(t *testing.T) {
	expr := mustParse(t, `(a)\1`)
	ref := expr.Sub.Items[1].(*Backreference)
	if ref.Group != 1 {
		t.Fatalf("got group %d, want 1", ref.Group)
	}
}

func TestParseMultiDigitBackreference(t *testing.T) {
	expr := mustParse(t, `\12`)
	ref := expr.Sub.Items[0].(*Backreference)
	if ref.Group != 12 {
		t.Fatalf("got group %d, want 12", ref.Group)
	}
}

func TestParseUnterminatedGroupFails(t *testing.T) {
	toks, _ := token.Scan("(a")
	_, err := Parse(toks)
	if _, ok := err.(*SyntaxError); !ok {
		t.Fatalf("got %T, want *SyntaxError", err)
	}
}

func TestParseEmptyGroupNameFails(t *testing.T) {
	toks, _ := token.Scan("(?<>a)")
	_, err := Parse(toks)
	if err == nil {
		t.Fatal("expected error for empty group name")
	}
}

func TestParseEmptyCharacterGroupFails(t *testing.T) {
	toks, _ := token.Scan("[]")
	_, err := Parse(toks)
	if _, ok := err.(*SyntaxError); !ok {
		t.Fatalf("got %T, want *SyntaxError", err)
	}
}

func TestParseAnchorsAndQuantifierTargetIsSyntacticallyAccepted(t *testing.T) {
	// The parser accepts "^*" syntactically; the resolver is responsible
	// for rejecting it as a semantic error.
	expr := mustParse(t, "^*")
	z := expr.Sub.Items[0].(*ZeroOrMore)
	if _, ok := z.Child.(*StartOfString); !ok {
		t.Fatalf("got %+v", z.Child)
	}
}
