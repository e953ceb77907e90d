package ast

import (
	"testing"

	"github.com/corebt/btregex/token"
)

func resolveSrc(t *testing.T, pattern string) (*Expression, *Resolved) {
	t.Helper()
	toks, err := token.Scan(pattern)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	expr, err := Parse(toks)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	res, err := Resolve(expr)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return expr, res
}

func TestResolveGroupIDsInSourceOrder(t *testing.T) {
	expr, res := resolveSrc(t, "(a(b))(c)")
	if res.GroupCount != 3 {
		t.Fatalf("got GroupCount %d, want 3", res.GroupCount)
	}
	outer := expr.Sub.Items[0].(*Group)
	inner := outer.Expr.Sub.Items[1].(*Group)
	last := expr.Sub.Items[1].(*Group)
	if outer.GroupID != 1 {
		t.Errorf("outer group id = %d, want 1", outer.GroupID)
	}
	if inner.GroupID != 2 {
		t.Errorf("inner group id = %d, want 2", inner.GroupID)
	}
	if last.GroupID != 3 {
		t.Errorf("last group id = %d, want 3", last.GroupID)
	}
}

func TestResolveNonCapturingGroupsExcluded(t *testing.T) {
	_, res := resolveSrc(t, "(?:a)(b)(?>c)")
	if res.GroupCount != 1 {
		t.Fatalf("got GroupCount %d, want 1", res.GroupCount)
	}
}

func TestResolveGroupNameMap(t *testing.T) {
	_, res := resolveSrc(t, "(?<g1>a)(b)(?<g2>c)")
	if res.GroupNames[1] != "g1" {
		t.Errorf("group 1 name = %q, want g1", res.GroupNames[1])
	}
	if _, ok := res.GroupNames[2]; ok {
		t.Errorf("group 2 should be unnamed")
	}
	if res.GroupNames[3] != "g2" {
		t.Errorf("group 3 name = %q, want g2", res.GroupNames[3])
	}
}

func TestResolveRejectsQuantifiedAnchor(t *testing.T) {
	toks, _ := token.Scan("^*")
	expr, _ := Parse(toks)
	_, err := Resolve(expr)
	if _, ok := err.(*SemanticError); !ok {
		t.Fatalf("got %T, want *SemanticError", err)
	}
}

func TestResolveRejectsDoubleQuantifier(t *testing.T) {
	toks, _ := token.Scan("a**")
	expr, err := Parse(toks)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = Resolve(expr)
	if _, ok := err.(*SemanticError); !ok {
		t.Fatalf("got %T, want *SemanticError", err)
	}
}

func TestValidateBackreferencesRejectsUnknownGroup(t *testing.T) {
	toks, _ := token.Scan(`(a)\2`)
	expr, err := Parse(toks)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	res, err := Resolve(expr)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	err = ValidateBackreferences(expr, res.GroupCount)
	if _, ok := err.(*SemanticError); !ok {
		t.Fatalf("got %T, want *SemanticError", err)
	}
}
