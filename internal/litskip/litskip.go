// Package litskip wires an Aho-Corasick automaton into a narrow,
// purely advisory role: fast-skipping a search cursor ahead to candidate
// starting positions for patterns with a required literal prefix. It never
// participates in deciding whether a match succeeds — the backtracking
// executor in package nfa is the sole source of truth for that — it only
// lets a search skip past stretches of the subject where the prefix
// provably cannot occur.
package litskip

import (
	"github.com/coregx/ahocorasick"

	"github.com/corebt/btregex/ast"
)

// RequiredPrefix returns the literal text every match of expr must begin
// with, or "" if the pattern has no such guaranteed prefix. It walks the
// leading run of plain-character Match nodes in the top-level
// SubExpression and stops at the first node that is not a single literal
// character — a group, a class, a quantified atom, or anything else whose
// presence or width the executor alone can decide. A top-level
// alternation disqualifies the whole pattern, since either branch may
// start differently.
func RequiredPrefix(expr *ast.Expression) string {
	if expr == nil || expr.Alt != nil {
		return ""
	}
	var prefix []rune
	for _, item := range expr.Sub.Items {
		m, ok := item.(*ast.Match)
		if !ok {
			break
		}
		ch, ok := m.Item.(*ast.Character)
		if !ok {
			break
		}
		prefix = append(prefix, ch.Rune)
	}
	return string(prefix)
}

// Skipper fast-skips a search cursor ahead to the next byte offset a
// pattern's required literal prefix could start at.
type Skipper struct {
	auto *ahocorasick.Automaton
}

// NewSkipper builds a Skipper over prefix. It returns (nil, nil) when
// prefix is empty, since there is then nothing to prefilter on.
func NewSkipper(prefix string) (*Skipper, error) {
	if prefix == "" {
		return nil, nil
	}
	builder := ahocorasick.NewBuilder()
	builder.AddPattern([]byte(prefix))
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &Skipper{auto: auto}, nil
}

// NextCandidate returns the byte offset of the next occurrence of the
// required prefix in haystack at or after atByte, or -1 if it does not
// occur again. A nil receiver always reports -1, so callers can hold an
// unconditional *Skipper field and only special-case "no prefix" once, at
// construction time.
func (s *Skipper) NextCandidate(haystack []byte, atByte int) int {
	if s == nil || atByte > len(haystack) {
		return -1
	}
	m := s.auto.Find(haystack, atByte)
	if m == nil {
		return -1
	}
	return m.Start
}
