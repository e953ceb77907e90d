// Package btregex is a backtracking regular expression engine: a
// recursive-descent parser, a capture-id resolver, an AST-to-NFA
// compiler, and a depth-first backtracking executor, wired together
// behind a small stdlib-regexp-flavored front end.
//
// Basic usage:
//
//	re, err := btregex.Compile(`(\w+)@(\w+)\.(\w+)`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	match, ok := re.Find("contact: user@example.com")
//	if ok {
//	    fmt.Println(match.Groups[0].Substring) // "user@example.com"
//	}
//
// Unlike a DFA-based engine, btregex supports backreferences and atomic
// groups at the cost of worst-case exponential running time on
// pathological patterns — callers matching untrusted patterns against
// untrusted input should bound input size accordingly.
package btregex

import (
	"sort"
	"unicode/utf8"

	"github.com/corebt/btregex/ast"
	"github.com/corebt/btregex/internal/litskip"
	"github.com/corebt/btregex/nfa"
	"github.com/corebt/btregex/token"
)

// Config holds the compile-time behavior flags the front end supports.
type Config struct {
	// Multiline makes ^ and $ match at internal line boundaries in
	// addition to the start and end of the subject.
	Multiline bool

	// LenientBackreferences makes a backreference to a group that has
	// not yet participated in the match succeed against the empty
	// string, instead of failing the path outright.
	LenientBackreferences bool

	// MaxBacktrackSteps bounds how many iterations of the executor's main
	// loop (each transition tried, and each exhausted frame popped off its
	// backtrack stack) a single match attempt (Compute, and so each
	// starting position Find/FindAll try) may run before giving up on that
	// attempt as a non-match. Zero means unbounded. A backtracking
	// engine's running time is worst-case exponential in the subject
	// length on a pathological pattern; this is the safety valve for
	// callers matching untrusted patterns or untrusted input.
	MaxBacktrackSteps int
}

// DefaultConfig returns the zero-value Config: no multiline, strict
// backreferences.
func DefaultConfig() Config {
	return Config{}
}

// CaptureGroup describes one capture group's span in a successful match.
type CaptureGroup struct {
	ID        int
	Name      string // "" for unnamed groups
	Start     int    // rune offset, inclusive
	End       int    // rune offset, exclusive
	Substring string
}

// MatchResult is the outcome of one successful match attempt. Groups[0]
// is always present and describes the overall match (group 0); any other
// index is present only if that capture group participated in the
// accepting path.
type MatchResult struct {
	Groups []CaptureGroup
}

// Group returns the capture group with the given id, or nil if that
// group did not participate in the match.
func (m *MatchResult) Group(id int) *CaptureGroup {
	for i := range m.Groups {
		if m.Groups[i].ID == id {
			return &m.Groups[i]
		}
	}
	return nil
}

// Named returns the capture group with the given name, or nil if no
// group of that name participated in the match.
func (m *MatchResult) Named(name string) *CaptureGroup {
	for i := range m.Groups {
		if m.Groups[i].Name == name {
			return &m.Groups[i]
		}
	}
	return nil
}

// Regex is a compiled pattern. A Regex is not safe for concurrent use:
// every matching method (Compute, Find, FindAll, MatchString, FindString,
// FindAllString) increments the Attempts counter without synchronization,
// and Find and FindString also advance the stateful find cursor.
type Regex struct {
	pattern    string
	nfa        *nfa.NFA
	groupCount int
	cfg        Config
	skipper    *litskip.Skipper
	attempts   uint64

	// findPos is Find's cursor: the rune position the next Find call
	// scans from. It starts at 0 on a fresh Regex and is restored to 0 by
	// Reset; FindAll never reads or advances it.
	findPos int
}

// Compile parses and compiles pattern under the default Config.
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile is like Compile but panics if pattern fails to compile.
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("btregex: Compile(" + pattern + "): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles pattern under the given Config, running the
// full scanner -> parser -> resolver -> compiler pipeline.
func CompileWithConfig(pattern string, cfg Config) (*Regex, error) {
	toks, err := token.Scan(pattern)
	if err != nil {
		return nil, err
	}
	expr, err := ast.Parse(toks)
	if err != nil {
		return nil, err
	}
	resolved, err := ast.Resolve(expr)
	if err != nil {
		return nil, err
	}
	if err := ast.ValidateBackreferences(expr, resolved.GroupCount); err != nil {
		return nil, err
	}
	compiled, err := nfa.Compile(expr, resolved, cfg.Multiline)
	if err != nil {
		return nil, err
	}

	// A failed or unavailable prefilter never invalidates the pattern —
	// it is purely advisory — so its error is swallowed here.
	skipper, _ := litskip.NewSkipper(litskip.RequiredPrefix(expr))

	return &Regex{
		pattern:    pattern,
		nfa:        compiled,
		groupCount: resolved.GroupCount,
		cfg:        cfg,
		skipper:    skipper,
	}, nil
}

// String returns the source pattern text.
func (r *Regex) String() string { return r.pattern }

// NumSubexp returns the number of capture groups, not counting group 0.
func (r *Regex) NumSubexp() int { return r.groupCount }

// Reset zeroes the Attempts counter and restores Find's cursor, so a
// subsequent Find(s) behaves exactly as the first Find(s) on a freshly
// compiled Regex would. It never affects FindAll, which is always
// independent of the stateful cursor.
func (r *Regex) Reset() {
	r.attempts = 0
	r.findPos = 0
}

// Attempts returns how many anchored match attempts Compute has run for
// this Regex since the last Reset.
func (r *Regex) Attempts() uint64 { return r.attempts }

// runeIndex decodes a subject string to runes once, alongside the byte
// offset each rune starts at, so a litskip byte offset (Aho-Corasick
// works over bytes) can be mapped back to the rune position the executor
// operates in.
type runeIndex struct {
	runes  []rune
	byteOf []int // byteOf[i] = byte offset rune i starts at; byteOf[len(runes)] = len(subject)
}

func indexRunes(subject string) runeIndex {
	runes := make([]rune, 0, len(subject))
	byteOf := make([]int, 0, len(subject)+1)
	pos := 0
	for _, r := range subject {
		byteOf = append(byteOf, pos)
		runes = append(runes, r)
		pos += utf8.RuneLen(r)
	}
	byteOf = append(byteOf, pos)
	return runeIndex{runes: runes, byteOf: byteOf}
}

func (ri runeIndex) runeAtOrAfterByte(b int) int {
	return sort.Search(len(ri.byteOf), func(i int) bool { return ri.byteOf[i] >= b })
}

// Compute tries to match starting exactly at rune position pos of
// subject — no scanning for a later start. It is the lowest-level
// front-end operation; Find and FindAll are built on it.
func (r *Regex) Compute(subject string, pos int) (*MatchResult, bool) {
	return r.computeRunes(indexRunes(subject).runes, pos)
}

func (r *Regex) computeRunes(runes []rune, pos int) (*MatchResult, bool) {
	r.attempts++
	ok, closed := nfa.Compute(r.nfa, runes, pos, r.cfg.Multiline, r.cfg.LenientBackreferences, r.cfg.MaxBacktrackSteps)
	if !ok {
		return nil, false
	}
	return r.buildResult(runes, closed), true
}

func (r *Regex) buildResult(runes []rune, closed map[int]nfa.Span) *MatchResult {
	groups := make([]CaptureGroup, 0, len(closed))
	for id := 0; id <= r.groupCount; id++ {
		span, ok := closed[id]
		if !ok {
			continue
		}
		groups = append(groups, CaptureGroup{
			ID:        id,
			Name:      r.nfa.GroupNameMap[id],
			Start:     span.Start,
			End:       span.End,
			Substring: string(runes[span.Start:span.End]),
		})
	}
	return &MatchResult{Groups: groups}
}

// Find is a stateful, single-shot iterator over subject: each call scans
// forward from the position the previous successful call on this Regex
// left off (0 on a fresh Regex, or after Reset), trying successive
// starting positions until one succeeds or the subject is exhausted. If
// the pattern has a required literal prefix, candidate starting positions
// are narrowed with an Aho-Corasick search first.
//
// On success the cursor advances to max(group 0's end, match start+1), so
// a zero-width match still makes forward progress on the next call; once
// the cursor is past the end of subject, Find reports no match. On total
// failure the cursor is set to the end of subject, so a later Find on the
// same subject retries only that last position instead of re-scanning.
//
// Find and FindAll are independent: FindAll always scans subject from
// position 0 and never reads or mutates this cursor.
func (r *Regex) Find(subject string) (*MatchResult, bool) {
	ri := indexRunes(subject)
	start := r.findPos
	if start > len(ri.runes) {
		return nil, false
	}
	if r.skipper != nil {
		b := r.skipper.NextCandidate([]byte(subject), ri.byteOf[start])
		if b < 0 {
			r.findPos = len(ri.runes)
			return nil, false
		}
		start = ri.runeAtOrAfterByte(b)
	}
	for pos := start; pos <= len(ri.runes); pos++ {
		if res, ok := r.computeRunes(ri.runes, pos); ok {
			end := res.Groups[0].End
			if end > pos {
				r.findPos = end
			} else {
				r.findPos = pos + 1
			}
			return res, true
		}
	}
	r.findPos = len(ri.runes)
	return nil, false
}

// MatchString reports whether subject contains any match. It scans from
// position 0 and neither reads nor advances Find's cursor.
func (r *Regex) MatchString(subject string) bool {
	runes := indexRunes(subject).runes
	for pos := 0; pos <= len(runes); pos++ {
		if _, ok := r.computeRunes(runes, pos); ok {
			return true
		}
	}
	return false
}

// FindAll returns every non-overlapping leftmost match in subject, in
// order left to right. A zero-width match advances the next attempt by
// one rune so the search always makes progress.
func (r *Regex) FindAll(subject string) []*MatchResult {
	ri := indexRunes(subject)
	var results []*MatchResult

	pos := 0
	for pos <= len(ri.runes) {
		start := pos
		if r.skipper != nil {
			b := r.skipper.NextCandidate([]byte(subject), ri.byteOf[pos])
			if b < 0 {
				break
			}
			start = ri.runeAtOrAfterByte(b)
		}

		found := false
		for p := start; p <= len(ri.runes); p++ {
			res, ok := r.computeRunes(ri.runes, p)
			if !ok {
				continue
			}
			results = append(results, res)
			end := res.Groups[0].End
			if end > p {
				pos = end
			} else {
				pos = p + 1
			}
			found = true
			break
		}
		if !found {
			break
		}
	}
	return results
}

// FindString returns the text of the match Find reports for subject, or
// "" if there is none. It goes through Find, so it starts from Find's
// cursor and advances it: successive calls return successive matches.
// Ambiguous for a pattern that can match the empty string; use Find when
// that distinction matters.
func (r *Regex) FindString(subject string) string {
	m, ok := r.Find(subject)
	if !ok {
		return ""
	}
	return m.Groups[0].Substring
}

// FindAllString is FindAll with each result reduced to its overall
// matched substring.
func (r *Regex) FindAllString(subject string) []string {
	matches := r.FindAll(subject)
	if matches == nil {
		return nil
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Groups[0].Substring
	}
	return out
}
