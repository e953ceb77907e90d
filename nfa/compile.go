package nfa

import (
	"fmt"

	"github.com/corebt/btregex/ast"
)

// fragment is a partially-built piece of the NFA under construction: an
// entry state and an exit state, with no further meaning attached to
// either — the caller decides how to wire them into the surrounding
// structure. Every compile* function returns one.
type fragment struct {
	Init StateID
	End  StateID
}

// Compile turns a resolved AST into an executable NFA. multiline selects
// whether ^ and $ compile to start/end-of-string or start/end-of-line
// matchers; lenientBackreferences is carried into the NFA only via the
// executor's MatchContext, not recorded here.
func Compile(expr *ast.Expression, resolved *ast.Resolved, multiline bool) (*NFA, error) {
	b := NewBuilder()
	c := &compiler{b: b, multiline: multiline, groupCount: resolved.GroupCount}

	frag, err := c.compileExpression(expr)
	if err != nil {
		return nil, err
	}

	// The whole pattern is implicitly capture group 0.
	b.AddStartGroup(frag.Init, 0)
	b.AddEndGroup(frag.End, 0)

	return b.Build(frag.Init, []StateID{frag.End}, resolved.GroupNames)
}

type compiler struct {
	b          *Builder
	multiline  bool
	groupCount int
}

func (c *compiler) basic(m Matcher) fragment {
	i := c.b.NewState()
	e := c.b.NewState()
	c.b.AddTransition(i, m, e)
	return fragment{Init: i, End: e}
}

func (c *compiler) compileExpression(e *ast.Expression) (fragment, error) {
	left, err := c.compileSubExpression(e.Sub)
	if err != nil {
		return fragment{}, err
	}
	if e.Alt == nil {
		return left, nil
	}
	right, err := c.compileExpression(e.Alt)
	if err != nil {
		return fragment{}, err
	}

	start := c.b.NewState()
	end := c.b.NewState()
	// Left branch tried first: higher priority, per alternation's
	// left-to-right preference.
	c.b.AddTransition(start, EpsilonMatcher{}, left.Init)
	c.b.AddTransition(start, EpsilonMatcher{}, right.Init)
	c.b.AddTransition(left.End, EpsilonMatcher{}, end)
	c.b.AddTransition(right.End, EpsilonMatcher{}, end)
	return fragment{Init: start, End: end}, nil
}

func (c *compiler) compileSubExpression(s *ast.SubExpression) (fragment, error) {
	if len(s.Items) == 0 {
		i := c.b.NewState()
		e := c.b.NewState()
		c.b.AddTransition(i, EpsilonMatcher{}, e)
		return fragment{Init: i, End: e}, nil
	}

	acc, err := c.compileNode(s.Items[0])
	if err != nil {
		return fragment{}, err
	}
	for _, item := range s.Items[1:] {
		next, err := c.compileNode(item)
		if err != nil {
			return fragment{}, err
		}
		acc = c.appendFragment(acc, next)
	}
	return acc, nil
}

// appendFragment concatenates b after a by fusing b's initial state into
// a's ending state: b's initial state's outgoing transitions, group
// boundaries, atomic marker, and counter-clear list are all copied onto
// a.End, and b.Init itself is left behind as dead weight in the arena
// (Builder.Build compacts it away). This avoids an extra epsilon hop at
// every concatenation point.
func (c *compiler) appendFragment(a, b fragment) fragment {
	joint := c.b.StateAt(a.End)
	donor := c.b.StateAt(b.Init)

	joint.Transitions = append(joint.Transitions, donor.Transitions...)
	joint.StartGroups = append(joint.StartGroups, donor.StartGroups...)
	joint.EndGroups = append(joint.EndGroups, donor.EndGroups...)
	joint.ClearCounters = append(joint.ClearCounters, donor.ClearCounters...)
	if donor.AtomicEnd {
		joint.AtomicEnd = true
	}
	if donor.AtomicStart {
		joint.AtomicStart = true
	}

	return fragment{Init: a.Init, End: b.End}
}

func (c *compiler) compileNode(n ast.Node) (fragment, error) {
	switch v := n.(type) {
	case *ast.Group:
		return c.compileGroup(v)
	case *ast.Match:
		m, err := c.matcherForAtom(v.Item)
		if err != nil {
			return fragment{}, err
		}
		return c.basic(m), nil
	case *ast.Backreference:
		if v.Group < 1 || v.Group > c.groupCount {
			return fragment{}, &CompileError{Message: fmt.Sprintf("backreference to unknown group %d", v.Group)}
		}
		return c.basic(BackrefMatcher{Group: v.Group}), nil
	case *ast.StartOfString:
		if c.multiline {
			return c.basic(StartOfLineMatcher{}), nil
		}
		return c.basic(StartOfStringMatcher{}), nil
	case *ast.EndOfString:
		if c.multiline {
			return c.basic(EndOfLineMatcher{}), nil
		}
		return c.basic(EndOfStringMatcher{}), nil
	case *ast.WordBoundary:
		return c.basic(WordBoundaryMatcher{}), nil
	case *ast.NotWordBoundary:
		return c.basic(WordBoundaryMatcher{Negate: true}), nil
	case *ast.StartOfText:
		return c.basic(StartOfStringMatcher{}), nil
	case *ast.EndOfText:
		return c.basic(EndOfTextMatcher{}), nil
	case *ast.EndOfTextZ:
		return c.basic(EndOfTextMatcher{AllowTrailingNewline: true}), nil
	case *ast.StartOfAttempt:
		return c.basic(StartOfAttemptMatcher{}), nil
	case *ast.ZeroOrOne:
		return c.compileZeroOrOne(v)
	case *ast.ZeroOrMore:
		return c.compileRepeat(v.Child, v.Lazy, true)
	case *ast.OneOrMore:
		return c.compileRepeat(v.Child, v.Lazy, false)
	case *ast.Range:
		return c.compileRange(v)
	default:
		return fragment{}, fmt.Errorf("nfa: compile: unknown node type %T", n)
	}
}

func (c *compiler) compileGroup(g *ast.Group) (fragment, error) {
	inner, err := c.compileExpression(g.Expr)
	if err != nil {
		return fragment{}, err
	}
	if !g.NonCapturing {
		c.b.AddStartGroup(inner.Init, g.GroupID)
		c.b.AddEndGroup(inner.End, g.GroupID)
	}
	if g.Atomic {
		c.b.SetAtomicStart(inner.Init)
		c.b.SetAtomicEnd(inner.End)
	}
	return inner, nil
}

// compileZeroOrOne wraps the child fragment in its own entry/exit states
// rather than reusing cf.Init/cf.End for the skip edge: a skip edge
// landing directly on cf.Init would still cross any group-boundary
// markers attached to that state (a capturing group is often the direct
// child of a '?'), falsely recording the group as having matched an empty
// span on the path that never entered it at all. Wrapping keeps "never
// entered" and "entered and matched empty" distinguishable.
func (c *compiler) compileZeroOrOne(z *ast.ZeroOrOne) (fragment, error) {
	cf, err := c.compileNode(z.Child)
	if err != nil {
		return fragment{}, err
	}

	qi := c.b.NewState()
	qf := c.b.NewState()
	c.b.AddTransition(qi, EpsilonMatcher{}, cf.Init)
	if z.Lazy {
		// Skipping is preferred: reverse the greedy default so the empty
		// path is tried before the body.
		c.b.PrependTransition(qi, EpsilonMatcher{}, qf)
	} else {
		c.b.AddTransition(qi, EpsilonMatcher{}, qf)
	}
	c.b.AddTransition(cf.End, EpsilonMatcher{}, qf)

	return fragment{Init: qi, End: qf}, nil
}

// compileRepeat handles both * (star == true, a skip edge exists) and +
// (star == false, the body is mandatory) with a single topology: a fresh
// entry qi and exit qf wrap the body fragment cf, with a "repeat" edge
// from cf.End back to cf.Init and an "exit" edge from cf.End to qf. For
// star, qi additionally has a "skip" edge straight to qf. Which edge of
// each pair is tried first encodes greedy (body/repeat first) versus lazy
// (skip/exit first) preference.
func (c *compiler) compileRepeat(child ast.Node, lazy, star bool) (fragment, error) {
	cf, err := c.compileNode(child)
	if err != nil {
		return fragment{}, err
	}

	qi := c.b.NewState()
	qf := c.b.NewState()

	if star {
		c.b.AddTransition(qi, EpsilonMatcher{}, cf.Init)
		if lazy {
			c.b.PrependTransition(qi, EpsilonMatcher{}, qf)
		} else {
			c.b.AddTransition(qi, EpsilonMatcher{}, qf)
		}
	} else {
		c.b.AddTransition(qi, EpsilonMatcher{}, cf.Init)
	}

	c.b.AddTransition(cf.End, EpsilonMatcher{}, cf.Init)
	if lazy {
		c.b.PrependTransition(cf.End, EpsilonMatcher{}, qf)
	} else {
		c.b.AddTransition(cf.End, EpsilonMatcher{}, qf)
	}

	return fragment{Init: qi, End: qf}, nil
}

// compileRange handles {n}, {n,}, and {n,m}: the body fragment is wrapped
// with a shared Counter bumped by a CountIncrementMatcher on every pass
// through, gated on the way back around (LoopGateMatcher) and on the way
// out (ExitGateMatcher). The exit state clears the counter so a later
// backtrack into this fragment (via an enclosing repetition) starts
// counting fresh.
func (c *compiler) compileRange(r *ast.Range) (fragment, error) {
	cf, err := c.compileNode(r.Child)
	if err != nil {
		return fragment{}, err
	}

	counter := c.b.NewCounter()
	newInit := c.b.NewState()
	gate := c.b.NewState()
	newEnd := c.b.NewState()

	// {0,m}: zero repetitions must be a legal path, so newInit needs a
	// direct skip edge to newEnd that bypasses the body (and its counter)
	// entirely — entering cf.Init unconditionally would force at least
	// one attempt at the body even when none is required.
	if r.Low == 0 {
		c.b.AddTransition(newInit, EpsilonMatcher{}, cf.Init)
		if r.Lazy {
			c.b.PrependTransition(newInit, EpsilonMatcher{}, newEnd)
		} else {
			c.b.AddTransition(newInit, EpsilonMatcher{}, newEnd)
		}
	} else {
		c.b.AddTransition(newInit, EpsilonMatcher{}, cf.Init)
	}
	c.b.AddTransition(cf.End, CountIncrementMatcher{C: counter}, gate)

	loop := Transition{M: LoopGateMatcher{C: counter, Low: r.Low, Up: r.Up, Fixed: r.Fixed}, To: cf.Init}
	exit := Transition{M: ExitGateMatcher{C: counter, Low: r.Low, Up: r.Up, Fixed: r.Fixed}, To: newEnd}
	c.b.AddTransition(gate, loop.M, loop.To)
	if r.Lazy {
		c.b.PrependTransition(gate, exit.M, exit.To)
	} else {
		c.b.AddTransition(gate, exit.M, exit.To)
	}

	c.b.AddClearCounter(newEnd, counter)

	return fragment{Init: newInit, End: newEnd}, nil
}

func (c *compiler) matcherForAtom(item ast.Node) (Matcher, error) {
	switch v := item.(type) {
	case *ast.AnyChar:
		return AnyCharMatcher{}, nil
	case *ast.Character:
		return CharMatcher{R: v.Rune}, nil
	case *ast.ClassDigit:
		return CustomMatcher{Class: DigitClass}, nil
	case *ast.ClassNotDigit:
		return CustomMatcher{Class: NotDigitClass}, nil
	case *ast.ClassWord:
		return CustomMatcher{Class: WordClass}, nil
	case *ast.ClassNotWord:
		return CustomMatcher{Class: NotWordClass}, nil
	case *ast.ClassSpace:
		return CustomMatcher{Class: SpaceClass}, nil
	case *ast.ClassNotSpace:
		return CustomMatcher{Class: NotSpaceClass}, nil
	case *ast.CharacterGroup:
		return c.compileCharacterGroup(v)
	default:
		return nil, fmt.Errorf("nfa: compile: unknown atom type %T", item)
	}
}

func (c *compiler) compileCharacterGroup(cg *ast.CharacterGroup) (Matcher, error) {
	var parts []ClassMatcher
	var literals []rune

	for _, item := range cg.Items {
		switch v := item.(type) {
		case *ast.CharRange:
			parts = append(parts, RangeMatcher{From: v.From, To: v.To})
		case *ast.Character:
			literals = append(literals, v.Rune)
		case *ast.ClassDigit:
			parts = append(parts, DigitClass)
		case *ast.ClassNotDigit:
			parts = append(parts, NotDigitClass)
		case *ast.ClassWord:
			parts = append(parts, WordClass)
		case *ast.ClassNotWord:
			parts = append(parts, NotWordClass)
		case *ast.ClassSpace:
			parts = append(parts, SpaceClass)
		case *ast.ClassNotSpace:
			parts = append(parts, NotSpaceClass)
		default:
			return nil, fmt.Errorf("nfa: compile: unknown character group item %T", item)
		}
	}
	if len(literals) > 0 {
		parts = append(parts, newSet(literals...))
	}

	return CustomMatcher{Class: ComplexMatcher{Parts: parts, Negative: cg.Negative}}, nil
}
