package nfa

import "testing"

func TestBuilderCompactsUnreachableStates(t *testing.T) {
	b := NewBuilder()
	live := b.NewState()
	end := b.NewState()
	orphan := b.NewState() // never wired to anything reachable
	_ = orphan

	b.AddTransition(live, EpsilonMatcher{}, end)

	n, err := b.Build(live, []StateID{end}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(n.States) != 2 {
		t.Fatalf("expected compaction to drop the orphan state, got %d states", len(n.States))
	}
	if n.Initial != 0 {
		t.Fatalf("expected renumbered initial state 0, got %d", n.Initial)
	}
	if !n.IsEnding(n.States[n.Initial].Transitions[0].To) {
		t.Fatal("expected the renumbered transition target to be the ending state")
	}
}

func TestBuilderPrependTransitionPriority(t *testing.T) {
	b := NewBuilder()
	s := b.NewState()
	e := b.NewState()
	b.AddTransition(s, CharMatcher{R: 'a'}, e)
	b.PrependTransition(s, EpsilonMatcher{}, e)

	n, err := b.Build(s, []StateID{e}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	first := n.States[n.Initial].Transitions[0]
	if _, ok := first.M.(EpsilonMatcher); !ok {
		t.Fatalf("expected prepended transition to be tried first, got %T", first.M)
	}
}

func TestBuilderRejectsInvalidInitial(t *testing.T) {
	b := NewBuilder()
	e := b.NewState()

	if _, err := b.Build(InvalidState, []StateID{e}, nil); err == nil {
		t.Fatal("expected a *BuildError for an invalid initial state")
	}
}

func TestBuilderRejectsUnreachableEnding(t *testing.T) {
	b := NewBuilder()
	s := b.NewState()
	unreachable := b.NewState()

	if _, err := b.Build(s, []StateID{unreachable}, nil); err == nil {
		t.Fatal("expected a *BuildError when no ending state is reachable from initial")
	}
}

func TestNewCounterIdentityIsUnique(t *testing.T) {
	b := NewBuilder()
	a := b.NewCounter()
	c := b.NewCounter()
	if a == c {
		t.Fatal("expected two distinct Counters to have distinct identities")
	}

	counts := map[*Counter]int{a: 1}
	if counts[c] != 0 {
		t.Fatalf("an unrelated Counter should read as 0, got %d", counts[c])
	}
}
