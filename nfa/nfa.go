// Package nfa implements the compiled representation of a pattern — the
// state/transition arena, the AST-to-NFA compiler, and the depth-first
// backtracking executor. States live in a flat arena and refer to each
// other by index rather than by pointer, the same shape used for Thompson
// construction in languages where ownership makes cyclic pointer graphs
// awkward to build and free.
package nfa

import "fmt"

// StateID indexes into an NFA's States arena.
type StateID int

// InvalidState is returned where no valid state id applies.
const InvalidState StateID = -1

// Transition is one outgoing edge of a State: a Matcher guarding passage,
// and the state it leads to. The order Transitions are stored in is
// significant — it is the transition priority order, first tried first,
// that encodes greediness throughout the compiler.
type Transition struct {
	M  Matcher
	To StateID
}

// State is one node of the compiled NFA.
type State struct {
	Transitions []Transition

	// StartGroups / EndGroups list the capture-group ids that open /
	// close when execution passes through this state.
	StartGroups []int
	EndGroups   []int

	// AtomicStart / AtomicEnd mark the entry and exit states of an atomic
	// group. Crossing AtomicEnd commits the match found inside the group
	// and discards any still-pending backtrack frames built up since the
	// matching AtomicStart was crossed, so the group's internal
	// alternatives are never retried once it has matched once.
	AtomicStart bool
	AtomicEnd   bool

	// ClearCounters lists the counters to reset to zero on entering this
	// state — always the ending state of a counted-repetition fragment.
	ClearCounters []*Counter
}

// Span is an inclusive-exclusive [start, end) range within the subject.
type Span struct {
	Start, End int
}

// NFA is a compiled pattern: an arena of States reachable from Initial,
// the set of Ending states, the Counters introduced by counted-repetition
// nodes (identity tokens only — their live counts are per-path, held in
// the executor's MatchContext.Counts), and the capture group name map
// produced by the resolver.
type NFA struct {
	States       []State
	Initial      StateID
	Ending       []StateID
	Counters     []*Counter
	GroupNameMap map[int]string
}

// State returns the state with the given id. It panics on InvalidState,
// the sentinel a lookup helper returns when no state satisfies it, since
// indexing the arena with it would otherwise panic on an unrelated,
// harder-to-diagnose out-of-range access.
func (n *NFA) State(id StateID) *State {
	if id == InvalidState {
		panic("nfa: State: invalid state id")
	}
	return &n.States[id]
}

// IsEnding reports whether id is one of the NFA's ending states.
func (n *NFA) IsEnding(id StateID) bool {
	for _, e := range n.Ending {
		if e == id {
			return true
		}
	}
	return false
}

func (n *NFA) String() string {
	return fmt.Sprintf("NFA{states: %d, initial: q%d, ending: %v, counters: %d}",
		len(n.States), n.Initial, n.Ending, len(n.Counters))
}
