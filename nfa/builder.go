package nfa

// Builder accumulates states and counters into an arena while the
// compiler walks the AST, then Build hands back an immutable NFA. Its
// methods are the only code that mutates a State after creation, which
// keeps the construction rules in compile.go free of arena bookkeeping.
type Builder struct {
	states   []State
	counters []*Counter
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// NewState allocates and returns the id of a fresh, transition-less
// state.
func (b *Builder) NewState() StateID {
	id := StateID(len(b.states))
	b.states = append(b.states, State{})
	return id
}

// AddTransition appends a transition to the end of from's priority order
// — the lowest-priority position, tried last during backtracking.
func (b *Builder) AddTransition(from StateID, m Matcher, to StateID) {
	b.states[from].Transitions = append(b.states[from].Transitions, Transition{M: m, To: to})
}

// PrependTransition inserts a transition at the front of from's priority
// order — the highest-priority position, tried first. Used wherever a
// lazy quantifier reverses the greedy default ordering.
func (b *Builder) PrependTransition(from StateID, m Matcher, to StateID) {
	b.states[from].Transitions = append([]Transition{{M: m, To: to}}, b.states[from].Transitions...)
}

// AddStartGroup records that entering state opens capture group id.
func (b *Builder) AddStartGroup(state StateID, id int) {
	b.states[state].StartGroups = append(b.states[state].StartGroups, id)
}

// AddEndGroup records that entering state closes capture group id.
func (b *Builder) AddEndGroup(state StateID, id int) {
	b.states[state].EndGroups = append(b.states[state].EndGroups, id)
}

// SetAtomicStart marks state as the entry point of an atomic group.
func (b *Builder) SetAtomicStart(state StateID) {
	b.states[state].AtomicStart = true
}

// SetAtomicEnd marks state as the commit point of an atomic group.
func (b *Builder) SetAtomicEnd(state StateID) {
	b.states[state].AtomicEnd = true
}

// NewCounter allocates a fresh zeroed Counter owned by this builder's
// eventual NFA.
func (b *Builder) NewCounter() *Counter {
	c := &Counter{}
	b.counters = append(b.counters, c)
	return c
}

// AddClearCounter records that entering state resets c to zero.
func (b *Builder) AddClearCounter(state StateID, c *Counter) {
	b.states[state].ClearCounters = append(b.states[state].ClearCounters, c)
}

// StateAt exposes a state for merging during fragment concatenation; only
// compile.go's appendFragment uses this.
func (b *Builder) StateAt(id StateID) *State {
	return &b.states[id]
}

// lookupRenumbered returns the post-compaction id old maps to, or
// InvalidState if old was pruned as unreachable from initial.
func lookupRenumbered(oldToNew map[StateID]StateID, old StateID) StateID {
	if nid, ok := oldToNew[old]; ok {
		return nid
	}
	return InvalidState
}

// Build discards every state unreachable from initial (compaction keeps
// the invariant that every state in the finished NFA is reachable from
// Initial, even though concatenation's state-fusion leaves the donor
// fragment's initial state orphaned in the arena) and returns the
// finished, renumbered NFA. It reports a *BuildError if initial is not a
// state this Builder allocated, or if none of ending survives
// compaction — both indicate an inconsistently hand-assembled NFA rather
// than anything Compile itself can produce, but Build validates them
// independently since nothing else stands between a caller and the
// executor.
func (b *Builder) Build(initial StateID, ending []StateID, groupNames map[int]string) (*NFA, error) {
	if initial == InvalidState || int(initial) < 0 || int(initial) >= len(b.states) {
		return nil, &BuildError{Message: "initial state is not part of this builder"}
	}

	oldToNew := make(map[StateID]StateID)
	order := make([]StateID, 0, len(b.states))

	stack := []StateID{initial}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := oldToNew[id]; seen {
			continue
		}
		oldToNew[id] = StateID(len(order))
		order = append(order, id)
		for _, t := range b.states[id].Transitions {
			if _, seen := oldToNew[t.To]; !seen {
				stack = append(stack, t.To)
			}
		}
	}

	newStates := make([]State, len(order))
	for newID, oldID := range order {
		old := b.states[oldID]
		ns := State{
			StartGroups:   old.StartGroups,
			EndGroups:     old.EndGroups,
			AtomicStart:   old.AtomicStart,
			AtomicEnd:     old.AtomicEnd,
			ClearCounters: old.ClearCounters,
		}
		ns.Transitions = make([]Transition, len(old.Transitions))
		for i, t := range old.Transitions {
			ns.Transitions[i] = Transition{M: t.M, To: oldToNew[t.To]}
		}
		newStates[newID] = ns
	}

	newEnding := make([]StateID, 0, len(ending))
	for _, e := range ending {
		if nid := lookupRenumbered(oldToNew, e); nid != InvalidState {
			newEnding = append(newEnding, nid)
		}
	}
	if len(newEnding) == 0 {
		return nil, &BuildError{Message: "no ending state is reachable from initial"}
	}

	return &NFA{
		States:       newStates,
		Initial:      oldToNew[initial],
		Ending:       newEnding,
		Counters:     b.counters,
		GroupNameMap: groupNames,
	}, nil
}
