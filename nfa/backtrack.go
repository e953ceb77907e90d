package nfa

import (
	"github.com/corebt/btregex/internal/conv"
	"github.com/corebt/btregex/internal/sparse"
)

// frame is one entry of the executor's explicit backtrack stack: the
// state currently occupied, the input position reached to get there, the
// index of the next transition of that state still to be tried, and the
// capture-group, repetition-count, and epsilon-loop-guard state
// accumulated along the path that led here. Every frame owns its own
// starts/closed/counts maps and its own visited set — copy-on-push, never
// shared — so popping back to an earlier frame during backtracking
// restores exactly the state that was in effect at that point, with no
// cleanup required.
type frame struct {
	state StateID
	pos   int
	next  int

	starts map[int]int      // group id -> position it most recently opened at
	closed map[int]Span     // group id -> its most recently completed span
	counts map[*Counter]int // counted-repetition node -> iterations completed so far

	visited *sparse.Set // states already entered via an epsilon edge at pos
}

func cloneGroups(starts map[int]int, closed map[int]Span) (map[int]int, map[int]Span) {
	ns := make(map[int]int, len(starts))
	for k, v := range starts {
		ns[k] = v
	}
	nc := make(map[int]Span, len(closed))
	for k, v := range closed {
		nc[k] = v
	}
	return ns, nc
}

func cloneCounts(counts map[*Counter]int) map[*Counter]int {
	nc := make(map[*Counter]int, len(counts))
	for k, v := range counts {
		nc[k] = v
	}
	return nc
}

// applyGroups clones the incoming group and counter maps and applies the
// effects of entering state s at pos: opening any groups it starts,
// closing any groups it ends (recording their span for later
// backreference lookups), and clearing any counters it resets — always
// the exit state of a counted-repetition fragment, so that fragment
// starts counting fresh the next time an enclosing repetition loops back
// into it.
func applyGroups(s *State, pos int, starts map[int]int, closed map[int]Span, counts map[*Counter]int) (map[int]int, map[int]Span, map[*Counter]int) {
	ns, nc := cloneGroups(starts, closed)
	ncounts := cloneCounts(counts)
	for _, g := range s.StartGroups {
		ns[g] = pos
	}
	for _, g := range s.EndGroups {
		if start, ok := ns[g]; ok {
			nc[g] = Span{Start: start, End: pos}
		}
	}
	for _, c := range s.ClearCounters {
		delete(ncounts, c)
	}
	return ns, nc, ncounts
}

// Compute runs one match attempt: it tries to match n starting exactly at
// position start in subject (no scanning for a later start position —
// that is Regex.Find's job, which retries Compute at successive starting
// offsets). It returns whether the attempt succeeded and, if so, the
// capture spans reached along the accepting path — group 0 is always
// present in the map and gives the overall match bounds.
//
// maxSteps bounds how many main-loop iterations (each transition tried,
// and each exhausted frame popped) run before the attempt is abandoned as
// a non-match; zero means unbounded.
func Compute(n *NFA, subject []rune, start int, multiline, lenientBackreferences bool, maxSteps int) (bool, map[int]Span) {
	ctx := &MatchContext{
		Subject:      subject,
		Multiline:    multiline,
		Lenient:      lenientBackreferences,
		AttemptStart: start,
	}

	initStarts, initClosed, initCounts := applyGroups(n.State(n.Initial), start, nil, nil, nil)
	root := &frame{
		state:   n.Initial,
		pos:     start,
		starts:  initStarts,
		closed:  initClosed,
		counts:  initCounts,
		visited: sparse.New(len(n.States)),
	}
	root.visited.Insert(conv.IntToUint32(int(n.Initial)))

	stack := []*frame{root}
	var atomicMarkers []int

	arrive := func(to StateID, pos int, starts map[int]int, closed map[int]Span, counts map[*Counter]int, visited *sparse.Set) {
		st := n.State(to)
		ns, nc, ncounts := applyGroups(st, pos, starts, closed, counts)
		child := &frame{state: to, pos: pos, starts: ns, closed: nc, counts: ncounts, visited: visited}

		if st.AtomicStart {
			atomicMarkers = append(atomicMarkers, len(stack))
		}
		stack = append(stack, child)
		if st.AtomicEnd && len(atomicMarkers) > 0 {
			marker := atomicMarkers[len(atomicMarkers)-1]
			atomicMarkers = atomicMarkers[:len(atomicMarkers)-1]
			// Commit: drop every frame pushed since the matching
			// AtomicStart, including its own entry frame, keeping only
			// the newly-arrived frame at the marker depth.
			stack[marker] = child
			stack = stack[:marker+1]
		}
	}

	steps := 0
	for len(stack) > 0 {
		if maxSteps > 0 {
			steps++
			if steps > maxSteps {
				return false, nil
			}
		}

		top := stack[len(stack)-1]

		if n.IsEnding(top.state) {
			return true, top.closed
		}

		st := n.State(top.state)
		if top.next >= len(st.Transitions) {
			stack = stack[:len(stack)-1]
			for len(atomicMarkers) > 0 && atomicMarkers[len(atomicMarkers)-1] >= len(stack) {
				atomicMarkers = atomicMarkers[:len(atomicMarkers)-1]
			}
			continue
		}

		tr := st.Transitions[top.next]
		top.next++

		ctx.GroupMatches = top.closed
		ctx.Counts = top.counts
		ok, width := tr.M.Matches(ctx, top.pos)
		if !ok {
			continue
		}

		if width == 0 {
			if top.visited.Contains(conv.IntToUint32(int(tr.To))) {
				continue
			}
			childVisited := top.visited.Clone()
			childVisited.Insert(conv.IntToUint32(int(tr.To)))
			arrive(tr.To, top.pos, top.starts, top.closed, top.counts, childVisited)
		} else {
			childVisited := sparse.New(len(n.States))
			childVisited.Insert(conv.IntToUint32(int(tr.To)))
			arrive(tr.To, top.pos+width, top.starts, top.closed, top.counts, childVisited)
		}
	}

	return false, nil
}
