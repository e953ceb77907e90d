package nfa

// Counter is an identity token for one counted-repetition node ({n,m}):
// the CountIncrementMatcher, LoopGateMatcher, and ExitGateMatcher that
// node compiles into all share the same *Counter as a map key into the
// current backtrack path's MatchContext.Counts. Counter carries no count
// of its own — the count lives per-path, cloned frame to frame alongside
// capture-group state, so an abandoned attempt at a repetition (tried,
// failed deeper in, and retried via a different alternative) never
// inflates the count a sibling attempt sees. ClearCounters on a
// repetition's exit state drops its entry from the map entirely, so a
// later backtrack into an enclosing repetition starts this one fresh.
// The blank field only gives Counter a nonzero size: pointers to distinct
// zero-size values may compare equal, which would make two counters the
// same map key.
type Counter struct{ _ byte }
