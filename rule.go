package conduct

// Rule maps a form snapshot and the triggering Notification to an ordered
// batch of Commands. Rules must be pure: all state they need comes from the
// snapshot, and the full target state follows from the snapshot alone, so
// evaluating the same Notification against the same snapshot twice yields
// the same batch.
type Rule func(s Snapshot, n Notification) []Command

type ruleEntry struct {
	source string
	event  EventKind
	rule   Rule
}

// RuleSet is the ordered collection of rules owned by a Coordinator.
// Rules are keyed by (source field ID, event kind); registration order is
// evaluation order, and when several rules share a key their command
// batches are concatenated in that same order. A (source, event) pair with
// no rules is a no-op, not an error.
//
// A RuleSet is assembled before the Coordinator is constructed and must not
// be modified once dispatch has begun.
type RuleSet struct {
	entries []ruleEntry
}

// NewRuleSet returns an empty RuleSet.
func NewRuleSet() *RuleSet {
	return &RuleSet{}
}

// On registers a rule for notifications from the given source field with
// the given event kind. It returns the RuleSet for chaining.
func (rs *RuleSet) On(source string, event EventKind, rule Rule) *RuleSet {
	rs.entries = append(rs.entries, ruleEntry{source: source, event: event, rule: rule})
	return rs
}

// Len returns the number of registered rules.
func (rs *RuleSet) Len() int {
	return len(rs.entries)
}

// match returns the rules registered for (source, event) in registration
// order.
func (rs *RuleSet) match(source string, event EventKind) []Rule {
	var out []Rule
	for _, e := range rs.entries {
		if e.source == source && e.event == event {
			out = append(out, e.rule)
		}
	}
	return out
}

// sources returns the distinct source IDs referenced by the rule set, in
// first-appearance order. The Coordinator checks them against its registry
// when it seals.
func (rs *RuleSet) sources() []string {
	seen := make(map[string]bool, len(rs.entries))
	var out []string
	for _, e := range rs.entries {
		if !seen[e.source] {
			seen[e.source] = true
			out = append(out, e.source)
		}
	}
	return out
}
