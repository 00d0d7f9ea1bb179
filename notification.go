package conduct

import "time"

// EventKind identifies what happened to a field.
type EventKind string

// User-originated event kinds, emitted by a field's action entry points
// (Edit, Toggle, Select).
const (
	// ValueChanged is emitted when the user edits a text field.
	ValueChanged EventKind = "valueChanged"

	// Toggled is emitted when the user flips a toggle field.
	Toggled EventKind = "toggled"

	// SelectionChanged is emitted when the user selects a choice option.
	SelectionChanged EventKind = "selectionChanged"
)

// Synthetic event kinds, enqueued by the Coordinator when an applied Command
// actually changes field state. They are distinct from the user-originated
// kinds so a rule keyed on a user action can never be re-triggered by a
// Command; the only way to re-enter a rule is to key it on a synthetic kind,
// which is what the cascade depth bound guards.
const (
	VisibleSet  EventKind = "visibleSet"
	RequiredSet EventKind = "requiredSet"
	EnabledSet  EventKind = "enabledSet"
	ValueSet    EventKind = "valueSet"
	CheckedSet  EventKind = "checkedSet"
	OptionsSet  EventKind = "optionsSet"
	SelectedSet EventKind = "selectedSet"
)

// Notification is an immutable record of a state change on one field,
// submitted to the Coordinator and consumed exactly once.
//
// Fields construct a Notification with Source and Event only; the
// Coordinator stamps ID, Seq, and Time at intake so ordering never depends
// on the caller's clock. Depth is zero for user actions and parent+1 for
// synthetic cascade notifications.
type Notification struct {
	Source string
	Event  EventKind

	ID    string
	Seq   uint64
	Time  time.Time
	Depth int
}

// Synthetic reports whether the notification was produced by the
// Coordinator applying a Command rather than by a user action.
func (n Notification) Synthetic() bool {
	return n.Depth > 0
}
