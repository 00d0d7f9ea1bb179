package conduct

import "slices"

// FieldState is an immutable copy of one field's state at the moment a
// dispatch began. Payload members that do not apply to the field's kind
// hold their zero values.
type FieldState struct {
	ID       string
	Kind     Kind
	Visible  bool
	Required bool
	Enabled  bool

	Value    string   // text
	Checked  bool     // toggle
	Options  []string // choice
	Selected string   // choice
}

// Snapshot is a point-in-time copy of every governed field's state, taken
// before rule evaluation. Rules read all form state exclusively through the
// snapshot; mutating it has no effect on the live fields.
type Snapshot map[string]FieldState

// Field returns the state of the field with the given ID.
func (s Snapshot) Field(id string) (FieldState, bool) {
	fs, ok := s[id]
	if ok {
		fs.Options = slices.Clone(fs.Options)
	}
	return fs, ok
}
