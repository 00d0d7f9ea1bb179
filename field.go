package conduct

import (
	"fmt"
	"strconv"
)

// Kind identifies a field variant.
type Kind int

const (
	// KindText is a free-form text entry field.
	KindText Kind = iota
	// KindToggle is a boolean checkbox-like field.
	KindToggle
	// KindChoice is a single-selection list field.
	KindChoice
)

// String returns the kind name as used in definitions and signals.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindToggle:
		return "toggle"
	case KindChoice:
		return "choice"
	default:
		return "unknown"
	}
}

// Field is an independently addressable stateful form element governed by a
// Coordinator. The three variants are TextField, ToggleField, and
// ChoiceField.
//
// The flag setters are the Coordinator's mutation surface: they change local
// state and record the change, but never emit a Notification. Each setter
// reports whether the call actually changed the flag. User actions (Edit,
// Toggle, Select on the concrete types) are the only operations that emit
// Notifications.
type Field interface {
	ID() string
	Kind() Kind

	Visible() bool
	Required() bool
	Enabled() bool

	SetVisible(bool) bool
	SetRequired(bool) bool
	SetEnabled(bool) bool

	// state returns an immutable copy of the field's full state.
	state() FieldState

	// apply performs one Command through the field's setters and reports
	// whether state changed. Commands for attributes the field kind does
	// not carry fail with a ConfigurationError.
	apply(Command) (bool, error)
}

// fieldCore carries the identity, flags, and Coordinator back-reference
// shared by all field variants. The back-reference is non-owning and is used
// only to submit notifications and change records; a field never reads
// another field's state through it.
type fieldCore struct {
	id    string
	kind  Kind
	coord *Coordinator

	visible  bool
	required bool
	enabled  bool
}

func newFieldCore(c *Coordinator, id string, kind Kind) fieldCore {
	return fieldCore{
		id:      id,
		kind:    kind,
		coord:   c,
		visible: true,
		enabled: true,
	}
}

// ID returns the field's stable identity.
func (f *fieldCore) ID() string { return f.id }

// Kind returns the field variant.
func (f *fieldCore) Kind() Kind { return f.kind }

// Visible reports whether the field is shown.
func (f *fieldCore) Visible() bool { return f.visible }

// Required reports whether the field must be filled in.
func (f *fieldCore) Required() bool { return f.required }

// Enabled reports whether the field accepts user input.
func (f *fieldCore) Enabled() bool { return f.enabled }

// SetVisible sets the visibility flag and reports whether it changed.
func (f *fieldCore) SetVisible(v bool) bool {
	if f.visible == v {
		return false
	}
	f.coord.record(f.id, AttrVisible, strconv.FormatBool(f.visible), strconv.FormatBool(v))
	f.visible = v
	return true
}

// SetRequired sets the required flag and reports whether it changed.
func (f *fieldCore) SetRequired(v bool) bool {
	if f.required == v {
		return false
	}
	f.coord.record(f.id, AttrRequired, strconv.FormatBool(f.required), strconv.FormatBool(v))
	f.required = v
	return true
}

// SetEnabled sets the enabled flag and reports whether it changed.
func (f *fieldCore) SetEnabled(v bool) bool {
	if f.enabled == v {
		return false
	}
	f.coord.record(f.id, AttrEnabled, strconv.FormatBool(f.enabled), strconv.FormatBool(v))
	f.enabled = v
	return true
}

// applyFlag handles the flag attributes shared by every field kind.
// The second return reports whether the command was handled.
func (f *fieldCore) applyFlag(cmd Command) (changed, handled bool) {
	switch cmd.Attr {
	case AttrVisible:
		return f.SetVisible(cmd.Flag), true
	case AttrRequired:
		return f.SetRequired(cmd.Flag), true
	case AttrEnabled:
		return f.SetEnabled(cmd.Flag), true
	default:
		return false, false
	}
}

func (f *fieldCore) unsupported(cmd Command) error {
	return &ConfigurationError{
		Op:     "apply",
		Field:  f.id,
		Reason: fmt.Sprintf("%s field does not support attribute %q", f.kind, cmd.Attr),
	}
}

func (f *fieldCore) coreState() FieldState {
	return FieldState{
		ID:       f.id,
		Kind:     f.kind,
		Visible:  f.visible,
		Required: f.required,
		Enabled:  f.enabled,
	}
}

// notify submits a user-action notification through the Coordinator.
func (f *fieldCore) notify(event EventKind) error {
	return f.coord.Notify(Notification{Source: f.id, Event: event})
}
