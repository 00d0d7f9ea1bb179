package conduct

import (
	"slices"
	"strings"
)

// ChoiceField is a single-selection list field.
type ChoiceField struct {
	fieldCore
	options  []string
	selected string
}

// NewChoiceField creates a ChoiceField with the given options and registers
// it with the Coordinator. Registration fails with a ConfigurationError if
// the Coordinator has already dispatched a notification or the ID is taken.
func NewChoiceField(c *Coordinator, id string, options ...string) (*ChoiceField, error) {
	f := &ChoiceField{
		fieldCore: newFieldCore(c, id, KindChoice),
		options:   slices.Clone(options),
	}
	if err := c.register(f); err != nil {
		return nil, err
	}
	return f, nil
}

// Options returns a copy of the current options.
func (f *ChoiceField) Options() []string {
	return slices.Clone(f.options)
}

// Selected returns the currently selected option, or "" if none.
func (f *ChoiceField) Selected() string { return f.selected }

// SetOptions replaces the options and reports whether anything changed.
// If the current selection is absent from the new options it is cleared as
// part of the same mutation. This is the Coordinator's mutation surface; it
// does not emit a Notification.
func (f *ChoiceField) SetOptions(options ...string) bool {
	next := slices.Clone(options)
	if slices.Equal(f.options, next) {
		return false
	}
	f.coord.record(f.id, AttrOptions, strings.Join(f.options, ","), strings.Join(next, ","))
	f.options = next
	if f.selected != "" && !slices.Contains(next, f.selected) {
		f.coord.record(f.id, AttrSelected, f.selected, "")
		f.selected = ""
	}
	return true
}

// SetSelected sets the selection and reports whether it changed. This is
// the Coordinator's mutation surface; it does not emit a Notification.
func (f *ChoiceField) SetSelected(option string) bool {
	if f.selected == option {
		return false
	}
	f.coord.record(f.id, AttrSelected, f.selected, option)
	f.selected = option
	return true
}

// Select sets the selection as a user action and synchronously notifies the
// Coordinator. The field does not reject selections outside its option
// list; input validation belongs to the surrounding form. The returned
// error is whatever the dispatch surfaced; the selection itself always
// takes effect.
func (f *ChoiceField) Select(option string) error {
	f.SetSelected(option)
	return f.notify(SelectionChanged)
}

func (f *ChoiceField) state() FieldState {
	s := f.coreState()
	s.Options = slices.Clone(f.options)
	s.Selected = f.selected
	return s
}

func (f *ChoiceField) apply(cmd Command) (bool, error) {
	if changed, handled := f.applyFlag(cmd); handled {
		return changed, nil
	}
	switch cmd.Attr {
	case AttrOptions:
		return f.SetOptions(cmd.Options...), nil
	case AttrSelected:
		return f.SetSelected(cmd.Text), nil
	default:
		return false, f.unsupported(cmd)
	}
}
