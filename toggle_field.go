package conduct

import "strconv"

// ToggleField is a boolean checkbox-like field.
type ToggleField struct {
	fieldCore
	checked bool
}

// NewToggleField creates a ToggleField and registers it with the
// Coordinator. Registration fails with a ConfigurationError if the
// Coordinator has already dispatched a notification or the ID is taken.
func NewToggleField(c *Coordinator, id string) (*ToggleField, error) {
	f := &ToggleField{fieldCore: newFieldCore(c, id, KindToggle)}
	if err := c.register(f); err != nil {
		return nil, err
	}
	return f, nil
}

// Checked returns the current checked state.
func (f *ToggleField) Checked() bool { return f.checked }

// SetChecked sets the checked state and reports whether it changed. This is
// the Coordinator's mutation surface; it does not emit a Notification.
func (f *ToggleField) SetChecked(v bool) bool {
	if f.checked == v {
		return false
	}
	f.coord.record(f.id, AttrChecked, strconv.FormatBool(f.checked), strconv.FormatBool(v))
	f.checked = v
	return true
}

// Toggle flips the checked state as a user action and synchronously
// notifies the Coordinator. The returned error is whatever the dispatch
// surfaced; the flip itself always takes effect.
func (f *ToggleField) Toggle() error {
	f.SetChecked(!f.checked)
	return f.notify(Toggled)
}

func (f *ToggleField) state() FieldState {
	s := f.coreState()
	s.Checked = f.checked
	return s
}

func (f *ToggleField) apply(cmd Command) (bool, error) {
	if changed, handled := f.applyFlag(cmd); handled {
		return changed, nil
	}
	if cmd.Attr == AttrChecked {
		return f.SetChecked(cmd.Flag), nil
	}
	return false, f.unsupported(cmd)
}
