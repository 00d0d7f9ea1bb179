package conduct

// TextField is a free-form text entry field.
type TextField struct {
	fieldCore
	value string
}

// NewTextField creates a TextField and registers it with the Coordinator.
// Registration fails with a ConfigurationError if the Coordinator has
// already dispatched a notification or the ID is taken.
func NewTextField(c *Coordinator, id string) (*TextField, error) {
	f := &TextField{fieldCore: newFieldCore(c, id, KindText)}
	if err := c.register(f); err != nil {
		return nil, err
	}
	return f, nil
}

// Value returns the current text.
func (f *TextField) Value() string { return f.value }

// SetText sets the text and reports whether it changed. This is the
// Coordinator's mutation surface; it does not emit a Notification.
func (f *TextField) SetText(value string) bool {
	if f.value == value {
		return false
	}
	f.coord.record(f.id, AttrValue, f.value, value)
	f.value = value
	return true
}

// Edit replaces the text as a user action and synchronously notifies the
// Coordinator. The returned error is whatever the dispatch surfaced, such
// as a CoordinationError from a runaway cascade; the edit itself always
// takes effect.
func (f *TextField) Edit(value string) error {
	f.SetText(value)
	return f.notify(ValueChanged)
}

func (f *TextField) state() FieldState {
	s := f.coreState()
	s.Value = f.value
	return s
}

func (f *TextField) apply(cmd Command) (bool, error) {
	if changed, handled := f.applyFlag(cmd); handled {
		return changed, nil
	}
	if cmd.Attr == AttrValue {
		return f.SetText(cmd.Text), nil
	}
	return false, f.unsupported(cmd)
}
