package conduct

// Attribute identifies which part of a field a Command mutates.
type Attribute int

const (
	AttrVisible Attribute = iota
	AttrRequired
	AttrEnabled
	AttrValue
	AttrChecked
	AttrOptions
	AttrSelected
)

// String returns the attribute name as used in change records and signals.
func (a Attribute) String() string {
	switch a {
	case AttrVisible:
		return "visible"
	case AttrRequired:
		return "required"
	case AttrEnabled:
		return "enabled"
	case AttrValue:
		return "value"
	case AttrChecked:
		return "checked"
	case AttrOptions:
		return "options"
	case AttrSelected:
		return "selected"
	default:
		return "unknown"
	}
}

// event returns the synthetic event kind enqueued when a command on this
// attribute changes field state.
func (a Attribute) event() EventKind {
	switch a {
	case AttrVisible:
		return VisibleSet
	case AttrRequired:
		return RequiredSet
	case AttrEnabled:
		return EnabledSet
	case AttrValue:
		return ValueSet
	case AttrChecked:
		return CheckedSet
	case AttrOptions:
		return OptionsSet
	default:
		return SelectedSet
	}
}

// Command instructs the Coordinator to set one attribute of one field.
// Commands are issued by rules and applied only by the Coordinator, in batch
// order, through the target field's setters. A Command can never invoke a
// field's user-action entry points.
type Command struct {
	Target string
	Attr   Attribute

	// Exactly one of the following carries the new value, per Attr.
	Flag    bool     // visible, required, enabled, checked
	Text    string   // value, selected
	Options []string // options
}

// SetVisible returns a command that sets the target field's visibility.
func SetVisible(target string, v bool) Command {
	return Command{Target: target, Attr: AttrVisible, Flag: v}
}

// SetRequired returns a command that sets the target field's required flag.
func SetRequired(target string, v bool) Command {
	return Command{Target: target, Attr: AttrRequired, Flag: v}
}

// SetEnabled returns a command that sets the target field's enabled flag.
func SetEnabled(target string, v bool) Command {
	return Command{Target: target, Attr: AttrEnabled, Flag: v}
}

// SetValue returns a command that sets a text field's value.
func SetValue(target, value string) Command {
	return Command{Target: target, Attr: AttrValue, Text: value}
}

// SetChecked returns a command that sets a toggle field's checked state.
func SetChecked(target string, v bool) Command {
	return Command{Target: target, Attr: AttrChecked, Flag: v}
}

// SetOptions returns a command that replaces a choice field's options.
// If the field's current selection is absent from the new options, the
// selection is cleared as part of the same mutation.
func SetOptions(target string, options ...string) Command {
	return Command{Target: target, Attr: AttrOptions, Options: options}
}

// SetSelected returns a command that sets a choice field's selection.
func SetSelected(target, option string) Command {
	return Command{Target: target, Attr: AttrSelected, Text: option}
}
