package conduct

import (
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance for definition structs.
var validate = validator.New()

// FieldDefinition describes one field of a declarative form.
//
// Visible and Enabled are pointers so an omitted flag defaults to true;
// Required defaults to false. Payload members must match the kind: Value is
// text-only, Checked is toggle-only, Options and Selected are choice-only.
type FieldDefinition struct {
	ID       string   `json:"id" yaml:"id" toml:"id" validate:"required"`
	Kind     string   `json:"kind" yaml:"kind" toml:"kind" validate:"required,oneof=text toggle choice"`
	Visible  *bool    `json:"visible,omitempty" yaml:"visible,omitempty" toml:"visible"`
	Required bool     `json:"required,omitempty" yaml:"required,omitempty" toml:"required"`
	Enabled  *bool    `json:"enabled,omitempty" yaml:"enabled,omitempty" toml:"enabled"`
	Value    string   `json:"value,omitempty" yaml:"value,omitempty" toml:"value"`
	Checked  bool     `json:"checked,omitempty" yaml:"checked,omitempty" toml:"checked"`
	Options  []string `json:"options,omitempty" yaml:"options,omitempty" toml:"options"`
	Selected string   `json:"selected,omitempty" yaml:"selected,omitempty" toml:"selected"`
}

// FormDefinition is a declarative description of a form: its fields with
// their initial state, and the coordination settings. Definitions decode
// from JSON, YAML, or TOML via the Codec interface and are turned into live
// forms by Build.
type FormDefinition struct {
	Name       string            `json:"name" yaml:"name" toml:"name" validate:"required"`
	DepthBound int               `json:"depthBound,omitempty" yaml:"depthBound,omitempty" toml:"depthBound" validate:"gte=0"`
	Fields     []FieldDefinition `json:"fields" yaml:"fields" toml:"fields" validate:"required,min=1,dive"`
}

// Validate checks structural tags and the semantic constraints the tags
// cannot express: unique field IDs, kind-appropriate payloads, and that an
// initial selection appears in its option list.
func (d FormDefinition) Validate() error {
	if err := validate.Struct(d); err != nil {
		return err
	}

	seen := make(map[string]bool, len(d.Fields))
	for _, fd := range d.Fields {
		if seen[fd.ID] {
			return fmt.Errorf("duplicate field ID %q", fd.ID)
		}
		seen[fd.ID] = true

		switch fd.Kind {
		case "text":
			if fd.Checked || len(fd.Options) > 0 || fd.Selected != "" {
				return fmt.Errorf("field %q: text fields carry only a value", fd.ID)
			}
		case "toggle":
			if fd.Value != "" || len(fd.Options) > 0 || fd.Selected != "" {
				return fmt.Errorf("field %q: toggle fields carry only a checked state", fd.ID)
			}
		case "choice":
			if fd.Value != "" || fd.Checked {
				return fmt.Errorf("field %q: choice fields carry only options and a selection", fd.ID)
			}
			if fd.Selected != "" && !slices.Contains(fd.Options, fd.Selected) {
				return fmt.Errorf("field %q: selection %q is not among its options", fd.ID, fd.Selected)
			}
		}
	}
	return nil
}

// Form is a live form built from a definition: the Coordinator plus the
// concrete fields, keyed by ID and split per variant.
type Form struct {
	Coordinator *Coordinator
	Texts       map[string]*TextField
	Toggles     map[string]*ToggleField
	Choices     map[string]*ChoiceField
}

// Build validates a definition and constructs the Coordinator and its
// fields. Initial flags and payloads from the definition are applied before
// the form is returned, and the change history starts empty.
func Build(def FormDefinition, rules *RuleSet) (*Form, error) {
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("invalid form definition: %w", err)
	}

	coord := NewCoordinator(rules)
	if def.DepthBound > 0 {
		coord.DepthBound(def.DepthBound)
	}

	form := &Form{
		Coordinator: coord,
		Texts:       make(map[string]*TextField),
		Toggles:     make(map[string]*ToggleField),
		Choices:     make(map[string]*ChoiceField),
	}

	for _, fd := range def.Fields {
		switch fd.Kind {
		case "text":
			f, err := NewTextField(coord, fd.ID)
			if err != nil {
				return nil, err
			}
			f.SetText(fd.Value)
			applyDefinedFlags(f, fd)
			form.Texts[fd.ID] = f

		case "toggle":
			f, err := NewToggleField(coord, fd.ID)
			if err != nil {
				return nil, err
			}
			f.SetChecked(fd.Checked)
			applyDefinedFlags(f, fd)
			form.Toggles[fd.ID] = f

		case "choice":
			f, err := NewChoiceField(coord, fd.ID, fd.Options...)
			if err != nil {
				return nil, err
			}
			f.SetSelected(fd.Selected)
			applyDefinedFlags(f, fd)
			form.Choices[fd.ID] = f
		}
	}

	// Setup mutations are wiring, not form activity.
	coord.history.clear()

	return form, nil
}

func applyDefinedFlags(f Field, fd FieldDefinition) {
	if fd.Visible != nil {
		f.SetVisible(*fd.Visible)
	}
	if fd.Enabled != nil {
		f.SetEnabled(*fd.Enabled)
	}
	f.SetRequired(fd.Required)
}
