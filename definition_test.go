package conduct

import (
	"strings"
	"testing"
)

func TestBuild_AppliesDefinition(t *testing.T) {
	form := buildFlowerForm(t)

	if got := len(form.Texts); got != 3 {
		t.Errorf("expected 3 text fields, got %d", got)
	}
	if got := len(form.Toggles); got != 2 {
		t.Errorf("expected 2 toggle fields, got %d", got)
	}
	if got := len(form.Choices); got != 2 {
		t.Errorf("expected 2 choice fields, got %d", got)
	}

	// Omitted flags default to true; explicit false is honored.
	if !form.Texts["address"].Visible() {
		t.Error("address should default to visible")
	}
	if form.Texts["recipientName"].Visible() {
		t.Error("recipientName is declared hidden")
	}
}

func TestBuild_HistoryStartsEmpty(t *testing.T) {
	form := buildFlowerForm(t)
	if recs := form.Coordinator.History(); len(recs) != 0 {
		t.Errorf("setup mutations should not appear in history, got %d records", len(recs))
	}
}

func TestBuild_AppliesDepthBound(t *testing.T) {
	def := FormDefinition{
		Name:       "bounded",
		DepthBound: 2,
		Fields:     []FieldDefinition{{ID: "a", Kind: "text"}},
	}
	form, err := Build(def, NewRuleSet())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if form.Coordinator.bound != 2 {
		t.Errorf("expected depth bound 2, got %d", form.Coordinator.bound)
	}
}

func TestDefinition_ValidateRejectsMissingName(t *testing.T) {
	def := FormDefinition{
		Fields: []FieldDefinition{{ID: "a", Kind: "text"}},
	}
	if err := def.Validate(); err == nil {
		t.Error("expected a validation error for the missing name")
	}
}

func TestDefinition_ValidateRejectsUnknownKind(t *testing.T) {
	def := FormDefinition{
		Name:   "broken",
		Fields: []FieldDefinition{{ID: "a", Kind: "spinner"}},
	}
	if err := def.Validate(); err == nil {
		t.Error("expected a validation error for the unknown kind")
	}
}

func TestDefinition_ValidateRejectsDuplicateIDs(t *testing.T) {
	def := FormDefinition{
		Name: "dup",
		Fields: []FieldDefinition{
			{ID: "a", Kind: "text"},
			{ID: "a", Kind: "toggle"},
		},
	}
	err := def.Validate()
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("expected a duplicate ID error, got %v", err)
	}
}

func TestDefinition_ValidateRejectsMismatchedPayload(t *testing.T) {
	def := FormDefinition{
		Name: "mismatch",
		Fields: []FieldDefinition{
			{ID: "a", Kind: "toggle", Value: "oops"},
		},
	}
	if err := def.Validate(); err == nil {
		t.Error("expected a payload mismatch error for value on a toggle")
	}
}

func TestDefinition_ValidateRejectsStrangeSelection(t *testing.T) {
	def := FormDefinition{
		Name: "selection",
		Fields: []FieldDefinition{
			{ID: "day", Kind: "choice", Options: []string{"Monday"}, Selected: "Friday"},
		},
	}
	err := def.Validate()
	if err == nil || !strings.Contains(err.Error(), "not among") {
		t.Errorf("expected a selection error, got %v", err)
	}
}
