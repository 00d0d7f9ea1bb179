package conduct

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

var (
	testFullTimes    = []string{"09:00-12:00", "13:00-18:00", "19:00-21:00"}
	testWeekendTimes = []string{"10:00-14:00"}
)

// flowerRules builds the delivery form rule set used across the scenario
// tests: weekend dates restrict delivery times, the alternate recipient
// toggle reveals two required fields, and pickup disables delivery.
func flowerRules() *RuleSet {
	rules := NewRuleSet()

	rules.On("deliveryDate", SelectionChanged, func(s Snapshot, _ Notification) []Command {
		date, _ := s.Field("deliveryDate")
		times := testFullTimes
		if date.Selected == "Saturday" || date.Selected == "Sunday" {
			times = testWeekendTimes
		}
		return []Command{SetOptions("deliveryTime", times...)}
	})

	rules.On("alternateRecipient", Toggled, func(s Snapshot, _ Notification) []Command {
		alt, _ := s.Field("alternateRecipient")
		return []Command{
			SetVisible("recipientName", alt.Checked),
			SetRequired("recipientName", alt.Checked),
			SetVisible("recipientPhone", alt.Checked),
			SetRequired("recipientPhone", alt.Checked),
		}
	})

	rules.On("pickup", Toggled, func(s Snapshot, _ Notification) []Command {
		pickup, _ := s.Field("pickup")
		return []Command{
			SetEnabled("deliveryDate", !pickup.Checked),
			SetEnabled("deliveryTime", !pickup.Checked),
			SetVisible("address", !pickup.Checked),
		}
	})

	return rules
}

func flowerDefinition() FormDefinition {
	hidden := false
	return FormDefinition{
		Name: "flower-order",
		Fields: []FieldDefinition{
			{ID: "deliveryDate", Kind: "choice", Options: []string{"Monday", "Tuesday", "Saturday"}},
			{ID: "deliveryTime", Kind: "choice", Options: testFullTimes},
			{ID: "address", Kind: "text"},
			{ID: "pickup", Kind: "toggle"},
			{ID: "alternateRecipient", Kind: "toggle"},
			{ID: "recipientName", Kind: "text", Visible: &hidden},
			{ID: "recipientPhone", Kind: "text", Visible: &hidden},
		},
	}
}

func buildFlowerForm(t *testing.T) *Form {
	t.Helper()
	form, err := Build(flowerDefinition(), flowerRules())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return form
}

func TestCoordinator_WeekendRestrictsDeliveryTimes(t *testing.T) {
	form := buildFlowerForm(t)

	if err := form.Choices["deliveryDate"].Select("Saturday"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if got := form.Choices["deliveryTime"].Options(); !reflect.DeepEqual(got, testWeekendTimes) {
		t.Errorf("expected weekend times %v, got %v", testWeekendTimes, got)
	}

	if err := form.Choices["deliveryDate"].Select("Tuesday"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if got := form.Choices["deliveryTime"].Options(); !reflect.DeepEqual(got, testFullTimes) {
		t.Errorf("expected full times %v, got %v", testFullTimes, got)
	}
}

func TestCoordinator_AlternateRecipientTogglesVisibility(t *testing.T) {
	form := buildFlowerForm(t)
	name := form.Texts["recipientName"]
	phone := form.Texts["recipientPhone"]

	if name.Visible() || name.Required() || phone.Visible() || phone.Required() {
		t.Fatal("recipient fields should start hidden and optional")
	}

	if err := form.Toggles["alternateRecipient"].Toggle(); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if !name.Visible() || !name.Required() {
		t.Errorf("recipientName: expected visible+required, got visible=%t required=%t", name.Visible(), name.Required())
	}
	if !phone.Visible() || !phone.Required() {
		t.Errorf("recipientPhone: expected visible+required, got visible=%t required=%t", phone.Visible(), phone.Required())
	}

	if err := form.Toggles["alternateRecipient"].Toggle(); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if name.Visible() || name.Required() || phone.Visible() || phone.Required() {
		t.Error("recipient fields should return to hidden and optional")
	}
}

func TestCoordinator_PickupDisablesDelivery(t *testing.T) {
	form := buildFlowerForm(t)

	if err := form.Toggles["pickup"].Toggle(); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if form.Choices["deliveryDate"].Enabled() || form.Choices["deliveryTime"].Enabled() {
		t.Error("delivery fields should be disabled during pickup")
	}
	if form.Texts["address"].Visible() {
		t.Error("address should be hidden during pickup")
	}

	if err := form.Toggles["pickup"].Toggle(); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if !form.Choices["deliveryDate"].Enabled() || !form.Choices["deliveryTime"].Enabled() {
		t.Error("delivery fields should be re-enabled")
	}
	if !form.Texts["address"].Visible() {
		t.Error("address should be visible again")
	}
}

func TestCoordinator_PickupLeavesAlternateRecipientAlone(t *testing.T) {
	form := buildFlowerForm(t)

	if err := form.Toggles["alternateRecipient"].Toggle(); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if err := form.Toggles["pickup"].Toggle(); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}

	if !form.Toggles["alternateRecipient"].Checked() {
		t.Error("pickup must not reset the alternate recipient toggle")
	}
}

func TestCoordinator_UnknownEventIsNoOp(t *testing.T) {
	form := buildFlowerForm(t)
	before := form.Coordinator.Snapshot()

	// No rule matches address edits.
	if err := form.Texts["address"].Edit("12 Rose Street"); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}

	after := form.Coordinator.Snapshot()
	for id, fs := range after {
		if id == "address" {
			continue
		}
		if !reflect.DeepEqual(before[id], fs) {
			t.Errorf("field %s changed by an unmatched event: %+v -> %+v", id, before[id], fs)
		}
	}
	if got := form.Texts["address"].Value(); got != "12 Rose Street" {
		t.Errorf("expected edit to take effect, got %q", got)
	}
}

func TestCoordinator_RuleEvaluationIsDeterministic(t *testing.T) {
	formA := buildFlowerForm(t)
	formB := buildFlowerForm(t)

	for _, form := range []*Form{formA, formB} {
		if err := form.Choices["deliveryDate"].Select("Saturday"); err != nil {
			t.Fatalf("Select failed: %v", err)
		}
	}

	if !reflect.DeepEqual(formA.Coordinator.Snapshot(), formB.Coordinator.Snapshot()) {
		t.Error("identical notifications against identical forms must yield identical state")
	}
}

func TestCoordinator_RuleBatchesConcatenateInRegistrationOrder(t *testing.T) {
	rules := NewRuleSet()
	rules.On("trigger", Toggled, func(_ Snapshot, _ Notification) []Command {
		return []Command{SetValue("out", "first")}
	})
	rules.On("trigger", Toggled, func(_ Snapshot, _ Notification) []Command {
		return []Command{SetValue("out", "second")}
	})

	coord := NewCoordinator(rules)
	trigger, err := NewToggleField(coord, "trigger")
	if err != nil {
		t.Fatalf("NewToggleField failed: %v", err)
	}
	out, err := NewTextField(coord, "out")
	if err != nil {
		t.Fatalf("NewTextField failed: %v", err)
	}

	if err := trigger.Toggle(); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}

	if got := out.Value(); got != "second" {
		t.Errorf("expected the later rule's command to apply last, got %q", got)
	}

	var values []string
	for _, rec := range coord.History() {
		if rec.Field == "out" && rec.Attr == AttrValue {
			values = append(values, rec.To)
		}
	}
	if !reflect.DeepEqual(values, []string{"first", "second"}) {
		t.Errorf("expected commands applied in registration order, got %v", values)
	}
}

func TestCoordinator_CascadeAcrossRules(t *testing.T) {
	rules := NewRuleSet()
	rules.On("trigger", Toggled, func(_ Snapshot, _ Notification) []Command {
		return []Command{SetVisible("middle", true)}
	})
	rules.On("middle", VisibleSet, func(_ Snapshot, _ Notification) []Command {
		return []Command{SetRequired("leaf", true)}
	})

	coord := NewCoordinator(rules)
	trigger, _ := NewToggleField(coord, "trigger")
	middle, _ := NewTextField(coord, "middle")
	leaf, _ := NewTextField(coord, "leaf")
	middle.SetVisible(false)

	if err := trigger.Toggle(); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if !middle.Visible() {
		t.Error("middle should be visible")
	}
	if !leaf.Required() {
		t.Error("cascade should have made leaf required")
	}
}

func TestCoordinator_DepthBoundStopsPingPong(t *testing.T) {
	rules := NewRuleSet()
	rules.On("trigger", Toggled, func(s Snapshot, _ Notification) []Command {
		a, _ := s.Field("a")
		return []Command{SetVisible("a", !a.Visible)}
	})
	rules.On("a", VisibleSet, func(s Snapshot, _ Notification) []Command {
		b, _ := s.Field("b")
		return []Command{SetVisible("b", !b.Visible)}
	})
	rules.On("b", VisibleSet, func(s Snapshot, _ Notification) []Command {
		a, _ := s.Field("a")
		return []Command{SetVisible("a", !a.Visible)}
	})

	coord := NewCoordinator(rules).DepthBound(3)
	trigger, _ := NewToggleField(coord, "trigger")
	NewTextField(coord, "a")
	NewTextField(coord, "b")

	err := trigger.Toggle()
	if err == nil {
		t.Fatal("expected a CoordinationError from the ping-pong cascade")
	}
	var coordErr *CoordinationError
	if !errors.As(err, &coordErr) {
		t.Fatalf("expected CoordinationError, got %T: %v", err, err)
	}
	if coordErr.Bound != 3 {
		t.Errorf("expected bound 3, got %d", coordErr.Bound)
	}
	if coordErr.Depth <= coordErr.Bound {
		t.Errorf("reported depth %d should exceed bound %d", coordErr.Depth, coordErr.Bound)
	}
}

func TestCoordinator_UsableAfterCoordinationError(t *testing.T) {
	rules := NewRuleSet()
	rules.On("a", VisibleSet, func(s Snapshot, _ Notification) []Command {
		a, _ := s.Field("a")
		return []Command{SetVisible("a", !a.Visible)}
	})
	rules.On("trigger", Toggled, func(_ Snapshot, _ Notification) []Command {
		return []Command{SetVisible("a", false)}
	})

	coord := NewCoordinator(rules).DepthBound(2)
	trigger, _ := NewToggleField(coord, "trigger")
	NewTextField(coord, "a")
	other, _ := NewTextField(coord, "other")

	if err := trigger.Toggle(); err == nil {
		t.Fatal("expected the self-toggling rule to exceed the bound")
	}

	// An independent notification still dispatches normally.
	if err := other.Edit("hello"); err != nil {
		t.Errorf("coordinator should remain usable, got %v", err)
	}
}

func TestCoordinator_RegisterAfterDispatchFails(t *testing.T) {
	coord := NewCoordinator(NewRuleSet())
	f, err := NewTextField(coord, "a")
	if err != nil {
		t.Fatalf("NewTextField failed: %v", err)
	}
	if err := f.Edit("x"); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}

	_, err = NewTextField(coord, "late")
	if err == nil {
		t.Fatal("expected registration after dispatch to fail")
	}
	var confErr *ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("expected ConfigurationError, got %T: %v", err, err)
	}
	if confErr.Op != "register" {
		t.Errorf("expected op register, got %q", confErr.Op)
	}
}

func TestCoordinator_RuleOnUnregisteredFieldFailsAtSeal(t *testing.T) {
	rules := NewRuleSet()
	rules.On("ghost", Toggled, func(_ Snapshot, _ Notification) []Command { return nil })

	coord := NewCoordinator(rules)
	f, _ := NewTextField(coord, "a")

	err := f.Edit("x")
	var confErr *ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("expected ConfigurationError, got %T: %v", err, err)
	}
	if confErr.Field != "ghost" {
		t.Errorf("expected the unregistered field to be named, got %q", confErr.Field)
	}
}

func TestCoordinator_CommandOnUnregisteredTargetFails(t *testing.T) {
	rules := NewRuleSet()
	rules.On("trigger", Toggled, func(_ Snapshot, _ Notification) []Command {
		return []Command{
			SetVisible("a", false),
			SetVisible("ghost", true),
		}
	})

	coord := NewCoordinator(rules)
	trigger, _ := NewToggleField(coord, "trigger")
	a, _ := NewTextField(coord, "a")

	err := trigger.Toggle()
	var confErr *ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("expected ConfigurationError, got %T: %v", err, err)
	}

	// Batches apply command by command; the commands before the bad one
	// stay applied.
	if a.Visible() {
		t.Error("commands preceding the failure should remain applied")
	}
}

func TestCoordinator_MismatchedAttributeFails(t *testing.T) {
	rules := NewRuleSet()
	rules.On("trigger", Toggled, func(_ Snapshot, _ Notification) []Command {
		return []Command{SetChecked("name", true)}
	})

	coord := NewCoordinator(rules)
	trigger, _ := NewToggleField(coord, "trigger")
	NewTextField(coord, "name")

	err := trigger.Toggle()
	var confErr *ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("expected ConfigurationError for checked on a text field, got %T: %v", err, err)
	}
}

func TestCoordinator_NotificationsStampedWithClock(t *testing.T) {
	clock := clockz.NewFakeClock()
	rules := NewRuleSet()
	rules.On("trigger", Toggled, func(_ Snapshot, n Notification) []Command {
		if n.Seq == 0 {
			// Stamping happens at intake; rules must never see a bare
			// notification.
			return []Command{SetValue("out", "unstamped")}
		}
		return []Command{SetValue("out", "stamped")}
	})

	coord := NewCoordinator(rules).Clock(clock)
	trigger, _ := NewToggleField(coord, "trigger")
	out, _ := NewTextField(coord, "out")

	if err := trigger.Toggle(); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if got := out.Value(); got != "stamped" {
		t.Errorf("expected stamped notification, got %q", got)
	}

	recs := coord.History()
	if len(recs) == 0 {
		t.Fatal("expected change records")
	}
	for _, rec := range recs {
		if !rec.Time.Equal(clock.Now()) {
			t.Errorf("expected record timestamp from the injected clock, got %v", rec.Time)
		}
	}
}

func TestCoordinator_HistoryRecordsMutationsInOrder(t *testing.T) {
	form := buildFlowerForm(t)

	if err := form.Toggles["pickup"].Toggle(); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}

	recs := form.Coordinator.History()
	var got []string
	for _, rec := range recs {
		got = append(got, rec.Field+"."+rec.Attr.String())
	}
	want := []string{
		"pickup.checked", // the user action itself
		"deliveryDate.enabled",
		"deliveryTime.enabled",
		"address.visible",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected history %v, got %v", want, got)
	}
}

func TestCoordinator_MetricsCallbacks(t *testing.T) {
	m := &countingMetrics{}
	form, err := Build(flowerDefinition(), flowerRules())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	form.Coordinator.Metrics(m)

	if err := form.Toggles["pickup"].Toggle(); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}

	if m.notifications == 0 {
		t.Error("expected OnNotification calls")
	}
	if m.rules == 0 {
		t.Error("expected OnRuleMatched calls")
	}
	if m.dispatches == 0 {
		t.Error("expected OnDispatch calls")
	}
}

type countingMetrics struct {
	NoOpMetricsProvider
	notifications int
	rules         int
	dispatches    int
}

func (m *countingMetrics) OnNotification(_ EventKind, _ int)   { m.notifications++ }
func (m *countingMetrics) OnRuleMatched(_ string, _ EventKind) { m.rules++ }
func (m *countingMetrics) OnDispatch(_ int, _ time.Duration)   { m.dispatches++ }

func TestCoordinator_DispatchSignalCarriesBatchSize(t *testing.T) {
	var (
		mu      sync.Mutex
		batches []int
	)
	capitan.Hook(DispatchCompleted, func(_ context.Context, e *capitan.Event) {
		source, _ := KeyField.From(e)
		if source != "giftWrap" {
			return
		}
		n, _ := KeyCommands.From(e)
		mu.Lock()
		batches = append(batches, n)
		mu.Unlock()
	})

	rules := NewRuleSet()
	rules.On("giftWrap", Toggled, func(s Snapshot, _ Notification) []Command {
		f, _ := s.Field("giftWrap")
		return []Command{
			SetVisible("giftMessage", f.Checked),
			SetRequired("giftMessage", f.Checked),
		}
	})

	coord := NewCoordinator(rules)
	toggle, err := NewToggleField(coord, "giftWrap")
	if err != nil {
		t.Fatalf("NewToggleField failed: %v", err)
	}
	if _, err := NewTextField(coord, "giftMessage"); err != nil {
		t.Fatalf("NewTextField failed: %v", err)
	}

	if err := toggle.Toggle(); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}

	// Capitan delivers events on worker goroutines; wait for the hook to
	// observe the dispatch before asserting.
	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(batches)
		mu.Unlock()
		if n > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(batches) == 0 {
		t.Fatal("expected a dispatch completion for the toggle")
	}
	if batches[0] != 2 {
		t.Errorf("expected batch size 2, got %d", batches[0])
	}
}
