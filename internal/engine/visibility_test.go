package engine

import (
	"reflect"
	"testing"

	"formflow-backend/internal/form"
)

func testFields() []form.Field {
	return []form.Field{
		{ID: "f1", Type: form.TypeSingleChoice, Content: form.FieldContent{Title: "Subscribed?", Options: []string{"Yes", "No"}}},
		{ID: "f2", Type: form.TypeShortText, Content: form.FieldContent{Title: "Which newsletter?"}},
		{ID: "f3", Type: form.TypeShortText, Content: form.FieldContent{Title: "Anything else?"}},
	}
}

func TestResolveFieldVisibility_DefaultVisible(t *testing.T) {
	vis := ResolveFieldVisibility(testFields(), nil, ResponseMap{})
	for _, f := range testFields() {
		if !vis[f.ID] {
			t.Errorf("expected %s visible by default", f.ID)
		}
	}
}

func TestResolveFieldVisibility_ShowCondition(t *testing.T) {
	conditions := []*form.FieldCondition{
		{ID: "c1", TriggerFieldID: "f1", State: form.OpEquals, Value: "Yes", TargetFieldID: "f2", Action: form.ActionShow},
	}

	// Trigger answered "No" -> show-rule unmet -> target hidden
	vis := ResolveFieldVisibility(testFields(), conditions, ResponseMap{"f1": "No"})
	if vis["f2"] {
		t.Error("expected f2 hidden when f1=No")
	}

	// Trigger answered "Yes" -> target visible
	vis = ResolveFieldVisibility(testFields(), conditions, ResponseMap{"f1": "Yes"})
	if !vis["f2"] {
		t.Error("expected f2 visible when f1=Yes")
	}

	// No answer yet -> indeterminate -> rule does not fire -> target hidden
	vis = ResolveFieldVisibility(testFields(), conditions, ResponseMap{})
	if vis["f2"] {
		t.Error("expected f2 hidden with no trigger answer")
	}

	// Untargeted fields keep their default
	if !vis["f1"] || !vis["f3"] {
		t.Error("expected untargeted fields to stay visible")
	}
}

func TestResolveFieldVisibility_HideCondition(t *testing.T) {
	conditions := []*form.FieldCondition{
		{ID: "c1", TriggerFieldID: "f1", State: form.OpEquals, Value: "Yes", TargetFieldID: "f3", Action: form.ActionHide},
	}

	vis := ResolveFieldVisibility(testFields(), conditions, ResponseMap{"f1": "Yes"})
	if vis["f3"] {
		t.Error("expected f3 hidden when hide-rule fires")
	}

	vis = ResolveFieldVisibility(testFields(), conditions, ResponseMap{"f1": "No"})
	if !vis["f3"] {
		t.Error("expected f3 visible when hide-rule does not fire")
	}
}

func TestResolveFieldVisibility_ANDCombination(t *testing.T) {
	// Two conditions on f3: show if f1=Yes, hide if f2=X
	conditions := []*form.FieldCondition{
		{ID: "c1", TriggerFieldID: "f1", State: form.OpEquals, Value: "Yes", TargetFieldID: "f3", Action: form.ActionShow},
		{ID: "c2", TriggerFieldID: "f2", State: form.OpEquals, Value: "X", TargetFieldID: "f3", Action: form.ActionHide},
	}

	cases := []struct {
		f1, f2  string
		visible bool
	}{
		{"Yes", "X", false}, // hide vote wins via AND
		{"Yes", "Y", true},  // show met, hide unmet
		{"No", "Y", false},  // show unmet
		{"No", "X", false},  // both against
	}
	for _, tc := range cases {
		vis := ResolveFieldVisibility(testFields(), conditions, ResponseMap{"f1": tc.f1, "f2": tc.f2})
		if vis["f3"] != tc.visible {
			t.Errorf("f1=%s f2=%s: f3 visible = %v, want %v", tc.f1, tc.f2, vis["f3"], tc.visible)
		}
	}
}

func TestResolveFieldVisibility_Idempotent(t *testing.T) {
	conditions := []*form.FieldCondition{
		{ID: "c1", TriggerFieldID: "f1", State: form.OpEquals, Value: "Yes", TargetFieldID: "f2", Action: form.ActionShow},
		{ID: "c2", TriggerFieldID: "f2", State: form.OpContains, Value: "week", TargetFieldID: "f3", Action: form.ActionHide},
	}
	responses := ResponseMap{"f1": "Yes", "f2": "weekly digest"}

	first := ResolveFieldVisibility(testFields(), conditions, responses)
	second := ResolveFieldVisibility(testFields(), conditions, responses)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("resolver is not idempotent: %v vs %v", first, second)
	}
}

func TestResolveFieldVisibility_DanglingReferences(t *testing.T) {
	conditions := []*form.FieldCondition{
		// Trigger field was deleted after authoring
		{ID: "c1", TriggerFieldID: "gone", State: form.OpEquals, Value: "Yes", TargetFieldID: "f2", Action: form.ActionHide},
		// Target field was deleted after authoring
		{ID: "c2", TriggerFieldID: "f1", State: form.OpEquals, Value: "Yes", TargetFieldID: "gone", Action: form.ActionShow},
	}

	vis := ResolveFieldVisibility(testFields(), conditions, ResponseMap{"f1": "Yes", "gone": "Yes"})
	if !vis["f2"] {
		t.Error("expected dangling-trigger condition to cast no vote")
	}
	if _, ok := vis["gone"]; ok {
		t.Error("expected no visibility entry for a deleted field")
	}
}

func TestResolveFieldVisibility_SelfReferenceTolerated(t *testing.T) {
	// The authoring guard rejects this; the resolver must still not blow up
	// or let the field gate itself.
	conditions := []*form.FieldCondition{
		{ID: "c1", TriggerFieldID: "f1", State: form.OpEquals, Value: "Yes", TargetFieldID: "f1", Action: form.ActionHide},
	}

	vis := ResolveFieldVisibility(testFields(), conditions, ResponseMap{"f1": "Yes"})
	if !vis["f1"] {
		t.Error("expected self-referencing condition to cast no vote")
	}
}

func TestResolveFieldVisibility_ExpressionCondition(t *testing.T) {
	conditions := []*form.FieldCondition{
		{ID: "c1", Expression: `responses["f1"] == "Yes" && responses["f2"] == "X"`, TargetFieldID: "f3", Action: form.ActionShow},
	}

	vis := ResolveFieldVisibility(testFields(), conditions, ResponseMap{"f1": "Yes", "f2": "X"})
	if !vis["f3"] {
		t.Error("expected f3 visible when expression holds")
	}

	vis = ResolveFieldVisibility(testFields(), conditions, ResponseMap{"f1": "Yes"})
	if vis["f3"] {
		t.Error("expected f3 hidden when expression does not hold")
	}

	// A broken expression degrades to indeterminate, not a panic
	broken := []*form.FieldCondition{
		{ID: "c2", Expression: `this is (not valid`, TargetFieldID: "f3", Action: form.ActionShow},
	}
	vis = ResolveFieldVisibility(testFields(), broken, ResponseMap{"f1": "Yes"})
	if vis["f3"] {
		t.Error("expected broken expression to behave as unmet")
	}
}
