package engine

import (
	"testing"

	"formflow-backend/internal/form"
)

// testTemplate is a 4-page form: the trigger field f1 lives on page 1.
func testTemplate() *form.Template {
	return &form.Template{
		ID:    "tpl-1",
		Title: "Onboarding",
		Pages: []form.Page{
			{ID: "p1", Elements: []form.Field{
				{ID: "f1", Type: form.TypeSingleChoice, Content: form.FieldContent{Title: "Returning customer?", Options: []string{"Yes", "No"}}},
			}},
			{ID: "p2", Elements: []form.Field{
				{ID: "f2", Type: form.TypeShortText, Content: form.FieldContent{Title: "How did you hear about us?"}},
			}},
			{ID: "p3", Elements: []form.Field{
				{ID: "f3", Type: form.TypeShortText, Content: form.FieldContent{Title: "Account number"}},
			}},
			{ID: "p4", Elements: []form.Field{
				{ID: "f4", Type: form.TypeLongText, Content: form.FieldContent{Title: "Comments"}},
			}},
		},
	}
}

func TestResolvePageSequence_DefaultOrder(t *testing.T) {
	tpl := testTemplate()
	seq := ResolvePageSequence(tpl, ResponseMap{})
	if len(seq) != 4 {
		t.Fatalf("expected 4 effective pages, got %d", len(seq))
	}
	for i, want := range []string{"p1", "p2", "p3", "p4"} {
		if seq[i].ID != want {
			t.Errorf("seq[%d] = %s, want %s", i, seq[i].ID, want)
		}
	}
}

func TestResolvePageSequence_HidePage(t *testing.T) {
	tpl := testTemplate()
	tpl.PageConditions = []*form.PageCondition{
		{ID: "c1", TriggerFieldID: "f1", State: form.OpEquals, Value: "Yes", TargetPageID: "p2", Action: form.ActionHidePage},
	}

	seq := ResolvePageSequence(tpl, ResponseMap{"f1": "Yes"})
	if len(seq) != 3 {
		t.Fatalf("expected 3 effective pages, got %d", len(seq))
	}
	for _, p := range seq {
		if p.ID == "p2" {
			t.Error("expected p2 removed from effective sequence")
		}
	}

	// Unmet -> full sequence
	seq = ResolvePageSequence(tpl, ResponseMap{"f1": "No"})
	if len(seq) != 4 {
		t.Errorf("expected 4 effective pages when hide unmet, got %d", len(seq))
	}
}

func TestNavigator_SkipTo(t *testing.T) {
	tpl := testTemplate()
	tpl.PageConditions = []*form.PageCondition{
		{ID: "c1", TriggerFieldID: "f1", State: form.OpEquals, Value: "Yes", TargetPageID: "p3", Action: form.ActionSkipTo},
	}

	// f1=Yes on page 1, Next -> p3, bypassing p2
	nav := NewNavigator(tpl, ResponseMap{"f1": "Yes"})
	if got := nav.Next("p1"); got != "p3" {
		t.Errorf("Next(p1) = %s, want p3", got)
	}

	// f1=No -> structural next
	nav = NewNavigator(tpl, ResponseMap{"f1": "No"})
	if got := nav.Next("p1"); got != "p2" {
		t.Errorf("Next(p1) = %s, want p2", got)
	}
}

func TestNavigator_SkipTieBreak(t *testing.T) {
	tpl := testTemplate()
	tpl.PageConditions = []*form.PageCondition{
		{ID: "c1", TriggerFieldID: "f1", State: form.OpEquals, Value: "Yes", TargetPageID: "p4", Action: form.ActionSkipTo},
		{ID: "c2", TriggerFieldID: "f1", State: form.OpEquals, Value: "Yes", TargetPageID: "p3", Action: form.ActionSkipTo},
	}

	// Both match: first declared wins
	nav := NewNavigator(tpl, ResponseMap{"f1": "Yes"})
	if got := nav.Next("p1"); got != "p4" {
		t.Errorf("Next(p1) = %s, want p4 (first declared)", got)
	}
}

func TestNavigator_SkipPrecedesHide(t *testing.T) {
	tpl := testTemplate()
	tpl.PageConditions = []*form.PageCondition{
		// The skip target also has a hide condition; bypass takes precedence
		// and the target is taken as-is.
		{ID: "c1", TriggerFieldID: "f1", State: form.OpEquals, Value: "Yes", TargetPageID: "p3", Action: form.ActionSkipTo},
		{ID: "c2", TriggerFieldID: "f1", State: form.OpEquals, Value: "Yes", TargetPageID: "p3", Action: form.ActionHidePage},
	}

	nav := NewNavigator(tpl, ResponseMap{"f1": "Yes"})
	if got := nav.Next("p1"); got != "p3" {
		t.Errorf("Next(p1) = %s, want p3 (skip overrides hide)", got)
	}
}

func TestNavigator_SkipOnlyAfterTrigger(t *testing.T) {
	tpl := testTemplate()
	tpl.PageConditions = []*form.PageCondition{
		// Trigger f2 lives on page 2; the skip must not fire from page 1.
		{ID: "c1", TriggerFieldID: "f2", State: form.OpEquals, Value: "friend", TargetPageID: "p4", Action: form.ActionSkipTo},
	}

	nav := NewNavigator(tpl, ResponseMap{"f2": "friend"})
	if got := nav.Next("p1"); got != "p2" {
		t.Errorf("Next(p1) = %s, want p2 (trigger not yet passed)", got)
	}
	if got := nav.Next("p2"); got != "p4" {
		t.Errorf("Next(p2) = %s, want p4", got)
	}
}

func TestNavigator_NextSkipsHiddenPages(t *testing.T) {
	tpl := testTemplate()
	tpl.PageConditions = []*form.PageCondition{
		{ID: "c1", TriggerFieldID: "f1", State: form.OpEquals, Value: "Yes", TargetPageID: "p2", Action: form.ActionHidePage},
	}

	nav := NewNavigator(tpl, ResponseMap{"f1": "Yes"})
	if got := nav.Next("p1"); got != "p3" {
		t.Errorf("Next(p1) = %s, want p3 (p2 hidden)", got)
	}
}

func TestNavigator_Terminal(t *testing.T) {
	tpl := testTemplate()
	nav := NewNavigator(tpl, ResponseMap{})

	if got := nav.Next("p4"); got != StateSubmitted {
		t.Errorf("Next(p4) = %s, want %s", got, StateSubmitted)
	}
	if got := nav.Next("unknown-page"); got != StateSubmitted {
		t.Errorf("Next(unknown) = %s, want %s", got, StateSubmitted)
	}
}

func TestNavigator_Back(t *testing.T) {
	tpl := testTemplate()
	tpl.PageConditions = []*form.PageCondition{
		{ID: "c1", TriggerFieldID: "f1", State: form.OpEquals, Value: "Yes", TargetPageID: "p2", Action: form.ActionHidePage},
	}

	// Back from p3 with p2 hidden lands on p1, not p2
	nav := NewNavigator(tpl, ResponseMap{"f1": "Yes"})
	if got := nav.Back("p3"); got != "p1" {
		t.Errorf("Back(p3) = %s, want p1", got)
	}

	// Back from the first effective page stays put
	if got := nav.Back("p1"); got != "p1" {
		t.Errorf("Back(p1) = %s, want p1", got)
	}

	// Back never reverses a skip: from p3 with no pages hidden it is p2,
	// even if a skip jumped p1 -> p3 on the way forward.
	nav = NewNavigator(tpl, ResponseMap{"f1": "No"})
	if got := nav.Back("p3"); got != "p2" {
		t.Errorf("Back(p3) = %s, want p2", got)
	}
}

func TestNavigator_Start(t *testing.T) {
	tpl := testTemplate()
	tpl.PageConditions = []*form.PageCondition{
		{ID: "c1", TriggerFieldID: "f1", State: form.OpEquals, Value: "Yes", TargetPageID: "p1", Action: form.ActionHidePage},
	}

	nav := NewNavigator(tpl, ResponseMap{"f1": "Yes"})
	if got := nav.Start(); got != "p2" {
		t.Errorf("Start() = %s, want p2 (first page hidden)", got)
	}

	nav = NewNavigator(tpl, ResponseMap{})
	if got := nav.Start(); got != "p1" {
		t.Errorf("Start() = %s, want p1", got)
	}
}

func TestResolvePageVisibility_DanglingTarget(t *testing.T) {
	tpl := testTemplate()
	tpl.PageConditions = []*form.PageCondition{
		{ID: "c1", TriggerFieldID: "f1", State: form.OpEquals, Value: "Yes", TargetPageID: "deleted-page", Action: form.ActionHidePage},
		{ID: "c2", TriggerFieldID: "deleted-field", State: form.OpEquals, Value: "Yes", TargetPageID: "p2", Action: form.ActionHidePage},
	}

	vis := ResolvePageVisibility(tpl, ResponseMap{"f1": "Yes", "deleted-field": "Yes"})
	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		if !vis[id] {
			t.Errorf("expected %s visible despite dangling conditions", id)
		}
	}
}
