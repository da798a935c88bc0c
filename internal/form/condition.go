package form

import (
	"encoding/json"
	"strings"
)

// Operator is the comparison a condition applies to its trigger field's value.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
	OpIsBefore    Operator = "is_before"
	OpIsAfter     Operator = "is_after"
	OpIsEqualTo   Operator = "is_equal_to"
)

// operatorAliases maps the labels older templates stored (authoring UIs wrote
// the menu text verbatim, e.g. "not equals", "does not contain") to canonical
// operators.
var operatorAliases = map[string]Operator{
	"equals":           OpEquals,
	"not_equals":       OpNotEquals,
	"is_not_equal_to":  OpNotEquals,
	"contains":         OpContains,
	"not_contains":     OpNotContains,
	"does_not_contain": OpNotContains,
	"is_before":        OpIsBefore,
	"is_after":         OpIsAfter,
	"is_equal_to":      OpIsEqualTo,
}

// NormalizeOperator canonicalizes an operator label. Unknown labels are
// returned as-is; the evaluator resolves them to indeterminate.
func NormalizeOperator(s string) Operator {
	key := strings.ReplaceAll(strings.TrimSpace(strings.ToLower(s)), " ", "_")
	if op, ok := operatorAliases[key]; ok {
		return op
	}
	return Operator(s)
}

// Known returns true if the operator is part of the supported set.
func (o Operator) Known() bool {
	_, ok := operatorAliases[string(o)]
	return ok
}

func (o *Operator) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*o = NormalizeOperator(s)
	return nil
}

// FieldAction is what a field condition does to its target when it fires.
type FieldAction string

const (
	ActionShow FieldAction = "show"
	ActionHide FieldAction = "hide"
)

// PageAction is what a page condition does to its target page. The JSON
// values carry spaces; that is the shape templates persist and reload.
type PageAction string

const (
	ActionSkipTo   PageAction = "skip to"
	ActionHidePage PageAction = "hide page"
)

// FieldCondition shows or hides a target field based on the trigger field's
// current response value. An Expression, when present, replaces the
// operator/value predicate.
type FieldCondition struct {
	ID             string      `json:"id"`
	TriggerFieldID string      `json:"triggerFieldId"`
	State          Operator    `json:"state"`
	Value          string      `json:"value"`
	TargetFieldID  string      `json:"targetFieldId"`
	Action         FieldAction `json:"action"`
	Expression     string      `json:"expression,omitempty"`

	// Compiled holds the compiled expression program (set lazily, not serialized).
	Compiled any `json:"-"`
}

// PageCondition skips to or hides a target page based on the trigger field's
// current response value.
type PageCondition struct {
	ID             string     `json:"id"`
	TriggerFieldID string     `json:"triggerFieldId"`
	State          Operator   `json:"state"`
	Value          string     `json:"value"`
	TargetPageID   string     `json:"targetPageId"`
	Action         PageAction `json:"action"`
	Expression     string     `json:"expression,omitempty"`

	Compiled any `json:"-"`
}
