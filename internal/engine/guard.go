package engine

import "formflow-backend/internal/form"

// ValueWidget tells the authoring surface how the rule operand should be
// captured for a given trigger field: an enumerated choice or free text.
type ValueWidget struct {
	Kind    string   `json:"kind"` // "choice" or "free_text"
	Options []string `json:"options,omitempty"`
}

const (
	WidgetChoice   = "choice"
	WidgetFreeText = "free_text"
)

// OperatorsFor returns the legal operator menu for a trigger field type, in
// display order. This is an authoring-time affordance only: the resolvers
// never consult it, so a condition authored under a since-changed field type
// still evaluates (degrading to indeterminate) instead of failing.
func OperatorsFor(fieldType string) []form.Operator {
	switch fieldType {
	case form.TypeDatePicker, form.TypeAppointment:
		return []form.Operator{form.OpIsBefore, form.OpIsAfter, form.OpIsEqualTo}
	case form.TypeShortText, form.TypeLongText, form.TypeSingleChoice,
		form.TypeMultipleChoice, form.TypeDropdown, form.TypeFullName,
		form.TypeEmail, form.TypePhone, form.TypeAddress:
		return []form.Operator{form.OpEquals, form.OpNotEquals, form.OpContains, form.OpNotContains}
	default:
		return []form.Operator{form.OpEquals, form.OpNotEquals}
	}
}

// ValueWidgetFor returns the operand widget for a trigger field: choice
// fields with a declared option list get an enumerated picker, everything
// else free text.
func ValueWidgetFor(f form.Field) ValueWidget {
	if f.IsChoice() {
		return ValueWidget{Kind: WidgetChoice, Options: f.Content.Options}
	}
	return ValueWidget{Kind: WidgetFreeText}
}
