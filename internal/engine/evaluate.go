package engine

import (
	"strings"

	"formflow-backend/internal/form"
)

// ResponseMap holds the respondent's current answers keyed by field id.
// Values are strings for most widgets and []string for multi-select.
// It is private to one fill session and reset per session.
type ResponseMap map[string]any

// Outcome is the tri-state result of evaluating one condition predicate.
// Indeterminate behaves as unmet wherever it feeds a visibility vote, but
// stays distinguishable so tests can assert "no crash, no false positive".
type Outcome int

const (
	OutcomeUnmet Outcome = iota
	OutcomeMet
	OutcomeIndeterminate
)

// Met collapses the tri-state into the boolean the resolvers vote with.
func (o Outcome) Met() bool {
	return o == OutcomeMet
}

func (o Outcome) String() string {
	switch o {
	case OutcomeMet:
		return "met"
	case OutcomeUnmet:
		return "unmet"
	default:
		return "indeterminate"
	}
}

// Evaluate applies an operator to the trigger field's current value and the
// condition's rule operand. It never panics and never returns an error: any
// absent value, type mismatch or unparseable operand resolves to
// OutcomeIndeterminate so an ill-typed rule simply does not fire.
func Evaluate(op form.Operator, trigger any, ruleValue string) Outcome {
	switch op {
	case form.OpEquals, form.OpNotEquals:
		return evalEquality(op, trigger, ruleValue)
	case form.OpContains, form.OpNotContains:
		return evalContains(op, trigger, ruleValue)
	case form.OpIsBefore, form.OpIsAfter, form.OpIsEqualTo:
		return evalDate(op, trigger, ruleValue)
	default:
		return OutcomeIndeterminate
	}
}

func evalEquality(op form.Operator, trigger any, ruleValue string) Outcome {
	if ruleValue == "" {
		return OutcomeIndeterminate
	}
	switch v := trigger.(type) {
	case string:
		if v == "" {
			return OutcomeIndeterminate
		}
		return boolOutcome(strings.EqualFold(v, ruleValue) == (op == form.OpEquals))
	case []string:
		// Multi-select answers: equals means membership.
		if len(v) == 0 {
			return OutcomeIndeterminate
		}
		member := false
		for _, s := range v {
			if strings.EqualFold(s, ruleValue) {
				member = true
				break
			}
		}
		return boolOutcome(member == (op == form.OpEquals))
	default:
		return OutcomeIndeterminate
	}
}

func evalContains(op form.Operator, trigger any, ruleValue string) Outcome {
	if ruleValue == "" {
		return OutcomeIndeterminate
	}
	s, ok := trigger.(string)
	if !ok || s == "" {
		return OutcomeIndeterminate
	}
	found := strings.Contains(strings.ToLower(s), strings.ToLower(ruleValue))
	return boolOutcome(found == (op == form.OpContains))
}

func evalDate(op form.Operator, trigger any, ruleValue string) Outcome {
	s, ok := trigger.(string)
	if !ok {
		return OutcomeIndeterminate
	}
	tv, ok := parseDate(s)
	if !ok {
		return OutcomeIndeterminate
	}
	rv, ok := parseDate(ruleValue)
	if !ok {
		return OutcomeIndeterminate
	}

	switch op {
	case form.OpIsBefore:
		return boolOutcome(tv.Before(rv))
	case form.OpIsAfter:
		return boolOutcome(tv.After(rv))
	default:
		return boolOutcome(tv.Equal(rv))
	}
}

func boolOutcome(met bool) Outcome {
	if met {
		return OutcomeMet
	}
	return OutcomeUnmet
}

// EvaluateFieldCondition resolves one field condition's predicate against the
// current responses.
func EvaluateFieldCondition(c *form.FieldCondition, responses ResponseMap) Outcome {
	if c.Expression != "" {
		return evaluateExpression(&c.Compiled, c.Expression, responses)
	}
	return Evaluate(c.State, responses[c.TriggerFieldID], c.Value)
}

// EvaluatePageCondition resolves one page condition's predicate against the
// current responses.
func EvaluatePageCondition(c *form.PageCondition, responses ResponseMap) Outcome {
	if c.Expression != "" {
		return evaluateExpression(&c.Compiled, c.Expression, responses)
	}
	return Evaluate(c.State, responses[c.TriggerFieldID], c.Value)
}
