package engine

import "formflow-backend/internal/form"

// VisibilityMap maps a field or page id to "currently shown". Derived state:
// recomputed whenever the responses change, never persisted.
type VisibilityMap map[string]bool

// ResolveFieldVisibility computes the final visible state of every field.
//
// Every field defaults to visible. Each condition casts one vote for its
// target: a show condition votes its outcome, a hide condition votes the
// negation. A field with votes is visible iff all of them are true, so show
// rules are necessary conditions and hide rules are anti-conditions. Grouping
// is per-target and AND is commutative, so the result is independent of
// iteration order; the function is pure and idempotent.
//
// Conditions with dangling or self-referencing ids cast no vote. The
// authoring layer rejects those drafts, but templates can drift after field
// deletions and the resolver stays safe regardless.
func ResolveFieldVisibility(fields []form.Field, conditions []*form.FieldCondition, responses ResponseMap) VisibilityMap {
	vis := make(VisibilityMap, len(fields))
	known := make(map[string]bool, len(fields))
	for _, f := range fields {
		vis[f.ID] = true
		known[f.ID] = true
	}

	votes := make(map[string][]bool)
	for _, c := range conditions {
		if !known[c.TargetFieldID] {
			continue
		}
		if c.Expression == "" {
			if !known[c.TriggerFieldID] {
				continue
			}
			if c.TriggerFieldID == c.TargetFieldID {
				continue
			}
		}

		met := EvaluateFieldCondition(c, responses).Met()
		vote := met
		if c.Action == form.ActionHide {
			vote = !met
		}
		votes[c.TargetFieldID] = append(votes[c.TargetFieldID], vote)
	}

	for fieldID, vs := range votes {
		visible := true
		for _, v := range vs {
			if !v {
				visible = false
				break
			}
		}
		vis[fieldID] = visible
	}
	return vis
}
