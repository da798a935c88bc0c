package form

import (
	"errors"

	"github.com/google/uuid"
)

// Validation errors returned when a condition draft is rejected at insertion.
var (
	ErrMissingTrigger  = errors.New("condition is missing a trigger field")
	ErrMissingState    = errors.New("condition is missing a state")
	ErrUnknownOperator = errors.New("condition state is not a supported operator")
	ErrMissingValue    = errors.New("condition is missing a comparison value")
	ErrMissingTarget   = errors.New("condition is missing a target")
	ErrSelfReference   = errors.New("condition trigger and target must differ")
	ErrUnknownField    = errors.New("condition references a field that does not exist")
	ErrUnknownPage     = errors.New("condition references a page that does not exist")
)

// Template is a complete form definition: pages of fields plus the declared
// conditions. It is created and mutated by the authoring layer only; fill
// sessions pin the *Template they started with and treat it as read-only
// (reloads swap in a fresh pointer, they never mutate a published snapshot).
type Template struct {
	ID              string            `json:"id"`
	OwnerID         string            `json:"ownerId,omitempty"`
	Title           string            `json:"title"`
	Description     string            `json:"description,omitempty"`
	Pages           []Page            `json:"pages"`
	FieldConditions []*FieldCondition `json:"fieldConditions"`
	PageConditions  []*PageCondition  `json:"pageConditions"`
	Published       bool              `json:"published,omitempty"`
}

// AllFields returns every field across all pages, flattened in page order.
func (t *Template) AllFields() []Field {
	var fields []Field
	for _, p := range t.Pages {
		fields = append(fields, p.Elements...)
	}
	return fields
}

// GetField returns the field with the given id, or nil.
func (t *Template) GetField(id string) *Field {
	for pi := range t.Pages {
		for fi := range t.Pages[pi].Elements {
			if t.Pages[pi].Elements[fi].ID == id {
				return &t.Pages[pi].Elements[fi]
			}
		}
	}
	return nil
}

// HasField returns true if any page contains the field.
func (t *Template) HasField(id string) bool {
	return t.GetField(id) != nil
}

// GetPage returns the page with the given id, or nil.
func (t *Template) GetPage(id string) *Page {
	for i := range t.Pages {
		if t.Pages[i].ID == id {
			return &t.Pages[i]
		}
	}
	return nil
}

// PageIndex returns the structural index of a page, or -1.
func (t *Template) PageIndex(id string) int {
	for i := range t.Pages {
		if t.Pages[i].ID == id {
			return i
		}
	}
	return -1
}

// PageOfField returns the structural index of the page holding the field, or -1.
func (t *Template) PageOfField(fieldID string) int {
	for i := range t.Pages {
		if t.Pages[i].HasField(fieldID) {
			return i
		}
	}
	return -1
}

// AddFieldCondition validates a draft against the catalog and appends it.
// Rejected drafts are not stored. Declaration order is preserved; the
// resolvers depend on it for skip tie-breaks.
func (t *Template) AddFieldCondition(draft FieldCondition) (*FieldCondition, error) {
	if draft.Expression == "" {
		if draft.TriggerFieldID == "" {
			return nil, ErrMissingTrigger
		}
		if draft.State == "" {
			return nil, ErrMissingState
		}
		if !draft.State.Known() {
			return nil, ErrUnknownOperator
		}
		if draft.Value == "" {
			return nil, ErrMissingValue
		}
		if !t.HasField(draft.TriggerFieldID) {
			return nil, ErrUnknownField
		}
	}
	if draft.TargetFieldID == "" {
		return nil, ErrMissingTarget
	}
	if draft.TriggerFieldID == draft.TargetFieldID {
		return nil, ErrSelfReference
	}
	if !t.HasField(draft.TargetFieldID) {
		return nil, ErrUnknownField
	}
	if draft.Action != ActionShow && draft.Action != ActionHide {
		draft.Action = ActionShow
	}
	if draft.ID == "" {
		draft.ID = uuid.NewString()
	}
	c := draft
	t.FieldConditions = append(t.FieldConditions, &c)
	return &c, nil
}

// RemoveFieldCondition deletes a condition by id. Returns false if absent.
func (t *Template) RemoveFieldCondition(id string) bool {
	for i, c := range t.FieldConditions {
		if c.ID == id {
			t.FieldConditions = append(t.FieldConditions[:i], t.FieldConditions[i+1:]...)
			return true
		}
	}
	return false
}

// AddPageCondition validates a draft against the catalog and appends it.
func (t *Template) AddPageCondition(draft PageCondition) (*PageCondition, error) {
	if draft.Expression == "" {
		if draft.TriggerFieldID == "" {
			return nil, ErrMissingTrigger
		}
		if draft.State == "" {
			return nil, ErrMissingState
		}
		if !draft.State.Known() {
			return nil, ErrUnknownOperator
		}
		if draft.Value == "" {
			return nil, ErrMissingValue
		}
		if !t.HasField(draft.TriggerFieldID) {
			return nil, ErrUnknownField
		}
	}
	if draft.TargetPageID == "" {
		return nil, ErrMissingTarget
	}
	if t.GetPage(draft.TargetPageID) == nil {
		return nil, ErrUnknownPage
	}
	if draft.Action != ActionSkipTo && draft.Action != ActionHidePage {
		draft.Action = ActionSkipTo
	}
	if draft.ID == "" {
		draft.ID = uuid.NewString()
	}
	c := draft
	t.PageConditions = append(t.PageConditions, &c)
	return &c, nil
}

// RemovePageCondition deletes a condition by id. Returns false if absent.
func (t *Template) RemovePageCondition(id string) bool {
	for i, c := range t.PageConditions {
		if c.ID == id {
			t.PageConditions = append(t.PageConditions[:i], t.PageConditions[i+1:]...)
			return true
		}
	}
	return false
}
