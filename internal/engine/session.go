package engine

import (
	"github.com/google/uuid"

	"formflow-backend/internal/form"
)

// Session is one respondent's pass through a published form. It pins the
// template snapshot it started with, owns the private ResponseMap, and
// recomputes the derived visibility state synchronously after every answer.
// Sessions are single-goroutine by construction; abandoning one just drops
// it, there is nothing to roll back.
//
// Session serves embedded and server-side consumers that hold respondent
// state across answers. The HTTP fill boundary resolves statelessly per
// request instead (Handler.Resolve) and does not construct sessions.
type Session struct {
	ID       string
	Template *form.Template

	responses ResponseMap
	current   string
	fields    VisibilityMap
	pages     []form.Page
}

func NewSession(tpl *form.Template) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		Template:  tpl,
		responses: make(ResponseMap),
	}
	s.recompute()
	s.current = NewNavigator(tpl, s.responses).Start()
	return s
}

// SetResponse records one answer and recomputes field visibility and the
// effective page sequence. Recomputation is full, not incremental: condition
// counts are small and the resolvers are idempotent.
func (s *Session) SetResponse(fieldID string, value any) {
	if value == nil {
		delete(s.responses, fieldID)
	} else {
		s.responses[fieldID] = value
	}
	s.recompute()
}

func (s *Session) recompute() {
	s.fields = ResolveFieldVisibility(s.Template.AllFields(), s.Template.FieldConditions, s.responses)
	s.pages = ResolvePageSequence(s.Template, s.responses)
}

// Responses returns the live answer map. Callers must treat it as read-only.
func (s *Session) Responses() ResponseMap {
	return s.responses
}

// FieldVisibility returns the current field visibility map.
func (s *Session) FieldVisibility() VisibilityMap {
	return s.fields
}

// EffectivePages returns the current effective page sequence.
func (s *Session) EffectivePages() []form.Page {
	return s.pages
}

// CurrentPage returns the page the respondent is on, or StateSubmitted.
func (s *Session) CurrentPage() string {
	return s.current
}

// Submitted reports whether the session reached the terminal state.
func (s *Session) Submitted() bool {
	return s.current == StateSubmitted
}

// Advance moves to the next page (applying skip overrides) and returns the
// new state.
func (s *Session) Advance() string {
	if s.current == StateSubmitted {
		return s.current
	}
	s.current = NewNavigator(s.Template, s.responses).Next(s.current)
	return s.current
}

// Retreat moves to the previous effective page and returns the new state.
func (s *Session) Retreat() string {
	if s.current == StateSubmitted {
		return s.current
	}
	s.current = NewNavigator(s.Template, s.responses).Back(s.current)
	return s.current
}
