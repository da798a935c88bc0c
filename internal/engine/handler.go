package engine

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"formflow-backend/internal/form"
	"formflow-backend/internal/store"
)

// Handler serves the public fill boundary: fetching a published template,
// live visibility/navigation resolution, and response submission.
type Handler struct {
	store    *store.Store
	registry *form.Registry
}

func NewHandler(s *store.Store, reg *form.Registry) *Handler {
	return &Handler{store: s, registry: reg}
}

// GetForm handles GET /public/forms/id/:id
func (h *Handler) GetForm(c *fiber.Ctx) error {
	id := c.Params("id")
	tpl := h.registry.GetPublished(id)
	if tpl == nil {
		return respondError(c, NotFoundError("form", id))
	}
	return c.JSON(tpl)
}

type resolveRequest struct {
	Responses     map[string]any `json:"responses"`
	CurrentPageID string         `json:"currentPageId,omitempty"`
}

type resolveResponse struct {
	Fields VisibilityMap `json:"fields"`
	Pages  []string      `json:"pages"`
	Next   string        `json:"next"`
}

// Resolve handles POST /public/forms/id/:id/visibility
//
// The renderer posts the full responses snapshot after every mutation and
// gets back the field visibility map, the effective page sequence, and the
// resolved "next" pointer for the page it is on. The computation is pure:
// identical payloads always produce identical output.
func (h *Handler) Resolve(c *fiber.Ctx) error {
	id := c.Params("id")
	tpl := h.registry.GetPublished(id)
	if tpl == nil {
		return respondError(c, NotFoundError("form", id))
	}

	var req resolveRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, NewAppError("INVALID_PAYLOAD", 400, "Invalid JSON body"))
	}
	responses := NormalizeResponses(req.Responses)

	vis := ResolveFieldVisibility(tpl.AllFields(), tpl.FieldConditions, responses)
	seq := ResolvePageSequence(tpl, responses)
	pageIDs := make([]string, len(seq))
	for i, p := range seq {
		pageIDs[i] = p.ID
	}

	nav := NewNavigator(tpl, responses)
	next := nav.Start()
	if req.CurrentPageID != "" {
		next = nav.Next(req.CurrentPageID)
	}

	return c.JSON(resolveResponse{Fields: vis, Pages: pageIDs, Next: next})
}

type submitRequest struct {
	FormTemplateID string         `json:"formTemplateId"`
	ResponderID    string         `json:"responderId"`
	Responses      map[string]any `json:"responses"`
}

// Submit handles POST /public/form-responses
//
// Answers are stored keyed by field title with array-normalized values, the
// shape the original renderer posted. Hidden fields are dropped: a response
// to a field the rules hid at submit time never reaches storage.
func (h *Handler) Submit(c *fiber.Ctx) error {
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, NewAppError("INVALID_PAYLOAD", 400, "Invalid JSON body"))
	}

	tpl := h.registry.GetPublished(req.FormTemplateID)
	if tpl == nil {
		return respondError(c, NotFoundError("form", req.FormTemplateID))
	}

	responses := NormalizeResponses(req.Responses)
	vis := ResolveFieldVisibility(tpl.AllFields(), tpl.FieldConditions, responses)

	answers := make(map[string][]string)
	for _, f := range tpl.AllFields() {
		if !vis[f.ID] {
			continue
		}
		v, ok := responses[f.ID]
		if !ok {
			continue
		}
		label := f.Content.Title
		if label == "" {
			label = f.ID
		}
		switch val := v.(type) {
		case []string:
			answers[label] = val
		case string:
			answers[label] = []string{val}
		default:
			answers[label] = []string{fmt.Sprint(val)}
		}
	}

	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	row, err := store.QueryRow(c.Context(), h.store.Pool,
		`INSERT INTO _form_responses (form_id, responder_id, answers) VALUES ($1, $2, $3) RETURNING id`,
		tpl.ID, req.ResponderID, answersJSON)
	if err != nil {
		return fmt.Errorf("insert form response: %w", err)
	}

	return c.Status(201).JSON(fiber.Map{"data": fiber.Map{"id": row["id"]}})
}

// NormalizeResponses coerces a decoded JSON responses payload into the
// ResponseMap shape the evaluator expects: strings stay strings, arrays
// become []string, everything else passes through for the evaluator to
// classify (and degrade) itself.
func NormalizeResponses(raw map[string]any) ResponseMap {
	responses := make(ResponseMap, len(raw))
	for fieldID, v := range raw {
		switch val := v.(type) {
		case []any:
			ss := make([]string, 0, len(val))
			for _, item := range val {
				if s, ok := item.(string); ok {
					ss = append(ss, s)
				}
			}
			responses[fieldID] = ss
		default:
			responses[fieldID] = v
		}
	}
	return responses
}

func respondError(c *fiber.Ctx, appErr *AppError) error {
	return c.Status(appErr.Status).JSON(ErrorResponse{Error: appErr})
}
