package builder

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"formflow-backend/internal/auth"
	"formflow-backend/internal/engine"
	"formflow-backend/internal/form"
	"formflow-backend/internal/store"
)

// Handler serves the authoring boundary: template CRUD, condition
// add/remove, publishing and response export. Every mutation persists the
// template definition and swaps the new template into the registry, so fill
// sessions started afterwards see the new rule set while in-flight sessions
// keep the snapshot they pinned.
type Handler struct {
	store    *store.Store
	registry *form.Registry
}

func NewHandler(s *store.Store, reg *form.Registry) *Handler {
	return &Handler{store: s, registry: reg}
}

func RegisterBuilderRoutes(app *fiber.App, h *Handler, mw fiber.Handler) {
	api := app.Group("/api", mw)

	api.Get("/forms", h.ListForms)
	api.Post("/forms", h.CreateForm)
	api.Get("/forms/:id", h.GetForm)
	api.Put("/forms/:id", h.UpdateForm)
	api.Delete("/forms/:id", h.DeleteForm)
	api.Post("/forms/:id/publish", h.PublishForm)

	api.Post("/forms/:id/field-conditions", h.AddFieldCondition)
	api.Delete("/forms/:id/field-conditions/:conditionID", h.RemoveFieldCondition)
	api.Post("/forms/:id/page-conditions", h.AddPageCondition)
	api.Delete("/forms/:id/page-conditions/:conditionID", h.RemovePageCondition)

	api.Get("/forms/:id/fields/:fieldID/rule-options", h.RuleOptions)
	api.Get("/forms/:id/responses/csv", h.ResponsesCSV)
}

// ListForms handles GET /api/forms
func (h *Handler) ListForms(c *fiber.Ctx) error {
	user := auth.GetUser(c)
	forms := h.registry.ByOwner(user.ID)
	if forms == nil {
		forms = []*form.Template{}
	}
	return c.JSON(fiber.Map{"data": forms})
}

// GetForm handles GET /api/forms/:id
func (h *Handler) GetForm(c *fiber.Ctx) error {
	tpl, err := h.ownedTemplate(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tpl})
}

// CreateForm handles POST /api/forms
func (h *Handler) CreateForm(c *fiber.Ctx) error {
	user := auth.GetUser(c)

	var tpl form.Template
	if err := c.BodyParser(&tpl); err != nil {
		return respondError(c, engine.NewAppError("INVALID_PAYLOAD", 400, "Invalid JSON body"))
	}
	tpl.ID = uuid.NewString()
	tpl.OwnerID = user.ID
	tpl.Published = false
	if len(tpl.Pages) == 0 {
		tpl.Pages = []form.Page{{ID: uuid.NewString()}}
	}

	if err := h.persist(c, &tpl, true); err != nil {
		return err
	}
	return c.Status(201).JSON(fiber.Map{"data": tpl})
}

// UpdateForm handles PUT /api/forms/:id — replaces pages and metadata,
// keeping whatever conditions still validate against the new catalog.
func (h *Handler) UpdateForm(c *fiber.Ctx) error {
	existing, err := h.ownedTemplate(c)
	if err != nil {
		return err
	}

	var incoming form.Template
	if err := c.BodyParser(&incoming); err != nil {
		return respondError(c, engine.NewAppError("INVALID_PAYLOAD", 400, "Invalid JSON body"))
	}
	incoming.ID = existing.ID
	incoming.OwnerID = existing.OwnerID
	incoming.Published = existing.Published

	if err := h.persist(c, &incoming, false); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": incoming})
}

// DeleteForm handles DELETE /api/forms/:id
func (h *Handler) DeleteForm(c *fiber.Ctx) error {
	tpl, err := h.ownedTemplate(c)
	if err != nil {
		return err
	}

	if _, err := store.Exec(c.Context(), h.store.Pool, "DELETE FROM _forms WHERE id = $1", tpl.ID); err != nil {
		return fmt.Errorf("delete form %s: %w", tpl.ID, err)
	}
	h.registry.Remove(tpl.ID)
	return c.SendStatus(204)
}

// PublishForm handles POST /api/forms/:id/publish
func (h *Handler) PublishForm(c *fiber.Ctx) error {
	tpl, err := h.ownedTemplate(c)
	if err != nil {
		return err
	}

	var body struct {
		Published bool `json:"published"`
	}
	if err := c.BodyParser(&body); err != nil {
		return respondError(c, engine.NewAppError("INVALID_PAYLOAD", 400, "Invalid JSON body"))
	}

	next := clone(tpl)
	next.Published = body.Published
	if err := h.persist(c, next, false); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": next})
}

// AddFieldCondition handles POST /api/forms/:id/field-conditions
//
// Drafts are validated against the current field catalog; a malformed or
// self-referencing draft is rejected and never stored.
func (h *Handler) AddFieldCondition(c *fiber.Ctx) error {
	tpl, err := h.ownedTemplate(c)
	if err != nil {
		return err
	}

	var draft form.FieldCondition
	if err := c.BodyParser(&draft); err != nil {
		return respondError(c, engine.NewAppError("INVALID_PAYLOAD", 400, "Invalid JSON body"))
	}

	next := clone(tpl)
	cond, err := next.AddFieldCondition(draft)
	if err != nil {
		return respondError(c, conditionError(err))
	}
	if err := h.persist(c, next, false); err != nil {
		return err
	}
	return c.Status(201).JSON(fiber.Map{"data": cond})
}

// RemoveFieldCondition handles DELETE /api/forms/:id/field-conditions/:conditionID
func (h *Handler) RemoveFieldCondition(c *fiber.Ctx) error {
	tpl, err := h.ownedTemplate(c)
	if err != nil {
		return err
	}

	next := clone(tpl)
	if !next.RemoveFieldCondition(c.Params("conditionID")) {
		return respondError(c, engine.NotFoundError("field condition", c.Params("conditionID")))
	}
	if err := h.persist(c, next, false); err != nil {
		return err
	}
	return c.SendStatus(204)
}

// AddPageCondition handles POST /api/forms/:id/page-conditions
func (h *Handler) AddPageCondition(c *fiber.Ctx) error {
	tpl, err := h.ownedTemplate(c)
	if err != nil {
		return err
	}

	var draft form.PageCondition
	if err := c.BodyParser(&draft); err != nil {
		return respondError(c, engine.NewAppError("INVALID_PAYLOAD", 400, "Invalid JSON body"))
	}

	next := clone(tpl)
	cond, err := next.AddPageCondition(draft)
	if err != nil {
		return respondError(c, conditionError(err))
	}
	if err := h.persist(c, next, false); err != nil {
		return err
	}
	return c.Status(201).JSON(fiber.Map{"data": cond})
}

// RemovePageCondition handles DELETE /api/forms/:id/page-conditions/:conditionID
func (h *Handler) RemovePageCondition(c *fiber.Ctx) error {
	tpl, err := h.ownedTemplate(c)
	if err != nil {
		return err
	}

	next := clone(tpl)
	if !next.RemovePageCondition(c.Params("conditionID")) {
		return respondError(c, engine.NotFoundError("page condition", c.Params("conditionID")))
	}
	if err := h.persist(c, next, false); err != nil {
		return err
	}
	return c.SendStatus(204)
}

// RuleOptions handles GET /api/forms/:id/fields/:fieldID/rule-options
//
// Returns the legal operator menu and value widget for a candidate trigger
// field, for the authoring surface to populate its condition editor.
func (h *Handler) RuleOptions(c *fiber.Ctx) error {
	tpl, err := h.ownedTemplate(c)
	if err != nil {
		return err
	}

	f := tpl.GetField(c.Params("fieldID"))
	if f == nil {
		return respondError(c, engine.NotFoundError("field", c.Params("fieldID")))
	}

	return c.JSON(fiber.Map{
		"operators":   engine.OperatorsFor(f.Type),
		"valueWidget": engine.ValueWidgetFor(*f),
	})
}

// ownedTemplate resolves :id to a template owned by the requesting user.
func (h *Handler) ownedTemplate(c *fiber.Ctx) (*form.Template, error) {
	id := c.Params("id")
	tpl := h.registry.Get(id)
	if tpl == nil {
		return nil, engine.NotFoundError("form", id)
	}
	user := auth.GetUser(c)
	if user == nil || tpl.OwnerID != user.ID {
		return nil, engine.ForbiddenError("You do not own this form")
	}
	return tpl, nil
}

// persist writes a template definition and swaps it into the registry.
func (h *Handler) persist(c *fiber.Ctx, tpl *form.Template, create bool) error {
	defJSON, err := json.Marshal(tpl)
	if err != nil {
		return fmt.Errorf("marshal form definition: %w", err)
	}

	if create {
		_, err = store.Exec(c.Context(), h.store.Pool,
			`INSERT INTO _forms (id, owner_id, published, definition) VALUES ($1, $2, $3, $4)`,
			tpl.ID, tpl.OwnerID, tpl.Published, defJSON)
	} else {
		_, err = store.Exec(c.Context(), h.store.Pool,
			`UPDATE _forms SET published = $2, definition = $3, updated_at = NOW() WHERE id = $1`,
			tpl.ID, tpl.Published, defJSON)
	}
	if err != nil {
		return fmt.Errorf("persist form %s: %w", tpl.ID, err)
	}

	h.registry.Upsert(tpl)
	return nil
}

// clone deep-copies a template so mutations never touch the registry's live
// pointer (fill sessions pin it).
func clone(tpl *form.Template) *form.Template {
	data, err := json.Marshal(tpl)
	if err != nil {
		return tpl
	}
	var out form.Template
	if err := json.Unmarshal(data, &out); err != nil {
		return tpl
	}
	return &out
}

func conditionError(err error) *engine.AppError {
	switch {
	case errors.Is(err, form.ErrMissingTrigger),
		errors.Is(err, form.ErrMissingState),
		errors.Is(err, form.ErrUnknownOperator),
		errors.Is(err, form.ErrMissingValue),
		errors.Is(err, form.ErrMissingTarget),
		errors.Is(err, form.ErrSelfReference),
		errors.Is(err, form.ErrUnknownField),
		errors.Is(err, form.ErrUnknownPage):
		return engine.ValidationError([]engine.ErrorDetail{{Rule: "condition", Message: err.Error()}})
	default:
		return engine.NewAppError("INTERNAL_ERROR", 500, err.Error())
	}
}

func respondError(c *fiber.Ctx, appErr *engine.AppError) error {
	return c.Status(appErr.Status).JSON(engine.ErrorResponse{Error: appErr})
}
