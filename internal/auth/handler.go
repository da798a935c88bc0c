package auth

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"formflow-backend/internal/engine"
	"formflow-backend/internal/store"
)

type Handler struct {
	store  *store.Store
	secret string
}

func NewHandler(s *store.Store, secret string) *Handler {
	return &Handler{store: s, secret: secret}
}

func RegisterAuthRoutes(app *fiber.App, h *Handler) {
	app.Post("/auth/register", h.Register)
	app.Post("/auth/login", h.Login)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
}

// Register handles POST /auth/register
func (h *Handler) Register(c *fiber.Ctx) error {
	var creds credentials
	if err := c.BodyParser(&creds); err != nil {
		return engine.NewAppError("INVALID_PAYLOAD", 400, "Invalid JSON body")
	}
	if creds.Email == "" || len(creds.Password) < 8 {
		return engine.NewAppError("VALIDATION_FAILED", 422, "Email and a password of at least 8 characters are required")
	}

	hash, err := HashPassword(creds.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	row, err := store.QueryRow(c.Context(), h.store.Pool,
		`INSERT INTO _users (email, password_hash) VALUES ($1, $2)
		 ON CONFLICT (email) DO NOTHING RETURNING id`,
		creds.Email, hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return engine.NewAppError("CONFLICT", 409, "Email already registered")
		}
		return fmt.Errorf("insert user: %w", err)
	}

	userID := fmt.Sprint(row["id"])
	token, err := GenerateAccessToken(userID, creds.Email, h.secret)
	if err != nil {
		return err
	}
	return c.Status(201).JSON(tokenResponse{AccessToken: token, UserID: userID})
}

// Login handles POST /auth/login
func (h *Handler) Login(c *fiber.Ctx) error {
	var creds credentials
	if err := c.BodyParser(&creds); err != nil {
		return engine.NewAppError("INVALID_PAYLOAD", 400, "Invalid JSON body")
	}

	row, err := store.QueryRow(c.Context(), h.store.Pool,
		`SELECT id, password_hash FROM _users WHERE email = $1 AND active = true`,
		creds.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return engine.UnauthorizedError("Invalid email or password")
		}
		return fmt.Errorf("load user: %w", err)
	}

	hash, _ := row["password_hash"].(string)
	if !CheckPassword(creds.Password, hash) {
		return engine.UnauthorizedError("Invalid email or password")
	}

	userID := fmt.Sprint(row["id"])
	token, err := GenerateAccessToken(userID, creds.Email, h.secret)
	if err != nil {
		return err
	}
	return c.JSON(tokenResponse{AccessToken: token, UserID: userID})
}
