package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lab-manager-api/internal/dto"
	"github.com/noah-isme/lab-manager-api/internal/service"
	"github.com/noah-isme/lab-manager-api/internal/utils"
)

// AuthHandler exposes registration, login and identity endpoints.
type AuthHandler struct {
	service   service.AuthService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAuthHandler builds an auth handler instance.
func NewAuthHandler(service service.AuthService, validator *validator.Validate, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires the public routes below /api/auth. limiter guards the credential endpoints.
func (h *AuthHandler) Register(router fiber.Router, limiter fiber.Handler, jwt fiber.Handler) {
	router.Post("/register", limiter, h.register)
	router.Post("/login", limiter, h.login)
	router.Get("/me", jwt, h.me)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := decodeJSON(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	resp, err := h.service.Register(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "registered", resp)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := decodeJSON(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	resp, err := h.service.Login(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "logged in", resp)
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	identity, err := h.service.Me(c.UserContext(), actor.UserID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "identity retrieved", identity)
}
