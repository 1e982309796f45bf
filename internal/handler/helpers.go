package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lab-manager-api/internal/middleware"
	"github.com/noah-isme/lab-manager-api/internal/models"
	"github.com/noah-isme/lab-manager-api/internal/service"
)

// actorFromContext rebuilds the caller from the locals set by the JWT middleware.
func actorFromContext(c *fiber.Ctx) (service.Actor, error) {
	userID, _ := c.Locals(middleware.LocalUserID).(string)
	if strings.TrimSpace(userID) == "" {
		return service.Actor{}, service.ErrUnauthorized
	}
	roleValue, _ := c.Locals(middleware.LocalUserRole).(string)
	role, ok := models.ParseRole(roleValue)
	if !ok {
		return service.Actor{}, service.ErrUnauthorized
	}
	profileID, _ := c.Locals(middleware.LocalProfileID).(string)
	return service.Actor{UserID: userID, Role: role, ProfileID: profileID}, nil
}

var errMalformedBody = errors.New("invalid request body")

// decodeJSON parses and validates the request body into dst.
func decodeJSON(c *fiber.Ctx, validate *validator.Validate, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return errMalformedBody
	}
	if validate == nil {
		return nil
	}
	return validate.Struct(dst)
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}
