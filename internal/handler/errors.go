package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lab-manager-api/internal/service"
	"github.com/noah-isme/lab-manager-api/internal/utils"
)

// respondError maps service errors onto HTTP statuses. Store failures are
// logged and reported with a generic message.
func respondError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	var (
		validationErrors validator.ValidationErrors
		notFound         *service.NotFoundError
		invalid          *service.ValidationError
		conflict         *service.ConflictError
		configuration    *service.ConfigurationError
	)

	switch {
	case errors.As(err, &validationErrors):
		return utils.Fail(c, fiber.StatusBadRequest, "validation failed", validationDetails(validationErrors))
	case errors.Is(err, errMalformedBody):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &notFound):
		return utils.SendError(c, fiber.StatusNotFound, notFound.Error())
	case errors.As(err, &invalid):
		return utils.SendError(c, fiber.StatusBadRequest, invalid.Error())
	case errors.As(err, &conflict):
		return utils.SendError(c, fiber.StatusConflict, conflict.Error())
	case errors.As(err, &configuration):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, configuration.Error())
	case errors.Is(err, service.ErrForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	default:
		requestLogger(logger, c).Error().Err(err).Str("path", c.Path()).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

func validationDetails(errs validator.ValidationErrors) map[string]string {
	details := make(map[string]string, len(errs))
	for _, fieldErr := range errs {
		details[fieldErr.Field()] = fieldErr.Tag()
	}
	return details
}
