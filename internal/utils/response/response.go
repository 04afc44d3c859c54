package response

import (
	stderrors "errors"

	apperrors "github.com/EyeCodes/PAPI-BACKEND-sub001/internal/errors"
	"github.com/gofiber/fiber/v2"
)

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func ServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

func Unauthorized(c *fiber.Ctx) error {
	return Error(c, fiber.StatusUnauthorized, "Unauthorized")
}

// FromError maps domain errors onto HTTP statuses. Unknown errors become a
// 500 carrying fallback rather than the internal message.
func FromError(c *fiber.Ctx, err error, fallback string) error {
	var de *apperrors.DomainError
	if !stderrors.As(err, &de) {
		return ServerError(c, fallback)
	}

	switch {
	case stderrors.Is(err, apperrors.ErrInvalidWindow), stderrors.Is(err, apperrors.ErrInvalidQuery):
		return BadRequest(c, de.Error())
	case stderrors.Is(err, apperrors.ErrDataUnavailable):
		return Error(c, fiber.StatusServiceUnavailable, de.Message)
	default:
		return ServerError(c, fallback)
	}
}
