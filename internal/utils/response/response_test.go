package response

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	apperrors "github.com/EyeCodes/PAPI-BACKEND-sub001/internal/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		contains string
	}{
		{"invalid window", apperrors.ErrInvalidWindow, fiber.StatusBadRequest, "invalid time window"},
		{"invalid query with detail", apperrors.Wrapf(apperrors.ErrInvalidQuery, "unknown sort field %q", "color"), fiber.StatusBadRequest, "color"},
		{"wrapped unavailable", fmt.Errorf("count transactions: %w", apperrors.Wrap(apperrors.ErrDataUnavailable, errors.New("dial tcp"))), fiber.StatusServiceUnavailable, "analytics data unavailable"},
		{"plain error", errors.New("boom"), fiber.StatusInternalServerError, "fallback"},
		{"other domain error", &apperrors.DomainError{Code: "OTHER", Message: "secret"}, fiber.StatusInternalServerError, "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return FromError(c, tt.err, "fallback") })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Contains(t, string(body), tt.contains)
			assert.NotContains(t, string(body), "dial tcp")
		})
	}
}
