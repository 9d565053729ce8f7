package auth

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

const bearerScheme = "Bearer "

// TokenFromHeader extracts the bearer token from an Authorization
// header value. Empty string means no usable token.
func TokenFromHeader(authHeader string) string {
	if strings.HasPrefix(authHeader, bearerScheme) {
		return authHeader[len(bearerScheme):]
	}
	return ""
}

// APIKeyFilter protects inter-service paths with the configured
// X-API-Key value. A missing or blank configured key rejects everything
// under the protected prefixes.
func APIKeyFilter(cfg Config, protectedPrefixes ...string) fiber.Handler {
	if len(protectedPrefixes) == 0 {
		protectedPrefixes = []string{"/auth/user/"}
	}

	return func(c *fiber.Ctx) error {
		path := c.Path()

		requiresKey := false
		for _, prefix := range protectedPrefixes {
			if strings.HasPrefix(path, prefix) {
				requiresKey = true
				break
			}
		}

		if !requiresKey {
			return c.Next()
		}

		apiKey := cfg.GetInternalAPIKey()
		headerKey := c.Get("X-API-Key")
		if apiKey == "" || headerKey == "" || headerKey != apiKey {
			return c.SendStatus(http.StatusUnauthorized)
		}

		return c.Next()
	}
}

// StatusFromError maps engine error kinds to transport status codes.
// This is the only place the mapping lives; the engine itself never
// sees HTTP.
func StatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var rich *errors.Error
	if !errors.As(err, &rich) {
		return http.StatusInternalServerError
	}

	switch rich.Category {
	case errors.CategoryConflict:
		return http.StatusConflict
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryAuth, errors.CategoryAuthz:
		return http.StatusUnauthorized
	case errors.CategoryValidation, errors.CategoryBadInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error    string `json:"error"`
	TextCode string `json:"code,omitempty"`
}

func sendError(c *fiber.Ctx, err error) error {
	body := errorBody{Error: "internal error"}

	var rich *errors.Error
	if errors.As(err, &rich) {
		body.Error = rich.Message
		body.TextCode = rich.TextCode
	}

	return c.Status(StatusFromError(err)).JSON(body)
}
