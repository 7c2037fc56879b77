package server

import (
	"encoding/json"
	"errors"
	"strings"
	"unicode"

	"meetup/internal/middleware"
	"meetup/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// The message is derived from the parameter name ("id" -> "Invalid ID",
// "commentId" -> "Invalid comment ID").
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		words := splitCamel(param[:len(param)-2])
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// callerID returns the authenticated user. Routes using it sit behind
// AuthRequired, so a missing id is an internal wiring error.
func callerID(c *fiber.Ctx) (uint, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, models.NewUnauthorizedError("Authentication credentials were not provided")
	}
	return id, nil
}

// parseBody decodes the JSON body into v and writes a 400 on failure.
func parseBody(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}

// parseFields decodes a JSON object body keyed by field name so callers can
// tell absent keys from explicit nulls.
func parseFields(c *fiber.Ctx) (map[string]json.RawMessage, error) {
	fields := map[string]json.RawMessage{}
	body := c.Body()
	if len(body) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(body, &fields); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return nil, errResponseWritten
	}
	return fields, nil
}

// rejectRepeatedQuery writes a 400 when any of keys appears more than once in
// the query string. Filters accept a single value each.
func rejectRepeatedQuery(c *fiber.Ctx, keys ...string) error {
	args := c.Context().QueryArgs()
	for _, key := range keys {
		if len(args.PeekMulti(key)) > 1 {
			_ = models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Repeated query parameter "+key+" is unsupported"))
			return errResponseWritten
		}
	}
	return nil
}
