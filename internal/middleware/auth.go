package middleware

import (
	"context"
	"strconv"
	"strings"

	"meetup/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig describes the tokens accepted by AuthRequired. Tokens are minted by
// the account service that shares the signing secret.
type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
}

// AuthRequired enforces a valid HS256 bearer token and stores the numeric
// subject as the caller's user id in Fiber locals and the request context.
func AuthRequired(cfg JWTConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authentication credentials were not provided"))
		}

		userID, err := ParseUserToken(cfg, tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}

		c.Locals("userID", userID)
		ctx := context.WithValue(c.UserContext(), UserIDKey, userID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// ParseUserToken validates the token signature, issuer and audience and
// returns the user id carried in the subject claim.
func ParseUserToken(cfg JWTConfig, tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return 0, models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, models.NewUnauthorizedError("Invalid token claims")
	}

	if cfg.Issuer != "" {
		if issuer, _ := claims.GetIssuer(); issuer != cfg.Issuer {
			return 0, models.NewUnauthorizedError("Invalid token issuer")
		}
	}
	if cfg.Audience != "" {
		audience, _ := claims.GetAudience()
		found := false
		for _, aud := range audience {
			if aud == cfg.Audience {
				found = true
				break
			}
		}
		if !found {
			return 0, models.NewUnauthorizedError("Invalid token audience")
		}
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, models.NewUnauthorizedError("Invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return 0, models.NewUnauthorizedError("Invalid user ID in token")
	}

	return uint(userID), nil
}

// UserID returns the authenticated caller stored by AuthRequired.
func UserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("userID").(uint)
	return id, ok && id != 0
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
