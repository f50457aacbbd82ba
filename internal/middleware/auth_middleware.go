package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/tinethkaveesha/Study-Planner-sub001/internal/models"
	jwtPkg "github.com/tinethkaveesha/Study-Planner-sub001/pkg/jwt"
)

// LocalsPrincipal is the fiber Locals key holding the authenticated models.Principal.
const LocalsPrincipal = "principal"

func AuthMiddleware(tokens *jwtPkg.Manager, logger *zap.Logger) fiber.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse(models.CodeUnauthorized, "Authorization header is required"))
		}

		// Check if the header starts with "Bearer "
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse(models.CodeUnauthorized, "Invalid authorization header format"))
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			logger.Debug("token validation failed", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse(models.CodeUnauthorized, "Invalid token"))
		}
		if claims.UserID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse(models.CodeUnauthorized, "Invalid user ID in token"))
		}

		c.Locals(LocalsPrincipal, models.Principal{
			UserID: claims.UserID,
			Email:  claims.Email,
		})

		return c.Next()
	}
}

// PrincipalFrom returns the principal stored by AuthMiddleware.
func PrincipalFrom(c *fiber.Ctx) (models.Principal, bool) {
	principal, ok := c.Locals(LocalsPrincipal).(models.Principal)
	return principal, ok
}
