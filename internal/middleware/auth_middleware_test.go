package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinethkaveesha/Study-Planner-sub001/internal/models"
	jwtPkg "github.com/tinethkaveesha/Study-Planner-sub001/pkg/jwt"
)

func newTestApp(tokens *jwtPkg.Manager) *fiber.App {
	app := fiber.New()
	app.Get("/me", AuthMiddleware(tokens, nil), func(c *fiber.Ctx) error {
		principal, ok := PrincipalFrom(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(principal)
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	tokens := jwtPkg.NewManager("test-secret", "study-planner", time.Hour)
	valid, err := tokens.GenerateToken("user-1", "user@planner.test")
	require.NoError(t, err)

	other := jwtPkg.NewManager("other-secret", "study-planner", time.Hour)
	forged, err := other.GenerateToken("user-1", "user@planner.test")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantError  string
	}{
		{name: "missing header", header: "", wantStatus: fiber.StatusUnauthorized, wantError: "Authorization header is required"},
		{name: "not bearer", header: "Basic abc", wantStatus: fiber.StatusUnauthorized, wantError: "Invalid authorization header format"},
		{name: "forged token", header: "Bearer " + forged, wantStatus: fiber.StatusUnauthorized, wantError: "Invalid token"},
		{name: "valid token", header: "Bearer " + valid, wantStatus: fiber.StatusOK},
	}

	app := newTestApp(tokens)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			if tt.wantError != "" {
				var out models.Response
				require.NoError(t, json.Unmarshal(body, &out))
				assert.False(t, out.Success)
				assert.Equal(t, tt.wantError, out.Error)
				assert.Equal(t, models.CodeUnauthorized, out.Code)
				return
			}

			var principal models.Principal
			require.NoError(t, json.Unmarshal(body, &principal))
			assert.Equal(t, "user-1", principal.UserID)
			assert.Equal(t, "user@planner.test", principal.Email)
		})
	}
}
