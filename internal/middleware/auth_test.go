package middleware

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"kharcha/internal/models"
	"kharcha/internal/utils"
)

type fakeAuthService struct {
	tokenVersion int
}

func (f *fakeAuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	return nil, nil
}

func (f *fakeAuthService) Login(email, password string) (*models.User, string, string, error) {
	return nil, "", "", nil
}

func (f *fakeAuthService) RefreshTokens(refreshToken string) (string, string, error) {
	return "", "", nil
}

func (f *fakeAuthService) Logout(userID uint) error { return nil }

func (f *fakeAuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	return nil
}

func (f *fakeAuthService) GetUserByID(userID uint) (*models.User, error) { return nil, nil }

func (f *fakeAuthService) GetUserTokenVersion(userID uint) (int, error) {
	return f.tokenVersion, nil
}

func authTestApp(tokenVersion int) *fiber.App {
	app := fiber.New()
	mw := NewAuthMiddleware(&fakeAuthService{tokenVersion: tokenVersion})
	app.Get("/protected", mw.Handler, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	claims := &models.UserClaims{UserID: 1, Email: "asha@example.com", TokenVersion: 1}

	t.Run("valid token passes", func(t *testing.T) {
		accessToken, _, err := utils.GenerateTokens(claims)
		assert.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken)

		resp, err := authTestApp(1).Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)

		resp, err := authTestApp(1).Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unsigned token is rejected", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, models.UserClaims{
			UserID:       1,
			TokenVersion: 1,
		})
		tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		assert.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)

		resp, err := authTestApp(1).Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("stale token version is rejected", func(t *testing.T) {
		accessToken, _, err := utils.GenerateTokens(claims)
		assert.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken)

		// The stored version moved on after a logout or password change.
		resp, err := authTestApp(2).Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
