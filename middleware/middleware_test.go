package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"app/config"
	"app/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func protectedApp() *fiber.App {
	app := fiber.New()
	app.Use(JWTMiddleware)
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(ShopID(c))
	})
	return app
}

func signToken(t *testing.T, secret, shopID string, expiry time.Duration) string {
	t.Helper()
	claims := models.JwtClaims{
		ShopID: shopID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func TestJWTMiddlewareAllowsValidToken(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	app := protectedApp()

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", "shop-1", time.Hour))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app test error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 for valid token, got %d", resp.StatusCode)
	}
}

func TestJWTMiddlewareRejectsMissingHeader(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	app := protectedApp()

	req := httptest.NewRequest("GET", "/whoami", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app test error: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
}

func TestJWTMiddlewareRejectsWrongSecret(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	app := protectedApp()

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", "shop-1", time.Hour))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app test error: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401 for bad signature, got %d", resp.StatusCode)
	}
}

func TestJWTMiddlewareRejectsExpiredToken(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	app := protectedApp()

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", "shop-1", -time.Hour))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app test error: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401 for expired token, got %d", resp.StatusCode)
	}
}
