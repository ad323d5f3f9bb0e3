package handlers

import (
	"log"
	"time"

	"app/config"
	"app/database"
	"app/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// HandleShopLogin authenticates a shop by its access key and returns a JWT.
// POST /api/auth/shop-login
func HandleShopLogin(c *fiber.Ctx) error {
	var req models.ShopLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}
	if req.ShopID == "" || req.AccessKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Missing shop_id or access_key"})
	}

	var shop models.Shop
	query := `
		SELECT id, name, is_active, access_key_hash
		FROM shops
		WHERE id = $1
	`
	err := database.GetDB().QueryRow(c.Context(), query, req.ShopID).Scan(
		&shop.ID, &shop.Name, &shop.IsActive, &shop.AccessKeyHash,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Invalid credentials"})
		}
		log.Printf("Database error during shop login for %s: %v", req.ShopID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
	}

	if !shop.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": "error", "message": "Shop is inactive"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(shop.AccessKeyHash), []byte(req.AccessKey)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Invalid credentials"})
	}

	claims := models.JwtClaims{
		ShopID: shop.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.AppConfig.JWTSecret))
	if err != nil {
		log.Printf("Error signing JWT for shop %s: %v", shop.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not create token"})
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"token":  signed,
		"shop":   fiber.Map{"id": shop.ID, "name": shop.Name},
	})
}
