package middleware

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"accounthub/internal/database"
)

const (
	HeaderXAPIKey = "X-API-Key"
)

// AuthMiddleware resolves the calling account from its auth key. Login,
// sessions and token transport live in the surrounding platform; this
// layer only attributes a request to a stored account.
func AuthMiddleware(c *fiber.Ctx) error {
	db := c.Locals("db").(*gorm.DB)

	xAPIKey := c.Get(HeaderXAPIKey)
	if xAPIKey == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized",
		})
	}

	var acct database.Account
	result := db.Joins("JOIN account.auth_key ON account.auth_key.account_id = account.account.id").
		Where("account.auth_key.key = ?", xAPIKey).
		Preload("Groups").
		First(&acct)
	if result.Error != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized",
		})
	}

	c.Locals("account", acct)

	return c.Next()
}
