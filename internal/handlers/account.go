package handlers

import (
	"github.com/gofiber/fiber/v2"

	"accounthub/internal/database"
)

func GetCurrentAccount(c *fiber.Ctx) error {
	acct := c.Locals("account").(database.Account)

	return c.JSON(acct)
}
