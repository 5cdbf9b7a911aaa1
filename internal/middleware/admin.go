package middleware

import (
	"github.com/gofiber/fiber/v2"

	"accounthub/internal/database"
)

// StaffMiddleware gates the back-office surface: the account must be
// active staff, and module access goes through HasModulePerms. The module
// check cannot currently deny anything; see DESIGN.md.
func StaffMiddleware(c *fiber.Ctx) error {
	acct := c.Locals("account").(database.Account)

	if !acct.IsActive || !acct.IsStaff {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized",
		})
	}

	if !acct.HasModulePerms(c.Params("model")) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Forbidden",
		})
	}

	return c.Next()
}
