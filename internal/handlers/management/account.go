package mngmt

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"accounthub/internal/config"
	"accounthub/internal/database"
	"accounthub/internal/platform/account"
)

// CreateAccount is the management entry point backing signup tooling. It
// goes through the store factory, never through a bare insert.
func CreateAccount(c *fiber.Ctx) error {
	db := c.Locals("db").(*gorm.DB)

	acctService := account.NewService(db)

	type AccountInput struct {
		Email    string `json:"email" validate:"required,email"`
		Username string `json:"username" validate:"required"`
		Password string `json:"password"`
	}

	var input AccountInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	if err := config.Validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	acct, err := acctService.CreateUser(input.Email, input.Username, input.Password)
	if err != nil {
		if errors.Is(err, account.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Account already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	return c.JSON(acct)
}

func CreateSuperuser(c *fiber.Ctx) error {
	db := c.Locals("db").(*gorm.DB)

	acctService := account.NewService(db)

	type SuperuserInput struct {
		Email    string `json:"email" validate:"required,email"`
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required,min=6"`
	}

	var input SuperuserInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	if err := config.Validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	acct, err := acctService.CreateSuperuser(input.Email, input.Username, input.Password)
	if err != nil {
		if errors.Is(err, account.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Account already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	return c.JSON(acct)
}

func GetAllAccounts(c *fiber.Ctx) error {
	db := c.Locals("db").(*gorm.DB)

	var accounts []database.Account
	limit := c.QueryInt("limit", 100)
	offset := c.QueryInt("offset", 0)
	result := db.Limit(limit).Offset(offset).Find(&accounts)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	return c.JSON(accounts)
}

func GetAccountByEmail(c *fiber.Ctx) error {
	db := c.Locals("db").(*gorm.DB)

	acctService := account.NewService(db)

	acct, err := acctService.GetByEmail(c.Params("email"))
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Account not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	return c.JSON(acct)
}

func GetAccount(c *fiber.Ctx) error {
	db := c.Locals("db").(*gorm.DB)

	acctService := account.NewService(db)

	id, err := uuid.Parse(c.Params("account_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid account ID"})
	}
	acct, err := acctService.GetByID(id)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Account not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	return c.JSON(acct)
}

func CreateAuthKey(c *fiber.Ctx) error {
	db := c.Locals("db").(*gorm.DB)

	var acct database.Account
	result := db.First(&acct, "id = ?", c.Params("account_id"))
	if result.Error != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Account not found"})
	}

	authKey := database.AuthKey{
		AccountID: acct.ID,
	}

	result = db.Create(&authKey)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	return c.JSON(authKey)
}
