package handlers

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"accounthub/internal/admin"
	"accounthub/internal/config"
	"accounthub/internal/database"
	"accounthub/internal/mail"
	"accounthub/internal/platform/account"
)

// accountModel is the entity name the engine serves. The registry keeps
// the declaration; the data access below is account-specific.
const accountModel = "account"

func lookupModel(c *fiber.Ctx) (admin.ModelAdmin, bool) {
	registry := c.Locals("admin").(*admin.Registry)

	name := c.Params("model")
	if name != accountModel {
		return admin.ModelAdmin{}, false
	}
	return registry.Lookup(name)
}

// AdminList renders the list view: declared columns, declared filters,
// search and ordering.
func AdminList(c *fiber.Ctx) error {
	db := c.Locals("db").(*gorm.DB)

	cfg, ok := lookupModel(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Unknown model"})
	}

	lq, err := admin.BuildListQuery(cfg, c.Queries())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	var accounts []database.Account
	result := lq.Apply(db.Model(&database.Account{})).Find(&accounts)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	rows := make([]fiber.Map, 0, len(accounts))
	for i := range accounts {
		row := fiber.Map{}
		values := accountFieldValues(&accounts[i])
		for _, col := range cfg.ListDisplay {
			row[col] = values[col]
		}
		rows = append(rows, row)
	}

	return c.JSON(fiber.Map{
		"columns": cfg.ListDisplay,
		"rows":    rows,
	})
}

// AdminDetail renders the edit form: field values grouped by the declared
// fieldsets, with readonly fields marked.
func AdminDetail(c *fiber.Ctx) error {
	db := c.Locals("db").(*gorm.DB)

	cfg, ok := lookupModel(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Unknown model"})
	}

	acctService := account.NewService(db)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid account ID"})
	}
	acct, err := acctService.GetByID(id)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Account not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	values := accountFieldValues(acct)

	fieldsets := make([]fiber.Map, 0, len(cfg.Fieldsets))
	for _, fs := range cfg.Fieldsets {
		fields := fiber.Map{}
		for _, name := range fs.Fields {
			fields[name] = values[name]
		}
		fieldsets = append(fieldsets, fiber.Map{
			"label":  fs.Label,
			"fields": fields,
		})
	}

	return c.JSON(fiber.Map{
		"label":     acct.String(),
		"fieldsets": fieldsets,
		"readonly":  cfg.ReadonlyFields,
	})
}

// AdminCreate handles the add form. The form carries no username; the
// initial display name falls back to the email local part.
func AdminCreate(c *fiber.Ctx) error {
	db := c.Locals("db").(*gorm.DB)

	if _, ok := lookupModel(c); !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Unknown model"})
	}

	acctService := account.NewService(db)

	type AddInput struct {
		Email     string `json:"email" validate:"required,email"`
		Username  string `json:"username"`
		Password1 string `json:"password1" validate:"required,min=6"`
		Password2 string `json:"password2" validate:"required"`
		IsStaff   *bool  `json:"is_staff"`
		IsActive  *bool  `json:"is_active"`
	}

	var input AddInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	if err := config.Validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if input.Password1 != input.Password2 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Passwords do not match"})
	}

	username := input.Username
	if username == "" {
		username, _, _ = strings.Cut(input.Email, "@")
	}

	acct, err := acctService.CreateUser(input.Email, username, input.Password1)
	if err != nil {
		if errors.Is(err, account.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Account already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	if input.IsStaff != nil || input.IsActive != nil {
		if input.IsStaff != nil {
			acct.IsStaff = *input.IsStaff
		}
		if input.IsActive != nil {
			acct.IsActive = *input.IsActive
		}
		if err := acctService.Update(acct); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
		}
	}

	if mailer, ok := c.Locals("mailer").(mail.Mailer); ok && mailer != nil {
		appCfg := c.Locals("config").(*config.Config)
		message := mail.Email{
			Subject: "Your account has been created",
			Body:    "An administrator created an account for you. Contact staff for activation details.",
			From:    appCfg.MailFrom,
			To:      []string{acct.Email},
		}
		// Best effort; account creation already succeeded.
		if err := mailer.SendMail(&message); err != nil {
			log.Warnf("account notice mail failed: %v", err)
		}
	}

	return c.JSON(acct)
}

// AdminUpdate handles the edit form. Readonly fields are editable by the
// system only; a request naming one is rejected outright.
func AdminUpdate(c *fiber.Ctx) error {
	db := c.Locals("db").(*gorm.DB)

	cfg, ok := lookupModel(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Unknown model"})
	}

	acctService := account.NewService(db)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}
	for name := range raw {
		if cfg.HasReadonlyField(name) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Field is read-only: " + name})
		}
	}

	type EditInput struct {
		Username    *string      `json:"username"`
		IsActive    *bool        `json:"is_active"`
		IsStaff     *bool        `json:"is_staff"`
		IsAdmin     *bool        `json:"is_admin"`
		IsSuperuser *bool        `json:"is_superuser"`
		HideMail    *bool        `json:"hide_mail"`
		Groups      *[]uuid.UUID `json:"groups"`
		Permissions *[]uuid.UUID `json:"user_permissions"`
	}

	var input EditInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid account ID"})
	}
	acct, err := acctService.GetByID(id)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Account not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	if input.Username != nil {
		if *input.Username == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Username required"})
		}
		acct.Username = *input.Username
	}
	if input.IsActive != nil {
		acct.IsActive = *input.IsActive
	}
	if input.IsStaff != nil {
		acct.IsStaff = *input.IsStaff
	}
	if input.IsAdmin != nil {
		acct.IsAdmin = *input.IsAdmin
	}
	if input.IsSuperuser != nil {
		acct.IsSuperuser = *input.IsSuperuser
	}
	if input.HideMail != nil {
		acct.HideMail = *input.HideMail
	}

	if err := acctService.Update(acct); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	if input.Groups != nil {
		groups := make([]database.Group, 0, len(*input.Groups))
		for _, gid := range *input.Groups {
			groups = append(groups, database.Group{ID: gid})
		}
		if err := db.Model(acct).Association("Groups").Replace(groups); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
		}
	}
	if input.Permissions != nil {
		perms := make([]database.Permission, 0, len(*input.Permissions))
		for _, pid := range *input.Permissions {
			perms = append(perms, database.Permission{ID: pid})
		}
		if err := db.Model(acct).Association("Permissions").Replace(perms); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
		}
	}

	return c.JSON(acct)
}

// AdminResetPassword sets a new password for an account from the admin
// surface.
func AdminResetPassword(c *fiber.Ctx) error {
	db := c.Locals("db").(*gorm.DB)

	if _, ok := lookupModel(c); !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Unknown model"})
	}

	acctService := account.NewService(db)

	type ResetPasswordInput struct {
		Password string `json:"password" validate:"required,min=6"`
	}

	var input ResetPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	if err := config.Validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid account ID"})
	}
	acct, err := acctService.GetByID(id)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Account not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	if err := acctService.UpdatePassword(acct, input.Password); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// accountFieldValues maps declared field names onto an account. The
// password hash itself never leaves the store; the form shows a mask.
func accountFieldValues(a *database.Account) map[string]any {
	password := ""
	if a.PasswordHash != "" {
		password = "********"
	}

	return map[string]any{
		"email":            a.Email,
		"password":         password,
		"username":         a.Username,
		"is_active":        a.IsActive,
		"is_staff":         a.IsStaff,
		"is_admin":         a.IsAdmin,
		"is_superuser":     a.IsSuperuser,
		"hide_mail":        a.HideMail,
		"groups":           a.Groups,
		"user_permissions": a.Permissions,
		"last_login":       a.LastLogin,
		"date_joined":      a.DateJoined,
	}
}
