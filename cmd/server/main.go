package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"accounthub/internal/admin"
	"accounthub/internal/config"
	"accounthub/internal/database"
	"accounthub/internal/handlers"
	mngmt "accounthub/internal/handlers/management"
	"accounthub/internal/mail"
	"accounthub/internal/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}

	// The admin registry is assembled here, not by import side effects,
	// so startup order stays explicit.
	registry := admin.NewRegistry()
	registry.Register("account", admin.AccountAdmin())

	var mailer mail.Mailer
	if cfg.MailgunAPIKey != "" {
		mailer = mail.NewMailer(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunAPIBase)
	}

	app := fiber.New()

	app.Use(compress.New())
	app.Use(helmet.New())
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(healthcheck.New())

	app.Use(func(c *fiber.Ctx) error {
		c.Locals("config", cfg)
		c.Locals("db", db)
		c.Locals("admin", registry)
		if mailer != nil {
			c.Locals("mailer", mailer)
		}
		return c.Next()
	})

	api := app.Group("/api")

	acct := api.Group("/account", middleware.AuthMiddleware)
	acct.Get("/me", handlers.GetCurrentAccount)

	management := api.Group("/management", middleware.AuthMiddleware, middleware.StaffMiddleware)
	management.Post("/account", mngmt.CreateAccount)
	management.Post("/superuser", mngmt.CreateSuperuser)
	management.Get("/account", mngmt.GetAllAccounts)
	management.Get("/account/email/:email", mngmt.GetAccountByEmail)
	management.Get("/account/:account_id", mngmt.GetAccount)
	management.Post("/account/:account_id/auth-key", mngmt.CreateAuthKey)

	backoffice := api.Group("/admin", middleware.AuthMiddleware, middleware.StaffMiddleware)
	backoffice.Get("/:model", handlers.AdminList)
	backoffice.Post("/:model", handlers.AdminCreate)
	backoffice.Get("/:model/:id", handlers.AdminDetail)
	backoffice.Put("/:model/:id", handlers.AdminUpdate)
	backoffice.Put("/:model/:id/password", handlers.AdminResetPassword)

	app.Use(func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNotFound)
	})

	log.Fatal(app.Listen(fmt.Sprintf(":%d", cfg.ServerPort)))
}
