package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"accounthub/internal/admin"
	"accounthub/internal/config"
)

func newTestApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	registry := admin.NewRegistry()
	registry.Register("account", admin.AccountAdmin())

	config.Validate = validator.New()

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("db", db)
		c.Locals("admin", registry)
		return c.Next()
	})

	backoffice := app.Group("/api/admin")
	backoffice.Get("/:model", AdminList)
	backoffice.Post("/:model", AdminCreate)
	backoffice.Get("/:model/:id", AdminDetail)
	backoffice.Put("/:model/:id", AdminUpdate)
	backoffice.Put("/:model/:id/password", AdminResetPassword)

	return app, mock
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) (int, string) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(payload)
}

func TestAdminUnknownModel(t *testing.T) {
	app, mock := newTestApp(t)

	status, _ := doRequest(t, app, "GET", "/api/admin/inventory", "")
	assert.Equal(t, fiber.StatusNotFound, status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminListRejectsUndeclaredFilter(t *testing.T) {
	app, mock := newTestApp(t)

	status, body := doRequest(t, app, "GET", "/api/admin/account?username=alice", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, "unknown filter")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminListColumns(t *testing.T) {
	app, mock := newTestApp(t)

	mock.ExpectQuery(`SELECT .* FROM "account"\."account".*ORDER BY email ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "username", "is_staff", "is_active"}).
			AddRow(uuid.New(), "alice@example.com", "alice", true, true).
			AddRow(uuid.New(), "bob@example.com", "bob", false, true))

	status, body := doRequest(t, app, "GET", "/api/admin/account", "")
	assert.Equal(t, fiber.StatusOK, status)

	var payload struct {
		Columns []string         `json:"columns"`
		Rows    []map[string]any `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &payload))

	assert.Equal(t, []string{"email", "is_staff", "is_active"}, payload.Columns)
	require.Len(t, payload.Rows, 2)
	assert.Equal(t, "alice@example.com", payload.Rows[0]["email"])
	assert.Equal(t, true, payload.Rows[0]["is_staff"])
	// Only declared columns appear in a row.
	assert.NotContains(t, payload.Rows[0], "username")
	assert.NotContains(t, payload.Rows[0], "password")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminCreatePasswordMismatch(t *testing.T) {
	app, mock := newTestApp(t)

	status, body := doRequest(t, app, "POST", "/api/admin/account",
		`{"email":"alice@example.com","password1":"pw1234","password2":"pw5678"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, "Passwords do not match")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminCreate(t *testing.T) {
	app, mock := newTestApp(t)

	mock.ExpectQuery(`INSERT INTO "account"\."account"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectExec(`UPDATE "account"\."account"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	status, body := doRequest(t, app, "POST", "/api/admin/account",
		`{"email":"Carol@Example.com","password1":"pw1234","password2":"pw1234","is_staff":false,"is_active":true}`)
	assert.Equal(t, fiber.StatusOK, status)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	assert.Equal(t, "carol@example.com", payload["email"])
	assert.Equal(t, "Carol", payload["username"])
	assert.Equal(t, false, payload["is_staff"])
	assert.Equal(t, true, payload["is_active"])
	assert.NotContains(t, payload, "password_hash")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminCreateDuplicate(t *testing.T) {
	app, mock := newTestApp(t)

	mock.ExpectQuery(`INSERT INTO "account"\."account"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	status, _ := doRequest(t, app, "POST", "/api/admin/account",
		`{"email":"taken@example.com","password1":"pw1234","password2":"pw1234"}`)
	assert.Equal(t, fiber.StatusConflict, status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminUpdateRejectsReadonlyFields(t *testing.T) {
	app, mock := newTestApp(t)

	id := uuid.New()

	for _, field := range []string{"date_joined", "last_login"} {
		status, body := doRequest(t, app, "PUT", "/api/admin/account/"+id.String(),
			`{"`+field+`":"2020-01-01T00:00:00Z"}`)
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Contains(t, body, field)
	}

	// A rejected edit must not touch the store.
	assert.NoError(t, mock.ExpectationsWereMet())
}
