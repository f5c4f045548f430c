package controllers_test

import (
	"bytes"
	"elearn/config"
	"elearn/database"
	"elearn/models"
	authRoutes "elearn/routers/authRoutes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	config.LoadConfig()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	return app, db
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestSignupLoginMe(t *testing.T) {
	app, db := setupAuthApp(t)

	resp := postJSON(t, app, "/auth/signup", fiber.Map{
		"name":     "Jane Doe",
		"email":    "Jane@Example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Email is normalized to lower case and the password is never stored raw
	var user models.User
	require.NoError(t, db.Where("email = ?", "jane@example.com").First(&user).Error)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "secret123", user.Password)

	resp = postJSON(t, app, "/auth/login", fiber.Map{
		"email":    "jane@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	require.NotEmpty(t, parsed.Data.Token)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+parsed.Data.Token)
	meResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, meResp.StatusCode)
}

func TestSignupDuplicateEmail(t *testing.T) {
	app, _ := setupAuthApp(t)

	body := fiber.Map{"name": "Jane Doe", "email": "jane@example.com", "password": "secret123"}
	resp := postJSON(t, app, "/auth/signup", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/auth/signup", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSignupValidation(t *testing.T) {
	app, _ := setupAuthApp(t)

	resp := postJSON(t, app, "/auth/signup", fiber.Map{
		"name":     "J",
		"email":    "not-an-email",
		"password": "123",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestUpdateProfileName(t *testing.T) {
	app, db := setupAuthApp(t)

	resp := postJSON(t, app, "/auth/signup", fiber.Map{
		"name": "Jane Doe", "email": "jane@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var parsed struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(fiber.Map{"name": "  Jane Q. Doe  "}))
	req := httptest.NewRequest(http.MethodPut, "/auth/me", &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+parsed.Data.Token)

	updateResp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, updateResp.StatusCode)

	// Name is trimmed and persisted; email stays untouched
	var user models.User
	require.NoError(t, db.Where("email = ?", "jane@example.com").First(&user).Error)
	assert.Equal(t, "Jane Q. Doe", user.Name)

	// A too-short name is rejected before auth even runs
	buf.Reset()
	require.NoError(t, json.NewEncoder(&buf).Encode(fiber.Map{"name": "J"}))
	req = httptest.NewRequest(http.MethodPut, "/auth/me", &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+parsed.Data.Token)

	badResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, badResp.StatusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	app, _ := setupAuthApp(t)

	postJSON(t, app, "/auth/signup", fiber.Map{
		"name": "Jane Doe", "email": "jane@example.com", "password": "secret123",
	})

	resp := postJSON(t, app, "/auth/login", fiber.Map{
		"email": "jane@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
