package controllers_test

import (
	"bytes"
	"context"
	"elearn/cart"
	"elearn/config"
	"elearn/database"
	"elearn/middleware"
	"elearn/models"
	courseModels "elearn/models/course"
	cartRoutes "elearn/routers/cartRoutes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupCartApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	config.LoadConfig()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	cart.CartStore = cart.NewStore(cart.NewMemoryBackend())

	app := fiber.New()
	cartRoutes.SetupCartRoutes(app)
	return app, db
}

func createUser(t *testing.T, db *gorm.DB, email string) (models.User, string) {
	t.Helper()
	user := models.User{Name: "Learner", Email: email, Password: "hashed", Role: models.RoleUser}
	require.NoError(t, db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return user, token
}

func seedPublishedCourse(t *testing.T, db *gorm.DB, title string, price float64) courseModels.Course {
	t.Helper()
	course := courseModels.Course{
		Title:     title,
		Price:     price,
		Status:    courseModels.StatusPublished,
		IsVisible: true,
	}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func parseResponse(t *testing.T, resp *http.Response) apiResponse {
	t.Helper()
	var parsed apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return parsed
}

func TestAddToCartRequiresPublishedCourse(t *testing.T) {
	app, db := setupCartApp(t)
	_, token := createUser(t, db, "learner@example.com")

	draft := courseModels.Course{Title: "Draft", Price: 10, Status: courseModels.StatusDraft, IsVisible: true}
	require.NoError(t, db.Create(&draft).Error)

	resp := doRequest(t, app, http.MethodPost, fmt.Sprintf("/cart/add/%d", draft.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAddToCartOwnedCourseRejected(t *testing.T) {
	app, db := setupCartApp(t)
	user, token := createUser(t, db, "learner@example.com")
	course := seedPublishedCourse(t, db, "Go Basics", 10)

	require.NoError(t, db.Create(&courseModels.UserCourse{UserID: user.ID, CourseID: course.ID}).Error)

	resp := doRequest(t, app, http.MethodPost, fmt.Sprintf("/cart/add/%d", course.ID), token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "You already own this course!", parseResponse(t, resp).Message)
}

func TestAddToCartDuplicateRejected(t *testing.T) {
	app, db := setupCartApp(t)
	_, token := createUser(t, db, "learner@example.com")
	course := seedPublishedCourse(t, db, "Go Basics", 10)

	resp := doRequest(t, app, http.MethodPost, fmt.Sprintf("/cart/add/%d", course.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, fmt.Sprintf("/cart/add/%d", course.ID), token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Course already in cart!", parseResponse(t, resp).Message)
}

func TestGetCartTotals(t *testing.T) {
	app, db := setupCartApp(t)
	_, token := createUser(t, db, "learner@example.com")
	courseA := seedPublishedCourse(t, db, "Go Basics", 10)
	courseB := seedPublishedCourse(t, db, "Advanced Go", 20)

	doRequest(t, app, http.MethodPost, fmt.Sprintf("/cart/add/%d", courseA.ID), token, nil)
	doRequest(t, app, http.MethodPost, fmt.Sprintf("/cart/add/%d", courseB.ID), token, nil)

	resp := doRequest(t, app, http.MethodGet, "/cart/", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Items []cart.Item `json:"items"`
		Total float64     `json:"total"`
	}
	require.NoError(t, json.Unmarshal(parseResponse(t, resp).Data, &data))
	assert.Len(t, data.Items, 2)
	assert.Equal(t, 30.0, data.Total)
}

func TestCheckoutEmptyCart(t *testing.T) {
	app, db := setupCartApp(t)
	_, token := createUser(t, db, "learner@example.com")

	resp := doRequest(t, app, http.MethodPost, "/cart/checkout", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Cart is empty!", parseResponse(t, resp).Message)
}

func TestCheckoutEnrollsAndClearsCart(t *testing.T) {
	app, db := setupCartApp(t)
	user, token := createUser(t, db, "learner@example.com")
	courseA := seedPublishedCourse(t, db, "Go Basics", 10)
	courseB := seedPublishedCourse(t, db, "Advanced Go", 20)

	doRequest(t, app, http.MethodPost, fmt.Sprintf("/cart/add/%d", courseA.ID), token, nil)
	doRequest(t, app, http.MethodPost, fmt.Sprintf("/cart/add/%d", courseB.ID), token, nil)

	resp := doRequest(t, app, http.MethodPost, "/cart/checkout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Enrolled     []cart.Item `json:"enrolled"`
		AlreadyOwned []cart.Item `json:"already_owned"`
		Total        float64     `json:"total"`
	}
	require.NoError(t, json.Unmarshal(parseResponse(t, resp).Data, &data))
	assert.Len(t, data.Enrolled, 2)
	assert.Empty(t, data.AlreadyOwned)
	assert.Equal(t, 30.0, data.Total)

	var count int64
	db.Model(&courseModels.UserCourse{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(2), count)

	items, err := cart.CartStore.Read(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCheckoutToleratesAlreadyOwned(t *testing.T) {
	app, db := setupCartApp(t)
	user, token := createUser(t, db, "learner@example.com")
	courseA := seedPublishedCourse(t, db, "Go Basics", 10)
	courseB := seedPublishedCourse(t, db, "Advanced Go", 20)

	doRequest(t, app, http.MethodPost, fmt.Sprintf("/cart/add/%d", courseA.ID), token, nil)
	doRequest(t, app, http.MethodPost, fmt.Sprintf("/cart/add/%d", courseB.ID), token, nil)

	// Course A becomes owned between add and checkout
	require.NoError(t, db.Create(&courseModels.UserCourse{UserID: user.ID, CourseID: courseA.ID}).Error)

	resp := doRequest(t, app, http.MethodPost, "/cart/checkout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Enrolled     []cart.Item `json:"enrolled"`
		AlreadyOwned []cart.Item `json:"already_owned"`
	}
	require.NoError(t, json.Unmarshal(parseResponse(t, resp).Data, &data))
	require.Len(t, data.Enrolled, 1)
	assert.Equal(t, courseB.ID, data.Enrolled[0].ID)
	require.Len(t, data.AlreadyOwned, 1)
	assert.Equal(t, courseA.ID, data.AlreadyOwned[0].ID)

	// The loop finished, so the cart is cleared
	items, err := cart.CartStore.Read(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRemoveFromCart(t *testing.T) {
	app, db := setupCartApp(t)
	_, token := createUser(t, db, "learner@example.com")
	courseA := seedPublishedCourse(t, db, "Go Basics", 10)
	courseB := seedPublishedCourse(t, db, "Advanced Go", 20)

	doRequest(t, app, http.MethodPost, fmt.Sprintf("/cart/add/%d", courseA.ID), token, nil)
	doRequest(t, app, http.MethodPost, fmt.Sprintf("/cart/add/%d", courseB.ID), token, nil)

	resp := doRequest(t, app, http.MethodDelete, fmt.Sprintf("/cart/remove/%d", courseA.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Items []cart.Item `json:"items"`
		Total float64     `json:"total"`
	}
	require.NoError(t, json.Unmarshal(parseResponse(t, resp).Data, &data))
	require.Len(t, data.Items, 1)
	assert.Equal(t, courseB.ID, data.Items[0].ID)
	assert.Equal(t, 20.0, data.Total)
}
