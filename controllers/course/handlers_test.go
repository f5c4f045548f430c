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
	courseRoutes "elearn/routers/courseRoutes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

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

func setupCourseApp(t *testing.T) (*fiber.App, *gorm.DB) {
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
	courseRoutes.SetupCourseRoutes(app)
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

func seedCourse(t *testing.T, db *gorm.DB) (courseModels.Course, []courseModels.Lesson, courseModels.CourseModule) {
	t.Helper()

	course := courseModels.Course{
		Title:       "Go from Scratch",
		Description: "Introductory course",
		Price:       29.99,
		Status:      courseModels.StatusPublished,
		IsVisible:   true,
	}
	require.NoError(t, db.Create(&course).Error)

	module := courseModels.CourseModule{CourseID: course.ID, Title: "Basics", OrderNumber: 1}
	require.NoError(t, db.Create(&module).Error)

	lessons := []courseModels.Lesson{
		{CourseID: course.ID, ModuleID: module.ID, Title: "Hello", ContentType: courseModels.ContentVideo, OrderNumber: 1},
		{CourseID: course.ID, ModuleID: module.ID, Title: "Variables", ContentType: courseModels.ContentVideo, OrderNumber: 2},
	}
	for i := range lessons {
		require.NoError(t, db.Create(&lessons[i]).Error)
	}
	return course, lessons, module
}

func enroll(t *testing.T, db *gorm.DB, userID, courseID uint) {
	t.Helper()
	require.NoError(t, db.Create(&courseModels.UserCourse{UserID: userID, CourseID: courseID}).Error)
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

func TestCourseContentRequiresEnrollment(t *testing.T) {
	app, db := setupCourseApp(t)
	course, _, _ := seedCourse(t, db)
	_, token := createUser(t, db, "learner@example.com")

	resp := doRequest(t, app, http.MethodGet, fmt.Sprintf("/course/%d/content", course.ID), token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "User not enrolled in this course!", parseResponse(t, resp).Message)
}

func TestAccessLessonBlockedWritesNothing(t *testing.T) {
	app, db := setupCourseApp(t)
	course, lessons, _ := seedCourse(t, db)
	user, token := createUser(t, db, "learner@example.com")
	enroll(t, db, user.ID, course.ID)

	resp := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/lesson/%d/access", course.ID, lessons[1].ID), token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Complete the previous lesson first!", parseResponse(t, resp).Message)

	// A blocked access leaves no trace
	var count int64
	db.Model(&courseModels.LessonProgress{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestAccessLessonRecordsAccess(t *testing.T) {
	app, db := setupCourseApp(t)
	course, lessons, _ := seedCourse(t, db)
	user, token := createUser(t, db, "learner@example.com")
	enroll(t, db, user.ID, course.ID)

	resp := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/lesson/%d/access", course.ID, lessons[0].ID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var progress courseModels.LessonProgress
	require.NoError(t, db.Where("user_id = ? AND lesson_id = ?", user.ID, lessons[0].ID).First(&progress).Error)
	assert.False(t, progress.Completed)
	assert.NotNil(t, progress.LastAccessedAt)

	// Repeated access updates the row instead of duplicating it
	resp = doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/lesson/%d/access", course.ID, lessons[0].ID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	db.Model(&courseModels.LessonProgress{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestMarkLessonCompleteProgression(t *testing.T) {
	app, db := setupCourseApp(t)
	course, lessons, _ := seedCourse(t, db)
	user, token := createUser(t, db, "learner@example.com")
	enroll(t, db, user.ID, course.ID)

	type completionData struct {
		CompletionPercentage int `json:"completion_percentage"`
	}

	resp := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/lesson/%d/complete", course.ID, lessons[0].ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data completionData
	require.NoError(t, json.Unmarshal(parseResponse(t, resp).Data, &data))
	assert.Equal(t, 50, data.CompletionPercentage)

	// No course-level completion yet
	var courseProgress courseModels.CourseProgress
	err := db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&courseProgress).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	resp = doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/lesson/%d/complete", course.ID, lessons[1].ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(parseResponse(t, resp).Data, &data))
	assert.Equal(t, 100, data.CompletionPercentage)

	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&courseProgress).Error)
	assert.True(t, courseProgress.Completed)
	assert.NotNil(t, courseProgress.CompletedAt)
}

func TestMarkLessonCompleteIdempotent(t *testing.T) {
	app, db := setupCourseApp(t)
	course, lessons, _ := seedCourse(t, db)
	user, token := createUser(t, db, "learner@example.com")
	enroll(t, db, user.ID, course.ID)

	for i := 0; i < 2; i++ {
		resp := doRequest(t, app, http.MethodPost,
			fmt.Sprintf("/course/%d/lesson/%d/complete", course.ID, lessons[0].ID), token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	var count int64
	db.Model(&courseModels.LessonProgress{}).
		Where("user_id = ? AND lesson_id = ?", user.ID, lessons[0].ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func seedQuiz(t *testing.T, db *gorm.DB, moduleID uint, passingScore float64) (courseModels.Quiz, []courseModels.QuizQuestion) {
	t.Helper()

	quiz := courseModels.Quiz{ModuleID: moduleID, Title: "Checkpoint", PassingScore: passingScore}
	require.NoError(t, db.Create(&quiz).Error)

	questions := []courseModels.QuizQuestion{
		{QuizID: quiz.ID, Question: "2+2?", Options: `["3","4"]`, CorrectAnswer: "4"},
		{QuizID: quiz.ID, Question: "Capital of France?", Options: `["Paris","Rome"]`, CorrectAnswer: "Paris"},
	}
	for i := range questions {
		require.NoError(t, db.Create(&questions[i]).Error)
	}
	return quiz, questions
}

func TestQuizRequiresEnrollment(t *testing.T) {
	app, db := setupCourseApp(t)
	_, _, module := seedCourse(t, db)
	seedQuiz(t, db, module.ID, 70)
	_, token := createUser(t, db, "learner@example.com")

	resp := doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/course/module/%d/quiz", module.ID), token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "User not enrolled in this course!", parseResponse(t, resp).Message)

	resp = doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/module/%d/quiz/submit", module.ID), token,
		fiber.Map{"answers": map[string]string{"1": "4"}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSubmitQuizRejectsPartialAnswers(t *testing.T) {
	app, db := setupCourseApp(t)
	course, _, module := seedCourse(t, db)
	_, questions := seedQuiz(t, db, module.ID, 70)
	user, token := createUser(t, db, "learner@example.com")
	enroll(t, db, user.ID, course.ID)

	body := fiber.Map{"answers": map[string]string{
		fmt.Sprint(questions[0].ID): "4",
	}}
	resp := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/module/%d/quiz/submit", module.ID), token, body)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "All questions must be answered!", parseResponse(t, resp).Message)
}

func TestSubmitQuizPassBoundary(t *testing.T) {
	app, db := setupCourseApp(t)
	course, _, module := seedCourse(t, db)
	_, questions := seedQuiz(t, db, module.ID, 50)
	user, token := createUser(t, db, "learner@example.com")
	enroll(t, db, user.ID, course.ID)

	// One of two correct: score is exactly the passing score, which passes
	body := fiber.Map{"answers": map[string]string{
		fmt.Sprint(questions[0].ID): "4",
		fmt.Sprint(questions[1].ID): "Rome",
	}}
	resp := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/module/%d/quiz/submit", module.ID), token, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	parsed := parseResponse(t, resp)
	assert.Equal(t, "Congratulations! You passed the quiz!", parsed.Message)

	var data struct {
		Score  float64 `json:"score"`
		Passed bool    `json:"passed"`
	}
	require.NoError(t, json.Unmarshal(parsed.Data, &data))
	assert.Equal(t, 50.0, data.Score)
	assert.True(t, data.Passed)
}

func TestSubmitQuizRetryOverwritesAttempt(t *testing.T) {
	app, db := setupCourseApp(t)
	course, _, module := seedCourse(t, db)
	quiz, questions := seedQuiz(t, db, module.ID, 70)
	user, token := createUser(t, db, "learner@example.com")
	enroll(t, db, user.ID, course.ID)

	failing := fiber.Map{"answers": map[string]string{
		fmt.Sprint(questions[0].ID): "3",
		fmt.Sprint(questions[1].ID): "Rome",
	}}
	resp := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/module/%d/quiz/submit", module.ID), token, failing)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "You did not reach the passing score. Try again!", parseResponse(t, resp).Message)

	passing := fiber.Map{"answers": map[string]string{
		fmt.Sprint(questions[0].ID): "4",
		fmt.Sprint(questions[1].ID): "Paris",
	}}
	resp = doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/module/%d/quiz/submit", module.ID), token, passing)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Only the latest attempt is kept
	var attempts []courseModels.QuizAttempt
	require.NoError(t, db.Where("quiz_id = ? AND user_id = ?", quiz.ID, user.ID).Find(&attempts).Error)
	require.Len(t, attempts, 1)
	assert.Equal(t, 100.0, attempts[0].Score)
	assert.True(t, attempts[0].Passed)
}

func TestGetModuleQuizWithholdsAnswers(t *testing.T) {
	app, db := setupCourseApp(t)
	course, _, module := seedCourse(t, db)
	seedQuiz(t, db, module.ID, 70)
	user, token := createUser(t, db, "learner@example.com")
	enroll(t, db, user.ID, course.ID)

	resp := doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/course/module/%d/quiz", module.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Questions []map[string]interface{} `json:"questions"`
		Attempt   interface{}              `json:"attempt"`
	}
	require.NoError(t, json.Unmarshal(parseResponse(t, resp).Data, &data))
	require.Len(t, data.Questions, 2)
	assert.Nil(t, data.Attempt)
	for _, question := range data.Questions {
		_, leaked := question["correct_answer"]
		assert.False(t, leaked)
	}
}

func TestRequestCertificateBeforeCompletion(t *testing.T) {
	app, db := setupCourseApp(t)
	course, lessons, _ := seedCourse(t, db)
	user, token := createUser(t, db, "learner@example.com")
	enroll(t, db, user.ID, course.ID)

	now := time.Now()
	require.NoError(t, db.Create(&courseModels.LessonProgress{
		UserID: user.ID, LessonID: lessons[0].ID, Completed: true, CompletedAt: &now,
	}).Error)

	resp := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/certificate/request", course.ID), token,
		fiber.Map{"full_name": "Jane Doe"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Course not completed!", parseResponse(t, resp).Message)
}

func TestRequestCertificateFlow(t *testing.T) {
	app, db := setupCourseApp(t)
	course, lessons, _ := seedCourse(t, db)
	user, token := createUser(t, db, "learner@example.com")
	enroll(t, db, user.ID, course.ID)

	now := time.Now()
	for _, lesson := range lessons {
		require.NoError(t, db.Create(&courseModels.LessonProgress{
			UserID: user.ID, LessonID: lesson.ID, Completed: true, CompletedAt: &now,
		}).Error)
	}

	resp := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/certificate/request", course.ID), token,
		fiber.Map{"full_name": "Jane Doe"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var request courseModels.CertificateRequest
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&request).Error)
	assert.Equal(t, courseModels.CertificatePending, request.Status)
	assert.Equal(t, "Jane Doe", request.FullName)

	// A second request is rejected
	resp = doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/certificate/request", course.ID), token,
		fiber.Map{"full_name": "Jane Doe"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Certificate already requested!", parseResponse(t, resp).Message)
}

func TestGetCertificateRequestWhenNone(t *testing.T) {
	app, db := setupCourseApp(t)
	course, _, _ := seedCourse(t, db)
	_, token := createUser(t, db, "learner@example.com")

	resp := doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/course/%d/certificate", course.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	parsed := parseResponse(t, resp)
	assert.Equal(t, "No certificate request found.", parsed.Message)
	assert.Equal(t, "null", string(parsed.Data))
}

func TestCatalogHidesUnpublishedCourses(t *testing.T) {
	app, db := setupCourseApp(t)
	seedCourse(t, db)

	draft := courseModels.Course{Title: "Draft Course", Status: courseModels.StatusDraft, IsVisible: true}
	require.NoError(t, db.Create(&draft).Error)
	hidden := courseModels.Course{Title: "Hidden Course", Status: courseModels.StatusPublished, IsVisible: false}
	require.NoError(t, db.Create(&hidden).Error)

	_, token := createUser(t, db, "learner@example.com")

	resp := doRequest(t, app, http.MethodGet, "/course/list", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Courses []courseModels.Course `json:"courses"`
	}
	require.NoError(t, json.Unmarshal(parseResponse(t, resp).Data, &data))
	require.Len(t, data.Courses, 1)
	assert.Equal(t, "Go from Scratch", data.Courses[0].Title)
}

func TestCatalogOpenToAnonymousVisitors(t *testing.T) {
	app, db := setupCourseApp(t)
	seedCourse(t, db)

	resp := doRequest(t, app, http.MethodGet, "/course/list", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Courses []courseModels.Course `json:"courses"`
	}
	require.NoError(t, json.Unmarshal(parseResponse(t, resp).Data, &data))
	assert.Len(t, data.Courses, 1)
}

func TestCourseDetailsPurchaseStates(t *testing.T) {
	app, db := setupCourseApp(t)
	course, _, _ := seedCourse(t, db)

	type detailData struct {
		PurchaseState string `json:"purchase_state"`
	}
	fetchState := func(token string) string {
		resp := doRequest(t, app, http.MethodGet, fmt.Sprintf("/course/%d", course.ID), token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var data detailData
		require.NoError(t, json.Unmarshal(parseResponse(t, resp).Data, &data))
		return data.PurchaseState
	}

	// Anonymous visitors see the course as purchasable
	assert.Equal(t, "purchasable", fetchState(""))

	user, token := createUser(t, db, "learner@example.com")
	assert.Equal(t, "purchasable", fetchState(token))

	_, err := cart.CartStore.Add(context.Background(), user.ID, cart.Item{ID: course.ID, Title: course.Title, Price: course.Price})
	require.NoError(t, err)
	assert.Equal(t, "in_cart", fetchState(token))

	enroll(t, db, user.ID, course.ID)
	assert.Equal(t, "owned", fetchState(token))
}
