package controllers

import (
	"elearn/database"
	"elearn/middleware"
	courseModels "elearn/models/course"
	"elearn/utils"
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// QuestionView is a question as shown to the learner. The correct answer is
// withheld until an attempt exists.
type QuestionView struct {
	ID       uint     `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// QuestionResult is the per-question outcome revealed after a submission.
type QuestionResult struct {
	QuestionID    uint   `json:"question_id"`
	ChosenAnswer  string `json:"chosen_answer"`
	CorrectAnswer string `json:"correct_answer"`
	Correct       bool   `json:"correct"`
}

func parseOptions(raw string) []string {
	var options []string
	if err := json.Unmarshal([]byte(raw), &options); err != nil {
		return []string{}
	}
	return options
}

// GetModuleQuiz returns the module's quiz (at most one) with its questions
// and the user's latest attempt if any.
func GetModuleQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	moduleID := c.Locals("moduleID").(int)

	var module courseModels.CourseModule
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = ?", moduleID, false).
		First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	// Quizzes belong to the learning console, enrolled users only
	var enrollment courseModels.UserCourse
	if err := database.Database.Db.
		Where("user_id = ? AND course_id = ?", userID, module.CourseID).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var quiz courseModels.Quiz
	if err := database.Database.Db.
		Where("module_id = ? AND is_deleted = ?", moduleID, false).
		First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var questions []courseModels.QuizQuestion
	if err := database.Database.Db.
		Where("quiz_id = ? AND is_deleted = ?", quiz.ID, false).
		Order("id").Find(&questions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz questions!", nil)
	}

	views := make([]QuestionView, 0, len(questions))
	for _, question := range questions {
		views = append(views, QuestionView{
			ID:       question.ID,
			Question: question.Question,
			Options:  parseOptions(question.Options),
		})
	}

	var attempt *courseModels.QuizAttempt
	var existing courseModels.QuizAttempt
	if err := database.Database.Db.
		Where("quiz_id = ? AND user_id = ?", quiz.ID, userID).
		First(&existing).Error; err == nil {
		attempt = &existing
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", fiber.Map{
		"quiz":      quiz,
		"questions": views,
		"attempt":   attempt,
	})
}

// SubmitQuiz scores a full answer set against the module quiz and upserts
// the user's attempt, overwriting any prior one. Submission requires an
// answer for every question; unanswered would count as incorrect, so a
// partial set is rejected outright.
func SubmitQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	moduleID := c.Locals("moduleID").(int)

	reqData, ok := c.Locals("validatedQuizSubmission").(*struct {
		Answers map[string]string `json:"answers"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var module courseModels.CourseModule
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = ?", moduleID, false).
		First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	var enrollment courseModels.UserCourse
	if err := database.Database.Db.
		Where("user_id = ? AND course_id = ?", userID, module.CourseID).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var quiz courseModels.Quiz
	if err := database.Database.Db.
		Where("module_id = ? AND is_deleted = ?", moduleID, false).
		First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var questions []courseModels.QuizQuestion
	if err := database.Database.Db.
		Where("quiz_id = ? AND is_deleted = ?", quiz.ID, false).
		Order("id").Find(&questions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz questions!", nil)
	}
	if len(questions) == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz has no questions!", nil)
	}

	// Every question must carry an answer before scoring
	for _, question := range questions {
		key := strconv.FormatUint(uint64(question.ID), 10)
		if answer, found := reqData.Answers[key]; !found || answer == "" {
			return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "All questions must be answered!", nil)
		}
	}

	correct := 0
	results := make([]QuestionResult, 0, len(questions))
	for _, question := range questions {
		key := strconv.FormatUint(uint64(question.ID), 10)
		chosen := reqData.Answers[key]
		isCorrect := chosen == question.CorrectAnswer
		if isCorrect {
			correct++
		}
		results = append(results, QuestionResult{
			QuestionID:    question.ID,
			ChosenAnswer:  chosen,
			CorrectAnswer: question.CorrectAnswer,
			Correct:       isCorrect,
		})
	}

	score := utils.QuizScore(correct, len(questions))
	passed := score >= quiz.PassingScore

	answersJSON, err := json.Marshal(reqData.Answers)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to encode answers!", nil)
	}

	// Upsert by (quiz, user): a retry overwrites the prior attempt
	attempt := courseModels.QuizAttempt{
		QuizID:  quiz.ID,
		UserID:  userID,
		Score:   score,
		Passed:  passed,
		Answers: string(answersJSON),
	}
	if err := database.Database.Db.
		Where("quiz_id = ? AND user_id = ?", quiz.ID, userID).
		Assign(map[string]interface{}{
			"score":   score,
			"passed":  passed,
			"answers": string(answersJSON),
		}).
		FirstOrCreate(&attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save quiz attempt!", nil)
	}

	message := "You did not reach the passing score. Try again!"
	if passed {
		message = "Congratulations! You passed the quiz!"
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"score":         score,
		"passed":        passed,
		"passing_score": quiz.PassingScore,
		"results":       results,
	})
}
