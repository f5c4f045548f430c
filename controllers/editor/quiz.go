package controllers

import (
	"elearn/database"
	"elearn/middleware"
	courseModels "elearn/models/course"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
)

// UpsertModuleQuiz creates the module's quiz or updates the existing one.
// A module carries at most one quiz.
func UpsertModuleQuiz(c *fiber.Ctx) error {
	moduleID := c.Locals("moduleID").(int)

	reqData, ok := c.Locals("validatedQuiz").(*struct {
		Title        string  `json:"title"`
		Description  string  `json:"description"`
		PassingScore float64 `json:"passing_score"`
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

	var quiz courseModels.Quiz
	err := database.Database.Db.
		Where("module_id = ? AND is_deleted = ?", moduleID, false).
		First(&quiz).Error
	if err != nil {
		quiz = courseModels.Quiz{
			ModuleID:     uint(moduleID),
			Title:        reqData.Title,
			Description:  reqData.Description,
			PassingScore: reqData.PassingScore,
		}
		if err := database.Database.Db.Create(&quiz).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully!", quiz)
	}

	quiz.Title = reqData.Title
	quiz.Description = reqData.Description
	quiz.PassingScore = reqData.PassingScore
	if err := database.Database.Db.Save(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated successfully!", quiz)
}

// AddQuizQuestion appends a question to a module's quiz.
func AddQuizQuestion(c *fiber.Ctx) error {
	moduleID := c.Locals("moduleID").(int)

	reqData, ok := c.Locals("validatedQuestion").(*struct {
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer string   `json:"correct_answer"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var quiz courseModels.Quiz
	if err := database.Database.Db.
		Where("module_id = ? AND is_deleted = ?", moduleID, false).
		First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	optionsJSON, err := json.Marshal(reqData.Options)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to encode options!", nil)
	}

	question := courseModels.QuizQuestion{
		QuizID:        quiz.ID,
		Question:      reqData.Question,
		Options:       string(optionsJSON),
		CorrectAnswer: reqData.CorrectAnswer,
	}

	if err := database.Database.Db.Create(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question added successfully!", question)
}

// UpdateQuizQuestion edits an existing question.
func UpdateQuizQuestion(c *fiber.Ctx) error {
	questionID := c.Locals("questionID").(int)

	reqData, ok := c.Locals("validatedQuestion").(*struct {
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer string   `json:"correct_answer"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var question courseModels.QuizQuestion
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = ?", questionID, false).
		First(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}

	optionsJSON, err := json.Marshal(reqData.Options)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to encode options!", nil)
	}

	question.Question = reqData.Question
	question.Options = string(optionsJSON)
	question.CorrectAnswer = reqData.CorrectAnswer

	if err := database.Database.Db.Save(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update question!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question updated successfully!", question)
}

// DeleteQuizQuestion soft-removes a question.
func DeleteQuizQuestion(c *fiber.Ctx) error {
	questionID := c.Locals("questionID").(int)

	var question courseModels.QuizQuestion
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = ?", questionID, false).
		First(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}

	if err := database.Database.Db.Model(&question).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete question!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question deleted successfully!", nil)
}
