package editorValidator

import (
	"elearn/middleware"
	courseModels "elearn/models/course"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Module validates the module create/update body.
func Module() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)

		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

// Lesson validates the lesson create/update body. Content type must be one
// of the supported kinds.
func Lesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			ContentType string `json:"content_type"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if reqData.ContentType != courseModels.ContentVideo &&
			reqData.ContentType != courseModels.ContentPDF &&
			reqData.ContentType != courseModels.ContentPresentation {
			errors["content_type"] = "Content type must be video, pdf or presentation!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

// Quiz validates the quiz create/update body.
func Quiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title        string  `json:"title"`
			Description  string  `json:"description"`
			PassingScore float64 `json:"passing_score"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if reqData.PassingScore <= 0 || reqData.PassingScore > 100 {
			errors["passing_score"] = "Passing score must be between 1 and 100!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)

		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

// Question validates the question create/update body. The correct answer
// must be one of the offered options.
func Question() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Question      string   `json:"question"`
			Options       []string `json:"options"`
			CorrectAnswer string   `json:"correct_answer"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Question) == "" {
			errors["question"] = "Question is required!"
		}
		if len(reqData.Options) < 2 {
			errors["options"] = "At least two options are required!"
		}
		if strings.TrimSpace(reqData.CorrectAnswer) == "" {
			errors["correct_answer"] = "Correct answer is required!"
		} else {
			found := false
			for _, option := range reqData.Options {
				if option == reqData.CorrectAnswer {
					found = true
					break
				}
			}
			if !found {
				errors["correct_answer"] = "Correct answer must be one of the options!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuestion", reqData)
		return c.Next()
	}
}

// CourseID validates the :courseId route param.
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := strconv.Atoi(c.Params("courseId"))
		if err != nil || courseID < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// ModuleID validates the :moduleId route param.
func ModuleID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		moduleID, err := strconv.Atoi(c.Params("moduleId"))
		if err != nil || moduleID < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module id!", nil)
		}

		c.Locals("moduleID", moduleID)
		return c.Next()
	}
}

// LessonID validates the :lessonId route param.
func LessonID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonID, err := strconv.Atoi(c.Params("lessonId"))
		if err != nil || lessonID < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson id!", nil)
		}

		c.Locals("lessonID", lessonID)
		return c.Next()
	}
}

// QuestionID validates the :questionId route param.
func QuestionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		questionID, err := strconv.Atoi(c.Params("questionId"))
		if err != nil || questionID < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid question id!", nil)
		}

		c.Locals("questionID", questionID)
		return c.Next()
	}
}
