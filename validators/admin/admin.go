package adminValidator

import (
	"elearn/middleware"
	courseModels "elearn/models/course"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Course validates the create-course body. Title and description are
// required and price must be strictly positive.
func Course() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string  `json:"title"`
			Description string  `json:"description"`
			Price       float64 `json:"price"`
			ImageURL    string  `json:"image_url"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if strings.TrimSpace(reqData.Description) == "" {
			errors["description"] = "Description is required!"
		}
		if reqData.Price <= 0 {
			errors["price"] = "Price must be a positive number!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// CourseUpdate validates the update-course body. Status, when present,
// must be one of the known course statuses.
func CourseUpdate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string  `json:"title"`
			Description string  `json:"description"`
			Price       float64 `json:"price"`
			ImageURL    string  `json:"image_url"`
			Status      string  `json:"status"`
			IsVisible   *bool   `json:"is_visible"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if strings.TrimSpace(reqData.Description) == "" {
			errors["description"] = "Description is required!"
		}
		if reqData.Price <= 0 {
			errors["price"] = "Price must be a positive number!"
		}
		if reqData.Status != "" &&
			reqData.Status != courseModels.StatusDraft &&
			reqData.Status != courseModels.StatusPublished &&
			reqData.Status != courseModels.StatusArchived {
			errors["status"] = "Status must be draft, published or archived!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

// Enrollment validates the manual enroll/unenroll body.
func Enrollment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserID   uint `json:"user_id"`
			CourseID uint `json:"course_id"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.UserID == 0 {
			errors["user_id"] = "User id is required!"
		}
		if reqData.CourseID == 0 {
			errors["course_id"] = "Course id is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedEnrollment", reqData)
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

// RequestID validates the :requestId route param.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID, err := strconv.Atoi(c.Params("requestId"))
		if err != nil || requestID < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request id!", nil)
		}

		c.Locals("requestID", requestID)
		return c.Next()
	}
}
