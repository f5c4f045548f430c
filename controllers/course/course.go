package controllers

import (
	"elearn/cart"
	"elearn/database"
	"elearn/middleware"
	courseModels "elearn/models/course"

	"github.com/gofiber/fiber/v2"
)

// Purchase states computed for the course detail view
const (
	PurchaseStateOwned       = "owned"
	PurchaseStateInCart      = "in_cart"
	PurchaseStatePurchasable = "purchasable"
)

// GetAllCourses lists published, visible courses for the catalog.
func GetAllCourses(c *fiber.Ctx) error {
	// Retrieve validated pagination request
	reqData, ok := c.Locals("validatedList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})
	if !ok || reqData.Page == nil || reqData.Limit == nil {
		// Fetch all published courses without pagination
		var courses []courseModels.Course
		if err := database.Database.Db.
			Where("status = ? AND is_visible = ? AND is_deleted = ?", courseModels.StatusPublished, true, false).
			Order("created_at desc").Find(&courses).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
		}
		response := map[string]interface{}{
			"courses": courses,
			"pagination": map[string]interface{}{
				"total": int64(len(courses)),
				"page":  1,
				"limit": len(courses),
			},
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", response)
	}

	page := *reqData.Page
	limit := *reqData.Limit
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Course{}).
		Where("status = ? AND is_visible = ? AND is_deleted = ?", courseModels.StatusPublished, true, false)

	// Get total count
	var total int64
	db.Count(&total)

	// Fetch paginated data
	var courses []courseModels.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	response := map[string]interface{}{
		"courses": courses,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", response)
}

// GetCourseDetails returns one course with its ordered content outline and
// the computed purchase state for the current user:
// owned, in_cart or purchasable.
func GetCourseDetails(c *fiber.Ctx) error {
	// Anonymous visitors browse too; they just get no ownership info
	userID, authenticated := c.Locals("userId").(uint)

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = ?", courseID, false).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Modules ordered by order number; gaps are expected, sort only
	var modules []courseModels.CourseModule
	if err := database.Database.Db.
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_number").Find(&modules).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course content!", nil)
	}

	type ModuleWithLessons struct {
		courseModels.CourseModule
		Lessons []courseModels.Lesson `json:"lessons"`
	}

	outline := make([]ModuleWithLessons, 0, len(modules))
	for _, module := range modules {
		var lessons []courseModels.Lesson
		if err := database.Database.Db.
			Where("module_id = ? AND is_deleted = ?", module.ID, false).
			Order("order_number").Find(&lessons).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course content!", nil)
		}
		outline = append(outline, ModuleWithLessons{CourseModule: module, Lessons: lessons})
	}

	// Compute purchase state: owned beats in-cart beats purchasable
	purchaseState := PurchaseStatePurchasable

	if authenticated {
		var enrollment courseModels.UserCourse
		if err := database.Database.Db.
			Where("user_id = ? AND course_id = ?", userID, courseID).
			First(&enrollment).Error; err == nil {
			purchaseState = PurchaseStateOwned
		} else {
			inCart, err := cart.CartStore.Contains(c.Context(), userID, uint(courseID))
			if err != nil {
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check cart!", nil)
			}
			if inCart {
				purchaseState = PurchaseStateInCart
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":         course,
		"modules":        outline,
		"purchase_state": purchaseState,
	})
}
