package controllers

import (
	"elearn/cart"
	"elearn/database"
	"elearn/middleware"
	courseModels "elearn/models/course"
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetCart returns the user's cart with the computed total.
func GetCart(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	items, err := cart.CartStore.Read(c.Context(), userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load cart!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Cart fetched successfully!", fiber.Map{
		"items": items,
		"total": cart.Total(items),
	})
}

// AddToCart snapshots a purchasable course into the user's cart.
func AddToCart(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.
		Where("id = ? AND status = ? AND is_visible = ? AND is_deleted = ?",
			courseID, courseModels.StatusPublished, true, false).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not available!", nil)
	}

	// Owned courses cannot be re-purchased
	var enrollment courseModels.UserCourse
	if err := database.Database.Db.
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You already own this course!", nil)
	}

	item := cart.Item{
		ID:          course.ID,
		Title:       course.Title,
		Description: course.Description,
		Price:       course.Price,
		ImageURL:    course.ImageURL,
	}

	items, err := cart.CartStore.Add(c.Context(), userID, item)
	if err != nil {
		if errors.Is(err, cart.ErrDuplicate) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Course already in cart!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add course to cart!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course added to cart!", fiber.Map{
		"items": items,
		"total": cart.Total(items),
	})
}

// RemoveFromCart removes one course from the cart.
func RemoveFromCart(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	items, err := cart.CartStore.Remove(c.Context(), userID, uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to remove course from cart!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Item removed from cart!", fiber.Map{
		"items": items,
		"total": cart.Total(items),
	})
}

// ClearCart empties the cart.
func ClearCart(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if err := cart.CartStore.Clear(c.Context(), userID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to clear cart!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Cart cleared successfully!", nil)
}

// Checkout enrolls the user in every cart item, one insert at a time in
// cart order. An already-owned course is reported per item and the loop
// continues; any other failure aborts the purchase with the cart intact.
// A completed loop always clears the cart.
func Checkout(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	items, err := cart.CartStore.Read(c.Context(), userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load cart!", nil)
	}
	if len(items) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Cart is empty!", nil)
	}

	total := cart.Total(items)

	var enrolled []cart.Item
	var alreadyOwned []cart.Item
	for _, item := range items {
		enrollment := courseModels.UserCourse{
			UserID:   userID,
			CourseID: item.ID,
		}
		if err := database.Database.Db.Create(&enrollment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				alreadyOwned = append(alreadyOwned, item)
				continue
			}
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete purchase!", nil)
		}
		enrolled = append(enrolled, item)
	}

	// The loop finished: clear the cart regardless of per-item outcomes
	if err := cart.CartStore.Clear(c.Context(), userID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Purchase completed but cart could not be cleared!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Purchase completed successfully!", fiber.Map{
		"enrolled":      enrolled,
		"already_owned": alreadyOwned,
		"total":         total,
	})
}
