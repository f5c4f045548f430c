package controllers

import (
	"elearn/database"
	"elearn/middleware"
	courseModels "elearn/models/course"
	"elearn/utils"

	"github.com/gofiber/fiber/v2"
)

// RequestCertificate creates a pending certificate request. Allowed only at
// exactly 100% completion and only when no request exists; the two
// failures carry distinct messages so the caller can tell them apart.
func RequestCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedCertificateRequest").(*struct {
		FullName string `json:"full_name"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Check enrollment
	var enrollment courseModels.UserCourse
	if err := database.Database.Db.
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	// Course must actually be complete
	completed, total, err := courseCompletion(database.Database.Db, userID, uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute progress!", nil)
	}
	if utils.CompletionPercentage(completed, total) != 100 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course not completed!", nil)
	}

	// One request per (user, course)
	var existing courseModels.CertificateRequest
	if err := database.Database.Db.
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate already requested!", nil)
	}

	request := courseModels.CertificateRequest{
		UserID:   userID,
		CourseID: uint(courseID),
		FullName: reqData.FullName,
		Status:   courseModels.CertificatePending,
	}

	if err := database.Database.Db.Create(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit certificate request!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate request submitted successfully!", request)
}

// GetCertificateRequest returns the user's certificate request for a course,
// or null when none exists.
func GetCertificateRequest(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var request courseModels.CertificateRequest
	if err := database.Database.Db.
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "No certificate request found.", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate request fetched successfully!", request)
}

// GetUserCertificates lists the user's certificate requests with course
// titles, newest first.
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var requests []courseModels.CertificateRequest
	if err := database.Database.Db.
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc").Find(&requests).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	type RequestWithCourse struct {
		courseModels.CertificateRequest
		CourseTitle string `json:"course_title"`
	}

	result := make([]RequestWithCourse, 0, len(requests))
	for _, request := range requests {
		var course courseModels.Course
		database.Database.Db.Where("id = ?", request.CourseID).First(&course)
		result = append(result, RequestWithCourse{CertificateRequest: request, CourseTitle: course.Title})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", result)
}
