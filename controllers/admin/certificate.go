package controllers

import (
	"elearn/config"
	"elearn/database"
	"elearn/middleware"
	"elearn/models"
	courseModels "elearn/models/course"
	"elearn/storage"
	"elearn/utils"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AdminGetCertificateRequests lists certificate requests, optionally
// filtered by status (?status=pending|approved|rejected).
func AdminGetCertificateRequests(c *fiber.Ctx) error {
	db := database.Database.Db.Model(&courseModels.CertificateRequest{}).Where("is_deleted = ?", false)

	if status := c.Query("status"); status != "" {
		db = db.Where("status = ?", status)
	}

	var requests []courseModels.CertificateRequest
	if err := db.Order("created_at desc").Find(&requests).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificate requests!", nil)
	}

	type RequestWithDetails struct {
		courseModels.CertificateRequest
		UserName    string `json:"user_name"`
		UserEmail   string `json:"user_email"`
		CourseTitle string `json:"course_title"`
	}

	result := make([]RequestWithDetails, 0, len(requests))
	for _, request := range requests {
		var user models.User
		database.Database.Db.Where("id = ?", request.UserID).First(&user)
		var course courseModels.Course
		database.Database.Db.Where("id = ?", request.CourseID).First(&course)
		result = append(result, RequestWithDetails{
			CertificateRequest: request,
			UserName:           user.Name,
			UserEmail:          user.Email,
			CourseTitle:        course.Title,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate requests fetched successfully!", result)
}

// AdminApproveCertificate uploads the certificate file for a request,
// derives its public URL and marks the request approved. Re-uploading on an
// already-approved request overwrites the stored file and reference.
func AdminApproveCertificate(c *fiber.Ctx) error {
	adminID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	requestID := c.Locals("requestID").(int)

	var request courseModels.CertificateRequest
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = ?", requestID, false).
		First(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate request not found!", nil)
	}

	file, err := c.FormFile("certificate")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Certificate file is required!", nil)
	}

	src, err := file.Open()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to read uploaded file!", nil)
	}
	defer src.Close()

	// Object key is the request id; a re-upload overwrites the same object
	bucket := config.AppConfig.CertificateBucket
	key := fmt.Sprintf("%d%s", request.ID, filepath.Ext(file.Filename))

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}

	if err := storage.Storage.Upload(c.Context(), bucket, key, src, contentType); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to upload certificate!", nil)
	}

	now := time.Now()
	request.Status = courseModels.CertificateApproved
	request.CertificateURL = storage.Storage.PublicURL(bucket, key)
	request.ApprovedAt = &now
	request.ApprovedBy = &adminID
	if request.CertificateNumber == "" {
		request.CertificateNumber = uuid.NewString()
	}

	if err := database.Database.Db.Save(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update certificate request!", nil)
	}

	// Notify the learner
	var user models.User
	if err := database.Database.Db.Where("id = ?", request.UserID).First(&user).Error; err == nil {
		var course courseModels.Course
		database.Database.Db.Where("id = ?", request.CourseID).First(&course)
		utils.SendCertificateApprovedEmail(user.Email, user.Name, course.Title, request.CertificateURL)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate approved successfully!", request)
}

// AdminRejectCertificate flips a request to rejected.
func AdminRejectCertificate(c *fiber.Ctx) error {
	requestID := c.Locals("requestID").(int)

	var request courseModels.CertificateRequest
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = ?", requestID, false).
		First(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate request not found!", nil)
	}

	request.Status = courseModels.CertificateRejected
	if err := database.Database.Db.Save(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update certificate request!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ?", request.UserID).First(&user).Error; err == nil {
		var course courseModels.Course
		database.Database.Db.Where("id = ?", request.CourseID).First(&course)
		utils.SendCertificateRejectedEmail(user.Email, user.Name, course.Title)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate request rejected.", request)
}
