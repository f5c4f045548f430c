package controllers

import (
	"elearn/database"
	"elearn/middleware"
	"elearn/models"
	courseModels "elearn/models/course"
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminListUsers lists accounts. With ?course_id=N the list excludes users
// already enrolled in that course, for the manual-enrollment dropdown.
func AdminListUsers(c *fiber.Ctx) error {
	db := database.Database.Db.Model(&models.User{}).Where("is_deleted = ?", false)

	if courseID := c.QueryInt("course_id"); courseID > 0 {
		var enrolledIDs []uint
		database.Database.Db.Model(&courseModels.UserCourse{}).
			Where("course_id = ?", courseID).
			Pluck("user_id", &enrolledIDs)
		if len(enrolledIDs) > 0 {
			db = db.Where("id NOT IN ?", enrolledIDs)
		}
	}

	var users []models.User
	if err := db.Order("name").Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", users)
}

// AdminEnrollUser manually enrolls a user in a course.
func AdminEnrollUser(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedEnrollment").(*struct {
		UserID   uint `json:"user_id"`
		CourseID uint `json:"course_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = ?", reqData.UserID, false).
		First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = ?", reqData.CourseID, false).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	enrollment := courseModels.UserCourse{
		UserID:   reqData.UserID,
		CourseID: reqData.CourseID,
	}
	if err := database.Database.Db.Create(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User enrolled successfully!", enrollment)
}

// AdminUnenrollUser removes a user's enrollment. A completed course keeps
// its progress history; an unfinished one loses enrollment, course progress
// and all lesson progress. The deletes run in one transaction.
func AdminUnenrollUser(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedEnrollment").(*struct {
		UserID   uint `json:"user_id"`
		CourseID uint `json:"course_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var enrollment courseModels.UserCourse
	if err := database.Database.Db.
		Where("user_id = ? AND course_id = ?", reqData.UserID, reqData.CourseID).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		// Completed courses keep their progress history
		completed := false
		var progress courseModels.CourseProgress
		if err := tx.Where("user_id = ? AND course_id = ?", reqData.UserID, reqData.CourseID).
			First(&progress).Error; err == nil {
			completed = progress.Completed
		}

		if err := tx.Unscoped().
			Where("user_id = ? AND course_id = ?", reqData.UserID, reqData.CourseID).
			Delete(&courseModels.UserCourse{}).Error; err != nil {
			return err
		}

		if completed {
			return nil
		}

		if err := tx.Unscoped().
			Where("user_id = ? AND course_id = ?", reqData.UserID, reqData.CourseID).
			Delete(&courseModels.CourseProgress{}).Error; err != nil {
			return err
		}

		var lessonIDs []uint
		if err := tx.Model(&courseModels.Lesson{}).
			Where("course_id = ?", reqData.CourseID).
			Pluck("id", &lessonIDs).Error; err != nil {
			return err
		}
		if len(lessonIDs) > 0 {
			if err := tx.Unscoped().
				Where("user_id = ? AND lesson_id IN ?", reqData.UserID, lessonIDs).
				Delete(&courseModels.LessonProgress{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to unenroll user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User unenrolled successfully!", nil)
}

// AdminGetCourseEnrollments lists enrollments for one course.
func AdminGetCourseEnrollments(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var enrollments []courseModels.UserCourse
	if err := database.Database.Db.
		Where("course_id = ?", courseID).
		Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	type EnrollmentWithUser struct {
		courseModels.UserCourse
		UserName  string `json:"user_name"`
		UserEmail string `json:"user_email"`
	}

	result := make([]EnrollmentWithUser, 0, len(enrollments))
	for _, enrollment := range enrollments {
		var user models.User
		database.Database.Db.Where("id = ?", enrollment.UserID).First(&user)
		result = append(result, EnrollmentWithUser{
			UserCourse: enrollment,
			UserName:   user.Name,
			UserEmail:  user.Email,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", result)
}
