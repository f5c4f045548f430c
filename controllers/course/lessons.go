package controllers

import (
	"elearn/database"
	"elearn/middleware"
	courseModels "elearn/models/course"
	"elearn/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CourseLessonSequence returns the course's lessons in gating order:
// modules by order number, lessons by order number within each module.
// Order numbers may have gaps; only the sort order matters.
func CourseLessonSequence(db *gorm.DB, courseID uint) ([]courseModels.Lesson, error) {
	var modules []courseModels.CourseModule
	if err := db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_number").Find(&modules).Error; err != nil {
		return nil, err
	}

	var sequence []courseModels.Lesson
	for _, module := range modules {
		var lessons []courseModels.Lesson
		if err := db.Where("module_id = ? AND is_deleted = ?", module.ID, false).
			Order("order_number").Find(&lessons).Error; err != nil {
			return nil, err
		}
		sequence = append(sequence, lessons...)
	}
	return sequence, nil
}

// CanAccessLesson reports whether the user may open the lesson: the first
// lesson of the course is always accessible, every other lesson requires
// the previous lesson in the sequence to be completed.
func CanAccessLesson(db *gorm.DB, userID uint, lesson courseModels.Lesson) (bool, error) {
	sequence, err := CourseLessonSequence(db, lesson.CourseID)
	if err != nil {
		return false, err
	}

	position := -1
	for i, item := range sequence {
		if item.ID == lesson.ID {
			position = i
			break
		}
	}
	if position < 0 {
		return false, nil
	}
	if position == 0 {
		return true, nil
	}

	previous := sequence[position-1]
	var progress courseModels.LessonProgress
	err = db.Where("user_id = ? AND lesson_id = ? AND completed = ?", userID, previous.ID, true).
		First(&progress).Error
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// courseCompletion counts completed lessons against the course's lesson set.
func courseCompletion(db *gorm.DB, userID, courseID uint) (completed int, total int, err error) {
	var lessonIDs []uint
	if err = db.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Pluck("id", &lessonIDs).Error; err != nil {
		return 0, 0, err
	}

	total = len(lessonIDs)
	if total == 0 {
		return 0, 0, nil
	}

	var count int64
	if err = db.Model(&courseModels.LessonProgress{}).
		Where("user_id = ? AND lesson_id IN ? AND completed = ?", userID, lessonIDs, true).
		Count(&count).Error; err != nil {
		return 0, 0, err
	}
	return int(count), total, nil
}

// GetCourseContent loads the full learning console payload: course, ordered
// modules and lessons, the user's progress for every lesson in one batched
// fetch, completion percentage and any certificate request.
func GetCourseContent(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	// Only enrolled users reach the learning console
	var enrollment courseModels.UserCourse
	if err := database.Database.Db.
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = ?", courseID, false).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

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

	// Per-module lesson fetches run sequentially in module order, then one
	// aggregated progress fetch over the full lesson-id set
	outline := make([]ModuleWithLessons, 0, len(modules))
	var lessonIDs []uint
	for _, module := range modules {
		var lessons []courseModels.Lesson
		if err := database.Database.Db.
			Where("module_id = ? AND is_deleted = ?", module.ID, false).
			Order("order_number").Find(&lessons).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course content!", nil)
		}
		for _, lesson := range lessons {
			lessonIDs = append(lessonIDs, lesson.ID)
		}
		outline = append(outline, ModuleWithLessons{CourseModule: module, Lessons: lessons})
	}

	progressByLesson := make(map[uint]courseModels.LessonProgress)
	completedCount := 0
	if len(lessonIDs) > 0 {
		var progressRows []courseModels.LessonProgress
		if err := database.Database.Db.
			Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).
			Find(&progressRows).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
		}
		for _, row := range progressRows {
			progressByLesson[row.LessonID] = row
			if row.Completed {
				completedCount++
			}
		}
	}

	completionPercentage := utils.CompletionPercentage(completedCount, len(lessonIDs))

	// Certificate request, if any
	var certificateRequest *courseModels.CertificateRequest
	var request courseModels.CertificateRequest
	if err := database.Database.Db.
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&request).Error; err == nil {
		certificateRequest = &request
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course content fetched successfully!", fiber.Map{
		"course":                course,
		"modules":               outline,
		"progress":              progressByLesson,
		"completion_percentage": completionPercentage,
		"certificate_request":   certificateRequest,
	})
}

// AccessLesson gates lesson access on completion of the previous lesson in
// the sequence. A blocked access changes nothing; a granted access records
// last_accessed_at for (user, lesson).
func AccessLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	var enrollment courseModels.UserCourse
	if err := database.Database.Db.
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var lesson courseModels.Lesson
	if err := database.Database.Db.
		Where("id = ? AND course_id = ? AND is_deleted = ?", lessonID, courseID, false).
		First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	canAccess, err := CanAccessLesson(database.Database.Db, userID, lesson)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check lesson access!", nil)
	}
	if !canAccess {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Complete the previous lesson first!", nil)
	}

	// Record the access; repeated access updates rather than duplicates
	now := time.Now()
	progress := courseModels.LessonProgress{
		UserID:         userID,
		LessonID:       lesson.ID,
		LastAccessedAt: &now,
	}
	if err := database.Database.Db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_accessed_at", "updated_at"}),
	}).Create(&progress).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record lesson access!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson accessed successfully!", lesson)
}

// MarkLessonComplete marks a lesson completed for the user and flips the
// course-level progress row once completion reaches 100%. The upsert key
// makes repeated clicks idempotent.
func MarkLessonComplete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	var enrollment courseModels.UserCourse
	if err := database.Database.Db.
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var lesson courseModels.Lesson
	if err := database.Database.Db.
		Where("id = ? AND course_id = ? AND is_deleted = ?", lessonID, courseID, false).
		First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	now := time.Now()
	progress := courseModels.LessonProgress{
		UserID:         userID,
		LessonID:       lesson.ID,
		Completed:      true,
		CompletedAt:    &now,
		LastAccessedAt: &now,
	}
	if err := database.Database.Db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed", "completed_at", "last_accessed_at", "updated_at"}),
	}).Create(&progress).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	completed, total, err := courseCompletion(database.Database.Db, userID, uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute progress!", nil)
	}
	completionPercentage := utils.CompletionPercentage(completed, total)

	if completionPercentage == 100 {
		courseProgress := courseModels.CourseProgress{
			UserID:      userID,
			CourseID:    uint(courseID),
			Completed:   true,
			CompletedAt: &now,
		}
		if err := database.Database.Db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"completed", "completed_at", "updated_at"}),
		}).Create(&courseProgress).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course progress!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked as completed!", fiber.Map{
		"lesson_id":             lesson.ID,
		"completion_percentage": completionPercentage,
	})
}
