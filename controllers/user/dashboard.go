package controllers

import (
	"elearn/database"
	"elearn/middleware"
	courseModels "elearn/models/course"
	"elearn/utils"
	"sync"

	"github.com/gofiber/fiber/v2"
)

// courseProgressSummary is the per-course aggregate shown on the dashboard.
type courseProgressSummary struct {
	CompletedLessons     int  `json:"completed_lessons"`
	TotalLessons         int  `json:"total_lessons"`
	CompletionPercentage int  `json:"completion_percentage"`
	Completed            bool `json:"completed"`
}

// Dashboard returns the user's enrollments with per-course completion.
// The two counting queries per course fan out concurrently across courses
// and are joined before aggregation.
func Dashboard(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var enrollments []courseModels.UserCourse
	if err := database.Database.Db.
		Where("user_id = ?", userID).
		Preload("Course").
		Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	progressByCourse := make(map[uint]courseProgressSummary, len(enrollments))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, enrollment := range enrollments {
		wg.Add(1)
		go func(courseID uint) {
			defer wg.Done()

			db := database.Database.Db

			var lessonIDs []uint
			if err := db.Model(&courseModels.Lesson{}).
				Where("course_id = ? AND is_deleted = ?", courseID, false).
				Pluck("id", &lessonIDs).Error; err != nil {
				return
			}

			var completedCount int64
			if len(lessonIDs) > 0 {
				db.Model(&courseModels.LessonProgress{}).
					Where("user_id = ? AND lesson_id IN ? AND completed = ?", userID, lessonIDs, true).
					Count(&completedCount)
			}

			percentage := utils.CompletionPercentage(int(completedCount), len(lessonIDs))

			mu.Lock()
			progressByCourse[courseID] = courseProgressSummary{
				CompletedLessons:     int(completedCount),
				TotalLessons:         len(lessonIDs),
				CompletionPercentage: percentage,
				Completed:            percentage == 100 && len(lessonIDs) > 0,
			}
			mu.Unlock()
		}(enrollment.CourseID)
	}
	wg.Wait()

	type EnrollmentWithProgress struct {
		courseModels.UserCourse
		Progress courseProgressSummary `json:"progress"`
	}

	result := make([]EnrollmentWithProgress, 0, len(enrollments))
	for _, enrollment := range enrollments {
		result = append(result, EnrollmentWithProgress{
			UserCourse: enrollment,
			Progress:   progressByCourse[enrollment.CourseID],
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", fiber.Map{
		"enrollments": result,
	})
}
