package utils

import (
	"elearn/database"
	courseModels "elearn/models/course"
	"log"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm/clause"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[PROGRESS-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// ReconcileCourseProgress recomputes course-level completion for every
// enrollment from lesson progress counts. Repairs drift left behind by
// partial multi-step writes (e.g. an unenrollment that failed midway
// before transactions were introduced, or lessons added to a course a
// learner had already finished).
func ReconcileCourseProgress() {
	db := database.Database.Db

	var enrollments []courseModels.UserCourse
	if err := db.Find(&enrollments).Error; err != nil {
		logScheduler("Error fetching enrollments: " + err.Error())
		return
	}

	repaired := 0
	for _, enrollment := range enrollments {
		var totalLessons int64
		if err := db.Model(&courseModels.Lesson{}).
			Where("course_id = ? AND is_deleted = ?", enrollment.CourseID, false).
			Count(&totalLessons).Error; err != nil {
			logScheduler("Error counting lessons: " + err.Error())
			continue
		}

		var lessonIDs []uint
		db.Model(&courseModels.Lesson{}).
			Where("course_id = ? AND is_deleted = ?", enrollment.CourseID, false).
			Pluck("id", &lessonIDs)

		var completedLessons int64
		if len(lessonIDs) > 0 {
			db.Model(&courseModels.LessonProgress{}).
				Where("user_id = ? AND lesson_id IN ? AND completed = ?", enrollment.UserID, lessonIDs, true).
				Count(&completedLessons)
		}

		completed := totalLessons > 0 && completedLessons == totalLessons

		var progress courseModels.CourseProgress
		err := db.Where("user_id = ? AND course_id = ?", enrollment.UserID, enrollment.CourseID).
			First(&progress).Error
		if err == nil && progress.Completed == completed {
			continue
		}

		now := time.Now()
		record := courseModels.CourseProgress{
			UserID:    enrollment.UserID,
			CourseID:  enrollment.CourseID,
			Completed: completed,
		}
		if completed {
			record.CompletedAt = &now
		}

		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"completed", "completed_at", "updated_at"}),
		}).Create(&record).Error; err != nil {
			logScheduler("Error upserting course progress: " + err.Error())
			continue
		}
		repaired++
	}

	if repaired > 0 {
		logScheduler("Reconciled course progress rows: " + strconv.Itoa(repaired))
	}
}

// StartProgressScheduler runs the reconciliation pass hourly.
func StartProgressScheduler() *cron.Cron {
	c := cron.New()
	if _, err := c.AddFunc("@hourly", ReconcileCourseProgress); err != nil {
		log.Fatalf("Failed to register progress scheduler: %v", err)
	}
	c.Start()
	logScheduler("Scheduler started")
	return c
}
