package course

import (
	"time"

	"gorm.io/gorm"
)

// LessonProgress tracks a user's progress on a single lesson.
// One row per (user, lesson); access and completion both upsert on that key.
type LessonProgress struct {
	gorm.Model
	UserID         uint       `json:"user_id" gorm:"uniqueIndex:idx_user_lesson;not null"`
	LessonID       uint       `json:"lesson_id" gorm:"uniqueIndex:idx_user_lesson;not null"`
	Completed      bool       `json:"completed" gorm:"default:false"`
	CompletedAt    *time.Time `json:"completed_at"`
	LastPosition   string     `json:"last_position"`
	LastAccessedAt *time.Time `json:"last_accessed_at"`
}

// CourseProgress tracks course-level completion for a user.
// Flipped to completed when lesson completion reaches 100%.
type CourseProgress struct {
	gorm.Model
	UserID      uint       `json:"user_id" gorm:"uniqueIndex:idx_user_course_progress;not null"`
	CourseID    uint       `json:"course_id" gorm:"uniqueIndex:idx_user_course_progress;not null"`
	Completed   bool       `json:"completed" gorm:"default:false"`
	CompletedAt *time.Time `json:"completed_at"`
}
