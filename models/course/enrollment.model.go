package course

import "gorm.io/gorm"

// UserCourse pairs a user with a course they own, created on purchase or
// by admin action, deleted on unenrollment.
type UserCourse struct {
	gorm.Model
	UserID   uint   `json:"user_id" gorm:"uniqueIndex:idx_user_course;not null"`
	CourseID uint   `json:"course_id" gorm:"uniqueIndex:idx_user_course;not null"`
	Course   Course `json:"course" gorm:"foreignKey:CourseID"`
}
