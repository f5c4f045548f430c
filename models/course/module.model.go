package course

import "gorm.io/gorm"

// CourseModule represents a section/module within a course
type CourseModule struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderNumber int    `json:"order_number" gorm:"default:0"` // Module order in course
	IsDeleted   bool   `gorm:"default:false"`
}
