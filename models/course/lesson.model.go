package course

import "gorm.io/gorm"

// Lesson content types
const (
	ContentVideo        = "video"
	ContentPDF          = "pdf"
	ContentPresentation = "presentation"
)

// Lesson represents a single lesson within a module
type Lesson struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	ModuleID    uint   `json:"module_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ContentType string `json:"content_type" gorm:"default:'video'"` // video, pdf, presentation
	ContentURL  string `json:"content_url"`
	OrderNumber int    `json:"order_number" gorm:"default:0"` // Lesson order within module, defines gating sequence
	IsDeleted   bool   `gorm:"default:false"`
}
