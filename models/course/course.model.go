package course

import "gorm.io/gorm"

// Course statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Course represents a purchasable course
type Course struct {
	gorm.Model
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price" gorm:"default:0"`
	ImageURL    string  `json:"image_url"`
	Status      string  `json:"status" gorm:"default:'draft'"` // draft, published, archived
	IsVisible   bool    `json:"is_visible" gorm:"default:true"`
	IsDeleted   bool    `gorm:"default:false"`
}
