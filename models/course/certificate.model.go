package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate request statuses
const (
	CertificatePending  = "pending"
	CertificateApproved = "approved"
	CertificateRejected = "rejected"
)

// CertificateRequest represents a learner's request for a course completion
// certificate, created only at 100% completion and moderated by an admin.
type CertificateRequest struct {
	gorm.Model
	UserID            uint       `json:"user_id" gorm:"uniqueIndex:idx_user_course_cert;not null"`
	CourseID          uint       `json:"course_id" gorm:"uniqueIndex:idx_user_course_cert;not null"`
	FullName          string     `json:"full_name"` // name as it should appear on the certificate
	Status            string     `json:"status" gorm:"default:'pending'"` // pending, approved, rejected
	CertificateURL    string     `json:"certificate_url"`
	CertificateNumber string     `json:"certificate_number"`
	ApprovedAt        *time.Time `json:"approved_at"`
	ApprovedBy        *uint      `json:"approved_by"`
	IsDeleted         bool       `gorm:"default:false"`
}
