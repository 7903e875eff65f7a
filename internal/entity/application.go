package entity

import (
	"time"
)

// Application is a tracked job application. CompanyName and Position are
// always non-empty; ExternalID is the dedup key for records that came
// from a mailbox message and is unique when present.
type Application struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	CompanyName     string     `gorm:"not null;index" json:"company_name"`
	Position        string     `gorm:"not null" json:"position"`
	AppliedDate     time.Time  `gorm:"not null" json:"applied_date"`
	Status          string     `gorm:"not null;default:pending" json:"status"`
	InterviewDate   *time.Time `json:"interview_date,omitempty"`
	RejectionDate   *time.Time `json:"rejection_date,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	JobURL          *string    `json:"job_url,omitempty"`
	ContactEmail    *string    `json:"contact_email,omitempty"`
	Location        *string    `json:"location,omitempty"`
	SalaryRange     *string    `json:"salary_range,omitempty"`
	Source          *string    `json:"source,omitempty"`
	ExternalID      *string    `gorm:"uniqueIndex" json:"external_id,omitempty"`
	ImagePath       *string    `json:"image_path,omitempty"`
	ResumePath      *string    `json:"resume_path,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName keeps the table name in line with the historical schema.
func (Application) TableName() string { return "applications" }
