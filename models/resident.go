package models

import (
	"time"
)

// Resident statuses
const (
	ResidentStatusActive      = "Active"
	ResidentStatusInactive    = "Inactive"
	ResidentStatusTransferred = "Transferred"
)

// Resident represents a registered barangay resident
type Resident struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"type:varchar(100);not null" json:"name"`
	Age              int       `gorm:"not null" json:"age"`
	Gender           string    `gorm:"type:varchar(10);not null" json:"gender"`
	Address          string    `gorm:"type:varchar(255);not null" json:"address"`
	ContactNumber    string    `gorm:"type:varchar(20)" json:"contact_number"`
	CivilStatus      string    `gorm:"type:varchar(20)" json:"civil_status"`
	EmploymentStatus string    `gorm:"type:varchar(50)" json:"employment_status"`
	EducationLevel   string    `gorm:"type:varchar(50)" json:"education_level"`
	ResidencyYears   int       `json:"residency_years"`
	Status           string    `gorm:"type:varchar(20);default:'Active'" json:"status"`
	CreatedBy        *uint     `json:"created_by"` // staff id of the encoder, nullable
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Relations
	Requests []Request `gorm:"foreignKey:ResidentID" json:"requests,omitempty"`
}
