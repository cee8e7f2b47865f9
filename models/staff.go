package models

import (
	"time"

	"gorm.io/gorm"

	"brims-http-service/utils"
)

// Staff account statuses
const (
	StaffStatusActive   = "active"
	StaffStatusInactive = "inactive"
)

// Staff represents a barangay staff account
type Staff struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(50);unique;not null" json:"username"`
	Password  string    `gorm:"type:varchar(100);not null" json:"-"` // Password not exposed in JSON
	Email     string    `gorm:"type:varchar(100)" json:"email"`
	Role      string    `gorm:"type:varchar(20);default:'Staff'" json:"role"`
	Status    string    `gorm:"type:varchar(20);default:'active'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the historical table name (singular)
func (Staff) TableName() string {
	return "staff"
}

// BeforeCreate is a GORM hook that runs before creating a new record.
// Create runs BeforeSave first, so the password is usually hashed already;
// the length guard keeps this hook from hashing the hash a second time.
func (s *Staff) BeforeCreate(tx *gorm.DB) error {
	if s.Password != "" && len(s.Password) < 60 {
		hashedPassword, err := utils.HashPassword(s.Password)
		if err != nil {
			return err
		}
		s.Password = hashedPassword
	}
	return nil
}

// BeforeSave is a GORM hook that runs before saving a record
func (s *Staff) BeforeSave(tx *gorm.DB) error {
	// Hash the password if one was provided and it is not already hashed
	if s.Password != "" && len(s.Password) < 60 {
		hashedPassword, err := utils.HashPassword(s.Password)
		if err != nil {
			return err
		}
		s.Password = hashedPassword
	}
	return nil
}
