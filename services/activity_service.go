package services

import (
	"brims-http-service/config"
	"brims-http-service/models"

	"gorm.io/gorm"
)

// InterfaceActivityService defines the audit trail service interface.
// Both log methods are best-effort: failures are logged as warnings and
// never returned, so a failed audit write cannot block the action that
// triggered it.
type InterfaceActivityService interface {
	LogStaff(staffID uint, actionType, description, role, ip string)
	LogAdmin(adminID uint, actionType, description, ip string)
}

// ActivityService appends rows to the staff and admin audit trails
type ActivityService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewActivityService creates a new activity service
func NewActivityService(db *gorm.DB, cfg *config.Config) InterfaceActivityService {
	return &ActivityService{
		DB:     db,
		Config: cfg,
	}
}

// LogStaff records a staff action. Fire-and-forget: errors are swallowed.
func (s *ActivityService) LogStaff(staffID uint, actionType, description, role, ip string) {
	if role == "" {
		role = "Staff"
	}
	entry := models.StaffActivity{
		StaffID:     staffID,
		Role:        role,
		ActionType:  actionType,
		Description: description,
		IPAddress:   ip,
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		config.Warning("failed to log staff activity: %v", err)
	}
}

// LogAdmin records an admin action. Fire-and-forget: errors are swallowed.
func (s *ActivityService) LogAdmin(adminID uint, actionType, description, ip string) {
	entry := models.AdminActivity{
		AdminID:     adminID,
		ActionType:  actionType,
		Description: description,
		IPAddress:   ip,
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		config.Warning("failed to log admin activity: %v", err)
	}
}
