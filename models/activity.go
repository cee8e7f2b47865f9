package models

import (
	"time"
)

// Activity action tags. The column is free text; these are the tags the
// application itself writes.
const (
	ActionLogin          = "LOGIN"
	ActionAddResident    = "ADD_RESIDENT"
	ActionEditResident   = "EDIT_RESIDENT"
	ActionDeleteResident = "DELETE_RESIDENT"
	ActionAddRequest     = "ADD_REQUEST"
	ActionEditRequest    = "EDIT_REQUEST"
	ActionDeleteRequest  = "DELETE_REQUEST"
	ActionViewRequest    = "VIEW_REQUEST"
	ActionCompleteReq    = "COMPLETE_REQUEST"
	ActionApproveRequest = "APPROVE_REQUEST"
	ActionRejectRequest  = "REJECT_REQUEST"
	ActionReopenRequest  = "REOPEN_REQUEST"
	ActionAddStaff       = "ADD_STAFF"
	ActionAddAdmin       = "ADD_ADMIN"
	ActionEditStaff      = "EDIT_STAFF"
	ActionDeleteStaff    = "DELETE_STAFF"
	ActionDeleteAdmin    = "DELETE_ADMIN"
	ActionToggleStaff    = "TOGGLE_STAFF"
)

// StaffActivity is one row of the append-only staff audit trail. There is no
// update or delete path for these rows anywhere in the application.
type StaffActivity struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StaffID     uint      `gorm:"not null;index" json:"staff_id"`
	Role        string    `gorm:"type:varchar(20);default:'Staff'" json:"role"`
	ActionType  string    `gorm:"type:varchar(100);not null" json:"action_type"`
	Description string    `gorm:"type:text" json:"description"`
	IPAddress   string    `gorm:"type:varchar(45)" json:"ip_address"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Staff *Staff `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
}

// TableName keeps the historical table name
func (StaffActivity) TableName() string {
	return "staff_activity"
}

// AdminActivity is one row of the append-only admin audit trail
type AdminActivity struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AdminID     uint      `gorm:"not null;index" json:"admin_id"`
	ActionType  string    `gorm:"type:varchar(100);not null" json:"action_type"`
	Description string    `gorm:"type:text" json:"description"`
	IPAddress   string    `gorm:"type:varchar(45)" json:"ip_address"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Admin *Admin `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
}

// TableName keeps the historical table name
func (AdminActivity) TableName() string {
	return "admin_activity"
}
