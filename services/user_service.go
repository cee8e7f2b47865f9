package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"brims-http-service/config"
	"brims-http-service/models"
	"brims-http-service/utils"
)

// Account roles as they travel in JWT claims and API payloads.
const (
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

// AccountInfo is the role-neutral view of a staff or admin account
// returned by login and listing endpoints.
type AccountInfo struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type InterfaceUserService interface {
	Authenticate(username, password, role string) (*AccountInfo, error)
	AddUser(username, email, password, role string) (*AccountInfo, error)
	EditUser(id uint, role, email, password string) (*AccountInfo, error)
	ToggleStaffStatus(id uint) (*models.Staff, error)
	DeleteUser(id uint, role string, actorID uint, actorRole string) error
	GetAllUsers(role string, search string) ([]AccountInfo, error)
}

type UserService struct {
	DB     *gorm.DB
	Config *config.Config
}

func NewUserService(db *gorm.DB, cfg *config.Config) InterfaceUserService {
	return &UserService{DB: db, Config: cfg}
}

// Authenticate checks username/password against the table selected by
// role. Unknown usernames and wrong passwords get distinct messages, as
// the login screen shows them differently. Inactive staff accounts are
// refused even with a valid password.
func (s *UserService) Authenticate(username, password, role string) (*AccountInfo, error) {
	switch role {
	case RoleStaff:
		var staff models.Staff
		if err := s.DB.Where("username = ?", username).First(&staff).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New("username not found")
			}
			return nil, err
		}
		if !utils.CheckPasswordHash(password, staff.Password) {
			return nil, errors.New("incorrect password")
		}
		if staff.Status != models.StaffStatusActive {
			return nil, errors.New("account is inactive")
		}
		return staffInfo(&staff), nil
	case RoleAdmin:
		var admin models.Admin
		if err := s.DB.Where("username = ?", username).First(&admin).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New("username not found")
			}
			return nil, err
		}
		if !utils.CheckPasswordHash(password, admin.Password) {
			return nil, errors.New("incorrect password")
		}
		return adminInfo(&admin), nil
	default:
		return nil, fmt.Errorf("invalid role: %s", role)
	}
}

// AddUser creates a staff or admin account. Username uniqueness is
// enforced per table, matching the separate staff and admins tables.
func (s *UserService) AddUser(username, email, password, role string) (*AccountInfo, error) {
	if err := validateAccountFields(username, email, password); err != nil {
		return nil, err
	}

	switch role {
	case RoleStaff:
		var count int64
		if err := s.DB.Model(&models.Staff{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, errors.New("username already exists")
		}
		staff := &models.Staff{
			Username: username,
			Email:    email,
			Password: password,
			Status:   models.StaffStatusActive,
		}
		if err := s.DB.Create(staff).Error; err != nil {
			return nil, err
		}
		return staffInfo(staff), nil
	case RoleAdmin:
		var count int64
		if err := s.DB.Model(&models.Admin{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, errors.New("username already exists")
		}
		admin := &models.Admin{
			Username: username,
			Email:    email,
			Password: password,
		}
		if err := s.DB.Create(admin).Error; err != nil {
			return nil, err
		}
		return adminInfo(admin), nil
	default:
		return nil, fmt.Errorf("invalid role: %s", role)
	}
}

// EditUser updates an account's email and, when password is non-blank,
// replaces the password. A blank password leaves the stored hash alone.
func (s *UserService) EditUser(id uint, role, email, password string) (*AccountInfo, error) {
	if strings.TrimSpace(email) == "" || !strings.Contains(email, "@") {
		return nil, errors.New("a valid email is required")
	}

	switch role {
	case RoleStaff:
		var staff models.Staff
		if err := s.DB.First(&staff, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New("user not found")
			}
			return nil, err
		}
		staff.Email = email
		if strings.TrimSpace(password) != "" {
			staff.Password = password
		}
		if err := s.DB.Save(&staff).Error; err != nil {
			return nil, err
		}
		return staffInfo(&staff), nil
	case RoleAdmin:
		var admin models.Admin
		if err := s.DB.First(&admin, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New("user not found")
			}
			return nil, err
		}
		admin.Email = email
		if strings.TrimSpace(password) != "" {
			admin.Password = password
		}
		if err := s.DB.Save(&admin).Error; err != nil {
			return nil, err
		}
		return adminInfo(&admin), nil
	default:
		return nil, fmt.Errorf("invalid role: %s", role)
	}
}

// ToggleStaffStatus flips a staff account between active and inactive.
// Admin accounts have no status concept and cannot be toggled.
func (s *UserService) ToggleStaffStatus(id uint) (*models.Staff, error) {
	var staff models.Staff
	if err := s.DB.First(&staff, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, err
	}

	if staff.Status == models.StaffStatusActive {
		staff.Status = models.StaffStatusInactive
	} else {
		staff.Status = models.StaffStatusActive
	}

	if err := s.DB.Save(&staff).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

// DeleteUser removes an account. An admin cannot delete their own
// account; everything else is fair game for admins.
func (s *UserService) DeleteUser(id uint, role string, actorID uint, actorRole string) error {
	if role == RoleAdmin && actorRole == RoleAdmin && id == actorID {
		return errors.New("you cannot delete your own account")
	}

	switch role {
	case RoleStaff:
		var staff models.Staff
		if err := s.DB.First(&staff, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("user not found")
			}
			return err
		}
		return s.DB.Delete(&staff).Error
	case RoleAdmin:
		var admin models.Admin
		if err := s.DB.First(&admin, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("user not found")
			}
			return err
		}
		return s.DB.Delete(&admin).Error
	default:
		return fmt.Errorf("invalid role: %s", role)
	}
}

// GetAllUsers merges the staff and admins tables into one listing,
// optionally filtered by role and a username/email search term.
func (s *UserService) GetAllUsers(role string, search string) ([]AccountInfo, error) {
	var users []AccountInfo

	if role == "" || role == RoleStaff {
		db := s.DB.Model(&models.Staff{})
		if search != "" {
			pattern := "%" + search + "%"
			db = db.Where("username LIKE ? OR email LIKE ?", pattern, pattern)
		}
		var staff []models.Staff
		if err := db.Find(&staff).Error; err != nil {
			return nil, err
		}
		for i := range staff {
			users = append(users, *staffInfo(&staff[i]))
		}
	}

	if role == "" || role == RoleAdmin {
		db := s.DB.Model(&models.Admin{})
		if search != "" {
			pattern := "%" + search + "%"
			db = db.Where("username LIKE ? OR email LIKE ?", pattern, pattern)
		}
		var admins []models.Admin
		if err := db.Find(&admins).Error; err != nil {
			return nil, err
		}
		for i := range admins {
			users = append(users, *adminInfo(&admins[i]))
		}
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].Username < users[j].Username
	})
	return users, nil
}

func validateAccountFields(username, email, password string) error {
	if strings.TrimSpace(username) == "" {
		return errors.New("username is required")
	}
	if strings.TrimSpace(email) == "" || !strings.Contains(email, "@") {
		return errors.New("a valid email is required")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is required")
	}
	return nil
}

func staffInfo(staff *models.Staff) *AccountInfo {
	return &AccountInfo{
		ID:        staff.ID,
		Username:  staff.Username,
		Email:     staff.Email,
		Role:      RoleStaff,
		Status:    staff.Status,
		CreatedAt: staff.CreatedAt,
	}
}

func adminInfo(admin *models.Admin) *AccountInfo {
	return &AccountInfo{
		ID:        admin.ID,
		Username:  admin.Username,
		Email:     admin.Email,
		Role:      RoleAdmin,
		CreatedAt: admin.CreatedAt,
	}
}
