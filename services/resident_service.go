package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"brims-http-service/config"
	"brims-http-service/models"
)

type InterfaceResidentService interface {
	CreateResident(resident *models.Resident) error
	GetResidentByID(id uint) (*models.Resident, error)
	UpdateResident(id uint, updates *models.Resident) (*models.Resident, error)
	DeleteResident(id uint) error
	GetAllResidents(query *models.PaginationQuery, search string, status string) (*models.PaginationResult, error)
}

type ResidentService struct {
	DB     *gorm.DB
	Config *config.Config
}

func NewResidentService(db *gorm.DB, cfg *config.Config) InterfaceResidentService {
	return &ResidentService{DB: db, Config: cfg}
}

func (s *ResidentService) CreateResident(resident *models.Resident) error {
	if err := validateResident(resident); err != nil {
		return err
	}
	dup, err := s.duplicateExists(resident.Name, resident.ContactNumber, 0)
	if err != nil {
		return err
	}
	if dup {
		return errors.New("resident with the same name or contact number already exists")
	}
	if resident.Status == "" {
		resident.Status = models.ResidentStatusActive
	}
	return s.DB.Create(resident).Error
}

func (s *ResidentService) GetResidentByID(id uint) (*models.Resident, error) {
	var resident models.Resident
	if err := s.DB.First(&resident, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("resident not found")
		}
		return nil, err
	}
	return &resident, nil
}

func (s *ResidentService) UpdateResident(id uint, updates *models.Resident) (*models.Resident, error) {
	resident, err := s.GetResidentByID(id)
	if err != nil {
		return nil, err
	}
	if err := validateResident(updates); err != nil {
		return nil, err
	}
	dup, err := s.duplicateExists(updates.Name, updates.ContactNumber, id)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, errors.New("resident with the same name or contact number already exists")
	}

	resident.Name = updates.Name
	resident.Age = updates.Age
	resident.Gender = updates.Gender
	resident.Address = updates.Address
	resident.ContactNumber = updates.ContactNumber
	resident.CivilStatus = updates.CivilStatus
	resident.EmploymentStatus = updates.EmploymentStatus
	resident.EducationLevel = updates.EducationLevel
	resident.ResidencyYears = updates.ResidencyYears
	if updates.Status != "" {
		resident.Status = updates.Status
	}

	if err := s.DB.Save(resident).Error; err != nil {
		return nil, err
	}
	return resident, nil
}

// DeleteResident refuses to delete a resident who still has document
// requests on file. Requests reference residents and the audit trail
// must stay resolvable.
func (s *ResidentService) DeleteResident(id uint) error {
	resident, err := s.GetResidentByID(id)
	if err != nil {
		return err
	}

	var requestCount int64
	if err := s.DB.Model(&models.Request{}).Where("resident_id = ?", id).Count(&requestCount).Error; err != nil {
		return err
	}
	if requestCount > 0 {
		return fmt.Errorf("resident has %d document request(s) on file and cannot be deleted", requestCount)
	}

	return s.DB.Delete(resident).Error
}

func (s *ResidentService) GetAllResidents(query *models.PaginationQuery, search string, status string) (*models.PaginationResult, error) {
	db := s.DB.Model(&models.Resident{})

	if search != "" {
		pattern := "%" + search + "%"
		db = db.Where("name LIKE ? OR address LIKE ?", pattern, pattern)
	}
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, err
	}

	var residents []models.Resident
	offset := (query.Page - 1) * query.PageSize
	// newest first; id breaks ties when rows share a timestamp
	if err := db.Order("created_at DESC, id DESC").Offset(offset).Limit(query.PageSize).Find(&residents).Error; err != nil {
		return nil, err
	}

	return models.NewPaginationResult(residents, total, query), nil
}

func (s *ResidentService) duplicateExists(name, contact string, excludeID uint) (bool, error) {
	db := s.DB.Model(&models.Resident{})
	if contact != "" {
		db = db.Where("name = ? OR contact_number = ?", name, contact)
	} else {
		db = db.Where("name = ?", name)
	}
	if excludeID != 0 {
		db = db.Where("id <> ?", excludeID)
	}
	var count int64
	if err := db.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func validateResident(resident *models.Resident) error {
	if strings.TrimSpace(resident.Name) == "" {
		return errors.New("resident name is required")
	}
	if resident.Age < 0 || resident.Age > 150 {
		return errors.New("resident age must be between 0 and 150")
	}
	if strings.TrimSpace(resident.Gender) == "" {
		return errors.New("resident gender is required")
	}
	if strings.TrimSpace(resident.Address) == "" {
		return errors.New("resident address is required")
	}
	if resident.Status != "" &&
		resident.Status != models.ResidentStatusActive &&
		resident.Status != models.ResidentStatusInactive &&
		resident.Status != models.ResidentStatusTransferred {
		return errors.New("invalid resident status")
	}
	return nil
}
