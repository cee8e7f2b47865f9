package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"brims-http-service/config"
	"brims-http-service/models"
)

type InterfaceRequestService interface {
	CreateRequest(request *models.Request) error
	GetRequestByID(id uint) (*models.Request, error)
	UpdateRequest(id uint, updates *models.Request) (*models.Request, error)
	DeleteRequest(id uint) error
	CompleteRequest(id uint) (*models.Request, error)
	ApproveRequest(id uint) (*models.Request, error)
	RejectRequest(id uint) (*models.Request, error)
	ReopenRequest(id uint) (*models.Request, error)
	GetAllRequests(query *models.PaginationQuery, status string, residentID uint) (*models.PaginationResult, error)
}

type RequestService struct {
	DB     *gorm.DB
	Config *config.Config
}

func NewRequestService(db *gorm.DB, cfg *config.Config) InterfaceRequestService {
	return &RequestService{DB: db, Config: cfg}
}

// CreateRequest opens a new document request. A request may start at
// Pending or In Progress; it can never be created already Completed or
// Rejected, those states are reachable only through transitions.
func (s *RequestService) CreateRequest(request *models.Request) error {
	if strings.TrimSpace(request.DocumentType) == "" {
		return errors.New("document type is required")
	}
	if !models.IsKnownDocumentType(request.DocumentType) {
		return fmt.Errorf("unknown document type: %s", request.DocumentType)
	}

	var resident models.Resident
	if err := s.DB.First(&resident, request.ResidentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("resident not found")
		}
		return err
	}

	if request.Status == "" {
		request.Status = models.RequestPending
	}
	if !models.IsOpenStatus(request.Status) {
		return fmt.Errorf("a new request cannot start at status %s", request.Status)
	}
	if request.RequestDate.IsZero() {
		request.RequestDate = time.Now()
	}
	request.CompletedDate = nil

	return s.DB.Create(request).Error
}

func (s *RequestService) GetRequestByID(id uint) (*models.Request, error) {
	var request models.Request
	if err := s.DB.Preload("Resident").Preload("Handler").First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("request not found")
		}
		return nil, err
	}
	return &request, nil
}

// UpdateRequest applies an edit form. The edit path may set any status
// directly; a Completed result stamps completed_date with the edit time,
// any other result clears it.
func (s *RequestService) UpdateRequest(id uint, updates *models.Request) (*models.Request, error) {
	request, err := s.GetRequestByID(id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(updates.DocumentType) == "" {
		return nil, errors.New("document type is required")
	}
	if !models.IsKnownDocumentType(updates.DocumentType) {
		return nil, fmt.Errorf("unknown document type: %s", updates.DocumentType)
	}
	if !models.IsValidRequestStatus(updates.Status) {
		return nil, fmt.Errorf("invalid request status: %s", updates.Status)
	}

	request.DocumentType = updates.DocumentType
	request.Purpose = updates.Purpose
	request.StaffNotes = updates.StaffNotes
	request.Status = updates.Status
	if updates.Status == models.RequestCompleted {
		now := time.Now()
		request.CompletedDate = &now
	} else {
		request.CompletedDate = nil
	}

	if err := s.DB.Omit(clause.Associations).Save(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

func (s *RequestService) DeleteRequest(id uint) error {
	request, err := s.GetRequestByID(id)
	if err != nil {
		return err
	}
	return s.DB.Delete(request).Error
}

// CompleteRequest is the staff-side Pending|In Progress -> Completed
// transition. The completion stamp is idempotent: it only fills
// completed_date when it is currently null.
func (s *RequestService) CompleteRequest(id uint) (*models.Request, error) {
	return s.closeRequest(id)
}

// ApproveRequest is the admin-side completion. Same transition and
// stamping rule as CompleteRequest, logged under a different action tag.
func (s *RequestService) ApproveRequest(id uint) (*models.Request, error) {
	return s.closeRequest(id)
}

func (s *RequestService) closeRequest(id uint) (*models.Request, error) {
	request, err := s.GetRequestByID(id)
	if err != nil {
		return nil, err
	}
	if !models.IsOpenStatus(request.Status) {
		return nil, fmt.Errorf("request cannot be completed from status %s", request.Status)
	}

	request.Status = models.RequestCompleted
	if request.CompletedDate == nil {
		now := time.Now()
		request.CompletedDate = &now
	}

	if err := s.DB.Omit(clause.Associations).Save(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

// RejectRequest closes a request without issuing the document.
// completed_date stays null; there is no transition out of Rejected.
func (s *RequestService) RejectRequest(id uint) (*models.Request, error) {
	request, err := s.GetRequestByID(id)
	if err != nil {
		return nil, err
	}
	if !models.IsOpenStatus(request.Status) {
		return nil, fmt.Errorf("request cannot be rejected from status %s", request.Status)
	}

	request.Status = models.RequestRejected

	if err := s.DB.Omit(clause.Associations).Save(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

// ReopenRequest sends a Completed request back to In Progress and
// clears the completion stamp so a later completion re-stamps it.
func (s *RequestService) ReopenRequest(id uint) (*models.Request, error) {
	request, err := s.GetRequestByID(id)
	if err != nil {
		return nil, err
	}
	if request.Status != models.RequestCompleted {
		return nil, fmt.Errorf("request cannot be reopened from status %s", request.Status)
	}

	request.Status = models.RequestInProgress
	request.CompletedDate = nil

	if err := s.DB.Omit(clause.Associations).Save(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

func (s *RequestService) GetAllRequests(query *models.PaginationQuery, status string, residentID uint) (*models.PaginationResult, error) {
	db := s.DB.Model(&models.Request{}).Preload("Resident")

	if status != "" {
		if !models.IsValidRequestStatus(status) {
			return nil, fmt.Errorf("invalid request status: %s", status)
		}
		db = db.Where("status = ?", status)
	}
	if residentID != 0 {
		db = db.Where("resident_id = ?", residentID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, err
	}

	var requests []models.Request
	offset := (query.Page - 1) * query.PageSize
	if err := db.Order("request_date DESC").Offset(offset).Limit(query.PageSize).Find(&requests).Error; err != nil {
		return nil, err
	}

	return models.NewPaginationResult(requests, total, query), nil
}
