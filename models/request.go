package models

import (
	"time"
)

// Request statuses. These are the only legal values of requests.status.
const (
	RequestPending    = "Pending"
	RequestInProgress = "In Progress"
	RequestCompleted  = "Completed"
	RequestRejected   = "Rejected"
)

// Document types offered by the barangay
const (
	DocBarangayClearance    = "Barangay Clearance"
	DocCertificateResidency = "Certificate of Residency"
	DocBarangayID           = "Barangay ID"
	DocIndigencyCertificate = "Indigency Certificate"
	DocBusinessPermit       = "Business Permit"
	DocTravelClearance      = "Travel Clearance"
	DocSoloParent           = "Solo Parent Certification"
	DocFirstTimeJobseeker   = "First-Time Jobseeker Certification"
	DocCedula               = "Cedula"
)

// Request represents a document request filed for a resident
type Request struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ResidentID    uint       `gorm:"not null;index" json:"resident_id"`
	DocumentType  string     `gorm:"type:varchar(100);not null" json:"document_type"`
	Purpose       string     `gorm:"type:text" json:"purpose"`
	RequestDate   time.Time  `json:"request_date"`
	Status        string     `gorm:"type:varchar(20);default:'Pending'" json:"status"`
	CompletedDate *time.Time `json:"completed_date"` // set only while the request is Completed
	StaffNotes    *string    `gorm:"type:text" json:"staff_notes"`
	CreatedBy     *uint      `json:"created_by"` // staff id, nullable
	CreatedAt     time.Time  `json:"created_at"`

	// Relations
	Resident *Resident `gorm:"foreignKey:ResidentID" json:"resident,omitempty"`
	Handler  *Staff    `gorm:"foreignKey:CreatedBy" json:"handler,omitempty"`
}

// IsOpenStatus reports whether a request in this status may still be
// completed, approved or rejected.
func IsOpenStatus(status string) bool {
	return status == RequestPending || status == RequestInProgress
}

// IsValidRequestStatus reports whether status is one of the four legal
// request statuses.
func IsValidRequestStatus(status string) bool {
	switch status {
	case RequestPending, RequestInProgress, RequestCompleted, RequestRejected:
		return true
	}
	return false
}

// DocumentTypes lists every document the barangay issues, in the order
// shown on request forms.
func DocumentTypes() []string {
	return []string{
		DocBarangayClearance,
		DocCertificateResidency,
		DocBarangayID,
		DocIndigencyCertificate,
		DocBusinessPermit,
		DocTravelClearance,
		DocSoloParent,
		DocFirstTimeJobseeker,
		DocCedula,
	}
}

// IsKnownDocumentType reports whether documentType is an issued document.
func IsKnownDocumentType(documentType string) bool {
	for _, t := range DocumentTypes() {
		if t == documentType {
			return true
		}
	}
	return false
}
