package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Report statuses. REJECTED is reserved: no operation produces it.
const (
	ReportStatusPending  = "PENDING"
	ReportStatusVerified = "VERIFIED"
	ReportStatusRejected = "REJECTED"
)

// Report is a citizen-submitted civic issue. Submitter fields are a snapshot taken at creation,
// so councillor views never need to query the account store again.
type Report struct {
	ID                 string     `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	Reference          string     `gorm:"uniqueIndex;type:varchar(12);not null" bson:"reference" json:"reference" validate:"required,max=12"`
	SubmitterID        string     `gorm:"index;type:varchar(36);not null" bson:"submitterId" json:"submitterId" validate:"required"`
	SubmitterName      string     `gorm:"type:varchar(150);not null" bson:"submitterName" json:"submitterName" validate:"required"`
	SubmitterPhone     string     `gorm:"type:varchar(20);not null" bson:"submitterPhone" json:"submitterPhone" validate:"required"`
	WardID             string     `gorm:"index;type:varchar(16);not null" bson:"wardId" json:"wardId" validate:"required"`
	Description        string     `gorm:"type:text;not null" bson:"description" json:"description" validate:"required"`
	ImageKey           string     `gorm:"type:varchar(255);not null" bson:"imageKey" json:"-" validate:"required"`
	ImageURL           string     `gorm:"type:varchar(512);not null" bson:"imageUrl" json:"image" validate:"required"`
	ImageMimeType      string     `gorm:"type:varchar(50)" bson:"imageMimeType" json:"imageMimeType"`
	Status             string     `gorm:"type:varchar(20);default:'PENDING';index" bson:"status" json:"status" validate:"oneof=PENDING VERIFIED REJECTED"`
	ModerationCategory string     `gorm:"type:varchar(100)" bson:"moderationCategory,omitempty" json:"moderationCategory,omitempty"`
	ModerationReason   string     `gorm:"type:text" bson:"moderationReason,omitempty" json:"moderationReason,omitempty"`
	PhotoTakenAt       *time.Time `bson:"photoTakenAt,omitempty" json:"photoTakenAt,omitempty"`
	Latitude           *float64   `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude          *float64   `bson:"longitude,omitempty" json:"longitude,omitempty"`
	VerifiedByID       *string    `gorm:"type:varchar(36)" bson:"verifiedById,omitempty" json:"verifiedById,omitempty"`
	VerifiedAt         *time.Time `bson:"verifiedAt,omitempty" json:"verifiedAt,omitempty"`
	CreatedAt          time.Time  `gorm:"autoCreateTime;index" bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" bson:"updatedAt" json:"updatedAt"`
}

func (r *Report) Validate() error {
	v := validator.New()

	return v.Struct(r)
}

func (r *Report) IsPending() bool {
	return r.Status == ReportStatusPending
}

func (r *Report) IsVerified() bool {
	return r.Status == ReportStatusVerified
}

// IsValidReportStatus reports whether status is a known status value.
func IsValidReportStatus(status string) bool {
	switch status {
	case ReportStatusPending, ReportStatusVerified, ReportStatusRejected:
		return true
	}
	return false
}
