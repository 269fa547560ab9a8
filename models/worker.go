package models

import (
	"time"

	"gorm.io/gorm"
)

// WorkerDetails holds a worker's professional profile and KYC state.
// One row per user with role worker.
type WorkerDetails struct {
	ID                uint            `json:"id" gorm:"primaryKey"`
	UserID            uint            `json:"user_id" gorm:"uniqueIndex;not null"`
	CategoryID        uint            `json:"category_id" gorm:"not null"`
	Category          ServiceCategory `json:"category" gorm:"foreignKey:CategoryID"`
	SubService        string          `json:"sub_service" gorm:"type:varchar(100)"`
	ExperienceYears   int             `json:"experience_years" gorm:"default:0"`
	Experience        string          `json:"experience" gorm:"type:text"`

	// Payout details
	BankName          string `json:"bank_name" gorm:"type:varchar(100)"`
	BankAccountNumber string `json:"bank_account_number" gorm:"type:varchar(34)"`
	BankAccountHolder string `json:"bank_account_holder" gorm:"type:varchar(255)"`

	// KYC document references, populated via the document upload endpoint
	IDProofURL           *string `json:"id_proof_url" gorm:"type:varchar(500)"`
	PoliceVerificationURL *string `json:"police_verification_url" gorm:"type:varchar(500)"`
	SkillCertificateURL  *string `json:"skill_certificate_url" gorm:"type:varchar(500)"`

	// KYC gate, independent of the account approval flag on User. A worker
	// is biddable only when both IsVerified and User.IsActive hold.
	IsVerified bool `json:"is_verified" gorm:"default:false"`

	Rating        float64 `json:"rating" gorm:"type:decimal(3,2);default:0"`
	TotalReviews  int     `json:"total_reviews" gorm:"default:0"`
	CompletedJobs int     `json:"completed_jobs" gorm:"default:0"`
	TotalEarnings float64 `json:"total_earnings" gorm:"type:decimal(12,2);default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (WorkerDetails) TableName() string {
	return "worker_details"
}

// WorkerDetailsRequest is the payload for creating/updating worker details
type WorkerDetailsRequest struct {
	CategoryID        uint   `json:"category_id" binding:"required"`
	SubService        string `json:"sub_service"`
	ExperienceYears   int    `json:"experience_years"`
	Experience        string `json:"experience"`
	BankName          string `json:"bank_name"`
	BankAccountNumber string `json:"bank_account_number"`
	BankAccountHolder string `json:"bank_account_holder"`
}
