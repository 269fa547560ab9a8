package models

import "time"

// BidStatus represents the current status of a worker bid
type BidStatus string

const (
	BidStatusPending   BidStatus = "pending"
	BidStatusAccepted  BidStatus = "accepted"
	BidStatusRejected  BidStatus = "rejected"
	BidStatusWithdrawn BidStatus = "withdrawn"
)

// Bid is a worker's offer on an open job. At most one bid per job ever
// reaches accepted; the award transition rejects every pending sibling.
type Bid struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	JobID    uint `json:"job_id" gorm:"not null;index"`
	Job      Job  `json:"job,omitempty" gorm:"foreignKey:JobID"`
	WorkerID uint `json:"worker_id" gorm:"not null;index"`
	Worker   User `json:"worker,omitempty" gorm:"foreignKey:WorkerID"`

	Amount            float64    `json:"amount" gorm:"type:decimal(10,2);not null"`
	ProposedDate      *time.Time `json:"proposed_date"`
	EstimatedDuration string     `json:"estimated_duration" gorm:"type:varchar(100)"`
	CoverLetter       string     `json:"cover_letter" gorm:"type:text"`

	// Snapshot of the worker at bid time
	WorkerName     string  `json:"worker_name" gorm:"type:varchar(255)"`
	WorkerRating   float64 `json:"worker_rating" gorm:"type:decimal(3,2)"`
	WorkerCategory string  `json:"worker_category" gorm:"type:varchar(100)"`

	Status     BidStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	IsSelected bool      `json:"is_selected" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Bid) TableName() string {
	return "bids"
}

// IsTerminal reports whether the bid can still change status. Every
// status except pending is terminal.
func (s BidStatus) IsTerminal() bool {
	return s != BidStatusPending
}

// BidCreateRequest is the payload for submitting a bid
type BidCreateRequest struct {
	JobID             uint       `json:"job_id" binding:"required"`
	Amount            float64    `json:"amount" binding:"required,gt=0"`
	ProposedDate      *time.Time `json:"proposed_date"`
	EstimatedDuration string     `json:"estimated_duration"`
	CoverLetter       string     `json:"cover_letter" binding:"max=2000"`
}
