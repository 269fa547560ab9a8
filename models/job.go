package models

import (
	"time"

	"gorm.io/gorm"
)

// JobStatus represents the current status of a posted job
type JobStatus string

const (
	JobStatusOpen       JobStatus = "open"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusAssigned   JobStatus = "assigned"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// JobCategory distinguishes on-site work from remote work
type JobCategory string

const (
	JobCategoryOnSite JobCategory = "on_site"
	JobCategoryRemote JobCategory = "remote"
)

// Job is a customer-posted job that collects worker bids until one is
// awarded. SelectedBidID/SelectedWorkerID are set only by the award
// transition and are null while no bid has been accepted.
type Job struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	Reference  string          `json:"reference" gorm:"size:24;uniqueIndex;not null"`
	CustomerID uint            `json:"customer_id" gorm:"not null;index"`
	Customer   User            `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	CategoryID uint            `json:"category_id" gorm:"not null"`
	Category   ServiceCategory `json:"category" gorm:"foreignKey:CategoryID"`

	Title       string      `json:"title" gorm:"type:varchar(200);not null"`
	Description string      `json:"description" gorm:"type:text"`
	JobCategory JobCategory `json:"job_category" gorm:"type:varchar(20);not null;default:'on_site'"`

	Budget     *float64 `json:"budget" gorm:"type:decimal(10,2)"`
	BudgetType string   `json:"budget_type" gorm:"type:varchar(20);default:'negotiable'"` // fixed, hourly, negotiable

	Address string `json:"address" gorm:"type:text"`
	City    string `json:"city" gorm:"type:varchar(100)"`

	PreferredDate *time.Time `json:"preferred_date"`
	PreferredTime string     `json:"preferred_time" gorm:"type:varchar(50)"`
	Urgency       string     `json:"urgency" gorm:"type:varchar(20);default:'normal'"` // low, normal, urgent

	Status JobStatus `json:"status" gorm:"type:varchar(20);not null;default:'open';index"`

	// Denormalized award outcome
	SelectedBidID    *uint `json:"selected_bid_id"`
	SelectedWorkerID *uint `json:"selected_worker_id"`
	TotalBids        int   `json:"total_bids" gorm:"default:0"`

	CompletedAt *time.Time     `json:"completed_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	Bids []Bid `json:"bids,omitempty" gorm:"foreignKey:JobID"`
}

func (Job) TableName() string {
	return "jobs"
}

// IsTerminal reports whether the status admits no further transitions.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

// CanTransitionTo reports whether the job status machine allows moving
// from s to next. Cancellation is reachable from every non-terminal state.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch next {
	case JobStatusCancelled:
		return true
	case JobStatusAssigned:
		return s == JobStatusOpen || s == JobStatusInProgress
	case JobStatusCompleted:
		return s == JobStatusAssigned
	case JobStatusInProgress:
		return s == JobStatusOpen
	default:
		return false
	}
}

// AcceptsBids reports whether new bids may be submitted for a job in
// status s. Bidding closes once the job leaves open.
func (s JobStatus) AcceptsBids() bool {
	return s == JobStatusOpen
}

// JobCreateRequest is the payload for posting a new job
type JobCreateRequest struct {
	CategoryID    uint        `json:"category_id" binding:"required"`
	Title         string      `json:"title" binding:"required,min=3,max=200"`
	Description   string      `json:"description"`
	JobCategory   JobCategory `json:"job_category" binding:"omitempty,oneof=on_site remote"`
	Budget        *float64    `json:"budget"`
	BudgetType    string      `json:"budget_type" binding:"omitempty,oneof=fixed hourly negotiable"`
	Address       string      `json:"address"`
	City          string      `json:"city"`
	PreferredDate *time.Time  `json:"preferred_date"`
	PreferredTime string      `json:"preferred_time"`
	Urgency       string      `json:"urgency" binding:"omitempty,oneof=low normal urgent"`
}
