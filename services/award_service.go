package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"servicehub-server/models"
	"servicehub-server/utils"
)

// AwardService coordinates the job lifecycle from posting through bid
// collection to the single-worker award.
type AwardService struct {
	store Store
}

// NewAwardService creates a new award service
func NewAwardService(store Store) *AwardService {
	return &AwardService{store: store}
}

// AwardResult is returned by AwardBid
type AwardResult struct {
	Job             *models.Job  `json:"job"`
	SelectedBid     *models.Bid  `json:"selected_bid"`
	RejectedWorkers []uint       `json:"-"`
}

const referenceAttempts = 5

// PostJob creates a new open job for a customer. The caller has already
// bound and validated the request payload.
func (s *AwardService) PostJob(customerID uint, req *models.JobCreateRequest) (*models.Job, error) {
	customer, err := s.store.GetUser(customerID)
	if err != nil {
		return nil, fmt.Errorf("%w: customer %d", ErrNotFound, customerID)
	}
	if !customer.IsCustomer() {
		return nil, fmt.Errorf("%w: only customers can post jobs", ErrValidation)
	}
	if !customer.IsActive {
		return nil, fmt.Errorf("%w: customer account is not active", ErrNotEligible)
	}

	job := &models.Job{
		CustomerID:    customerID,
		CategoryID:    req.CategoryID,
		Title:         req.Title,
		Description:   req.Description,
		JobCategory:   req.JobCategory,
		Budget:        req.Budget,
		BudgetType:    req.BudgetType,
		Address:       req.Address,
		City:          req.City,
		PreferredDate: req.PreferredDate,
		PreferredTime: req.PreferredTime,
		Urgency:       req.Urgency,
		Status:        models.JobStatusOpen,
	}
	if job.JobCategory == "" {
		job.JobCategory = models.JobCategoryOnSite
	}
	if job.BudgetType == "" {
		job.BudgetType = "negotiable"
	}
	if job.Urgency == "" {
		job.Urgency = "normal"
	}
	if job.JobCategory == models.JobCategoryOnSite && job.Address == "" {
		return nil, fmt.Errorf("%w: address is required for on-site jobs", ErrValidation)
	}

	// The reference is random, so an insert can collide with an existing
	// row. Regenerate and retry a few times before giving up.
	for attempt := 0; attempt < referenceAttempts; attempt++ {
		job.Reference = utils.NewJobReference()
		err = s.store.CreateJob(job)
		if err == nil {
			log.Printf("✅ Job %d (%s) posted by customer %d", job.ID, job.Reference, customerID)
			return job, nil
		}
		if !errors.Is(err, ErrDuplicateKey) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: could not allocate a unique job reference", ErrConflict)
}

// SubmitBid places a pending bid on an open job for an eligible worker.
// The job row is locked for the duration so the open-status check, the
// bid insert and the counter increment commit together.
func (s *AwardService) SubmitBid(workerUserID uint, req *models.BidCreateRequest) (*models.Bid, error) {
	var bid *models.Bid
	err := s.store.Transaction(func(tx Store) error {
		job, err := tx.GetJobForUpdate(req.JobID)
		if err != nil {
			return fmt.Errorf("%w: job %d", ErrNotFound, req.JobID)
		}
		if !job.Status.AcceptsBids() {
			return fmt.Errorf("%w: job %s is %s and no longer accepts bids", ErrInvalidState, job.Reference, job.Status)
		}

		worker, details, err := eligibleWorker(tx, workerUserID)
		if err != nil {
			return err
		}
		if job.CustomerID == workerUserID {
			return fmt.Errorf("%w: cannot bid on your own job", ErrValidation)
		}

		dup, err := tx.HasPendingBid(job.ID, workerUserID)
		if err != nil {
			return err
		}
		if dup {
			return fmt.Errorf("%w: a pending bid for this job already exists", ErrConflict)
		}

		bid = &models.Bid{
			JobID:             job.ID,
			WorkerID:          workerUserID,
			Amount:            req.Amount,
			ProposedDate:      req.ProposedDate,
			EstimatedDuration: req.EstimatedDuration,
			CoverLetter:       req.CoverLetter,
			WorkerName:        worker.FullName,
			WorkerRating:      details.Rating,
			WorkerCategory:    details.Category.Name,
			Status:            models.BidStatusPending,
		}
		if err := tx.CreateBid(bid); err != nil {
			return err
		}
		return tx.IncrementTotalBids(job.ID)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Bid %d submitted on job %d by worker %d", bid.ID, bid.JobID, workerUserID)
	return bid, nil
}

// AwardBid commits the job to a single worker: the chosen bid becomes
// accepted, the job becomes assigned with the denormalized selection
// columns set, and every pending sibling bid is rejected. The whole
// sequence runs in one transaction behind a row lock on the job, so a
// concurrent second award observes the assigned status and fails with
// ErrInvalidState instead of producing two accepted bids.
func (s *AwardService) AwardBid(jobID, bidID uint) (*AwardResult, error) {
	result := &AwardResult{}
	err := s.store.Transaction(func(tx Store) error {
		job, err := tx.GetJobForUpdate(jobID)
		if err != nil {
			return fmt.Errorf("%w: job %d", ErrNotFound, jobID)
		}
		if job.Status == models.JobStatusAssigned {
			return fmt.Errorf("%w: job %s is already assigned", ErrInvalidState, job.Reference)
		}
		if !job.Status.CanTransitionTo(models.JobStatusAssigned) {
			return fmt.Errorf("%w: job %s is %s and cannot be awarded", ErrInvalidState, job.Reference, job.Status)
		}

		bid, err := tx.GetBid(bidID)
		if err != nil {
			return fmt.Errorf("%w: bid %d", ErrNotFound, bidID)
		}
		if bid.JobID != jobID {
			return fmt.Errorf("%w: bid %d does not belong to job %d", ErrNotFound, bidID, jobID)
		}
		if bid.Status != models.BidStatusPending {
			return fmt.Errorf("%w: bid %d is %s", ErrInvalidState, bidID, bid.Status)
		}

		bid.Status = models.BidStatusAccepted
		bid.IsSelected = true
		if err := tx.SaveBid(bid); err != nil {
			return err
		}

		job.Status = models.JobStatusAssigned
		job.SelectedBidID = &bid.ID
		job.SelectedWorkerID = &bid.WorkerID
		if err := tx.SaveJob(job); err != nil {
			return err
		}

		rejected, err := tx.RejectPendingBids(jobID, bidID)
		if err != nil {
			return err
		}

		if err := notifyAwardOutcome(tx, job, bid, rejected); err != nil {
			return err
		}

		result.Job = job
		result.SelectedBid = bid
		result.RejectedWorkers = rejected
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Job %d awarded to worker %d (bid %d), %d sibling bids rejected",
		jobID, result.SelectedBid.WorkerID, bidID, len(result.RejectedWorkers))
	return result, nil
}

// CompleteJob marks an assigned job completed and credits the worker's
// earnings with the accepted bid amount.
func (s *AwardService) CompleteJob(jobID uint) (*models.Job, error) {
	var job *models.Job
	err := s.store.Transaction(func(tx Store) error {
		var err error
		job, err = tx.GetJobForUpdate(jobID)
		if err != nil {
			return fmt.Errorf("%w: job %d", ErrNotFound, jobID)
		}
		if !job.Status.CanTransitionTo(models.JobStatusCompleted) {
			return fmt.Errorf("%w: job %s is %s and cannot be completed", ErrInvalidState, job.Reference, job.Status)
		}

		now := time.Now()
		job.Status = models.JobStatusCompleted
		job.CompletedAt = &now
		if err := tx.SaveJob(job); err != nil {
			return err
		}

		if job.SelectedBidID == nil || job.SelectedWorkerID == nil {
			return fmt.Errorf("%w: assigned job %s has no selected bid", ErrInvalidState, job.Reference)
		}
		bid, err := tx.GetBid(*job.SelectedBidID)
		if err != nil {
			return fmt.Errorf("%w: bid %d", ErrNotFound, *job.SelectedBidID)
		}
		details, err := tx.GetWorkerDetailsByUserID(*job.SelectedWorkerID)
		if err != nil {
			return fmt.Errorf("%w: worker details for user %d", ErrNotFound, *job.SelectedWorkerID)
		}
		details.TotalEarnings += bid.Amount
		details.CompletedJobs++
		return tx.SaveWorkerDetails(details)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Job %d completed", jobID)
	return job, nil
}

// CancelJob cancels a job from any non-terminal state.
func (s *AwardService) CancelJob(jobID uint) (*models.Job, error) {
	var job *models.Job
	err := s.store.Transaction(func(tx Store) error {
		var err error
		job, err = tx.GetJobForUpdate(jobID)
		if err != nil {
			return fmt.Errorf("%w: job %d", ErrNotFound, jobID)
		}
		if !job.Status.CanTransitionTo(models.JobStatusCancelled) {
			return fmt.Errorf("%w: job %s is already %s", ErrInvalidState, job.Reference, job.Status)
		}

		job.Status = models.JobStatusCancelled
		if err := tx.SaveJob(job); err != nil {
			return err
		}
		// Pending bids on a cancelled job are dead; close them out.
		if _, err := tx.RejectPendingBids(jobID, 0); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Job %d cancelled", jobID)
	return job, nil
}

// WithdrawBid lets a worker retract their own pending bid.
func (s *AwardService) WithdrawBid(bidID, workerUserID uint) (*models.Bid, error) {
	var bid *models.Bid
	err := s.store.Transaction(func(tx Store) error {
		var err error
		bid, err = tx.GetBid(bidID)
		if err != nil {
			return fmt.Errorf("%w: bid %d", ErrNotFound, bidID)
		}
		if bid.WorkerID != workerUserID {
			return fmt.Errorf("%w: bid %d", ErrNotFound, bidID)
		}
		if bid.Status != models.BidStatusPending {
			return fmt.Errorf("%w: bid %d is %s", ErrInvalidState, bidID, bid.Status)
		}
		bid.Status = models.BidStatusWithdrawn
		return tx.SaveBid(bid)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Bid %d withdrawn by worker %d", bidID, workerUserID)
	return bid, nil
}

// notifyAwardOutcome persists notifications for the winning worker and
// every rejected bidder within the award transaction.
func notifyAwardOutcome(tx Store, job *models.Job, selected *models.Bid, rejected []uint) error {
	payload, _ := json.Marshal(map[string]interface{}{
		"job_id":    job.ID,
		"reference": job.Reference,
		"bid_id":    selected.ID,
	})
	if err := tx.CreateNotification(&models.Notification{
		UserID: selected.WorkerID,
		Title:  "Bid accepted",
		Body:   fmt.Sprintf("Your bid on job %s was accepted", job.Reference),
		Type:   "bid_accepted",
		Data:   string(payload),
	}); err != nil {
		return err
	}
	for _, workerID := range rejected {
		if err := tx.CreateNotification(&models.Notification{
			UserID: workerID,
			Title:  "Bid not selected",
			Body:   fmt.Sprintf("Job %s was assigned to another worker", job.Reference),
			Type:   "bid_rejected",
			Data:   string(payload),
		}); err != nil {
			return err
		}
	}
	return nil
}

// eligibleWorker loads the worker's user row and details and enforces
// the centralized bidding gate: role worker, account approved, KYC
// verified. Returns ErrNotEligible describing the first failing gate.
func eligibleWorker(tx Store, userID uint) (*models.User, *models.WorkerDetails, error) {
	user, err := tx.GetUser(userID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	if !user.IsWorker() {
		return nil, nil, fmt.Errorf("%w: user %d is not a worker", ErrNotEligible, userID)
	}
	if !user.IsActive {
		return nil, nil, fmt.Errorf("%w: worker account is awaiting approval", ErrNotEligible)
	}
	details, err := tx.GetWorkerDetailsByUserID(userID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: worker details for user %d", ErrNotFound, userID)
	}
	if !details.IsVerified {
		return nil, nil, fmt.Errorf("%w: worker KYC is not verified", ErrNotEligible)
	}
	return user, details, nil
}
