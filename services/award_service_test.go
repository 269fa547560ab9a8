package services

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servicehub-server/models"
)

func TestPostJob(t *testing.T) {
	store := newMemStore()
	customer := store.addCustomer("Asha")
	svc := NewAwardService(store)

	req := &models.JobCreateRequest{
		CategoryID: 1,
		Title:      "Fix kitchen sink",
		Address:    "12 Main St",
		City:       "Pune",
	}

	job, err := svc.PostJob(customer.ID, req)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusOpen, job.Status)
	assert.Equal(t, customer.ID, job.CustomerID)
	assert.True(t, strings.HasPrefix(job.Reference, "SH-"))
	assert.Equal(t, models.JobCategoryOnSite, job.JobCategory)
	assert.Equal(t, "negotiable", job.BudgetType)
	assert.Equal(t, "normal", job.Urgency)
	assert.Nil(t, job.SelectedBidID)
	assert.Zero(t, job.TotalBids)
}

func TestPostJobRequiresAddressForOnSite(t *testing.T) {
	store := newMemStore()
	customer := store.addCustomer("Asha")
	svc := NewAwardService(store)

	_, err := svc.PostJob(customer.ID, &models.JobCreateRequest{
		CategoryID:  1,
		Title:       "Fix kitchen sink",
		JobCategory: models.JobCategoryOnSite,
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestPostJobRejectsNonCustomers(t *testing.T) {
	store := newMemStore()
	worker := store.addWorker("Ravi", true, true)
	svc := NewAwardService(store)

	_, err := svc.PostJob(worker.ID, &models.JobCreateRequest{
		CategoryID: 1,
		Title:      "Fix kitchen sink",
		Address:    "12 Main St",
	})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.PostJob(9999, &models.JobCreateRequest{
		CategoryID: 1,
		Title:      "Fix kitchen sink",
		Address:    "12 Main St",
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPostJobRejectsInactiveCustomer(t *testing.T) {
	store := newMemStore()
	customer := store.addCustomer("Asha")
	customer.IsActive = false
	require.NoError(t, store.SaveUser(customer))
	svc := NewAwardService(store)

	_, err := svc.PostJob(customer.ID, &models.JobCreateRequest{
		CategoryID: 1,
		Title:      "Fix kitchen sink",
		Address:    "12 Main St",
	})
	require.ErrorIs(t, err, ErrNotEligible)
}

func TestSubmitBid(t *testing.T) {
	store := newMemStore()
	customer := store.addCustomer("Asha")
	worker := store.addWorker("Ravi", true, true)
	job := store.addOpenJob(customer.ID)
	svc := NewAwardService(store)

	bid, err := svc.SubmitBid(worker.ID, &models.BidCreateRequest{
		JobID:  job.ID,
		Amount: 1500,
	})
	require.NoError(t, err)
	assert.Equal(t, models.BidStatusPending, bid.Status)
	assert.Equal(t, worker.ID, bid.WorkerID)
	assert.Equal(t, "Ravi", bid.WorkerName)
	assert.Equal(t, 4.5, bid.WorkerRating)
	assert.Equal(t, "Plumbing", bid.WorkerCategory)

	stored, err := store.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.TotalBids)
}

func TestSubmitBidEligibilityGate(t *testing.T) {
	store := newMemStore()
	customer := store.addCustomer("Asha")
	job := store.addOpenJob(customer.ID)
	svc := NewAwardService(store)

	tests := []struct {
		name     string
		active   bool
		verified bool
	}{
		{"unapproved and unverified", false, false},
		{"approved but unverified", true, false},
		{"verified but unapproved", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			worker := store.addWorker("W "+tt.name, tt.active, tt.verified)
			_, err := svc.SubmitBid(worker.ID, &models.BidCreateRequest{JobID: job.ID, Amount: 1000})
			require.ErrorIs(t, err, ErrNotEligible)
		})
	}

	// A customer account never passes the gate regardless of flags.
	_, err := svc.SubmitBid(customer.ID, &models.BidCreateRequest{JobID: job.ID, Amount: 1000})
	require.ErrorIs(t, err, ErrNotEligible)

	// Nothing should have been written.
	stored, err := store.GetJob(job.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.TotalBids)
	bids, err := store.ListBidsForJob(job.ID)
	require.NoError(t, err)
	assert.Empty(t, bids)
}

func TestSubmitBidClosedJob(t *testing.T) {
	store := newMemStore()
	customer := store.addCustomer("Asha")
	worker := store.addWorker("Ravi", true, true)
	job := store.addOpenJob(customer.ID)
	job.Status = models.JobStatusAssigned
	require.NoError(t, store.SaveJob(job))
	svc := NewAwardService(store)

	_, err := svc.SubmitBid(worker.ID, &models.BidCreateRequest{JobID: job.ID, Amount: 1000})
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestSubmitBidMissingJob(t *testing.T) {
	store := newMemStore()
	worker := store.addWorker("Ravi", true, true)
	svc := NewAwardService(store)

	_, err := svc.SubmitBid(worker.ID, &models.BidCreateRequest{JobID: 424242, Amount: 1000})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitBidDuplicatePending(t *testing.T) {
	store := newMemStore()
	customer := store.addCustomer("Asha")
	worker := store.addWorker("Ravi", true, true)
	job := store.addOpenJob(customer.ID)
	svc := NewAwardService(store)

	_, err := svc.SubmitBid(worker.ID, &models.BidCreateRequest{JobID: job.ID, Amount: 1000})
	require.NoError(t, err)

	_, err = svc.SubmitBid(worker.ID, &models.BidCreateRequest{JobID: job.ID, Amount: 900})
	require.ErrorIs(t, err, ErrConflict)

	stored, err := store.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.TotalBids)
}

func TestSubmitBidAfterWithdrawAllowed(t *testing.T) {
	store := newMemStore()
	customer := store.addCustomer("Asha")
	worker := store.addWorker("Ravi", true, true)
	job := store.addOpenJob(customer.ID)
	svc := NewAwardService(store)

	first, err := svc.SubmitBid(worker.ID, &models.BidCreateRequest{JobID: job.ID, Amount: 1000})
	require.NoError(t, err)

	_, err = svc.WithdrawBid(first.ID, worker.ID)
	require.NoError(t, err)

	// Only pending bids block a resubmission.
	_, err = svc.SubmitBid(worker.ID, &models.BidCreateRequest{JobID: job.ID, Amount: 950})
	require.NoError(t, err)
}

func TestSubmitBidOwnJob(t *testing.T) {
	store := newMemStore()
	hybrid := store.addWorker("Ravi", true, true)
	job := store.addOpenJob(hybrid.ID)
	svc := NewAwardService(store)

	_, err := svc.SubmitBid(hybrid.ID, &models.BidCreateRequest{JobID: job.ID, Amount: 1000})
	require.ErrorIs(t, err, ErrValidation)
}

func TestAwardBid(t *testing.T) {
	store := newMemStore()
	customer := store.addCustomer("Asha")
	w1 := store.addWorker("Ravi", true, true)
	w2 := store.addWorker("Sunil", true, true)
	w3 := store.addWorker("Meena", true, true)
	job := store.addOpenJob(customer.ID)
	b1 := store.addPendingBid(job.ID, w1.ID, 1200)
	b2 := store.addPendingBid(job.ID, w2.ID, 1000)
	store.addPendingBid(job.ID, w3.ID, 1400)
	svc := NewAwardService(store)

	result, err := svc.AwardBid(job.ID, b2.ID)
	require.NoError(t, err)

	assert.Equal(t, models.JobStatusAssigned, result.Job.Status)
	require.NotNil(t, result.Job.SelectedBidID)
	assert.Equal(t, b2.ID, *result.Job.SelectedBidID)
	require.NotNil(t, result.Job.SelectedWorkerID)
	assert.Equal(t, w2.ID, *result.Job.SelectedWorkerID)

	assert.Equal(t, models.BidStatusAccepted, result.SelectedBid.Status)
	assert.True(t, result.SelectedBid.IsSelected)
	assert.ElementsMatch(t, []uint{w1.ID, w3.ID}, result.RejectedWorkers)

	// Exactly one accepted bid, every sibling rejected.
	bids, err := store.ListBidsForJob(job.ID)
	require.NoError(t, err)
	accepted := 0
	for _, b := range bids {
		switch b.ID {
		case b2.ID:
			assert.Equal(t, models.BidStatusAccepted, b.Status)
			accepted++
		default:
			assert.Equal(t, models.BidStatusRejected, b.Status)
		}
	}
	assert.Equal(t, 1, accepted)

	losing, err := store.GetBid(b1.ID)
	require.NoError(t, err)
	assert.False(t, losing.IsSelected)

	// One acceptance notification plus one per rejected bidder.
	require.Len(t, store.notifications, 3)
	byType := map[string][]uint{}
	for _, n := range store.notifications {
		byType[n.Type] = append(byType[n.Type], n.UserID)
	}
	assert.Equal(t, []uint{w2.ID}, byType["bid_accepted"])
	assert.ElementsMatch(t, []uint{w1.ID, w3.ID}, byType["bid_rejected"])
}

func TestAwardBidTwiceFails(t *testing.T) {
	store := newMemStore()
	customer := store.addCustomer("Asha")
	w1 := store.addWorker("Ravi", true, true)
	w2 := store.addWorker("Sunil", true, true)
	job := store.addOpenJob(customer.ID)
	b1 := store.addPendingBid(job.ID, w1.ID, 1200)
	b2 := store.addPendingBid(job.ID, w2.ID, 1000)
	svc := NewAwardService(store)

	_, err := svc.AwardBid(job.ID, b1.ID)
	require.NoError(t, err)

	_, err = svc.AwardBid(job.ID, b2.ID)
	require.ErrorIs(t, err, ErrInvalidState)

	// First award outcome is untouched.
	stored, err := store.GetJob(job.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.SelectedBidID)
	assert.Equal(t, b1.ID, *stored.SelectedBidID)
}

func TestAwardBidWrongJob(t *testing.T) {
	store := newMemStore()
	customer := store.addCustomer("Asha")
	worker := store.addWorker("Ravi", true, true)
	jobA := store.addOpenJob(customer.ID)
	jobB := store.addOpenJob(customer.ID)
	bidOnB := store.addPendingBid(jobB.ID, worker.ID, 1000)
	svc := NewAwardService(store)

	_, err := svc.AwardBid(jobA.ID, bidOnB.ID)
	require.ErrorIs(t, err, ErrNotFound)

	// Neither job nor bid changed.
	stored, err := store.GetJob(jobA.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusOpen, stored.Status)
	bid, err := store.GetBid(bidOnB.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BidStatusPending, bid.Status)
}

func TestAwardBidNonPending(t *testing.T) {
	store := newMemStore()
	customer := store.addCustomer("Asha")
	worker := store.addWorker("Ravi", true, true)
	job := store.addOpenJob(customer.ID)
	bid := store.addPendingBid(job.ID, worker.ID, 1000)
	svc := NewAwardService(store)

	_, err := svc.WithdrawBid(bid.ID, worker.ID)
	require.NoError(t, err)

	_, err = svc.AwardBid(job.ID, bid.ID)
	require.ErrorIs(t, err, ErrInvalidState)

	stored, err := store.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusOpen, stored.Status)
}

func TestAwardBidConcurrent(t *testing.T) {
	store := newMemStore()
	customer := store.addCustomer("Asha")
	w1 := store.addWorker("Ravi", true, true)
	w2 := store.addWorker("Sunil", true, true)
	job := store.addOpenJob(customer.ID)
	b1 := store.addPendingBid(job.ID, w1.ID, 1200)
	b2 := store.addPendingBid(job.ID, w2.ID, 1000)
	svc := NewAwardService(store)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = svc.AwardBid(job.ID, b1.ID)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = svc.AwardBid(job.ID, b2.ID)
	}()
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, ErrInvalidState)
		}
	}
	assert.Equal(t, 1, succeeded)

	bids, err := store.ListBidsForJob(job.ID)
	require.NoError(t, err)
	accepted := 0
	for _, b := range bids {
		if b.Status == models.BidStatusAccepted {
			accepted++
		}
	}
	assert.Equal(t, 1, accepted)
}

func TestCompleteJob(t *testing.T) {
	store := newMemStore()
	customer := store.addCustomer("Asha")
	worker := store.addWorker("Ravi", true, true)
	job := store.addOpenJob(customer.ID)
	bid := store.addPendingBid(job.ID, worker.ID, 1500)
	svc := NewAwardService(store)

	_, err := svc.AwardBid(job.ID, bid.ID)
	require.NoError(t, err)

	completed, err := svc.CompleteJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	details, err := store.GetWorkerDetailsByUserID(worker.ID)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, details.TotalEarnings)
	assert.Equal(t, 1, details.CompletedJobs)
}

func TestCompleteJobRequiresAssigned(t *testing.T) {
	store := newMemStore()
	customer := store.addCustomer("Asha")
	job := store.addOpenJob(customer.ID)
	svc := NewAwardService(store)

	_, err := svc.CompleteJob(job.ID)
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestCancelJob(t *testing.T) {
	store := newMemStore()
	customer := store.addCustomer("Asha")
	worker := store.addWorker("Ravi", true, true)
	job := store.addOpenJob(customer.ID)
	bid := store.addPendingBid(job.ID, worker.ID, 1000)
	svc := NewAwardService(store)

	cancelled, err := svc.CancelJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCancelled, cancelled.Status)

	stored, err := store.GetBid(bid.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BidStatusRejected, stored.Status)

	// Cancelling twice is an invalid transition.
	_, err = svc.CancelJob(job.ID)
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestWithdrawBid(t *testing.T) {
	store := newMemStore()
	customer := store.addCustomer("Asha")
	owner := store.addWorker("Ravi", true, true)
	other := store.addWorker("Sunil", true, true)
	job := store.addOpenJob(customer.ID)
	bid := store.addPendingBid(job.ID, owner.ID, 1000)
	svc := NewAwardService(store)

	// Someone else's bid looks like it does not exist.
	_, err := svc.WithdrawBid(bid.ID, other.ID)
	require.ErrorIs(t, err, ErrNotFound)

	withdrawn, err := svc.WithdrawBid(bid.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BidStatusWithdrawn, withdrawn.Status)

	// A withdrawn bid cannot be withdrawn again.
	_, err = svc.WithdrawBid(bid.ID, owner.ID)
	require.ErrorIs(t, err, ErrInvalidState)
}
