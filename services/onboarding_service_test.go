package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servicehub-server/models"
)

func TestRegisterWorker(t *testing.T) {
	store := newMemStore()
	svc := NewOnboardingService(store)

	user, err := svc.RegisterWorker(&RegisterWorkerRequest{
		FullName:    "Ravi",
		PhoneNumber: "+919876543210",
		Details: models.WorkerDetailsRequest{
			CategoryID:      1,
			ExperienceYears: 3,
			BankName:        "State Bank",
		},
	})
	require.NoError(t, err)

	// Both gates start closed.
	assert.Equal(t, models.RoleWorker, user.Role)
	assert.False(t, user.IsActive)

	details, err := store.GetWorkerDetailsByUserID(user.ID)
	require.NoError(t, err)
	assert.False(t, details.IsVerified)
	assert.Equal(t, uint(1), details.CategoryID)
	assert.Equal(t, 3, details.ExperienceYears)
}

func TestRegisterWorkerDuplicatePhone(t *testing.T) {
	store := newMemStore()
	svc := NewOnboardingService(store)

	req := &RegisterWorkerRequest{
		FullName:    "Ravi",
		PhoneNumber: "+919876543210",
		Details:     models.WorkerDetailsRequest{CategoryID: 1},
	}
	_, err := svc.RegisterWorker(req)
	require.NoError(t, err)

	_, err = svc.RegisterWorker(req)
	require.ErrorIs(t, err, ErrConflict)
}

func TestSetApproval(t *testing.T) {
	store := newMemStore()
	worker := store.addWorker("Ravi", false, false)
	svc := NewOnboardingService(store)

	user, err := svc.SetApproval(worker.ID, true)
	require.NoError(t, err)
	assert.True(t, user.IsActive)

	// Approval writes a notification for the worker.
	require.Len(t, store.notifications, 1)
	assert.Equal(t, "account_approved", store.notifications[0].Type)
	assert.Equal(t, worker.ID, store.notifications[0].UserID)

	// Idempotent.
	user, err = svc.SetApproval(worker.ID, true)
	require.NoError(t, err)
	assert.True(t, user.IsActive)

	// Revocation flips it back without notifying.
	user, err = svc.SetApproval(worker.ID, false)
	require.NoError(t, err)
	assert.False(t, user.IsActive)
	assert.Len(t, store.notifications, 2)

	_, err = svc.SetApproval(9999, true)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSetVerification(t *testing.T) {
	store := newMemStore()
	worker := store.addWorker("Ravi", true, false)
	details, err := store.GetWorkerDetailsByUserID(worker.ID)
	require.NoError(t, err)
	svc := NewOnboardingService(store)

	updated, err := svc.SetVerification(details.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsVerified)

	require.Len(t, store.notifications, 1)
	assert.Equal(t, "kyc_verified", store.notifications[0].Type)
	assert.Equal(t, worker.ID, store.notifications[0].UserID)

	updated, err = svc.SetVerification(details.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsVerified)

	_, err = svc.SetVerification(9999, true)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestIsEligibleToBid(t *testing.T) {
	store := newMemStore()
	svc := NewOnboardingService(store)

	tests := []struct {
		name     string
		active   bool
		verified bool
		want     bool
	}{
		{"both gates open", true, true, true},
		{"approved only", true, false, false},
		{"verified only", false, true, false},
		{"neither", false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			worker := store.addWorker("W "+tt.name, tt.active, tt.verified)
			got, err := svc.IsEligibleToBid(worker.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	// Customers are never eligible.
	customer := store.addCustomer("Asha")
	got, err := svc.IsEligibleToBid(customer.ID)
	require.NoError(t, err)
	assert.False(t, got)

	// An unknown user is an error, not a quiet false.
	_, err = svc.IsEligibleToBid(9999)
	require.Error(t, err)
}
