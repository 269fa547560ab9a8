package services

import (
	"errors"
	"fmt"
	"log"

	"servicehub-server/models"
)

// OnboardingService owns the two independent gates that control
// marketplace entry for workers: account approval (User.IsActive) and
// KYC verification (WorkerDetails.IsVerified).
type OnboardingService struct {
	store Store
}

// NewOnboardingService creates a new onboarding service
func NewOnboardingService(store Store) *OnboardingService {
	return &OnboardingService{store: store}
}

// RegisterWorkerRequest is the payload for worker registration
type RegisterWorkerRequest struct {
	FullName    string                      `json:"full_name" binding:"required,min=2,max=100"`
	PhoneNumber string                      `json:"phone_number" binding:"required"`
	Details     models.WorkerDetailsRequest `json:"details" binding:"required"`
}

// RegisterWorker creates the inactive user row and the unverified
// worker details row in one transaction. The worker cannot log in or
// bid until an admin approves and verifies them.
func (s *OnboardingService) RegisterWorker(req *RegisterWorkerRequest) (*models.User, error) {
	user := &models.User{
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Role:        models.RoleWorker,
		IsActive:    false,
	}
	err := s.store.Transaction(func(tx Store) error {
		if err := tx.SaveUser(user); err != nil {
			if errors.Is(err, ErrDuplicateKey) {
				return fmt.Errorf("%w: an account with this phone number already exists", ErrConflict)
			}
			return err
		}
		details := &models.WorkerDetails{
			UserID:            user.ID,
			CategoryID:        req.Details.CategoryID,
			SubService:        req.Details.SubService,
			ExperienceYears:   req.Details.ExperienceYears,
			Experience:        req.Details.Experience,
			BankName:          req.Details.BankName,
			BankAccountNumber: req.Details.BankAccountNumber,
			BankAccountHolder: req.Details.BankAccountHolder,
			IsVerified:        false,
		}
		return tx.SaveWorkerDetails(details)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Worker %d registered, awaiting approval and KYC", user.ID)
	return user, nil
}

// SetApproval flips the account activation gate on a user. Idempotent.
func (s *OnboardingService) SetApproval(userID uint, approved bool) (*models.User, error) {
	user, err := s.store.GetUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	user.IsActive = approved
	if err := s.store.SaveUser(user); err != nil {
		return nil, err
	}
	if approved {
		if err := s.store.CreateNotification(&models.Notification{
			UserID: user.ID,
			Title:  "Account approved",
			Body:   "Your account has been approved by an administrator",
			Type:   "account_approved",
		}); err != nil {
			log.Printf("⚠️ Failed to record approval notification for user %d: %v", userID, err)
		}
	}
	log.Printf("✅ User %d approval set to %v", userID, approved)
	return user, nil
}

// SetVerification flips the KYC gate on a worker's details row,
// independent of the approval flag. Idempotent.
func (s *OnboardingService) SetVerification(workerID uint, verified bool) (*models.WorkerDetails, error) {
	details, err := s.store.GetWorkerDetails(workerID)
	if err != nil {
		return nil, fmt.Errorf("%w: worker %d", ErrNotFound, workerID)
	}
	details.IsVerified = verified
	if err := s.store.SaveWorkerDetails(details); err != nil {
		return nil, err
	}
	if verified {
		if err := s.store.CreateNotification(&models.Notification{
			UserID: details.UserID,
			Title:  "KYC verified",
			Body:   "Your documents have been verified",
			Type:   "kyc_verified",
		}); err != nil {
			log.Printf("⚠️ Failed to record KYC notification for worker %d: %v", workerID, err)
		}
	}
	log.Printf("✅ Worker %d verification set to %v", workerID, verified)
	return details, nil
}

// IsEligibleToBid is the single eligibility predicate consulted before
// any bid or assignment: role worker, account active, KYC verified.
func (s *OnboardingService) IsEligibleToBid(workerUserID uint) (bool, error) {
	_, _, err := eligibleWorker(s.store, workerUserID)
	if err != nil {
		if errors.Is(err, ErrNotEligible) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
