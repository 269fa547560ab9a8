package services

import "servicehub-server/models"

// Store is the persistence boundary for the marketplace services. The
// production implementation lives in the database package on top of
// GORM; tests use an in-memory implementation.
type Store interface {
	// Transaction runs fn against a transactional view of the store.
	// Every write fn performs is committed atomically or not at all,
	// and row reads via *ForUpdate methods are locked until commit.
	Transaction(fn func(tx Store) error) error

	GetUser(id uint) (*models.User, error)
	SaveUser(user *models.User) error
	GetWorkerDetails(id uint) (*models.WorkerDetails, error)
	GetWorkerDetailsByUserID(userID uint) (*models.WorkerDetails, error)
	SaveWorkerDetails(details *models.WorkerDetails) error

	GetJob(id uint) (*models.Job, error)
	// GetJobForUpdate loads the job row with an exclusive row lock so
	// concurrent award/bid attempts on the same job serialize.
	GetJobForUpdate(id uint) (*models.Job, error)
	CreateJob(job *models.Job) error
	SaveJob(job *models.Job) error
	// IncrementTotalBids bumps the denormalized bid counter atomically
	// in the database rather than read-modify-write from here.
	IncrementTotalBids(jobID uint) error

	GetBid(id uint) (*models.Bid, error)
	CreateBid(bid *models.Bid) error
	SaveBid(bid *models.Bid) error
	ListBidsForJob(jobID uint) ([]models.Bid, error)
	HasPendingBid(jobID, workerID uint) (bool, error)
	// RejectPendingBids flips every still-pending bid on the job except
	// the given one to rejected, returning the affected worker IDs.
	RejectPendingBids(jobID, exceptBidID uint) ([]uint, error)

	CreateNotification(n *models.Notification) error
}
