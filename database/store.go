package database

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"servicehub-server/models"
	"servicehub-server/services"
)

// GormStore implements services.Store on top of GORM/Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewStore wraps a gorm handle in a services.Store
func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return services.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return services.ErrDuplicateKey
	default:
		return err
	}
}

// Transaction runs fn inside a database transaction; row locks taken
// via GetJobForUpdate are held until commit or rollback.
func (s *GormStore) Transaction(fn func(tx services.Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, s.translate(err)
	}
	return &user, nil
}

func (s *GormStore) SaveUser(user *models.User) error {
	return s.translate(s.db.Save(user).Error)
}

func (s *GormStore) GetWorkerDetails(id uint) (*models.WorkerDetails, error) {
	var details models.WorkerDetails
	if err := s.db.Preload("Category").First(&details, id).Error; err != nil {
		return nil, s.translate(err)
	}
	return &details, nil
}

func (s *GormStore) GetWorkerDetailsByUserID(userID uint) (*models.WorkerDetails, error) {
	var details models.WorkerDetails
	if err := s.db.Preload("Category").Where("user_id = ?", userID).First(&details).Error; err != nil {
		return nil, s.translate(err)
	}
	return &details, nil
}

func (s *GormStore) SaveWorkerDetails(details *models.WorkerDetails) error {
	return s.translate(s.db.Save(details).Error)
}

func (s *GormStore) GetJob(id uint) (*models.Job, error) {
	var job models.Job
	if err := s.db.First(&job, id).Error; err != nil {
		return nil, s.translate(err)
	}
	return &job, nil
}

func (s *GormStore) GetJobForUpdate(id uint) (*models.Job, error) {
	var job models.Job
	if err := s.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&job, id).Error; err != nil {
		return nil, s.translate(err)
	}
	return &job, nil
}

func (s *GormStore) CreateJob(job *models.Job) error {
	return s.translate(s.db.Create(job).Error)
}

func (s *GormStore) SaveJob(job *models.Job) error {
	return s.translate(s.db.Save(job).Error)
}

func (s *GormStore) IncrementTotalBids(jobID uint) error {
	return s.translate(s.db.Model(&models.Job{}).
		Where("id = ?", jobID).
		UpdateColumn("total_bids", gorm.Expr("total_bids + 1")).Error)
}

func (s *GormStore) GetBid(id uint) (*models.Bid, error) {
	var bid models.Bid
	if err := s.db.First(&bid, id).Error; err != nil {
		return nil, s.translate(err)
	}
	return &bid, nil
}

func (s *GormStore) CreateBid(bid *models.Bid) error {
	return s.translate(s.db.Create(bid).Error)
}

func (s *GormStore) SaveBid(bid *models.Bid) error {
	return s.translate(s.db.Save(bid).Error)
}

func (s *GormStore) ListBidsForJob(jobID uint) ([]models.Bid, error) {
	var bids []models.Bid
	if err := s.db.Where("job_id = ?", jobID).Order("created_at ASC").Find(&bids).Error; err != nil {
		return nil, s.translate(err)
	}
	return bids, nil
}

func (s *GormStore) HasPendingBid(jobID, workerID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Bid{}).
		Where("job_id = ? AND worker_id = ? AND status = ?", jobID, workerID, models.BidStatusPending).
		Count(&count).Error
	if err != nil {
		return false, s.translate(err)
	}
	return count > 0, nil
}

func (s *GormStore) RejectPendingBids(jobID, exceptBidID uint) ([]uint, error) {
	var workerIDs []uint
	err := s.db.Model(&models.Bid{}).
		Where("job_id = ? AND id <> ? AND status = ?", jobID, exceptBidID, models.BidStatusPending).
		Pluck("worker_id", &workerIDs).Error
	if err != nil {
		return nil, s.translate(err)
	}
	if len(workerIDs) == 0 {
		return nil, nil
	}
	err = s.db.Model(&models.Bid{}).
		Where("job_id = ? AND id <> ? AND status = ?", jobID, exceptBidID, models.BidStatusPending).
		Update("status", models.BidStatusRejected).Error
	if err != nil {
		return nil, s.translate(err)
	}
	return workerIDs, nil
}

func (s *GormStore) CreateNotification(n *models.Notification) error {
	return s.translate(s.db.Create(n).Error)
}
