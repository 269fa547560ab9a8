package services

import (
	"fmt"
	"sync"

	"servicehub-server/models"
)

// memStore is an in-memory Store used by the service tests. Transactions
// serialize on a mutex and roll back by restoring a snapshot, which is
// enough to exercise the same atomicity the GORM store provides.
type memStore struct {
	mu            sync.Mutex
	users         map[uint]*models.User
	workerDetails map[uint]*models.WorkerDetails
	jobs          map[uint]*models.Job
	bids          map[uint]*models.Bid
	notifications []models.Notification
	nextID        uint
}

func newMemStore() *memStore {
	return &memStore{
		users:         make(map[uint]*models.User),
		workerDetails: make(map[uint]*models.WorkerDetails),
		jobs:          make(map[uint]*models.Job),
		bids:          make(map[uint]*models.Bid),
	}
}

func (m *memStore) allocID() uint {
	m.nextID++
	return m.nextID
}

func (m *memStore) snapshot() *memStore {
	s := newMemStore()
	s.nextID = m.nextID
	for id, u := range m.users {
		cp := *u
		s.users[id] = &cp
	}
	for id, d := range m.workerDetails {
		cp := *d
		s.workerDetails[id] = &cp
	}
	for id, j := range m.jobs {
		cp := *j
		s.jobs[id] = &cp
	}
	for id, b := range m.bids {
		cp := *b
		s.bids[id] = &cp
	}
	s.notifications = append(s.notifications, m.notifications...)
	return s
}

func (m *memStore) restore(s *memStore) {
	m.users = s.users
	m.workerDetails = s.workerDetails
	m.jobs = s.jobs
	m.bids = s.bids
	m.notifications = s.notifications
	m.nextID = s.nextID
}

func (m *memStore) Transaction(fn func(tx Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	before := m.snapshot()
	if err := fn(m); err != nil {
		m.restore(before)
		return err
	}
	return nil
}

func (m *memStore) GetUser(id uint) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) SaveUser(user *models.User) error {
	if user.ID == 0 {
		for _, u := range m.users {
			if u.PhoneNumber == user.PhoneNumber {
				return ErrDuplicateKey
			}
		}
		user.ID = m.allocID()
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memStore) GetWorkerDetails(id uint) (*models.WorkerDetails, error) {
	d, ok := m.workerDetails[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *memStore) GetWorkerDetailsByUserID(userID uint) (*models.WorkerDetails, error) {
	for _, d := range m.workerDetails {
		if d.UserID == userID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) SaveWorkerDetails(details *models.WorkerDetails) error {
	if details.ID == 0 {
		details.ID = m.allocID()
	}
	cp := *details
	m.workerDetails[details.ID] = &cp
	return nil
}

func (m *memStore) GetJob(id uint) (*models.Job, error) {
	j, ok := m.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (m *memStore) GetJobForUpdate(id uint) (*models.Job, error) {
	return m.GetJob(id)
}

func (m *memStore) CreateJob(job *models.Job) error {
	for _, j := range m.jobs {
		if j.Reference == job.Reference {
			return ErrDuplicateKey
		}
	}
	job.ID = m.allocID()
	cp := *job
	m.jobs[job.ID] = &cp
	return nil
}

func (m *memStore) SaveJob(job *models.Job) error {
	if _, ok := m.jobs[job.ID]; !ok {
		return ErrNotFound
	}
	cp := *job
	m.jobs[job.ID] = &cp
	return nil
}

func (m *memStore) IncrementTotalBids(jobID uint) error {
	j, ok := m.jobs[jobID]
	if !ok {
		return ErrNotFound
	}
	j.TotalBids++
	return nil
}

func (m *memStore) GetBid(id uint) (*models.Bid, error) {
	b, ok := m.bids[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memStore) CreateBid(bid *models.Bid) error {
	bid.ID = m.allocID()
	cp := *bid
	m.bids[bid.ID] = &cp
	return nil
}

func (m *memStore) SaveBid(bid *models.Bid) error {
	if _, ok := m.bids[bid.ID]; !ok {
		return ErrNotFound
	}
	cp := *bid
	m.bids[bid.ID] = &cp
	return nil
}

func (m *memStore) ListBidsForJob(jobID uint) ([]models.Bid, error) {
	var out []models.Bid
	for _, b := range m.bids {
		if b.JobID == jobID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memStore) HasPendingBid(jobID, workerID uint) (bool, error) {
	for _, b := range m.bids {
		if b.JobID == jobID && b.WorkerID == workerID && b.Status == models.BidStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) RejectPendingBids(jobID, exceptBidID uint) ([]uint, error) {
	var workers []uint
	for _, b := range m.bids {
		if b.JobID == jobID && b.ID != exceptBidID && b.Status == models.BidStatusPending {
			b.Status = models.BidStatusRejected
			workers = append(workers, b.WorkerID)
		}
	}
	return workers, nil
}

func (m *memStore) CreateNotification(n *models.Notification) error {
	n.ID = m.allocID()
	m.notifications = append(m.notifications, *n)
	return nil
}

// Fixture helpers

func (m *memStore) addCustomer(name string) *models.User {
	u := &models.User{
		FullName:    name,
		PhoneNumber: fmt.Sprintf("+91900000%04d", m.nextID+1),
		Role:        models.RoleCustomer,
		IsActive:    true,
	}
	if err := m.SaveUser(u); err != nil {
		panic(err)
	}
	return u
}

func (m *memStore) addWorker(name string, active, verified bool) *models.User {
	u := &models.User{
		FullName:    name,
		PhoneNumber: fmt.Sprintf("+91910000%04d", m.nextID+1),
		Role:        models.RoleWorker,
		IsActive:    active,
	}
	if err := m.SaveUser(u); err != nil {
		panic(err)
	}
	d := &models.WorkerDetails{
		UserID:     u.ID,
		CategoryID: 1,
		Category:   models.ServiceCategory{ID: 1, Name: "Plumbing"},
		IsVerified: verified,
		Rating:     4.5,
	}
	if err := m.SaveWorkerDetails(d); err != nil {
		panic(err)
	}
	return u
}

func (m *memStore) addOpenJob(customerID uint) *models.Job {
	j := &models.Job{
		Reference:   fmt.Sprintf("SH-20260829-%06X", m.nextID+1),
		CustomerID:  customerID,
		CategoryID:  1,
		Title:       "Fix kitchen sink",
		JobCategory: models.JobCategoryOnSite,
		Address:     "12 Main St",
		Status:      models.JobStatusOpen,
	}
	if err := m.CreateJob(j); err != nil {
		panic(err)
	}
	return j
}

func (m *memStore) addPendingBid(jobID, workerID uint, amount float64) *models.Bid {
	b := &models.Bid{
		JobID:    jobID,
		WorkerID: workerID,
		Amount:   amount,
		Status:   models.BidStatusPending,
	}
	if err := m.CreateBid(b); err != nil {
		panic(err)
	}
	m.jobs[jobID].TotalBids++
	return b
}
