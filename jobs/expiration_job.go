package jobs

import (
	"log"
	"time"

	"servicehub-server/database"
	"servicehub-server/models"
	"servicehub-server/services"
)

// staleAfter is how long past its preferred date an open job may sit
// before it is cancelled automatically.
const staleAfter = 48 * time.Hour

// ExpirationJob cancels open jobs whose preferred date has long passed
// so they stop attracting bids nobody will award.
type ExpirationJob struct {
	stopChan chan bool
}

// NewExpirationJob creates a new expiration job
func NewExpirationJob() *ExpirationJob {
	return &ExpirationJob{
		stopChan: make(chan bool),
	}
}

// Start begins the expiration job
func (j *ExpirationJob) Start() {
	go j.run()
	log.Println("🚀 Expiration job started")
}

// Stop stops the expiration job
func (j *ExpirationJob) Stop() {
	j.stopChan <- true
	log.Println("🛑 Expiration job stopped")
}

// run executes the expiration job
func (j *ExpirationJob) run() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.checkStaleJobs()
		case <-j.stopChan:
			return
		}
	}
}

// checkStaleJobs finds open jobs past the staleness cutoff and cancels
// them through the same transactional path the cancel endpoint uses,
// so pending bids get rejected and workers notified.
func (j *ExpirationJob) checkStaleJobs() {
	cutoff := time.Now().Add(-staleAfter)

	var staleJobs []models.Job
	err := database.DB.Where("status = ? AND preferred_date <= ?",
		models.JobStatusOpen, cutoff).Find(&staleJobs).Error
	if err != nil {
		log.Printf("❌ Error checking stale jobs: %v", err)
		return
	}

	if len(staleJobs) == 0 {
		return
	}
	log.Printf("⏰ Found %d stale open jobs", len(staleJobs))

	svc := services.NewAwardService(database.NewStore(database.DB))
	for _, job := range staleJobs {
		if _, err := svc.CancelJob(job.ID); err != nil {
			log.Printf("❌ Failed to cancel stale job %d: %v", job.ID, err)
			continue
		}
		log.Printf("✅ Stale job %d (%s) cancelled", job.ID, job.Reference)
	}
}
