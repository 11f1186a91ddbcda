package scheduler

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/fintrackapp/fintrack-be/internal/shared/utils"
)

// Scheduler runs recurring maintenance jobs (form-options cache
// refresh) on cron expressions.
type Scheduler struct {
	cron    *cron.Cron
	jobs    map[string]cron.EntryID
	jobsMux sync.Mutex
}

// NewScheduler creates a new scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		jobs: make(map[string]cron.EntryID),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	utils.LogInfo("scheduler started", nil)
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	utils.LogInfo("scheduler stopped", nil)
}

// AddJob registers a named job under a cron expression, replacing any
// job previously registered under the same name.
func (s *Scheduler) AddJob(name string, schedule string, job func() error) error {
	s.jobsMux.Lock()
	defer s.jobsMux.Unlock()

	if entryID, exists := s.jobs[name]; exists {
		s.cron.Remove(entryID)
		delete(s.jobs, name)
	}

	entryID, err := s.cron.AddFunc(schedule, func() {
		if err := job(); err != nil {
			utils.LogError("scheduled job failed", err, map[string]interface{}{"job": name})
			return
		}
		utils.LogInfo("scheduled job completed", map[string]interface{}{"job": name})
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job %q: %w", name, err)
	}

	s.jobs[name] = entryID
	return nil
}
