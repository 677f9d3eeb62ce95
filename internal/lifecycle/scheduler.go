package lifecycle

import (
	"context"
	"log"
	"sync"
	"time"
)

// Scheduler runs the lifecycle job on a fixed interval until stopped.
type Scheduler struct {
	runner     *Runner
	interval   time.Duration
	runOnStart bool

	mu       sync.Mutex
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewScheduler(runner *Runner, interval time.Duration, runOnStart bool) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Scheduler{
		runner:     runner,
		interval:   interval,
		runOnStart: runOnStart,
	}
}

// Start begins the schedule loop. Calling Start twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopChan != nil {
		return // Already running
	}
	s.stopChan = make(chan struct{})
	stop := s.stopChan

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if s.runOnStart {
			s.tick()
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.tick()
			case <-stop:
				log.Println("[Lifecycle] Scheduler stopped")
				return
			}
		}
	}()

	log.Printf("[Lifecycle] Scheduler started (interval: %v)", s.interval)
}

// Stop halts the loop and waits for an in-flight run to return
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopChan == nil {
		s.mu.Unlock()
		return
	}
	close(s.stopChan)
	s.stopChan = nil
	s.mu.Unlock()

	s.wg.Wait()
}

// tick runs the job to completion of the full candidate list; no deadline is applied.
func (s *Scheduler) tick() {
	// errors are already logged and counted by the runner
	s.runner.Run(context.Background(), TriggerSchedule)
}
