package jobs

import (
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_job_runs_total",
		Help: "Number of scheduled job runs, by job name.",
	}, []string{"job"})

	jobErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_job_errors_total",
		Help: "Number of scheduled job runs that ended in an error, by job name.",
	}, []string{"job"})
)

// Handler is the body of a recurring task. A returned error marks the
// run as failed; the next tick still fires.
type Handler func() error

type task struct {
	name     string
	interval time.Duration
	handler  Handler
}

// Scheduler runs registered tasks on fixed intervals, each on its own
// ticker goroutine. Tasks are fire-and-forget: failures are logged and
// counted, never propagated.
type Scheduler struct {
	tasks []task
	stop  chan struct{}
	wg    sync.WaitGroup
}

// NewScheduler creates an empty scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{stop: make(chan struct{})}
}

// Register adds a recurring task. Must be called before Start.
func (s *Scheduler) Register(name string, interval time.Duration, handler Handler) {
	s.tasks = append(s.tasks, task{name: name, interval: interval, handler: handler})
}

// Start launches one goroutine per registered task
func (s *Scheduler) Start() {
	for _, t := range s.tasks {
		s.wg.Add(1)
		go s.runLoop(t)
	}
	log.Printf("Scheduler started with %d tasks", len(s.tasks))
}

// Stop signals all task goroutines to exit and waits for them
func (s *Scheduler) Stop() {
	close(s.stop)
	s.wg.Wait()
}

func (s *Scheduler) runLoop(t task) {
	defer s.wg.Done()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runOnce(t)
		case <-s.stop:
			return
		}
	}
}

// runOnce executes a single task run, recovering panics so one bad run
// cannot kill the ticker goroutine
func (s *Scheduler) runOnce(t task) {
	defer func() {
		if r := recover(); r != nil {
			jobErrors.WithLabelValues(t.name).Inc()
			log.Printf("Job %s panicked: %v", t.name, r)
		}
	}()

	jobRuns.WithLabelValues(t.name).Inc()
	if err := t.handler(); err != nil {
		jobErrors.WithLabelValues(t.name).Inc()
		log.Printf("Job %s failed: %v", t.name, err)
	}
}
