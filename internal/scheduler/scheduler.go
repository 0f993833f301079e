package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/FrontRowWithJ/WeatherBot/internal/store"
)

// Janitor periodically drops expired interaction state from the in-memory
// store so abandoned messages do not pin memory forever.
type Janitor struct {
	scheduler *gocron.Scheduler
	store     *store.MemoryStore
	interval  time.Duration
}

func New(st *store.MemoryStore, interval time.Duration) *Janitor {
	return &Janitor{
		scheduler: gocron.NewScheduler(time.UTC),
		store:     st,
		interval:  interval,
	}
}

// Start schedules the periodic sweep and starts the underlying scheduler.
func (j *Janitor) Start() error {
	interval := j.interval
	if interval <= 0 {
		interval = time.Minute
	}

	_, err := j.scheduler.Every(interval).Do(func() {
		if dropped := j.store.SweepExpired(time.Now()); dropped > 0 {
			log.Printf("janitor: dropped %d expired interaction states", dropped)
		}
	})
	if err != nil {
		return err
	}

	j.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future sweeps.
func (j *Janitor) Stop() {
	if j.scheduler != nil {
		j.scheduler.Stop()
	}
}
