// services/sweeper.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"bounty-board-service/workers"
)

// Terminal reconciliation tasks stay queryable for a grace period so slow
// clients can still read the outcome, then get pruned.
const taskRetention = 10 * time.Minute

// StartTaskSweeper prunes finished reconciliation tasks every minute.
func StartTaskSweeper(registry *workers.Registry) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			if pruned := registry.Sweep(taskRetention); pruned > 0 {
				log.Printf("🧹 [SWEEP] pruned %d finished reconciliation task(s), %d remaining", pruned, registry.Len())
			}
		}),
	)
}
