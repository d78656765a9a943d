package background

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"padoca/internal/models"
	"padoca/internal/repositories"
)

const (
	staleDraftAge   = 7 * 24 * time.Hour
	staleDraftBatch = 100
)

// JobScheduler runs the recurring maintenance jobs: expiring abandoned
// drafts and alerting on a pending-order backlog.
type JobScheduler struct {
	scheduler gocron.Scheduler
	orderRepo repositories.OrderRepository
}

func NewJobScheduler(orderRepo repositories.OrderRepository) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler: scheduler,
		orderRepo: orderRepo,
	}
	js.registerJobs()
	return js, nil
}

func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	_, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.expireStaleDrafts, context.Background()),
		gocron.WithName("stale-draft-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create stale-draft sweep job: %v", err)
	}

	_, err = js.scheduler.NewJob(
		gocron.DurationJob(30*time.Minute),
		gocron.NewTask(js.reportPendingBacklog, context.Background()),
		gocron.WithName("pending-order-backlog"),
	)
	if err != nil {
		log.Printf("Failed to create pending-backlog job: %v", err)
	}
}

// expireStaleDrafts cancels drafts nobody touched for staleDraftAge. Uses the
// soft-delete path so the forced CANCELADO matches a manual removal.
func (js *JobScheduler) expireStaleDrafts(ctx context.Context) {
	cutoff := time.Now().Add(-staleDraftAge)
	drafts, err := js.orderRepo.ListStaleDrafts(ctx, cutoff, staleDraftBatch)
	if err != nil {
		log.Printf("stale-draft sweep failed to list drafts: %v", err)
		return
	}
	for _, draft := range drafts {
		if err := js.orderRepo.SoftDelete(ctx, draft.ID); err != nil {
			log.Printf("stale-draft sweep failed to cancel order %d: %v", draft.ID, err)
			continue
		}
		log.Printf("stale-draft sweep cancelled order %d (untouched since %s)", draft.ID, draft.UpdatedAt.Format(time.RFC3339))
	}
}

func (js *JobScheduler) reportPendingBacklog(ctx context.Context) {
	count, err := js.orderRepo.CountByStatus(ctx, models.StatusPendente)
	if err != nil {
		log.Printf("pending-backlog job failed: %v", err)
		return
	}
	if count > 0 {
		log.Printf("pending-order backlog: %d orders awaiting confirmation", count)
	}
}
