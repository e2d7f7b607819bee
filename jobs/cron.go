package jobs

import (
	"context"
	"fmt"

	"hotel-frontdesk/models"
	"hotel-frontdesk/services"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// CheckoutAnnouncer is the part of the front desk the rollover job needs.
type CheckoutAnnouncer interface {
	CheckoutDue() []models.Room
	Publish(ctx context.Context, e services.Event)
}

// RolloverSpec fires at the start of the business day.
func RolloverSpec(cutoffHour int) string {
	return fmt.Sprintf("0 %d * * *", cutoffHour)
}

// AnnounceCheckoutDue publishes the rooms whose stay ends today.
func AnnounceCheckoutDue(ctx context.Context, fd CheckoutAnnouncer) int {
	due := fd.CheckoutDue()
	ids := make([]uint, 0, len(due))
	for _, r := range due {
		ids = append(ids, r.ID)
	}
	fd.Publish(ctx, services.Event{Type: services.EventCheckoutDue, RoomIDs: ids})
	log.Info().Int("rooms", len(ids)).Msg("checkout-due list announced")
	return len(ids)
}

// InitCronJobs registers the jobs and starts the scheduler.
func InitCronJobs(c *cron.Cron, fd CheckoutAnnouncer, cutoffHour int) error {
	_, err := c.AddFunc(RolloverSpec(cutoffHour), func() {
		AnnounceCheckoutDue(context.Background(), fd)
	})
	if err != nil {
		return err
	}

	c.Start()
	log.Info().Int("cutoffHour", cutoffHour).Msg("cron jobs initialized")
	return nil
}
