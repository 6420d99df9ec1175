package jobs

import (
	"context"
	"log"
	"time"

	"cultivate/internal/services"
)

// InviteCleanupJob deletes unclaimed invite codes past their shelf
// life. Claimed codes stay forever as a registration audit trail.
type InviteCleanupJob struct {
	inviteService *services.InviteService
	interval      time.Duration
	maxAge        time.Duration
}

// NewInviteCleanupJob creates the cleanup job. interval is how often it
// runs, maxAge how old an unclaimed code may get before deletion.
func NewInviteCleanupJob(inviteService *services.InviteService, interval, maxAge time.Duration) *InviteCleanupJob {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if maxAge <= 0 {
		maxAge = 90 * 24 * time.Hour
	}
	return &InviteCleanupJob{
		inviteService: inviteService,
		interval:      interval,
		maxAge:        maxAge,
	}
}

// Run deletes expired unclaimed codes
func (j *InviteCleanupJob) Run(ctx context.Context) error {
	cutoff := time.Now().Add(-j.maxAge)
	deleted, err := j.inviteService.DeleteUnclaimedBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		log.Printf("🧹 [INVITE-CLEANUP] Deleted %d expired invite codes", deleted)
	}
	return nil
}

// NextRunTime schedules the next pass one interval out
func (j *InviteCleanupJob) NextRunTime() time.Time {
	return time.Now().Add(j.interval)
}
