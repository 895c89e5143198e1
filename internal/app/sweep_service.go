package app

import (
	"context"
	"log"
	"time"

	"interviewai-backend/internal/repository"
)

// SweepService applies per-user retention cutoffs in one pass. It is
// stateless and idempotent: a cycle that finds nothing expired deletes
// nothing, and running it concurrently with an on-demand erasure only
// means one side matches zero rows.
type SweepService struct {
	userRepo *repository.UserRepository
	privacy  *PrivacyService
}

func NewSweepService(userRepo *repository.UserRepository, privacy *PrivacyService) *SweepService {
	return &SweepService{
		userRepo: userRepo,
		privacy:  privacy,
	}
}

// RunSweep walks all users with auto-delete enabled and erases their
// expired records, one transaction per user so a failure for one user
// rolls back that user only and the batch continues.
func (s *SweepService) RunSweep(ctx context.Context) (*SweepReport, error) {
	users, err := s.userRepo.ListAutoDeleteEnabled()
	if err != nil {
		return nil, err
	}

	report := &SweepReport{}
	now := time.Now()

	for _, user := range users {
		// RetentionHours <= 0 is the "never auto-delete" sentinel.
		if user.RetentionHours <= 0 {
			report.UsersSkipped++
			continue
		}

		cutoff := now.Add(-time.Duration(user.RetentionHours) * time.Hour)
		deletion, err := s.privacy.EraseExpired(ctx, user.ID, cutoff)
		if err != nil {
			log.Printf("sweep erase expired failed for user %d: %v", user.ID, err)
			report.FailedUserIDs = append(report.FailedUserIDs, user.ID)
			continue
		}

		report.UsersSwept++
		report.accumulate(deletion)
	}

	report.SweptAt = time.Now().UTC()
	return report, nil
}
