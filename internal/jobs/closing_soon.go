package jobs

import (
	"context"
	"time"

	"github.com/echo-track/echo-track-api/internal/services"
	"github.com/sirupsen/logrus"
)

// ClosingSoonScanner reports active challenges that end within the next 24
// hours, feeding the "closing soon" surface without a per-request scan.
type ClosingSoonScanner struct {
	ChallengeService *services.ChallengeService
}

// NewClosingSoonScanner creates a new instance of ClosingSoonScanner.
func NewClosingSoonScanner(challengeService *services.ChallengeService) *ClosingSoonScanner {
	return &ClosingSoonScanner{ChallengeService: challengeService}
}

// RunScan checks active challenges ending in the next 24h and logs them.
func (s *ClosingSoonScanner) RunScan(ctx context.Context) error {
	challenges, err := s.ChallengeService.GetActiveChallenges(ctx)
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(24 * time.Hour)
	closing := 0

	// Active challenges arrive sorted by endDate ascending, so the scan can
	// stop at the first challenge past the cutoff.
	for _, challenge := range challenges {
		if challenge.EndDate.After(cutoff) {
			break
		}
		closing++
		logrus.WithFields(logrus.Fields{
			"challenge_id": challenge.ID.Hex(),
			"title":        challenge.Title,
			"end_date":     challenge.EndDate.Format(time.RFC3339),
			"participants": challenge.Participants,
		}).Info("Challenge closing within 24h")
	}

	logrus.WithFields(logrus.Fields{
		"active":  len(challenges),
		"closing": closing,
	}).Info("Closing-soon scan completed")

	return nil
}
