package cron

import (
	"context"

	"github.com/echo-track/echo-track-api/internal/jobs"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartChallengeCronJobs schedules the recurring challenge scans.
func StartChallengeCronJobs(scanner *jobs.ClosingSoonScanner) *cron.Cron {
	c := cron.New()

	// Closing-soon scan
	c.AddFunc("@hourly", func() {
		if err := scanner.RunScan(context.Background()); err != nil {
			logrus.WithError(err).Error("Closing-soon scan failed")
		}
	})

	c.Start()
	return c
}
