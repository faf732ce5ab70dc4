package service

import (
	"context"
	"time"

	"Vine/config"
	"Vine/pkg/log"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Scheduler 后台定时任务
type Scheduler struct {
	cron gocron.Scheduler
}

func NewScheduler(cfg *config.Config, eligibility IEligibilityService) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	_, err = s.NewJob(
		gocron.DurationJob(cfg.Scheduler.ReferralSweep),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if _, err := eligibility.SweepReferrals(ctx); err != nil {
				log.L.Error("referral sweep failed", zap.Error(err))
			}
		}),
		gocron.WithName("referral-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}
	return &Scheduler{cron: s}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.L.Info("scheduler started", zap.Int("jobs", len(s.cron.Jobs())))
}

func (s *Scheduler) Shutdown() error {
	return s.cron.Shutdown()
}
