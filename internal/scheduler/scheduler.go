// Package scheduler fires the weekly triggers at fixed wall-clock instants
// in a single configured timezone.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Cron specs for the weekly cadence, evaluated in the configured timezone.
// The registry reset sits strictly after the final reminder and before the
// next admin confirmation, so snooze state survives the whole reminder
// window.
const (
	adminConfirmSpec = "0 16 * * MON"
	midweekSpec      = "0 20 * * TUE"
	finalSpec        = "0 20 * * WED"
	weeklyResetSpec  = "0 0 * * THU"
)

// Trigger is one named weekly job.
type Trigger struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

// Confirmer opens the weekly admin confirmation session.
type Confirmer interface {
	Begin()
}

// Reminders sends the weekly reminder broadcasts.
type Reminders interface {
	SendMidweekReminder(ctx context.Context) error
	SendFinalReminder(ctx context.Context, groups ...int64) error
}

// Registry resets snooze state for the new week.
type Registry interface {
	ResetAllActive(ctx context.Context) error
}

// Weekly returns the standard trigger set: admin confirmation on Monday,
// reminders on Tuesday and Wednesday, registry reset early Thursday.
func Weekly(confirm Confirmer, rem Reminders, reg Registry, groups []int64) []Trigger {
	return []Trigger{
		{Name: "admin-confirmation", Spec: adminConfirmSpec, Run: func(context.Context) error {
			confirm.Begin()
			return nil
		}},
		{Name: "midweek-reminder", Spec: midweekSpec, Run: rem.SendMidweekReminder},
		{Name: "final-reminder", Spec: finalSpec, Run: func(ctx context.Context) error {
			return rem.SendFinalReminder(ctx, groups...)
		}},
		{Name: "weekly-reset", Spec: weeklyResetSpec, Run: reg.ResetAllActive},
	}
}

// Scheduler runs the triggers on a single cron loop. A failing trigger is
// logged and never takes the loop down.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

func New(loc *time.Location, log *zap.Logger, triggers []Trigger) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(loc))
	for _, t := range triggers {
		t := t
		_, err := c.AddFunc(t.Spec, func() {
			log.Info("trigger firing", zap.String("trigger", t.Name))
			if err := t.Run(context.Background()); err != nil {
				log.Error("trigger failed", zap.String("trigger", t.Name), zap.Error(err))
			}
		})
		if err != nil {
			return nil, fmt.Errorf("schedule %s: %w", t.Name, err)
		}
	}
	return &Scheduler{cron: c, log: log}, nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("weekly scheduler started")
}

// Stop halts the loop; the returned context is done once in-flight jobs
// finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("weekly scheduler stopping")
	return s.cron.Stop()
}
