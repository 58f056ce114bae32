package usecase

import (
	"sync"

	"jobs-srv/config"
	"jobs-srv/internal/analytics"
	"jobs-srv/internal/media"
	"jobs-srv/internal/notification"
	"jobs-srv/internal/publish"
	"jobs-srv/internal/queue"
	"jobs-srv/internal/scheduler"
	"jobs-srv/internal/sentiment"
	"jobs-srv/pkg/clock"
	"jobs-srv/pkg/log"
)

// Processors bundles the use cases the scheduler dispatches jobs to.
type Processors struct {
	Publish      publish.UseCase
	Analytics    analytics.UseCase
	Notification notification.UseCase
	Media        media.UseCase
	Sentiment    sentiment.UseCase
}

type implUseCase struct {
	l       log.Logger
	clk     clock.Clock
	cfg     config.SchedulerConfig
	manager queue.Manager

	procs     Processors
	directory scheduler.Directory

	mu      sync.Mutex
	started bool
}

// New creates the scheduler. Start must be called before jobs execute;
// Schedule* calls made earlier simply queue up.
func New(l log.Logger, clk clock.Clock, cfg config.SchedulerConfig, manager queue.Manager, procs Processors, directory scheduler.Directory) scheduler.UseCase {
	return &implUseCase{
		l:         l,
		clk:       clk,
		cfg:       cfg,
		manager:   manager,
		procs:     procs,
		directory: directory,
	}
}

// The scheduler is the Notifier the publish and analytics processors write
// notifications through. Sentiment escalation is channel-aware and goes
// through ScheduleNotification via its own adapter.
var (
	_ publish.Notifier   = (*implUseCase)(nil)
	_ analytics.Notifier = (*implUseCase)(nil)
)
