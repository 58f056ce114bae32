package usecase

import (
	"jobs-srv/internal/analytics"
	"jobs-srv/pkg/clock"
	"jobs-srv/pkg/log"
)

type implUseCase struct {
	l        log.Logger
	clk      clock.Clock
	source   analytics.Source
	notifier analytics.Notifier
}

func New(l log.Logger, clk clock.Clock, source analytics.Source, notifier analytics.Notifier) analytics.UseCase {
	return &implUseCase{
		l:        l,
		clk:      clk,
		source:   source,
		notifier: notifier,
	}
}
