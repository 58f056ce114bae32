package usecase

import (
	"jobs-srv/internal/notification"
	"jobs-srv/pkg/clock"
	"jobs-srv/pkg/log"
)

type implUseCase struct {
	l       log.Logger
	clk     clock.Clock
	prefs   notification.PreferenceSource
	senders []notification.Sender
}

// New wires the dispatch pipeline. Sender order is preserved; in-app should
// come first so the persisted copy exists before outbound channels fire.
func New(l log.Logger, clk clock.Clock, prefs notification.PreferenceSource, senders []notification.Sender) notification.UseCase {
	return &implUseCase{
		l:       l,
		clk:     clk,
		prefs:   prefs,
		senders: senders,
	}
}
