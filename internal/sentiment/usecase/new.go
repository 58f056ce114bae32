package usecase

import (
	"jobs-srv/internal/sentiment"
	"jobs-srv/pkg/clock"
	"jobs-srv/pkg/log"
)

type implUseCase struct {
	l        log.Logger
	clk      clock.Clock
	repo     sentiment.Repository
	scorer   sentiment.Scorer
	notifier sentiment.Notifier
}

func New(l log.Logger, clk clock.Clock, repo sentiment.Repository, scorer sentiment.Scorer, notifier sentiment.Notifier) sentiment.UseCase {
	return &implUseCase{
		l:        l,
		clk:      clk,
		repo:     repo,
		scorer:   scorer,
		notifier: notifier,
	}
}
