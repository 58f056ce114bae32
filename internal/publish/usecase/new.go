package usecase

import (
	"jobs-srv/internal/publish"
	"jobs-srv/pkg/log"
)

type implUseCase struct {
	l         log.Logger
	publisher publish.Publisher
	notifier  publish.Notifier
}

func New(l log.Logger, publisher publish.Publisher, notifier publish.Notifier) publish.UseCase {
	return &implUseCase{
		l:         l,
		publisher: publisher,
		notifier:  notifier,
	}
}
