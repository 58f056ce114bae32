package webhook

import (
	"net/http"
	"time"

	"jobs-srv/pkg/log"
)

// sender implements Sender over a shared http.Client.
type sender struct {
	l      log.Logger
	config Config
	client *http.Client
}

// New creates a Sender. Logger can be nil, in which case retry attempts are
// not logged.
func New(l log.Logger, cfg Config) Sender {
	if cfg.Timeout == 0 {
		cfg = DefaultConfig()
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     30 * time.Second,
		},
	}

	return &sender{
		l:      l,
		config: cfg,
		client: client,
	}
}

func (s *sender) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
