package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobs-srv/internal/realtime"
	"jobs-srv/internal/scheduler"
	"jobs-srv/pkg/log"
	pkgRedis "jobs-srv/pkg/redis"
)

// HTTPServer is the worker's operational surface: health probes, queue
// stats and the realtime dashboard socket. New() only wires and validates
// dependencies; Run() starts serving.
type HTTPServer struct {
	gin         *gin.Engine
	l           log.Logger
	host        string
	port        int
	environment string

	scheduler scheduler.UseCase
	hub       *realtime.Hub
	redis     *pkgRedis.Client

	http *http.Server
}

// Config is the constructor input for HTTPServer.
type Config struct {
	Host        string
	Port        int
	Mode        string
	Environment string

	Scheduler scheduler.UseCase
	Hub       *realtime.Hub
	// Redis is optional; health reports it as not configured when absent.
	Redis *pkgRedis.Client
}

// New creates the ops server. No goroutines are started here.
func New(l log.Logger, cfg Config) (*HTTPServer, error) {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	srv := &HTTPServer{
		gin:         gin.Default(),
		l:           l,
		host:        cfg.Host,
		port:        cfg.Port,
		environment: cfg.Environment,
		scheduler:   cfg.Scheduler,
		hub:         cfg.Hub,
		redis:       cfg.Redis,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}
	return srv, nil
}

// validate ensures all required dependencies are provided.
func (srv *HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.scheduler == nil {
		return errors.New("scheduler is required")
	}
	if srv.hub == nil {
		return errors.New("realtime hub is required")
	}
	return nil
}
