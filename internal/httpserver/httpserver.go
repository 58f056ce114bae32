package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Run maps the routes and serves until the listener fails or Shutdown is
// called. Blocking; run it in its own goroutine.
func (srv *HTTPServer) Run() error {
	srv.mapHandlers()

	addr := fmt.Sprintf("%s:%d", srv.host, srv.port)
	srv.l.Infof(context.Background(), "internal.httpserver: listening on %s", addr)

	srv.http = &http.Server{
		Addr:              addr,
		Handler:           srv.gin,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and drains in-flight requests.
func (srv *HTTPServer) Shutdown(ctx context.Context) error {
	if srv.http == nil {
		return nil
	}
	return srv.http.Shutdown(ctx)
}
