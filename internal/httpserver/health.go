package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// healthCheck reports overall worker health including redis reachability
// and hub occupancy.
func (srv *HTTPServer) healthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	redisStatus := "not_configured"
	if srv.redis != nil {
		if srv.redis.IsConnected(ctx) {
			redisStatus = "connected"
		} else {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"redis":  "unreachable",
			})
			return
		}
	}

	conns, users := srv.hub.Stats()
	c.JSON(http.StatusOK, gin.H{
		"status":             "healthy",
		"service":            "jobs-srv",
		"environment":        srv.environment,
		"redis":              redisStatus,
		"active_connections": conns,
		"unique_users":       users,
	})
}

// readyCheck reports whether the worker can take traffic.
func (srv *HTTPServer) readyCheck(c *gin.Context) {
	ctx := c.Request.Context()

	if srv.redis != nil && !srv.redis.IsConnected(ctx) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "redis": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "service": "jobs-srv"})
}

// liveCheck is the bare liveness probe.
func (srv *HTTPServer) liveCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive", "service": "jobs-srv"})
}
