package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The ops surface sits behind the platform's ingress; origin checks
	// happen there.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (srv *HTTPServer) mapHandlers() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	srv.gin.GET("/stats", srv.queueStats)
	srv.gin.GET("/ws", srv.serveWS)
}

// queueStats returns the per-queue job counters.
func (srv *HTTPServer) queueStats(c *gin.Context) {
	stats, err := srv.scheduler.GetJobStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"queues": stats})
}

// serveWS upgrades a dashboard connection and attaches it to the hub.
func (srv *HTTPServer) serveWS(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		srv.l.Errorf(c.Request.Context(), "internal.httpserver.ws: upgrade for user %s: %v", userID, err)
		return
	}

	srv.hub.Register(conn, userID)
}
