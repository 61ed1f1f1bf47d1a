package apitest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Configures the fake Cortex API routes
func (s *Server) setupRoutes(router *gin.Engine) {
	router.POST("/v2/admin/:account/users/authenticate", s.handleAuthenticate)

	v3 := router.Group("/v3")
	v3.Use(s.authMiddleware())
	{
		v3.GET("/compatibility/applications/:name", s.handleCompatibility)

		jobs := v3.Group("/jobs/:jobId")
		{
			jobs.GET("/tasks", s.handleListTasks)
			jobs.GET("/tasks/:taskId", s.handleGetTask)
			jobs.GET("/tasks/:taskId/logs", s.handleTaskLogs)
			jobs.DELETE("/tasks/:taskId", s.handleCancelTask)
		}
	}
}

// recordMiddleware keeps "METHOD path" and the request ID of every request
func (s *Server) recordMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		s.requests = append(s.requests, c.Request.Method+" "+c.Request.URL.Path)
		s.requestIDs = append(s.requestIDs, c.GetHeader("X-Request-Id"))
		s.mu.Unlock()
		c.Next()
	}
}

// authMiddleware rejects requests without the issued bearer token
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.TrimPrefix(header, "Bearer ") != s.token || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or missing token"})
			return
		}
		c.Next()
	}
}
