package apitest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type authenticateRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type cancelRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleAuthenticate(c *gin.Context) {
	var req authenticateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if c.Param("account") != Account || req.Username != Username || req.Password != Password {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jwt": s.token})
}

func (s *Server) handleCompatibility(c *gin.Context) {
	s.mu.Lock()
	doc := s.Compat
	s.mu.Unlock()

	if doc == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "compatibility service unavailable"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Server) handleListTasks(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, ok := s.Tasks[c.Param("jobId")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("job '%s' not found", c.Param("jobId"))})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (s *Server) handleGetTask(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.findTask(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleTaskLogs(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findTask(c); !ok {
		return
	}

	logs, ok := s.Logs[c.Param("jobId")+"/"+c.Param("taskId")]
	if !ok {
		logs = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "logs": logs})
}

func (s *Server) handleCancelTask(c *gin.Context) {
	var req cancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.findTask(c)
	if !ok {
		return
	}
	s.cancelMessages = append(s.cancelMessages, req.Message)

	switch task.Status {
	case "COMPLETED", "FAILED", "CANCELLED":
		c.JSON(http.StatusConflict, gin.H{"message": fmt.Sprintf("task '%s' is already %s", task.ID, task.Status)})
		return
	}

	task.Status = "CANCELLED"
	task.Message = req.Message
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Task '%s' cancelled", task.ID),
	})
}

// findTask looks up the task named by the route; callers hold s.mu. On a
// miss it writes the 404 response and returns false.
func (s *Server) findTask(c *gin.Context) (*Task, bool) {
	jobID, taskID := c.Param("jobId"), c.Param("taskId")

	tasks, ok := s.Tasks[jobID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("job '%s' not found", jobID)})
		return nil, false
	}
	for _, task := range tasks {
		if task.ID == taskID {
			return task, true
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("task '%s' not found in job '%s'", taskID, jobID)})
	return nil, false
}
