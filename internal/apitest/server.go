// Package apitest provides an in-process fake of the Cortex REST API for
// tests. It serves canned jobs, tasks, logs and compatibility data over
// httptest and records what the CLI sent, so tests can assert on forwarded
// request bodies such as cancellation messages.
package apitest

import (
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/cognitivescale/cortex-cli/internal/compat"
	"github.com/cognitivescale/cortex-cli/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// Fixed credentials accepted by the fake authenticate endpoint.
const (
	Account  = "acme"
	Username = "jdoe"
	Password = "s3cret"
	JobID    = "job-1"
)

var signingKey = []byte("apitest-signing-key")

// Task is the task representation served by the fake API.
type Task struct {
	ID         string     `json:"id"`
	JobID      string     `json:"jobId"`
	Name       string     `json:"name"`
	Status     string     `json:"status"`
	Message    string     `json:"message,omitempty"`
	ActionName string     `json:"actionName,omitempty"`
	StartTime  *time.Time `json:"startTime,omitempty"`
	EndTime    *time.Time `json:"endTime,omitempty"`
	// Resources stands in for fields the CLI has no typed view of.
	Resources map[string]any `json:"resources,omitempty"`
}

// Server is a running fake Cortex API. Exported fields may be changed by a
// test between requests.
type Server struct {
	*httptest.Server

	mu sync.Mutex

	// Tasks maps job ID to its tasks.
	Tasks map[string][]*Task
	// Logs maps "jobId/taskId" to either a string or a []string, mirroring
	// the two shapes the real API returns.
	Logs map[string]any
	// Compat is served by the compatibility endpoint; nil makes the endpoint
	// fail with 503.
	Compat *compat.Compatibility

	token          string
	cancelMessages []string
	requests       []string
	requestIDs     []string
}

// New starts a fake API seeded with a single job and closes it when the test
// ends.
func New(t testing.TB) *Server {
	t.Helper()

	token, err := SignToken(time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}

	s := &Server{
		Tasks:  defaultTasks(),
		Logs:   defaultLogs(),
		Compat: &compat.Compatibility{Name: "cortex-cli", MinVersion: "1.0.0", MaxVersion: "2.0.0", LatestVersion: "1.4.0"},
		token:  token,
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

// Token returns the bearer token the fake issues and accepts.
func (s *Server) Token() string {
	return s.token
}

// CancelMessages returns the messages received by the cancel endpoint, in order.
func (s *Server) CancelMessages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.cancelMessages...)
}

// Requests returns "METHOD path" for every request served.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// RequestIDs returns the X-Request-Id header of every request served, empty
// when a request had none.
func (s *Server) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestIDs...)
}

// SetCompat replaces the compatibility document.
func (s *Server) SetCompat(c *compat.Compatibility) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Compat = c
}

// SignToken returns an HS256 JWT for Username that expires at exp.
func SignToken(exp time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":     Username,
		"account": Account,
		"exp":     exp.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
}

func (s *Server) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = logging.NewLevelWriter("DEBUG", "apitest")
	gin.DefaultErrorWriter = logging.NewLevelWriter("ERROR", "apitest")

	router := gin.New()
	router.Use(s.recordMiddleware())
	router.Use(gin.Recovery())
	s.setupRoutes(router)
	return router
}

func defaultTasks() map[string][]*Task {
	started := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	ended := started.Add(90 * time.Second)

	return map[string][]*Task{
		JobID: {
			{ID: "t1", JobID: JobID, Name: "ingest", Status: "COMPLETED", ActionName: "ingest-action", StartTime: &started, EndTime: &ended,
				Resources: map[string]any{"cpu": 2}},
			{ID: "t2", JobID: JobID, Name: "train", Status: "RUNNING", ActionName: "train-action", StartTime: &ended},
			{ID: "t3", JobID: JobID, Name: "score", Status: "FAILED", Message: "out of memory", StartTime: &started, EndTime: &ended},
		},
	}
}

func defaultLogs() map[string]any {
	return map[string]any{
		JobID + "/t1": []string{"starting ingest", "read 120 records", "done"},
		JobID + "/t3": "loading model\nout of memory\n",
	}
}
