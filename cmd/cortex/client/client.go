// Package client provides the Cortex REST API client for the cortex CLI.
//
// The CortexClient wraps a resty client configured with the profile's base
// URL and bearer token. Every method takes a context so that --timeout and
// process interrupts cancel in-flight requests.
//
// STATUS MAPPING:
//   - 2xx: success, body decoded into the result type
//   - 401, 403: errdefs.Auth, the stored token is missing, expired or revoked
//   - 404: errdefs.NotFound, carrying the server's message when it has one
//   - anything else: errdefs.API with the status and the server's message
//
// Connection failures are retried by resty (connection errors only, never
// HTTP errors) and then surface as errdefs.API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cognitivescale/cortex-cli/cmd/cortex/config"
	"github.com/cognitivescale/cortex-cli/cmd/cortex/utils"
	"github.com/cognitivescale/cortex-cli/internal/compat"
	"github.com/cognitivescale/cortex-cli/internal/errdefs"
	"github.com/cognitivescale/cortex-cli/internal/logging"
	idutil "github.com/cognitivescale/cortex-cli/internal/utils"
	"github.com/cognitivescale/cortex-cli/internal/version"
	"github.com/go-resty/resty/v2"
)

// Task is the typed view of a task document used by the table output.
// JSON output always uses the documents exactly as the API sent them.
type Task struct {
	ID         string
	JobID      string
	Name       string
	Status     string
	Message    string
	ActionName string
	StartTime  *time.Time
	EndTime    *time.Time
}

// TaskFromDocument builds the typed view of a task document. Missing or
// mistyped fields stay empty, and times that are not RFC3339 strings are nil.
func TaskFromDocument(doc map[string]any) Task {
	return Task{
		ID:         utils.GetString(doc, "id"),
		JobID:      utils.GetString(doc, "jobId"),
		Name:       utils.GetString(doc, "name"),
		Status:     utils.GetString(doc, "status"),
		Message:    utils.GetString(doc, "message"),
		ActionName: utils.GetString(doc, "actionName"),
		StartTime:  utils.GetTime(doc, "startTime"),
		EndTime:    utils.GetTime(doc, "endTime"),
	}
}

// TasksFromDocuments applies TaskFromDocument to every document.
func TasksFromDocuments(docs []map[string]any) []Task {
	tasks := make([]Task, 0, len(docs))
	for _, doc := range docs {
		tasks = append(tasks, TaskFromDocument(doc))
	}
	return tasks
}

// LogLines accepts task logs as either a JSON string or a list of strings.
type LogLines []string

// UnmarshalJSON decodes a list of lines, or splits a single string on newlines.
func (l *LogLines) UnmarshalJSON(data []byte) error {
	var lines []string
	if err := json.Unmarshal(data, &lines); err == nil {
		*l = lines
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("logs must be a string or a list of strings: %w", err)
	}
	text = strings.TrimRight(text, "\n")
	if text == "" {
		*l = LogLines{}
		return nil
	}
	*l = strings.Split(text, "\n")
	return nil
}

// TaskLogs is the log output of one task.
type TaskLogs struct {
	JobID  string   `json:"jobId"`
	TaskID string   `json:"taskId"`
	Logs   LogLines `json:"logs"`
}

// Options configures a CortexClient.
type Options struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	RetryCount int
}

// CortexClient talks to one Cortex API endpoint.
type CortexClient struct {
	client  *resty.Client
	baseURL string
}

// NewCortexClient creates a configured client. Token may be empty for the
// unauthenticated authenticate call.
func NewCortexClient(opts Options) *CortexClient {
	client := resty.New()

	baseURL := strings.TrimRight(opts.BaseURL, "/")

	// Route Resty's internal logging through our structured logging system
	client.SetLogger(utils.RestyLogger{})

	client.
		SetTimeout(opts.Timeout).
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", fmt.Sprintf("%s/%s", version.ApplicationName, config.Version))

	if opts.Token != "" {
		client.SetAuthToken(opts.Token)
	}

	client.
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			// Only retry on connection errors, not HTTP or decode errors
			return err != nil && (r == nil || r.StatusCode() == 0)
		})

	client.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		id := idutil.NewRequestID()
		req.SetHeader(idutil.RequestIDHeader, id)
		logging.Debug("Making API request [%s]: %s %s", idutil.ShortID(id), req.Method, req.URL)
		return nil
	})

	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logging.Debug("API response: %d %s (took %v)",
			resp.StatusCode(), resp.Status(), resp.Time())
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		logging.Debug("API request failed: %s %s - %v", req.Method, req.URL, err)
	})

	return &CortexClient{
		client:  client,
		baseURL: baseURL,
	}
}

// BaseURL returns the API endpoint the client talks to.
func (api *CortexClient) BaseURL() string {
	return api.baseURL
}

// Authenticate exchanges account credentials for a token.
func (api *CortexClient) Authenticate(ctx context.Context, account, username, password string) (string, error) {
	var response struct {
		JWT string `json:"jwt"`
	}

	resp, err := api.client.R().
		SetContext(ctx).
		SetPathParam("account", account).
		SetBody(map[string]string{"username": username, "password": password}).
		SetResult(&response).
		Post("/v2/admin/{account}/users/authenticate")
	if err != nil {
		return "", api.requestError(resp, err)
	}

	if resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden {
		return "", errdefs.Auth("authentication failed for user '%s' in account '%s': %s",
			username, account, serverMessage(resp))
	}
	if err := checkResponse(resp, fmt.Sprintf("account '%s'", account)); err != nil {
		return "", err
	}
	if response.JWT == "" {
		return "", errdefs.API("authentication response did not include a token")
	}
	return response.JWT, nil
}

// ListTasks returns the task documents of a job, unmodified.
func (api *CortexClient) ListTasks(ctx context.Context, jobID string) ([]map[string]any, error) {
	var response struct {
		Tasks []map[string]any `json:"tasks"`
	}

	resp, err := api.client.R().
		SetContext(ctx).
		SetPathParam("jobId", jobID).
		SetResult(&response).
		Get("/v3/jobs/{jobId}/tasks")
	if err != nil {
		return nil, api.requestError(resp, err)
	}

	if err := checkResponse(resp, fmt.Sprintf("job '%s'", jobID)); err != nil {
		return nil, err
	}
	if response.Tasks == nil {
		response.Tasks = []map[string]any{}
	}
	return response.Tasks, nil
}

// GetTask returns the full task document. It is kept generic so that fields
// added by the API are shown without a client update.
func (api *CortexClient) GetTask(ctx context.Context, jobID, taskID string) (map[string]any, error) {
	var response map[string]any

	resp, err := api.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"jobId": jobID, "taskId": taskID}).
		SetResult(&response).
		Get("/v3/jobs/{jobId}/tasks/{taskId}")
	if err != nil {
		return nil, api.requestError(resp, err)
	}

	if err := checkResponse(resp, fmt.Sprintf("task '%s' in job '%s'", taskID, jobID)); err != nil {
		return nil, err
	}
	return response, nil
}

// GetTaskLogs returns the log lines of a task.
func (api *CortexClient) GetTaskLogs(ctx context.Context, jobID, taskID string) (*TaskLogs, error) {
	var response struct {
		Logs LogLines `json:"logs"`
	}

	resp, err := api.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"jobId": jobID, "taskId": taskID}).
		SetResult(&response).
		Get("/v3/jobs/{jobId}/tasks/{taskId}/logs")
	if err != nil {
		return nil, api.requestError(resp, err)
	}

	if err := checkResponse(resp, fmt.Sprintf("task '%s' in job '%s'", taskID, jobID)); err != nil {
		return nil, err
	}

	logs := response.Logs
	if logs == nil {
		logs = LogLines{}
	}
	return &TaskLogs{JobID: jobID, TaskID: taskID, Logs: logs}, nil
}

// CancelTask asks the API to cancel a task. message is forwarded unchanged.
// The API's response document is returned as-is.
func (api *CortexClient) CancelTask(ctx context.Context, jobID, taskID, message string) (map[string]any, error) {
	var response map[string]any

	resp, err := api.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"jobId": jobID, "taskId": taskID}).
		SetBody(map[string]string{"message": message}).
		SetResult(&response).
		Delete("/v3/jobs/{jobId}/tasks/{taskId}")
	if err != nil {
		return nil, api.requestError(resp, err)
	}

	if err := checkResponse(resp, fmt.Sprintf("task '%s' in job '%s'", taskID, jobID)); err != nil {
		return nil, err
	}
	if response == nil {
		response = map[string]any{}
	}
	return response, nil
}

// GetCompatibility returns the CLI version range the API accepts.
func (api *CortexClient) GetCompatibility(ctx context.Context) (*compat.Compatibility, error) {
	var response compat.Compatibility

	resp, err := api.client.R().
		SetContext(ctx).
		SetPathParam("name", version.ApplicationName).
		SetResult(&response).
		Get("/v3/compatibility/applications/{name}")
	if err != nil {
		return nil, api.requestError(resp, err)
	}

	if err := checkResponse(resp, "compatibility information"); err != nil {
		return nil, err
	}
	return &response, nil
}

// requestError classifies an error returned by resty. With a status code
// the server answered and the body could not be decoded; without one the
// request never completed.
func (api *CortexClient) requestError(resp *resty.Response, err error) error {
	if resp != nil && resp.StatusCode() != 0 {
		return errdefs.API("invalid response from Cortex API at %s (status %d): %w", api.baseURL, resp.StatusCode(), err)
	}
	return errdefs.API("failed to connect to Cortex API at %s: %w", api.baseURL, err)
}

// checkResponse maps a non-2xx response to a categorized error. subject
// names what was requested, for the NotFound fallback message.
func checkResponse(resp *resty.Response, subject string) error {
	if resp.IsSuccess() {
		return nil
	}

	msg := serverMessage(resp)
	switch resp.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errdefs.Auth("not authorized (%d): %s - run 'cortex configure' to refresh your credentials",
			resp.StatusCode(), msg)
	case http.StatusNotFound:
		if msg == "" || msg == resp.Status() {
			return errdefs.NotFound("%s not found", subject)
		}
		return errdefs.NotFound("%s", msg)
	default:
		return errdefs.API("API request failed with status %d: %s", resp.StatusCode(), msg)
	}
}

// serverMessage extracts the "message" or "error" field of a JSON error
// body, falling back to the raw body or the status line.
func serverMessage(resp *resty.Response) string {
	var body map[string]any
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		for _, key := range []string{"message", "error"} {
			if s, ok := body[key].(string); ok && s != "" {
				return s
			}
		}
	}

	if raw := strings.TrimSpace(resp.String()); raw != "" {
		return raw
	}
	return resp.Status()
}
