package studentapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/acharya/acharya/internal/domain/shared"
	"github.com/acharya/acharya/internal/domain/student"
	"github.com/acharya/acharya/pkg/logger"
)

// DefaultBasePath is the resource path the backend serves students under.
const DefaultBasePath = "/api/students"

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the student API client.
type ClientConfig struct {
	// BaseURL is the backend origin, e.g. http://localhost:8080
	BaseURL string

	// BasePath is the resource path, DefaultBasePath when empty
	BasePath string

	// APIKey is sent as a bearer token when set
	APIKey string

	// HTTPClient overrides the transport. The default client has no timeout;
	// deadlines come from the caller's context.
	HTTPClient *http.Client

	// Logger for structured logging
	Logger *slog.Logger
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL:  baseURL,
		BasePath: DefaultBasePath,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error: status %d", e.StatusCode)
}

// Unwrap maps the status code onto the shared error kinds.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return shared.ErrNotFound
	case e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity:
		return shared.ErrValidation
	case e.StatusCode == http.StatusConflict:
		return shared.ErrAlreadyExists
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return shared.ErrUnauthorized
	case e.StatusCode >= 500:
		return shared.ErrServiceUnavailable
	default:
		return shared.ErrExternalService
	}
}

// ErrInvalidBaseURL is returned by NewClient for a base URL without scheme or host.
var ErrInvalidBaseURL = errors.New("studentapi: base url must be absolute")

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the student API client. It is stateless and safe for concurrent use.
// There is no retry, timeout or backoff: a transport error reaches the caller as-is.
type Client struct {
	config     ClientConfig
	root       string
	httpClient *http.Client
	logger     *slog.Logger
	mapper     *Mapper
}

var _ student.API = (*Client)(nil)

// NewClient creates a new student API client.
func NewClient(config ClientConfig) (*Client, error) {
	u, err := url.Parse(config.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, config.BaseURL)
	}
	if config.BasePath == "" {
		config.BasePath = DefaultBasePath
	}
	if !strings.HasPrefix(config.BasePath, "/") {
		config.BasePath = "/" + config.BasePath
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{}
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Client{
		config:     config,
		root:       strings.TrimRight(config.BaseURL, "/") + strings.TrimRight(config.BasePath, "/"),
		httpClient: config.HTTPClient,
		logger:     config.Logger.With(logger.Component("studentapi")),
		mapper:     NewMapper(),
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// List fetches every student.
func (c *Client) List(ctx context.Context) ([]student.Student, error) {
	var dtos []StudentDTO
	if _, err := c.doRequest(ctx, http.MethodGet, "", nil, &dtos); err != nil {
		return nil, err
	}
	return c.mapper.StudentsFromDTOs(dtos), nil
}

// GetByID fetches a single student.
func (c *Client) GetByID(ctx context.Context, id string) (*student.Student, error) {
	return c.single(ctx, http.MethodGet, idPath(id), nil)
}

// Create registers a new student. The id is never sent.
func (c *Client) Create(ctx context.Context, s student.Student) (*student.Student, error) {
	dto := c.mapper.StudentToDTO(s)
	dto.ID = ""
	return c.single(ctx, http.MethodPost, "", dto)
}

// Update replaces the student with the given id.
func (c *Client) Update(ctx context.Context, id string, s student.Student) (*student.Student, error) {
	return c.single(ctx, http.MethodPut, idPath(id), c.mapper.StudentToDTO(s))
}

// Delete removes the student with the given id.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, idPath(id), nil, nil)
	return err
}

// Search runs the backend's search endpoint.
func (c *Client) Search(ctx context.Context, query string) ([]student.Student, error) {
	var dtos []StudentDTO
	if _, err := c.doRequest(ctx, http.MethodGet, "/search?q="+EncodeURIComponent(query), nil, &dtos); err != nil {
		return nil, err
	}
	return c.mapper.StudentsFromDTOs(dtos), nil
}

func (c *Client) single(ctx context.Context, method, path string, body any) (*student.Student, error) {
	var dto StudentDTO
	empty, err := c.doRequest(ctx, method, path, body, &dto)
	if err != nil {
		return nil, err
	}
	if empty {
		return nil, nil
	}
	s := c.mapper.StudentFromDTO(dto)
	return &s, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HTTP REQUEST HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// doRequest performs exactly one HTTP request. It reports whether the
// response body was empty or JSON null; result is left untouched in that case.
func (c *Client) doRequest(ctx context.Context, method, path string, body any, result any) (bool, error) {
	fullURL := c.root + path

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return false, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("student api request failed",
			slog.String("method", method),
			slog.String("url", fullURL),
			logger.RequestID(requestID),
			logger.Err(err),
		)
		return false, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("student api request",
		slog.String("method", method),
		slog.String("url", fullURL),
		logger.StatusCode(resp.StatusCode),
		logger.Latency(time.Since(start)),
		logger.RequestID(requestID),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, newAPIError(resp.StatusCode, respBody, requestID)
	}

	if trimmed := bytes.TrimSpace(respBody); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return true, nil
	}
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return false, fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return false, nil
}

func newAPIError(status int, body []byte, requestID string) *APIError {
	apiErr := &APIError{StatusCode: status, RequestID: requestID}

	var dto ErrorDTO
	isJSON := json.Unmarshal(body, &dto) == nil
	if isJSON && dto.Text() != "" {
		apiErr.Message = dto.Text()
		return apiErr
	}

	text := strings.TrimSpace(string(body))
	if !isJSON && text != "" && len(text) <= 200 && !strings.HasPrefix(text, "<") {
		apiErr.Message = text
	} else {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

func idPath(id string) string {
	return "/" + url.PathEscape(id)
}

// uriComponentUnescaper restores the characters encodeURIComponent leaves
// alone but url.QueryEscape encodes.
var uriComponentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent percent-encodes s for use as a query value the way
// encodeURIComponent does: spaces become %20 and !'()* stay literal.
func EncodeURIComponent(s string) string {
	return uriComponentUnescaper.Replace(url.QueryEscape(s))
}
