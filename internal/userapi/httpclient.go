package userapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Compile-time interface check.
var _ Client = (*HTTPClient)(nil)

// ErrInvalidID is returned when an update or delete targets a non-positive ID.
var ErrInvalidID = errors.New("userapi: invalid user id")

const tracerName = "github.com/dusk-indust/usercrud/internal/userapi"

// maxErrorBody caps how much of a failed response is kept in an APIError.
const maxErrorBody = 4 << 10

// HTTPClient implements the Client interface over plain HTTP/JSON.
type HTTPClient struct {
	baseURL   string
	nameField string
	http      *http.Client
	tracer    trace.Tracer
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying *http.Client entirely.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.http = hc
	}
}

// WithNameField sets the JSON key used for the name in request bodies.
func WithNameField(field string) ClientOption {
	return func(c *HTTPClient) {
		c.nameField = field
	}
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) ClientOption {
	return func(c *HTTPClient) {
		c.tracer = tp.Tracer(tracerName)
	}
}

// NewHTTPClient creates a client for the service rooted at baseURL.
// An empty baseURL falls back to DefaultBaseURL.
func NewHTTPClient(baseURL string, opts ...ClientOption) *HTTPClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	c := &HTTPClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		nameField: NameFieldName,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root the client talks to.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// List fetches the full collection with GET /.
func (c *HTTPClient) List(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, "list", http.MethodGet, c.baseURL, nil, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []User{}
	}
	return users, nil
}

// Create adds a user with POST /.
func (c *HTTPClient) Create(ctx context.Context, in UserInput) (*User, error) {
	var created User
	if err := c.do(ctx, "create", http.MethodPost, c.baseURL, in.body(c.nameField), &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces a user with PUT /{id}.
func (c *HTTPClient) Update(ctx context.Context, id int64, in UserInput) (*User, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	var updated User
	if err := c.do(ctx, "update", http.MethodPut, c.userURL(id), in.body(c.nameField), &updated); err != nil {
		return nil, err
	}
	updated.ID = id
	return &updated, nil
}

// Delete removes a user with DELETE /{id}.
func (c *HTTPClient) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	return c.do(ctx, "delete", http.MethodDelete, c.userURL(id), nil, nil)
}

func (c *HTTPClient) userURL(id int64) string {
	return c.baseURL + "/" + strconv.FormatInt(id, 10)
}

// do performs one request. A nil body sends no payload; a nil result skips
// decoding. Only list responses must decode: bodies returned by create and
// update are informational and a malformed one is ignored.
func (c *HTTPClient) do(ctx context.Context, op, method, url string, body any, result any) (err error) {
	ctx, span := c.tracer.Start(ctx, "userapi."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.full", url),
	)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("userapi: marshal %s body: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("userapi: create request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("userapi: %s: %w", op, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("userapi: read %s response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(respBody) > maxErrorBody {
			respBody = respBody[:maxErrorBody]
		}
		return &APIError{
			Op:         op,
			Method:     method,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	if result == nil || len(bytes.TrimSpace(respBody)) == 0 {
		if op == "list" {
			return fmt.Errorf("userapi: list: empty response body")
		}
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		if op == "list" {
			return fmt.Errorf("userapi: decode list response: %w", err)
		}
		return nil
	}
	return nil
}

// APIError is returned when the service answers with a non-2xx status.
type APIError struct {
	Op         string
	Method     string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("userapi: %s: HTTP %d: %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("userapi: %s: HTTP %d", e.Op, e.StatusCode)
}

// IsNotFound reports whether err is an APIError carrying HTTP 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
