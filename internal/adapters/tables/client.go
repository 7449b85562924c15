// Package tables is the data-access client for the poker tables backend and
// the third-party assist service. Backend responses are decoded against the
// record schema before they are returned; nothing unchecked leaks to callers
// except from Assist, whose payloads are opaque by contract.
package tables

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/okian/pokerdesk/internal/domain/table"
	"github.com/okian/pokerdesk/pkg/logger"
	"github.com/okian/pokerdesk/pkg/metrics"
)

const (
	tablesPath      = "/api/tables"
	defaultBaseURL  = "http://localhost:8080"
	headerRequestID = "X-Request-ID"
	contentTypeJSON = "application/json"
	maxErrorBody    = 512
)

// Client issues calls to the tables backend. It holds only immutable
// configuration and is safe for concurrent use.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	timeout     time.Duration
	assistURL   string
	assistToken string
	status      StatusPolicy
	seatCheck   bool
	logger      logger.Logger
}

// New constructs a Client with default configuration.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
		status:     StatusStrict,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Discard()
	}
	return c
}

// ListSummaries fetches every table as a summary (GET /api/tables).
func (c *Client) ListSummaries(ctx context.Context) (out []table.Summary, err error) {
	const op = "tables.list"
	ctx, done := c.begin(ctx, op)
	defer func() { done(err) }()

	body, err := c.do(ctx, op, http.MethodGet, c.baseURL+tablesPath, nil, nil)
	if err != nil {
		return nil, err
	}
	out, err = table.DecodeSummaries(body)
	if err != nil {
		return nil, decodeFailure(op, err)
	}
	return out, nil
}

// Get fetches one table by id (GET /api/tables/{id}).
func (c *Client) Get(ctx context.Context, id int) (out table.Table, err error) {
	const op = "tables.get"
	ctx, done := c.begin(ctx, op)
	defer func() { done(err) }()

	url := c.baseURL + tablesPath + "/" + strconv.Itoa(id)
	body, err := c.do(ctx, op, http.MethodGet, url, nil, nil)
	if err != nil {
		return table.Table{}, err
	}
	out, err = table.DecodeTable(body, table.WithSeatCountCheck(c.seatCheck))
	if err != nil {
		return table.Table{}, decodeFailure(op, err)
	}
	return out, nil
}

// Create submits in and returns the stored table with its server-assigned id
// (POST /api/tables).
func (c *Client) Create(ctx context.Context, in table.CreateInput) (out table.Table, err error) {
	const op = "tables.create"
	ctx, done := c.begin(ctx, op)
	defer func() { done(err) }()

	payload, err := json.Marshal(in)
	if err != nil {
		return table.Table{}, fmt.Errorf("%s: encode input: %w", op, err)
	}
	header := http.Header{"Content-Type": {contentTypeJSON}}
	body, err := c.do(ctx, op, http.MethodPost, c.baseURL+tablesPath, bytes.NewReader(payload), header)
	if err != nil {
		return table.Table{}, err
	}
	out, err = table.DecodeTable(body, table.WithSeatCountCheck(c.seatCheck))
	if err != nil {
		return table.Table{}, decodeFailure(op, err)
	}
	return out, nil
}

// Assist posts payload unchanged to the assist service and returns whatever
// JSON it answers with. No shape is enforced; only non-JSON bodies fail.
func (c *Client) Assist(ctx context.Context, payload []byte) (out any, err error) {
	const op = "assist"
	ctx, done := c.begin(ctx, op)
	defer func() { done(err) }()

	if c.assistURL == "" || c.assistToken == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrAssistUnconfigured)
	}
	header := http.Header{"Authorization": {c.assistToken}}
	body, err := c.do(ctx, op, http.MethodPost, c.assistURL, bytes.NewReader(payload), header)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrParse, err)
	}
	return out, nil
}

type requestIDKey struct{}

// begin applies the client timeout, tags ctx with a request id and returns a
// completion hook that records metrics and logs the outcome.
func (c *Client) begin(ctx context.Context, op string) (context.Context, func(error)) {
	start := time.Now()
	cancel := context.CancelFunc(func() {})
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
	}
	reqID := uuid.NewString()
	ctx = context.WithValue(ctx, requestIDKey{}, reqID)

	return ctx, func(err error) {
		defer cancel()
		result := outcome(err)
		elapsed := time.Since(start)
		metrics.RecordClientRequest(op, result)
		metrics.RecordClientRequestDuration(op, result, float64(elapsed.Microseconds())/1000)
		if errors.Is(err, ErrDecode) {
			metrics.RecordDecodeFailure(op)
		}

		fields := []logger.Field{
			logger.String("op", op),
			logger.String("request_id", reqID),
			logger.String("outcome", result),
			logger.Duration("elapsed", elapsed),
		}
		if err != nil {
			c.logger.Warn(ctx, "tables call failed", append(fields, logger.Error(err))...)
			return
		}
		c.logger.Debug(ctx, "tables call completed", fields...)
	}
}

// do performs one exchange and returns the full response body. Under the
// strict policy a non-2xx status is returned as *StatusError.
func (c *Client) do(ctx context.Context, op, method, url string, body io.Reader, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w: %w", op, ErrNetwork, err)
	}
	for k, vs := range header {
		req.Header[k] = vs
	}
	req.Header.Set("Accept", contentTypeJSON)
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		req.Header.Set(headerRequestID, id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrNetwork, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error(ctx, "failed to close response body", logger.String("op", op), logger.Error(err))
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w: %w", op, ErrNetwork, err)
	}
	if c.status == StatusStrict && (resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices) {
		return nil, &StatusError{Op: op, Code: resp.StatusCode, Body: truncate(data)}
	}
	return data, nil
}

// decodeFailure wraps a schema error as ErrDecode and anything else as ErrParse.
func decodeFailure(op string, err error) error {
	var de *table.DecodeError
	if errors.As(err, &de) {
		return fmt.Errorf("%s: %w: %w", op, ErrDecode, de)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrParse, err)
}

func truncate(b []byte) string {
	if len(b) > maxErrorBody {
		return string(b[:maxErrorBody]) + "..."
	}
	return string(b)
}
