package data

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"walkforward-ensemble/internal/model"
)

// ReturnsClient fetches daily per-asset return (and turnover) matrices
// from a matrix-serving HTTP API. Requests are rate limited and retried
// with exponential backoff; auth errors are not retried.
type ReturnsClient struct {
	APIKey  string
	BaseURL string

	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewReturnsClient builds a client. baseURL defaults to the public API.
func NewReturnsClient(apiKey, baseURL string, logger zerolog.Logger) *ReturnsClient {
	if baseURL == "" {
		baseURL = "https://api.returnsmatrix.io"
	}
	return &ReturnsClient{
		APIKey:  apiKey,
		BaseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
		logger:  logger.With().Str("component", "returns_client").Logger(),
	}
}

// QueryParams selects a matrix slice.
type QueryParams struct {
	DatasetID string // e.g. "futures_daily_pnl"
	Field     string // "returns" or "turnover"
	StartDate time.Time
	EndDate   time.Time
}

// APIError is a non-200 response from the matrix API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string
}

func (e *APIError) Error() string { return e.Message }

// permanent reports whether retrying the request cannot help.
func (e *APIError) permanent() bool {
	return e.StatusCode == http.StatusUnauthorized ||
		e.StatusCode == http.StatusForbidden ||
		e.StatusCode == http.StatusNotFound ||
		e.StatusCode == http.StatusBadRequest
}

type matrixResponse struct {
	StatusCode int      `json:"status_code"`
	Columns    []string `json:"columns"`
	Rows       []struct {
		Date   string    `json:"date"`
		Values []float64 `json:"values"`
	} `json:"rows"`
}

// QueryFrame fetches one matrix and converts it to a Frame.
func (c *ReturnsClient) QueryFrame(ctx context.Context, params QueryParams) (*model.Frame, error) {
	if c.APIKey == "" {
		return nil, &APIError{StatusCode: http.StatusUnauthorized, Code: "MISSING_API_KEY", Message: "API key is required"}
	}
	if params.DatasetID == "" {
		return nil, fmt.Errorf("dataset_id is required")
	}
	if params.StartDate.IsZero() || params.EndDate.IsZero() {
		return nil, fmt.Errorf("start_date and end_date are required")
	}
	if params.StartDate.After(params.EndDate) {
		return nil, fmt.Errorf("start_date must be before end_date")
	}
	field := params.Field
	if field == "" {
		field = "returns"
	}

	u, err := url.Parse(fmt.Sprintf("%s/v1/datasets/%s/%s", c.BaseURL, params.DatasetID, field))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("start_date", params.StartDate.Format(dateLayout))
	q.Set("end_date", params.EndDate.Format(dateLayout))
	u.RawQuery = q.Encode()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	c.logger.Debug().
		Str("dataset", params.DatasetID).
		Str("field", field).
		Str("start", q.Get("start_date")).
		Str("end", q.Get("end_date")).
		Msg("fetching matrix")

	var decoded matrixResponse
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("x-api-key", c.APIKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			apiErr := &APIError{
				StatusCode: resp.StatusCode,
				Code:       codeFor(resp.StatusCode),
				Message:    fmt.Sprintf("matrix API returned %d: %s", resp.StatusCode, resp.Status),
				RetryAfter: resp.Header.Get("Retry-After"),
			}
			if apiErr.permanent() {
				return backoff.Permanent(apiErr)
			}
			return apiErr
		}
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return backoff.Permanent(fmt.Errorf("decoding response: %w", err))
		}
		return nil
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(strategy, ctx)); err != nil {
		c.logger.Error().Err(err).Str("dataset", params.DatasetID).Msg("matrix fetch failed")
		return nil, err
	}

	dates := make([]time.Time, len(decoded.Rows))
	values := make([][]float64, len(decoded.Rows))
	for i, row := range decoded.Rows {
		d, err := time.Parse(dateLayout, row.Date)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad date %q: %w", i, row.Date, err)
		}
		dates[i] = d.UTC()
		values[i] = row.Values
	}
	frame, err := model.NewFrame(dates, decoded.Columns, values)
	if err != nil {
		return nil, fmt.Errorf("matrix response malformed: %w", err)
	}
	c.logger.Info().
		Str("dataset", params.DatasetID).
		Str("field", field).
		Int("rows", frame.Rows()).
		Int("columns", len(frame.Columns)).
		Msg("matrix fetched")
	return frame, nil
}

func codeFor(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "INVALID_API_KEY"
	case http.StatusNotFound:
		return "DATASET_NOT_FOUND"
	case http.StatusTooManyRequests:
		return "RATE_LIMIT_EXCEEDED"
	default:
		return "API_ERROR"
	}
}
