// Package query issues range queries against a Prometheus-compatible
// backend and validates the response envelope.
package query

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"rtlwatch/internal/config"
	"rtlwatch/internal/logger"
	"rtlwatch/internal/models"
)

// TransportError reports a non-2xx HTTP response from the backend
type TransportError struct {
	StatusCode int
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend returned HTTP %d", e.StatusCode)
}

// BackendError reports a decoded envelope whose status is not "success"
type BackendError struct {
	Status    string
	ErrorText string
}

func (e *BackendError) Error() string {
	if e.ErrorText != "" {
		return fmt.Sprintf("backend status %q: %s", e.Status, e.ErrorText)
	}
	return fmt.Sprintf("backend status %q", e.Status)
}

// envelope mirrors the query_range response body
type envelope struct {
	Status    string `json:"status"`
	ErrorText string `json:"error"`
	Data      struct {
		ResultType string `json:"resultType"`
		Result     []struct {
			Metric map[string]string `json:"metric"`
			Values [][]interface{}   `json:"values"`
		} `json:"result"`
	} `json:"data"`
}

// Client fetches range query results. One request per call, no retry and
// no caching; scheduling and error recovery belong to the caller.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// NewClient creates a range query client for the given base URL
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     logger.Default().WithComponent("query"),
	}
}

// FetchRange issues one query_range request and returns the raw labeled
// series untouched, ready for merging. Non-2xx responses surface as
// *TransportError, envelope failures as *BackendError.
func (c *Client) FetchRange(ctx context.Context, q models.RangeQuery) ([]models.RawSeries, error) {
	params := url.Values{}
	params.Set("query", q.Query)
	params.Set("start", strconv.FormatInt(q.StartSec, 10))
	params.Set("end", strconv.FormatInt(q.EndSec, 10))
	params.Set("step", strconv.FormatInt(q.StepSec, 10))

	endpoint := c.baseURL + "/api/v1/query_range?" + params.Encode()

	started := time.Now()
	outcome := "success"
	defer func() {
		config.BackendQueriesTotal.WithLabelValues(outcome).Inc()
		config.BackendQueryDuration.WithLabelValues(outcome).Observe(time.Since(started).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		outcome = "request_error"
		return nil, fmt.Errorf("building range request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		outcome = "transport_error"
		return nil, fmt.Errorf("querying backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome = "transport_error"
		c.log.Warn("Backend returned non-success status", "status", resp.StatusCode, "query", q.Query)
		return nil, &TransportError{StatusCode: resp.StatusCode}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		outcome = "decode_error"
		return nil, fmt.Errorf("decoding range response: %w", err)
	}

	if env.Status != "success" {
		outcome = "backend_error"
		c.log.Warn("Backend rejected query", "status", env.Status, "error", env.ErrorText)
		return nil, &BackendError{Status: env.Status, ErrorText: env.ErrorText}
	}

	series := make([]models.RawSeries, 0, len(env.Data.Result))
	for _, r := range env.Data.Result {
		s := models.RawSeries{
			Labels:  r.Metric,
			Samples: make([]models.RawSample, 0, len(r.Values)),
		}
		for _, pair := range r.Values {
			if len(pair) != 2 {
				continue
			}
			s.Samples = append(s.Samples, models.RawSample{
				TimestampSec: coerceTimestamp(pair[0]),
				Value:        coerceValue(pair[1]),
			})
		}
		series = append(series, s)
	}

	c.log.WithRange(q.StartSec, q.EndSec, q.StepSec).Debug("Range query complete",
		"series", len(series),
	)
	return series, nil
}

// coerceTimestamp accepts the wire timestamp as JSON number or string.
// Anything unparsable becomes NaN and is dropped at the merge step.
func coerceTimestamp(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// coerceValue keeps the wire value stringly; the merge step owns parsing
func coerceValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
