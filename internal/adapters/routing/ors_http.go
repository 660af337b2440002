package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"ev-route-service/internal/ports"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// maxRetryAfter caps how long a Retry-After header can stall a trip plan.
const maxRetryAfter = 10 * time.Second

// orsAPIError is a non-2xx directions response with ORS's error body decoded.
type orsAPIError struct {
	Status     int
	Code       int
	Message    string
	RetryAfter time.Duration
}

func (e *orsAPIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("ORS status %d (code %d): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("ORS status %d: %s", e.Status, e.Message)
}

func (e *orsAPIError) retryable() bool {
	switch e.Status {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// ORS sends {"error":{"code":2010,"message":"..."}} and, from its gateway,
// {"error":"..."} for quota and auth problems.
func decodeAPIError(resp *http.Response) *orsAPIError {
	apiErr := &orsAPIError{
		Status:     resp.StatusCode,
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && len(body.Error) > 0 {
		var detail struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		}
		var text string
		switch {
		case json.Unmarshal(body.Error, &detail) == nil:
			apiErr.Code, apiErr.Message = detail.Code, detail.Message
		case json.Unmarshal(body.Error, &text) == nil:
			apiErr.Message = text
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

// parseRetryAfter accepts delta-seconds or an HTTP date. Unparseable values yield 0.
func parseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}

	var d time.Duration
	if secs, err := strconv.Atoi(v); err == nil {
		d = time.Duration(secs) * time.Second
	} else if at, err := http.ParseTime(v); err == nil {
		d = at.Sub(now)
	}
	return min(max(d, 0), maxRetryAfter)
}

// postDirections sends one directions call. A 404 means ORS could not snap a
// waypoint to a road or connect them, and is reported as ports.ErrNoRoute.
func (o *ORSRouteProvider) postDirections(ctx context.Context, endpoint string, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Accept", "application/json, application/geo+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 400 {
		return resp, nil
	}
	defer resp.Body.Close()

	apiErr := decodeAPIError(resp)
	if apiErr.Status == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %w", ports.ErrNoRoute, apiErr)
	}
	return nil, apiErr
}

// postWithRetry retries network errors, 429 and 5xx with exponential backoff.
// A Retry-After longer than the current backoff is honoured.
func (o *ORSRouteProvider) postWithRetry(ctx context.Context, endpoint string, payload []byte) (*http.Response, error) {
	backoff := o.backoff
	var lastErr error

	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := o.postDirections(ctx, endpoint, payload)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		wait := backoff
		retry := false

		var apiErr *orsAPIError
		var netErr net.Error
		switch {
		case errors.Is(err, ports.ErrNoRoute):
		case errors.As(err, &apiErr):
			retry = apiErr.retryable()
			wait = max(wait, apiErr.RetryAfter)
		case errors.As(err, &netErr):
			retry = true
		}

		if !retry || attempt == o.maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}
