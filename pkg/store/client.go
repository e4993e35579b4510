package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Client talks to the remote reservation REST API. It is cheap to construct;
// handlers build one per request with the caller's token.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	Token      string
}

// APIError is returned for any non-2xx response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("store api error: status=%d body=%s", e.Status, e.Body)
	}
	return fmt.Sprintf("store api error: status=%d", e.Status)
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

func IsRejected(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest
}

func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden)
}

func (c Client) doJSON(ctx context.Context, method, path string, query url.Values, reqBody any, respBody any) (int, error) {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 20 * time.Second}
	}
	if c.BaseURL == "" {
		return 0, fmt.Errorf("missing store base url")
	}

	var body io.Reader
	if reqBody != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
			return 0, err
		}
		body = &buf
	}

	u := strings.TrimRight(c.BaseURL, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Token "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	b, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return resp.StatusCode, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if respBody != nil && len(b) > 0 {
		if err := json.Unmarshal(b, respBody); err != nil {
			return resp.StatusCode, fmt.Errorf("decode store response failed: %w body=%s", err, string(b))
		}
	}

	return resp.StatusCode, nil
}

// listRaw fetches a collection and unwraps paginated envelopes
// ({"count":..,"results":[...]}) so callers always decode a bare array.
func (c Client) listRaw(ctx context.Context, path string, query url.Values) ([]byte, error) {
	var raw json.RawMessage
	if _, err := c.doJSON(ctx, http.MethodGet, path, query, nil, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []byte("[]"), nil
	}
	res := gjson.ParseBytes(raw)
	switch {
	case res.IsArray():
		return raw, nil
	case res.IsObject() && res.Get("results").IsArray():
		return []byte(res.Get("results").Raw), nil
	case res.Type == gjson.Null:
		return []byte("[]"), nil
	}
	return nil, fmt.Errorf("unexpected list shape from %s", path)
}

func decodeList[T any](ctx context.Context, c Client, path string, query url.Values) ([]T, error) {
	raw, err := c.listRaw(ctx, path, query)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}
