// Package device implements the HTTP client for the RebarVista analysis
// device. The device owns capture, detection and volume computation; this
// client only reads results and issues commands over its JSON API:
//
//	GET  /api/latest_data        latest capture summary
//	GET  /api/latest_image       processed image (base64 JPEG)
//	POST /api/trigger_capture    start a capture + analysis run
//	GET  /api/get_config         detection threshold + camera flag
//	POST /api/set_config         update configuration
//	GET  /api/connection_status  liveness probe
//
// Failures fall into two kinds: transport errors (returned as-is, the
// caller treats the device as disconnected) and remote-reported errors
// (an "error" field in the response body, surfaced as *DeviceError with
// the device's message verbatim).
package device

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DeviceError is a failure reported by the device itself, as opposed to
// a transport failure. The message is shown to the user unmodified.
type DeviceError struct {
	Message string
}

func (e *DeviceError) Error() string { return e.Message }

// ErrNoImage indicates the device has no processed image for the
// current session.
var ErrNoImage = errors.New("no image available")

// Client talks to a single analysis device.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a device client for the given base URL.
// A zero timeout disables the per-request bound.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the device base URL the client was created with.
func (c *Client) BaseURL() string { return c.baseURL }

// LatestData fetches the summary of the most recent capture session.
func (c *Client) LatestData(ctx context.Context) (*LatestData, error) {
	var data LatestData
	if err := c.getJSON(ctx, "/api/latest_data", &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// LatestImage fetches the processed image for the current session and
// decodes it from base64 to raw JPEG bytes. Returns ErrNoImage when the
// device has no image.
func (c *Client) LatestImage(ctx context.Context) ([]byte, error) {
	var payload struct {
		Image string `json:"image"`
	}
	if err := c.getJSON(ctx, "/api/latest_image", &payload); err != nil {
		return nil, err
	}
	if payload.Image == "" {
		return nil, ErrNoImage
	}

	img, err := base64.StdEncoding.DecodeString(payload.Image)
	if err != nil {
		return nil, fmt.Errorf("decoding image payload: %w", err)
	}
	return img, nil
}

// TriggerCapture asks the device to capture and analyze a new image.
// The result is produced asynchronously; a nil error only means the
// command was accepted.
func (c *Client) TriggerCapture(ctx context.Context) error {
	return c.postJSON(ctx, "/api/trigger_capture", nil, nil)
}

// GetConfig reads the device configuration.
func (c *Client) GetConfig(ctx context.Context) (*Settings, error) {
	var s Settings
	if err := c.getJSON(ctx, "/api/get_config", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SetConfig writes the device configuration. The detection threshold is
// normalized onto the device's accepted grid before sending.
func (c *Client) SetConfig(ctx context.Context, s Settings) error {
	s.DetectionThreshold = NormalizeThreshold(s.DetectionThreshold)
	return c.postJSON(ctx, "/api/set_config", s, nil)
}

// ConnectionStatus probes device liveness.
func (c *Client) ConnectionStatus(ctx context.Context) (bool, error) {
	var payload struct {
		Connected bool `json:"connected"`
	}
	if err := c.getJSON(ctx, "/api/connection_status", &payload); err != nil {
		return false, err
	}
	return payload.Connected, nil
}

// ── transport ──

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request for %s: %w", path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

// do executes a request and decodes the JSON response. A response whose
// body carries an "error" field is a remote-reported failure regardless
// of status code, matching the device's Flask-style error convention.
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("device request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return fmt.Errorf("reading device response: %w", err)
	}

	var probe struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &probe) == nil && probe.Error != "" {
		return &DeviceError{Message: probe.Error}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("device returned HTTP %d for %s", resp.StatusCode, req.URL.Path)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding device response: %w", err)
	}
	return nil
}
