package rendering

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// BrowserlessRenderer captures screenshots using an external browserless service
type BrowserlessRenderer struct {
	client  *http.Client
	baseURL string
}

// NewBrowserlessRenderer creates a new browserless renderer
func NewBrowserlessRenderer(baseURL string, timeout time.Duration) (*BrowserlessRenderer, error) {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: BROWSERLESS_URL is required", ErrRasterizerUnavailable)
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &BrowserlessRenderer{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
	}, nil
}

// Viewport is the browserless viewport, including the device scale factor
type Viewport struct {
	Width             int `json:"width"`
	Height            int `json:"height"`
	DeviceScaleFactor int `json:"deviceScaleFactor"`
}

// HTMLScreenshotRequest represents the request payload for browserless HTML screenshot API
type HTMLScreenshotRequest struct {
	HTML     string   `json:"html"`
	Viewport Viewport `json:"viewport"`
	Options  struct {
		Type           string `json:"type"`
		FullPage       bool   `json:"fullPage"`
		OmitBackground bool   `json:"omitBackground"`
	} `json:"options"`
	GotoOptions struct {
		WaitUntil string `json:"waitUntil"`
		Timeout   int    `json:"timeout"`
	} `json:"gotoOptions"`
}

// Name identifies the backend
func (r *BrowserlessRenderer) Name() string {
	return "browserless"
}

// Rasterize renders the document to a PNG using browserless
func (r *BrowserlessRenderer) Rasterize(ctx context.Context, html string, options RasterOptions) ([]byte, error) {
	req := HTMLScreenshotRequest{
		HTML: html,
		Viewport: Viewport{
			Width:             options.Width,
			Height:            options.Height,
			DeviceScaleFactor: options.Scale,
		},
	}

	req.Options.Type = "png"
	req.Options.FullPage = false
	req.Options.OmitBackground = false

	// Web fonts come from the network; wait until it is idle
	req.GotoOptions.WaitUntil = "networkidle0"
	req.GotoOptions.Timeout = int(options.WaitTime / time.Millisecond)

	requestBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal HTML screenshot request: %w", err)
	}

	screenshotURL := fmt.Sprintf("%s/screenshot", r.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, screenshotURL, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to make request to browserless: %v", ErrRasterizerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("browserless HTML screenshot request failed with status %d: %s", resp.StatusCode, string(body))
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read browserless response: %w", err)
	}

	return imageData, nil
}

// Close cleans up the renderer (no-op for browserless)
func (r *BrowserlessRenderer) Close() error {
	return nil
}
