package rendering

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/rmitchellscott/bannermaster/internal/logging"
)

// RodRenderer captures screenshots with a local headless Chrome driven by
// go-rod. The browser is launched on first use and shared by all captures.
type RodRenderer struct {
	bin string

	mu      sync.Mutex
	browser *rod.Browser
}

// NewRodRenderer creates a rod renderer. bin may be empty to let the
// launcher find or download a browser.
func NewRodRenderer(bin string) *RodRenderer {
	return &RodRenderer{bin: bin}
}

// Name identifies the backend
func (r *RodRenderer) Name() string {
	return "rod"
}

func (r *RodRenderer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	bin, err := chromeBinary(r.bin)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRasterizerUnavailable, err)
	}
	launch := launcher.New().Headless(true)
	if bin != "" {
		launch = launch.Bin(bin)
	}
	controlURL, err := launch.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: launch chrome: %v", ErrRasterizerUnavailable, err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("%w: connect to chrome: %v", ErrRasterizerUnavailable, err)
	}

	logging.InfoWithComponent(logging.ComponentExport, "Connected to local Chrome", "control_url", controlURL)
	r.browser = browser
	return browser, nil
}

// Rasterize loads the document into a fresh page sized to the banner and
// captures the viewport at the requested device scale factor.
func (r *RodRenderer) Rasterize(ctx context.Context, html string, options RasterOptions) ([]byte, error) {
	browser, err := r.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	defer page.Close()

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             options.Width,
		Height:            options.Height,
		DeviceScaleFactor: float64(options.Scale),
		Mobile:            false,
	}).Call(page); err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	if options.WaitTime > 0 {
		page = page.Timeout(options.WaitTime)
	}
	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for load: %w", err)
	}

	data, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return data, nil
}

// Close shuts the browser down
func (r *RodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.browser = nil
	return err
}

// chromeBinary resolves the browser executable: the configured path, then
// CHROMIUM_BIN or CHROME_BIN, then a Chrome already installed on the host.
// An empty result lets the launcher download a browser. An explicitly
// configured path that does not exist is an error.
func chromeBinary(configured string) (string, error) {
	for _, candidate := range []string{configured, os.Getenv("CHROMIUM_BIN"), os.Getenv("CHROME_BIN")} {
		if candidate == "" {
			continue
		}
		if _, err := os.Stat(candidate); err != nil {
			return "", fmt.Errorf("chrome binary %s not found: %w", candidate, err)
		}
		return candidate, nil
	}
	if path, found := launcher.LookPath(); found {
		return path, nil
	}
	return "", nil
}
