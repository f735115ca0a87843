package rendering

import (
	"fmt"
	"time"
)

// Backend names accepted by New.
const (
	BackendBrowserless = "browserless"
	BackendRod         = "rod"
	BackendNone        = "none"
)

// New builds the rasterizer selected by backend.
func New(backend, browserlessURL, chromeBin string, timeout time.Duration) (Rasterizer, error) {
	switch backend {
	case BackendBrowserless, "":
		return NewBrowserlessRenderer(browserlessURL, timeout)
	case BackendRod:
		return NewRodRenderer(chromeBin), nil
	case BackendNone:
		return Unavailable(), nil
	default:
		return nil, fmt.Errorf("unknown raster backend %q", backend)
	}
}
