package logging

// Component names attached to every structured log line as the "component" attribute.
const (
	ComponentStartup  = "startup"
	ComponentDatabase = "database"
	ComponentEditor   = "editor"
	ComponentPreview  = "preview"
	ComponentPollers  = "pollers"
	ComponentUploads  = "uploads"
	ComponentBanners  = "banners"
	ComponentDocument = "document"
	ComponentExport   = "export"
	ComponentSSE      = "sse"
	ComponentCache    = "cache"
)
