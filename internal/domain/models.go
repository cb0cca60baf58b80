// Package domain contains the types shared by the sync entry points.
package domain

// Result describes what a sync run did.
type Result struct {
	// Destination is the directory locale files are written to.
	Destination string `json:"path"`
	// Locales lists the locale files written, in completion order.
	Locales []string `json:"locales"`
	// Skipped is set when the sync is disabled by configuration.
	Skipped bool `json:"skipped,omitempty"`
}

// SyncRequest is the Lambda event. Set fields override the function's
// environment configuration for this run.
type SyncRequest struct {
	Locale   string   `json:"locale,omitempty"`
	Filter   []string `json:"filter,omitempty"`
	Fallback string   `json:"fallback,omitempty"`
}

// SyncResponse is returned by the Lambda.
type SyncResponse struct {
	Result
	Error string `json:"error,omitempty"`
}
