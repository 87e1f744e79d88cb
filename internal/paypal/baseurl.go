// Package paypal implements the transaction listing client: OAuth token
// acquisition, the windowed fetcher that chunks a time range into 31-day
// sub-windows, and pagination against the reporting endpoint.
package paypal

import "strings"

const (
	sandboxBaseURL = "https://api-m.sandbox.paypal.com"
	liveBaseURL    = "https://api-m.paypal.com"
)

// BaseURL resolves the API base URL for a configured environment.
// Anything other than "live" resolves to sandbox.
func BaseURL(env string) string {
	if strings.ToLower(strings.TrimSpace(env)) == "live" {
		return liveBaseURL
	}
	return sandboxBaseURL
}
