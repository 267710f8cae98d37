package sdk

import "fmt"

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
	// Results is set when a fail-fast ingestion was aborted.
	Results []URLResult `json:"results,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("webrag api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("webrag api: status %d: %s: %s", e.StatusCode, e.Code, e.Message)
}
