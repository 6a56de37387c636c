// Package handlers implements HTTP handlers for the offerscout API.
package handlers

// ErrorResponse is the error body returned by non-huma endpoints.
type ErrorResponse struct {
	Error string `json:"error" example:"search failed"`
}

// StatusResponse is the body returned by the health probes.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}
