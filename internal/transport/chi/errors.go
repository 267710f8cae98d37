package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kailas-cloud/webrag/internal/domain"
)

// ErrorCode is the machine-readable error class in API responses.
type ErrorCode string

// API error codes.
const (
	CodeBadRequest         ErrorCode = "bad_request"
	CodeUnauthorized       ErrorCode = "unauthorized"
	CodeInvalidInput       ErrorCode = "invalid_input"
	CodeNotFound           ErrorCode = "not_found"
	CodeFetchFailed        ErrorCode = "fetch_failed"
	CodeEmbeddingFailed    ErrorCode = "embedding_failed"
	CodeStoreUnavailable   ErrorCode = "store_unavailable"
	CodeCollectionMismatch ErrorCode = "collection_mismatch"
	CodeGenerationFailed   ErrorCode = "generation_failed"
	CodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

type sentinelMapping struct {
	err    error
	status int
	code   ErrorCode
}

// sentinelMappings is checked in order; the first match wins.
var sentinelMappings = []sentinelMapping{
	{domain.ErrInvalidInput, http.StatusBadRequest, CodeInvalidInput},
	{domain.ErrCollectionMismatch, http.StatusConflict, CodeCollectionMismatch},
	{domain.ErrFetch, http.StatusUnprocessableEntity, CodeFetchFailed},
	{domain.ErrEmbedding, http.StatusBadGateway, CodeEmbeddingFailed},
	{domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeEmbeddingFailed},
	{domain.ErrStoreWrite, http.StatusServiceUnavailable, CodeStoreUnavailable},
	{domain.ErrStoreRead, http.StatusServiceUnavailable, CodeStoreUnavailable},
	{domain.ErrGeneration, http.StatusBadGateway, CodeGenerationFailed},
	{domain.ErrNotFound, http.StatusNotFound, CodeNotFound},
}

func defaultErrorHandlers() []errorHandler {
	hs := make([]errorHandler, 0, len(sentinelMappings))
	for _, m := range sentinelMappings {
		hs = append(hs, sentinelHandler(m.err, m.status, m.code))
	}
	return hs
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// statusFor returns the HTTP status and code a domain error maps to.
func statusFor(err error) (int, ErrorCode) {
	for _, m := range sentinelMappings {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, CodeInternalError
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	for _, m := range sentinelMappings {
		if errors.Is(err, m.err) {
			return m.err.Error()
		}
	}
	return "internal error"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
