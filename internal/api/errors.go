package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/openwager/engine/internal/wager"
)

// domainStatus maps a domain sentinel to its HTTP status and error
// type. Unknown errors fall through to 500/internal_error.
func domainStatus(err error) (int, string) {
	switch {
	case errors.Is(err, wager.ErrInvalidParameters):
		return http.StatusBadRequest, ErrTypeInvalidParams
	case errors.Is(err, wager.ErrInsufficientBalance):
		return http.StatusConflict, ErrTypeInsufficientBalance
	case errors.Is(err, wager.ErrActiveWagerExists):
		return http.StatusConflict, ErrTypeActiveWagerExists
	case errors.Is(err, wager.ErrWagerNotFound):
		return http.StatusNotFound, ErrTypeWagerNotFound
	case errors.Is(err, wager.ErrWagerInactive):
		return http.StatusConflict, ErrTypeWagerInactive
	case errors.Is(err, wager.ErrSeedNotYetRevealed):
		return http.StatusForbidden, ErrTypeSeedNotRevealed
	case errors.Is(err, wager.ErrSeedNotFound):
		return http.StatusNotFound, ErrTypeSeedNotFound
	case errors.Is(err, wager.ErrUserNotFound):
		return http.StatusNotFound, ErrTypeUserNotFound
	case errors.Is(err, wager.ErrStorageTimeout):
		return http.StatusServiceUnavailable, ErrTypeTimeout
	case errors.Is(err, wager.ErrStorageConflict):
		return http.StatusServiceUnavailable, ErrTypeServiceUnavailable
	default:
		return http.StatusInternalServerError, ErrTypeInternal
	}
}

// ErrorHandler provides centralized error handling with logging
type ErrorHandler struct {
	logger *log.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *log.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleDomainError maps err onto the wire envelope and logs it.
func (eh *ErrorHandler) HandleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, errType := domainStatus(err)
	eh.write(w, r, status, EngineError{
		Type:    errType,
		Message: err.Error(),
	})
}

// HandleValidationError handles request decoding failures.
func (eh *ErrorHandler) HandleValidationError(w http.ResponseWriter, r *http.Request, field, message string) {
	eh.write(w, r, http.StatusBadRequest, EngineError{
		Type:    ErrTypeValidation,
		Message: "Validation failed: " + message,
		Context: map[string]any{"field": field},
	})
}

func (eh *ErrorHandler) write(w http.ResponseWriter, r *http.Request, status int, engineErr EngineError) {
	engineErr.RequestID = middleware.GetReqID(r.Context())
	engineErr.Timestamp = time.Now().UTC().Format(time.RFC3339)
	if engineErr.Context == nil {
		engineErr.Context = map[string]any{}
	}
	engineErr.Context["path"] = r.URL.Path
	engineErr.Context["method"] = r.Method

	level := "ERROR"
	if status < 500 {
		level = "WARN"
	}
	eh.logger.Printf(
		"error_occurred level=%s type=%s category=%s status=%d request_id=%s path=%s message=%q",
		level, engineErr.Type, GetErrorCategory(engineErr.Type), status, engineErr.RequestID, r.URL.Path, engineErr.Message,
	)

	writeErrorResponse(w, status, engineErr)
}

// RecoveryHandler provides panic recovery with structured error logging
func (eh *ErrorHandler) RecoveryHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				requestID := middleware.GetReqID(r.Context())
				eh.logger.Printf(
					"panic_recovered request_id=%s path=%s method=%s panic=%v",
					requestID, r.URL.Path, r.Method, rvr,
				)
				writeErrorResponse(w, http.StatusInternalServerError, EngineError{
					Type:      ErrTypeInternal,
					Message:   "Internal server error",
					RequestID: requestID,
					Timestamp: time.Now().UTC().Format(time.RFC3339),
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
