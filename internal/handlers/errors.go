package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusFor maps a service error onto an HTTP status. integrityStatus is
// used for ledger integrity failures, which mean different things to a
// writer (the accounts are locked) and a reader (the data is broken).
func statusFor(err error, integrityStatus int) int {
	switch {
	case errors.Is(err, apperrors.ErrIntegrity):
		return integrityStatus
	case errors.Is(err, apperrors.ErrDivisionByZero):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error, action string) {
	respondErrorWithIntegrity(c, err, action, http.StatusInternalServerError)
}

func respondErrorWithIntegrity(c *gin.Context, err error, action string, integrityStatus int) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusFor(err, integrityStatus)
	code := apperrors.Code(err)
	if errors.Is(err, context.DeadlineExceeded) {
		code = "TIMEOUT"
	}

	message := err.Error()
	if status >= http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.String("error", err.Error()), slog.String("code", code))
		if !errors.Is(err, apperrors.ErrIntegrity) {
			message = "Failed to " + action
		}
	} else {
		logger.Warn("Rejected request to "+action, slog.String("error", err.Error()), slog.String("code", code))
	}
	c.JSON(status, errorResponse{Error: message, Code: code})
}

// respondBindError reports a request that failed binding. Amount and entry
// shape failures keep their ledger error codes.
func respondBindError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Warn("Failed to bind request", slog.String("error", err.Error()))

	code := apperrors.Code(apperrors.ErrValidation)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Tag() {
		case "money":
			code = apperrors.Code(apperrors.ErrInvalidAmount)
		case "entrytype":
			code = apperrors.Code(apperrors.ErrInvalidEntry)
		case "min":
			if verrs[0].Field() == "Entries" {
				code = apperrors.Code(apperrors.ErrInvalidEntry)
			}
		}
	}
	c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request: " + err.Error(), Code: code})
}
