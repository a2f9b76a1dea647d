package response

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Brooklss/Tech-EcoLab/internal/errors"
	"github.com/Brooklss/Tech-EcoLab/internal/models"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error        string                 `json:"error"`
	Code         string                 `json:"code"`
	Details      []string               `json:"details,omitempty"`
	Insufficient []models.StockShortage `json:"insufficient,omitempty"`
	RetryAfter   int                    `json:"retry_after,omitempty"`
}

func WriteJson(w http.ResponseWriter, statusCode int, data any) error {

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, statusCode int, data any) {
	if err := WriteJson(w, statusCode, data); err != nil {
		slog.Error("Failed to encode response", slog.String("error", err.Error()))
	}
}

func Error(w http.ResponseWriter, err error) {

	var statusCode int
	var errorResponse ErrorResponse

	if appErr, ok := errors.IsAppError(err); ok {
		statusCode = appErr.StatusCode
		errorResponse = ErrorResponse{
			Error:        appErr.Message,
			Code:         appErr.Code,
			Insufficient: appErr.Shortages,
			RetryAfter:   appErr.RetryAfter,
		}

		if appErr.Detail != "" {
			errorResponse.Details = []string{appErr.Detail}
		}

		if appErr.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(appErr.RetryAfter))
		}

	} else {

		statusCode = http.StatusInternalServerError
		errorResponse = ErrorResponse{
			Error: "An unexpected error occurred",
			Code:  errors.ErrCodeInternal,
		}

	}

	Success(w, statusCode, errorResponse)
}

// ValidationError writes one message per failed field.
func ValidationError(w http.ResponseWriter, errs validator.ValidationErrors) {

	var errMsgs []string

	for _, err := range errs {

		var message string

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("Field %s is required", err.Field())
		case "min":
			message = fmt.Sprintf("Field %s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("Field %s must be at most %s", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("Field %s must be greater than %s", err.Field(), err.Param())
		case "gte":
			message = fmt.Sprintf("Field %s must be greater than or equal to %s", err.Field(), err.Param())
		default:
			message = fmt.Sprintf("Field %s is invalid: %s=%s", err.Field(), err.Tag(), err.Param())
		}

		errMsgs = append(errMsgs, message)

	}

	Success(w, http.StatusBadRequest, ErrorResponse{
		Error:   "Validation failed",
		Code:    errors.ErrCodeValidation,
		Details: errMsgs,
	})

}
