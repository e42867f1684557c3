package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/service"
	"github.com/aussiebroadwan/stepglobe/pkg/httpx"
	"github.com/aussiebroadwan/stepglobe/pkg/slogx"
	"github.com/aussiebroadwan/stepglobe/pkg/stepsdk"
)

// writeServiceError maps a service error onto its response. Anything the
// service layer did not classify is a 500 and gets logged.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError

	switch {
	case errors.As(err, &verr):
		stepsdk.ErrValidation.WithDetails(verr.Details).WriteError(w)
	case errors.Is(err, service.ErrValidation):
		stepsdk.ErrValidation.WriteError(w)
	case errors.Is(err, service.ErrIdentityRejected):
		stepsdk.ErrIdentityRejected.WriteError(w)
	case errors.Is(err, service.ErrIdentityExpired):
		stepsdk.ErrIdentityExpired.WriteError(w)
	case errors.Is(err, service.ErrSessionInvalid):
		stepsdk.ErrSessionInvalid.WriteError(w)
	case errors.Is(err, service.ErrAccountPending):
		stepsdk.ErrAccountPending.WriteError(w)
	case errors.Is(err, service.ErrAccessDenied):
		stepsdk.ErrAccessDenied.WriteError(w)
	case errors.Is(err, service.ErrAccountNotFound):
		stepsdk.ErrNotFound.WithDescription("account not found").WriteError(w)
	case errors.Is(err, service.ErrBackendUnavailable):
		slogx.FromContext(r.Context()).Warn("backend unavailable", "err", err)
		stepsdk.ErrBackendUnavailable.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		stepsdk.ErrServerError.WriteError(w)
	}
}

// decodeBody reads a JSON request body, answering invalid_request itself
// when it cannot.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httpx.DecodeJSON(w, r, maxJSONBody, v); err != nil {
		stepsdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
		return false
	}
	return true
}

// validate answers validation_error when details is non-empty.
func validate(w http.ResponseWriter, details map[string]string) bool {
	if len(details) > 0 {
		stepsdk.ErrValidation.WithDetails(details).WriteError(w)
		return false
	}
	return true
}

const maxJSONBody = 64 << 10
