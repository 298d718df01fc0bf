package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/nullable"
	"go.uber.org/zap"

	"github.com/tripmatch-app/tripmatch-api/internal/app/moderation"
	"github.com/tripmatch-app/tripmatch-api/internal/app/trips"
)

// ErrorResponse is the wire envelope for every non-2xx response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code      string                            `json:"code"`
	Message   string                            `json:"message"`
	Details   nullable.Nullable[map[string]any] `json:"details,omitempty"`
	RequestId nullable.Nullable[string]         `json:"requestId,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, message string, details map[string]any) {
	var er ErrorResponse
	er.Error.Code = code
	er.Error.Message = message
	if details != nil {
		er.Error.Details = nullable.NewNullableWithValue(details)
	}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		er.Error.RequestId = nullable.NewNullableWithValue(rid)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(er)
}

// writeAppError maps application-layer errors to the envelope. Anything that
// is not a typed app error is logged and answered with the generic 500.
func writeAppError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	var te *trips.Error
	if errors.As(err, &te) {
		writeError(w, r, te.Status, te.Code, te.Message, te.Details)
		return
	}
	var me *moderation.Error
	if errors.As(err, &me) {
		writeError(w, r, me.Status, me.Code, me.Message, me.Details)
		return
	}
	log.Error("unhandled error", zap.String("path", r.URL.Path), zap.Error(err))
	writeError(w, r, http.StatusInternalServerError, "STORAGE_UNAVAILABLE", "Something went wrong. Please try again.", nil)
}
