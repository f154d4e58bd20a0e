package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/aalekhpatel07/text-cleaner/internal/pkg/errors"
)

// maxBodyBytes caps request bodies; per-text limits are enforced by the
// cleaning service.
const maxBodyBytes = 32 << 20

type errorResponse struct {
	Code    apperrors.ErrorCode `json:"code"`
	Message string              `json:"message"`
	Details map[string]any      `json:"details,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(data)
}

// respondError renders err as an AppError. Anything that is not one is
// logged and reported as an internal error.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperrors.GetAppError(err)
	if !ok {
		appErr = apperrors.InternalWrap(err, "internal error")
	}
	if appErr.StatusCode >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			slog.String("path", r.URL.Path),
			slog.String("code", string(appErr.Code)),
			slog.Any("error", err))
	}
	s.respondJSON(w, appErr.StatusCode, errorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	})
}

// decode reads a JSON body into dst and validates it.
func (s *Server) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.BadRequest("request body is required")
		}
		return apperrors.BadRequest(fmt.Sprintf("invalid request body: %v", err))
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return apperrors.BadRequest(err.Error())
		}
		fields := make(map[string]any, len(verrs))
		msgs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			field := jsonField(e.Namespace())
			fields[field] = e.Tag()
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, e.Tag()))
		}
		return apperrors.BadRequest("validation failed: "+strings.Join(msgs, ", ")).
			WithDetails("fields", fields)
	}
	return nil
}

// jsonField turns "jobRequest.texts[0]" into "texts[0]".
func jsonField(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
