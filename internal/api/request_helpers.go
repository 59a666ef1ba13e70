package api

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/passgate/internal/api/shared"
	"github.com/phrazzld/passgate/internal/domain"
)

// decodeAndValidate decodes a JSON body into v and validates it. It writes
// a 400 response and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		if errors.Is(err, shared.ErrEmptyBody) {
			HandleAPIError(w, r, err, "")
			return false
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}

	if err := shared.ValidateRequest(v); err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}

	return true
}

// isJSONRequest reports whether the request declares a JSON body.
func isJSONRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// decodeLoginRequest reads credentials from an OAuth2 password form, or from
// a JSON body when the request declares one. It writes a 400 response and
// returns false on failure.
func decodeLoginRequest(w http.ResponseWriter, r *http.Request) (LoginRequest, bool) {
	var req LoginRequest

	if isJSONRequest(r) {
		return req, decodeAndValidate(w, r, &req)
	}

	r.Body = http.MaxBytesReader(w, r.Body, shared.MaxRequestBodyBytes)
	if err := r.ParseForm(); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return req, false
	}
	req.Username = r.PostForm.Get("username")
	req.Password = r.PostForm.Get("password")

	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return req, false
	}
	return req, true
}

// getPathInt extracts a signed 64-bit integer path parameter.
func getPathInt(r *http.Request, paramName string) (int64, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, domain.NewValidationError(paramName, "is required", nil)
	}

	n, err := strconv.ParseInt(pathParam, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return 0, domain.NewValidationError(paramName, "is out of range for a 64-bit integer", err)
	}
	if err != nil {
		return 0, domain.NewValidationError(paramName, "must be an integer", err)
	}
	return n, nil
}
