package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/GregMSThompson/household-finance/internal/errs"
)

// decodeJSON reads the request body into v. Malformed JSON is a client
// error; an empty body is one only when required is set.
func decodeJSON(r *http.Request, v any, required bool) error {
	err := json.NewDecoder(r.Body).Decode(v)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF) && !required:
		return nil
	case errors.Is(err, io.EOF):
		return errs.NewValidationError("request body is required")
	default:
		return errs.NewValidationError("invalid JSON body: " + err.Error())
	}
}

// queryParam returns nil for an absent or blank parameter.
func queryParam(r *http.Request, key string) *string {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil
	}
	return &v
}

func queryInt(r *http.Request, key string) (int, error) {
	v := queryParam(r, key)
	if v == nil {
		return 0, nil
	}
	n, err := strconv.Atoi(*v)
	if err != nil {
		return 0, errs.NewValidationError(key + " must be a number")
	}
	return n, nil
}

// queryBool accepts the strconv.ParseBool spellings; absent means false.
func queryBool(r *http.Request, key string) (bool, error) {
	v := queryParam(r, key)
	if v == nil {
		return false, nil
	}
	b, err := strconv.ParseBool(*v)
	if err != nil {
		return false, errs.NewValidationError(key + " must be true or false")
	}
	return b, nil
}
