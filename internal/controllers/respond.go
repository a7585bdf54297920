package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/helpify-project/messageboard/internal/apierrors"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logger(r).Debug("failed to write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apierrors.StatusFromError(err)
	if status >= http.StatusInternalServerError {
		logger(r).Error("request failed", zap.Error(err))
	} else {
		logger(r).Debug("request rejected", zap.Int("status", status), zap.Error(err))
	}

	writeJSON(w, r, status, apierrors.FromError(err))
}

// decodeJSON reads a single JSON value from the request body into v. An empty
// body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))

	err := dec.Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	} else if err != nil {
		return bodyError(err)
	}

	if err = dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after JSON value")
		}
		return bodyError(err)
	}

	return nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: limit %d bytes", apierrors.ErrBodyTooLarge, tooLarge.Limit)
	}

	return fmt.Errorf("%w: %s", apierrors.ErrInvalidBody, err.Error())
}
