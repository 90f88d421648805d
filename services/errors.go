package services

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// RequestError is a service failure the caller can map straight onto an
// HTTP response. Status follows the usual taxonomy: 400 validation,
// 403 authorization, 404 not found, 409 conflict/invalid state.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func errValidation(msg string) *RequestError {
	return &RequestError{Status: http.StatusBadRequest, Message: msg}
}

func errForbidden(msg string) *RequestError {
	return &RequestError{Status: http.StatusForbidden, Message: msg}
}

func errNotFound(msg string) *RequestError {
	return &RequestError{Status: http.StatusNotFound, Message: msg}
}

func errConflict(msg string) *RequestError {
	return &RequestError{Status: http.StatusConflict, Message: msg}
}

// IsDuplicateKey reports whether err is a storage-level unique constraint
// violation. Concurrent duplicate creates surface here instead of silently
// duplicating state; callers treat it as "already exists".
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// MySQL error 1062 as formatted by the driver.
	return strings.Contains(err.Error(), "Duplicate entry")
}
