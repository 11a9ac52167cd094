package medusa

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"trek-storefront/internal/domain"
)

// Error is a non-2xx response from the backend.
type Error struct {
	Status  int    `json:"-"`
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("medusa: %d %s: %s", e.Status, e.Type, e.Message)
	}
	return fmt.Sprintf("medusa: %d: %s", e.Status, e.Message)
}

// Is maps backend statuses onto domain sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case domain.ErrNotFound:
		return e.Status == http.StatusNotFound || e.Type == "not_found"
	case domain.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case domain.ErrAlreadyExists:
		return e.Status == http.StatusConflict || e.Type == "duplicate_error"
	}
	return false
}

func decodeError(resp *http.Response) error {
	e := &Error{Status: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(raw) > 0 {
		if json.Unmarshal(raw, e) != nil {
			e.Message = strings.TrimSpace(string(raw))
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(resp.StatusCode)
	}
	return e
}

// Message extracts a user-facing message from err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}

// StatusOf returns the backend status carried by err, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}
