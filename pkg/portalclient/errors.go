package portalclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned when the API answers 404
var ErrNotFound = errors.New("portalclient: not found")

// APIError is a non-2xx answer of the API
type APIError struct {
	Status    int
	Code      string
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("portal API: HTTP %d", e.Status)
	}
	return fmt.Sprintf("portal API: HTTP %d %s: %s", e.Status, e.Code, e.Message)
}

// Is lets errors.Is(err, ErrNotFound) match 404 answers
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Action names a back office operation in user-facing messages
type Action string

const (
	ActionSave   Action = "kaydedilemedi"
	ActionUpload Action = "yüklenemedi"
	ActionDelete Action = "silinemedi"
)

// ActionError hides the API failure of a back office operation behind a
// generic message. The cause stays reachable through errors.Is/As, so a
// missing record can still be told apart.
type ActionError struct {
	Action Action
	Err    error
}

func (e *ActionError) Error() string {
	switch e.Action {
	case ActionUpload:
		return "Dosya yüklenemedi."
	case ActionDelete:
		return "Kayıt silinemedi."
	default:
		return "Kayıt kaydedilemedi."
	}
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// actionError wraps err unless it is a 404, which is returned as ErrNotFound
func actionError(action Action, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return &ActionError{Action: action, Err: err}
}
