package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"gorm.io/gorm"
)

var (
	// ErrAuthRequired is returned when there is no signed-in user.
	ErrAuthRequired = errors.New("authentication required")
	// ErrInvalidCredentials is returned by Login for an unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned for a malformed, expired or forged token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrNotFound marks a missing record or one owned by somebody else. It is
	// always wrapped in a StorageError so callers see no difference.
	ErrNotFound = errors.New("record not found")
)

// ValidationError rejects a request before anything is written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// StorageError is the opaque failure of a read or write, e.g. "could not save meal".
type StorageError struct {
	Action string
	Err    error
}

func (e *StorageError) Error() string {
	return "could not " + e.Action
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// storageErr logs the cause and hides it behind the action. Validation and
// storage errors pass through untouched.
func storageErr(action string, err error) error {
	var ve *ValidationError
	var se *StorageError
	if errors.As(err, &ve) || errors.As(err, &se) || errors.Is(err, ErrAuthRequired) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrNotFound
	}
	log.Printf("[Service] could not %s: %v", action, err)
	return &StorageError{Action: action, Err: err}
}

func notFound(action string) error {
	return &StorageError{Action: action, Err: ErrNotFound}
}

// ReorderError is a failed reorder. Order is the authoritative order read back
// after the failure so the client can drop its optimistic state; it is nil when
// the re-read failed too.
type ReorderError struct {
	Err   error
	Order []uuid.UUID
}

func (e *ReorderError) Error() string {
	return e.Err.Error()
}

func (e *ReorderError) Unwrap() error {
	return e.Err
}

func requireUser(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrAuthRequired
	}
	return nil
}

// fromInputError converts a calculator input problem into a ValidationError.
func fromInputError(err error) error {
	var ie *nutrition.InputError
	if errors.As(err, &ie) {
		return invalid(ie.Field, ie.Message)
	}
	return err
}
