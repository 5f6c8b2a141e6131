package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrEventNotFound           = errors.New("event not found")
	ErrNotificationNotFound    = errors.New("notification not found")
	ErrInvalidInput            = errors.New("invalid input")
	ErrInvalidTransition       = errors.New("invalid status transition")
	ErrValidationFailed        = errors.New("validation failed")
	ErrInvalidNotificationType = errors.New("invalid notification type")
	ErrInvalidQuickAction      = errors.New("invalid quick action")
	ErrConflict                = errors.New("conflict")
	ErrInternalServerError     = errors.New("internal server error")
)

// ErrorKind 錯誤分類，handler 依此決定 HTTP 狀態碼
type ErrorKind string

const (
	KindNotFound          ErrorKind = "not_found"
	KindInvalidArgument   ErrorKind = "invalid_argument"
	KindInvalidTransition ErrorKind = "invalid_transition"
	KindValidationFailed  ErrorKind = "validation_failed"
	KindConflict          ErrorKind = "conflict"
	KindInternal          ErrorKind = "internal"
)

// Kind 將（可能被包裝過的）錯誤歸類
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEventNotFound), errors.Is(err, ErrNotificationNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidNotificationType),
		errors.Is(err, ErrInvalidQuickAction):
		return KindInvalidArgument
	case errors.Is(err, ErrInvalidTransition):
		return KindInvalidTransition
	case errors.Is(err, ErrValidationFailed):
		return KindValidationFailed
	case errors.Is(err, ErrConflict):
		return KindConflict
	default:
		return KindInternal
	}
}

// Wrap 在 sentinel 錯誤後附加說明，保留 errors.Is 判斷
func Wrap(err error, msg string) error {
	return fmt.Errorf("%w: %s", err, msg)
}

func Wrapf(err error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", err, fmt.Sprintf(format, args...))
}
