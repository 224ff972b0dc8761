package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrBorrowerNotFound    = errors.New("borrower not found")
	ErrInstallmentNotFound = errors.New("installment not found")
	ErrInvalidTransition   = errors.New("invalid installment status transition")
	ErrInvalidReportWindow = errors.New("report window start is after end")
	ErrNoReportData        = errors.New("no report data for the requested window")
	ErrUnauthorized        = errors.New("invalid credentials")
	ErrStorageSyncFailed   = errors.New("ledger snapshot could not be persisted")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeBorrowerNotFound    = "BORROWER_NOT_FOUND"
	ErrCodeInstallmentNotFound = "INSTALLMENT_NOT_FOUND"
	ErrCodeInvalidTransition   = "INVALID_STATUS_TRANSITION"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeInvalidReportWindow = "INVALID_REPORT_WINDOW"
	ErrCodeNoReportData        = "NO_REPORT_DATA"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeStorageSyncFailed   = "STORAGE_SYNC_FAILED"
	ErrCodeStorageError        = "STORAGE_ERROR"
)

// CodeOf returns the business error code carried by err, or "".
func CodeOf(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// Wrap common errors with business context
func WrapBorrowerNotFound(borrowerID string) *BusinessError {
	return NewBusinessError(
		ErrCodeBorrowerNotFound,
		fmt.Sprintf("Borrower with ID %s not found", borrowerID),
		ErrBorrowerNotFound,
	)
}

func WrapInstallmentNotFound(installmentID string) *BusinessError {
	return NewBusinessError(
		ErrCodeInstallmentNotFound,
		fmt.Sprintf("Installment with ID %s not found", installmentID),
		ErrInstallmentNotFound,
	)
}

func WrapInvalidTransition(from, to string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidTransition,
		fmt.Sprintf("Installment status cannot move from %s to %s", from, to),
		ErrInvalidTransition,
	)
}

func WrapValidationFailed(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeValidationFailed,
		"request validation failed",
		err,
	)
}

func WrapInvalidReportWindow(from, to string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidReportWindow,
		fmt.Sprintf("Report window start %s is after end %s", from, to),
		ErrInvalidReportWindow,
	)
}

func WrapNoReportData() *BusinessError {
	return NewBusinessError(
		ErrCodeNoReportData,
		"no rows matched the requested report window",
		ErrNoReportData,
	)
}

func WrapUnauthorized() *BusinessError {
	return NewBusinessError(
		ErrCodeUnauthorized,
		"phone or password is incorrect",
		ErrUnauthorized,
	)
}

func WrapStorageSyncFailed(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeStorageSyncFailed,
		"ledger updated in memory but persisting the snapshot failed",
		errors.Join(ErrStorageSyncFailed, err),
	)
}

func WrapStorageError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeStorageError,
		"storage operation failed",
		err,
	)
}
