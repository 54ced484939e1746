// Package businessflow contains the core business logic and use cases for the ticketing workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Admin-related errors
	ErrAdminNotFound     = errors.New("admin not found")
	ErrIncorrectPassword = errors.New("incorrect password")

	// Ticket-related errors
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrTicketCodeExists   = errors.New("ticket code already exists")
	ErrTicketUpdateEmpty  = errors.New("at least one field must be provided for update")
	ErrInvalidTicketEmail = errors.New("ticket has no valid email address")

	// Import-related errors
	ErrNoExcelData      = errors.New("excel file contains no data rows")
	ErrExcelFileInvalid = errors.New("excel file could not be read")
	ErrNoSheetFound     = errors.New("excel file contains no sheets")

	// Email dispatch errors
	ErrNoTicketsToSend = errors.New("no tickets to send")

	// Lookup errors
	ErrCCCDRequired = errors.New("cccd is required")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsAdminNotFound(err error) bool {
	return errors.Is(err, ErrAdminNotFound)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsTicketNotFound(err error) bool {
	return errors.Is(err, ErrTicketNotFound)
}

func IsTicketCodeExists(err error) bool {
	return errors.Is(err, ErrTicketCodeExists)
}

func IsInvalidTicketEmail(err error) bool {
	return errors.Is(err, ErrInvalidTicketEmail)
}

func IsNoExcelData(err error) bool {
	return errors.Is(err, ErrNoExcelData)
}

func IsExcelFileInvalid(err error) bool {
	return errors.Is(err, ErrExcelFileInvalid)
}

func IsNoTicketsToSend(err error) bool {
	return errors.Is(err, ErrNoTicketsToSend)
}

func IsCCCDRequired(err error) bool {
	return errors.Is(err, ErrCCCDRequired)
}
