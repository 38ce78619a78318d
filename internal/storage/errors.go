package storage

import "fmt"

// ============================================================================
// STORAGE ERROR CODES
// ============================================================================
// These constants mirror domain error codes to avoid circular imports.

const (
	codeInternal = "internal"
	codeInvalid  = "invalid"
	codeNotFound = "not_found"
)

// ============================================================================
// STORAGE ERROR TYPE
// ============================================================================

// StorageError represents a storage-specific error with a code and message.
type StorageError struct {
	Code    string
	Message string
}

func (e *StorageError) Error() string {
	return e.Message
}

// ErrorCode returns the error code for status mapping.
func (e *StorageError) ErrorCode() string {
	return e.Code
}

// newStorageError creates a new storage error.
func newStorageError(code, message string) *StorageError {
	return &StorageError{Code: code, Message: message}
}

// ============================================================================
// STORAGE DOMAIN ERRORS
// ============================================================================

var (
	// ErrKeyNotFound is returned by Get when nothing is stored under the key.
	ErrKeyNotFound = newStorageError(codeNotFound, "key not found")

	// ErrRedisAddrRequired is returned when the redis provider has no address.
	ErrRedisAddrRequired = newStorageError(codeInvalid, "redis address is required")

	// ErrInvalidKey is returned for keys that cannot be mapped to a file name.
	ErrInvalidKey = newStorageError(codeInvalid, "invalid storage key")
)

// ErrUnknownProvider creates an error for unknown storage providers.
func ErrUnknownProvider(provider string) error {
	return &StorageError{
		Code:    codeInvalid,
		Message: fmt.Sprintf("unknown storage provider: %s", provider),
	}
}

// ErrUnavailable wraps a backend failure.
func ErrUnavailable(op string, err error) error {
	return &StorageError{
		Code:    codeInternal,
		Message: fmt.Sprintf("storage %s failed: %v", op, err),
	}
}
