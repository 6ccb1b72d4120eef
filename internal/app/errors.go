package app

import "strings"

type EngineErrorCode string

const (
	ErrInvalidUserID EngineErrorCode = "INVALID_USER_ID"
	ErrInvalidInput  EngineErrorCode = "INVALID_INPUT"
	ErrUnavailable   EngineErrorCode = "UNAVAILABLE"
)

// EngineError is returned for input the engine refuses to process. Engine
// logic itself never produces one.
type EngineError struct {
	Code    EngineErrorCode
	Message string
}

func (e *EngineError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// ValidateUserID rejects blank user identifiers.
func ValidateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return &EngineError{Code: ErrInvalidUserID, Message: "user id must not be empty"}
	}
	return nil
}
