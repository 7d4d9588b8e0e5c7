package apperrors

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrNoActiveSession  = errors.New("no active session")
	ErrCorruptState     = errors.New("corrupt state blob")
	ErrPatientNotFound  = errors.New("patient not found")
	ErrAssessorNotFound = errors.New("assessor not found")
	ErrAssessorDisabled = errors.New("assessor is disabled")
	ErrAssessorTimeout  = errors.New("assessor timeout")
	ErrChecksumMismatch = errors.New("assessor checksum mismatch")
)
