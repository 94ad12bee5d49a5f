package ioc

import (
	"github.com/xraph/ioc/internal/errors"
)

// IocError is the structured error returned by every operation.
type IocError = errors.IocError

// ServiceError wraps a failure of one service operation.
type ServiceError = errors.ServiceError

// Error codes.
const (
	CodeRegistrationConflict = errors.CodeRegistrationConflict
	CodeInvalidBinding       = errors.CodeInvalidBinding
	CodeResolutionFailed     = errors.CodeResolutionFailed
	CodeDisposalFailed       = errors.CodeDisposalFailed
	CodeAdapterDisposed      = errors.CodeAdapterDisposed
	CodeConfigError          = errors.CodeConfigError
)

// Sentinel errors for comparison with errors.Is.
var (
	ErrRegistrationConflict = errors.ErrRegistrationConflictSentinel
	ErrInvalidBinding       = errors.ErrInvalidBindingSentinel
	ErrResolution           = errors.ErrResolutionSentinel
	ErrDisposal             = errors.ErrDisposalSentinel
	ErrDisposed             = errors.ErrDisposedSentinel
	ErrConfig               = errors.ErrConfigSentinel
	ErrTypeMismatch         = errors.ErrTypeMismatch
)

// Error helpers.
var (
	IsRegistrationConflict = errors.IsRegistrationConflict
	IsInvalidBinding       = errors.IsInvalidBinding
	IsResolutionError      = errors.IsResolutionError
	IsNotFound             = errors.IsNotFound
	IsDisposalError        = errors.IsDisposalError
	IsDisposed             = errors.IsDisposed
	IsConfigError          = errors.IsConfigError
)

// ErrInvalidConfig creates a configuration error.
var ErrInvalidConfig = errors.ErrInvalidConfig

func errNew(text string) error {
	return errors.New(text)
}
