package errors

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// ERROR CODES
// =============================================================================

// Error code constants for structured errors
const (
	CodeRegistrationConflict = "REGISTRATION_CONFLICT"
	CodeInvalidBinding       = "INVALID_BINDING"
	CodeResolutionFailed     = "RESOLUTION_FAILED"
	CodeDisposalFailed       = "DISPOSAL_FAILED"
	CodeAdapterDisposed      = "ADAPTER_DISPOSED"
	CodeConfigError          = "CONFIG_ERROR"
)

// ReasonNotFound marks resolution errors raised because nothing is bound,
// as opposed to a binding that failed to build.
const ReasonNotFound = "not_found"

// =============================================================================
// SERVICE ERRORS
// =============================================================================

// ErrTypeMismatch is returned when a resolved value is not assignable to the
// requested contract.
var ErrTypeMismatch = errors.New("service type mismatch")

// ErrNilSingleton is returned when a singleton creator produces nil, which
// would leave nothing to cache.
var ErrNilSingleton = errors.New("singleton creator returned nil")

// ServiceError wraps service-specific errors
type ServiceError struct {
	Service   string
	Operation string
	Err       error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service %s: %s: %v", e.Service, e.Operation, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is interface for ServiceError
func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	if !ok {
		return false
	}
	return (e.Service == "" || t.Service == "" || e.Service == t.Service) &&
		(e.Operation == "" || t.Operation == "" || e.Operation == t.Operation)
}

// NewServiceError creates a new service error
func NewServiceError(service, operation string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Err:       err,
	}
}

// =============================================================================
// IOC ERROR (STRUCTURED ERROR)
// =============================================================================

// IocError represents a structured error with context
type IocError struct {
	Code      string
	Message   string
	Cause     error
	Timestamp time.Time
	Context   map[string]any
}

func (e *IocError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *IocError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is interface for IocError.
// Compares by error code, allowing matching against sentinel errors
func (e *IocError) Is(target error) bool {
	t, ok := target.(*IocError)
	if !ok {
		return false
	}
	return e.Code != "" && e.Code == t.Code
}

// WithContext adds context to the error
func (e *IocError) WithContext(key string, value any) *IocError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

func newError(code, message string, cause error) *IocError {
	return &IocError{
		Code:      code,
		Message:   message,
		Cause:     cause,
		Timestamp: time.Now(),
		Context:   make(map[string]any),
	}
}

// ErrRegistrationConflict reports a contract (or collection key) that is already bound.
func ErrRegistrationConflict(contract, key string) *IocError {
	msg := "contract '" + contract + "' already registered"
	if key != "" {
		msg = "contract '" + contract + "' already has a collection member keyed '" + key + "'"
	}
	return newError(CodeRegistrationConflict, msg, nil).
		WithContext("contract", contract).
		WithContext("key", key)
}

// ErrInvalidBinding reports a registration that can never be satisfied.
func ErrInvalidBinding(contract, reason string) *IocError {
	return newError(CodeInvalidBinding, "invalid binding for '"+contract+"': "+reason, nil).
		WithContext("contract", contract)
}

// ErrNotRegistered reports a contract with no binding.
func ErrNotRegistered(contract string) *IocError {
	return newError(CodeResolutionFailed, "contract '"+contract+"' is not registered", nil).
		WithContext("contract", contract).
		WithContext("reason", ReasonNotFound)
}

// ErrKeyNotRegistered reports a missing collection member.
func ErrKeyNotRegistered(contract, key string) *IocError {
	return newError(CodeResolutionFailed, "contract '"+contract+"' has no collection member keyed '"+key+"'", nil).
		WithContext("contract", contract).
		WithContext("key", key).
		WithContext("reason", ReasonNotFound)
}

// ErrEmptyCollection reports a collection resolution for a contract with no members.
func ErrEmptyCollection(contract string) *IocError {
	return newError(CodeResolutionFailed, "contract '"+contract+"' has no collection members", nil).
		WithContext("contract", contract).
		WithContext("reason", ReasonNotFound)
}

// ErrResolutionFailed wraps a failure raised while building a contract.
func ErrResolutionFailed(contract string, cause error) *IocError {
	return newError(CodeResolutionFailed, "failed to resolve '"+contract+"'", cause).
		WithContext("contract", contract)
}

// ErrDependencyFailed wraps a failure to inject one field during build-up.
func ErrDependencyFailed(owner, field string, cause error) *IocError {
	return newError(CodeResolutionFailed, "failed to inject "+owner+"."+field, cause).
		WithContext("owner", owner).
		WithContext("field", field)
}

// ErrDisposalFailed wraps every failure collected while releasing owned instances.
func ErrDisposalFailed(causes ...error) *IocError {
	return newError(CodeDisposalFailed, "disposal failed", errors.Join(causes...)).
		WithContext("failures", len(causes))
}

// ErrAdapterDisposed reports a call on an adapter that has already been disposed.
func ErrAdapterDisposed(operation string) *IocError {
	return newError(CodeAdapterDisposed, "adapter already disposed: "+operation, nil).
		WithContext("operation", operation)
}

// ErrInvalidConfig reports a configuration value that failed validation or decoding.
func ErrInvalidConfig(configKey string, cause error) *IocError {
	return newError(CodeConfigError, "invalid configuration for key '"+configKey+"'", cause).
		WithContext("config_key", configKey)
}

// ErrTypeMismatchFor wraps ErrTypeMismatch with the offending contract and value.
func ErrTypeMismatchFor(contract string, got any) error {
	return fmt.Errorf("%w: %T is not assignable to %s", ErrTypeMismatch, got, contract)
}

// =============================================================================
// STANDARD ERRORS PACKAGE INTEGRATION
// =============================================================================

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}

// Join returns an error that wraps the given errors.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// =============================================================================
// SENTINEL ERRORS (for use with Is)
// =============================================================================

var (
	ErrRegistrationConflictSentinel = &IocError{Code: CodeRegistrationConflict}
	ErrInvalidBindingSentinel       = &IocError{Code: CodeInvalidBinding}
	ErrResolutionSentinel           = &IocError{Code: CodeResolutionFailed}
	ErrDisposalSentinel             = &IocError{Code: CodeDisposalFailed}
	ErrDisposedSentinel             = &IocError{Code: CodeAdapterDisposed}
	ErrConfigSentinel               = &IocError{Code: CodeConfigError}
)

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRegistrationConflict checks if the error is a registration conflict
func IsRegistrationConflict(err error) bool {
	return Is(err, ErrRegistrationConflictSentinel)
}

// IsInvalidBinding checks if the error is an invalid binding
func IsInvalidBinding(err error) bool {
	return Is(err, ErrInvalidBindingSentinel)
}

// IsResolutionError checks if the error is a resolution failure
func IsResolutionError(err error) bool {
	return Is(err, ErrResolutionSentinel)
}

// IsNotFound checks if the nearest structured error in the chain reports a
// missing binding.
func IsNotFound(err error) bool {
	var iocErr *IocError
	if !As(err, &iocErr) {
		return false
	}
	return iocErr.Code == CodeResolutionFailed && iocErr.Context["reason"] == ReasonNotFound
}

// IsDisposalError checks if the error is a disposal failure
func IsDisposalError(err error) bool {
	return Is(err, ErrDisposalSentinel)
}

// IsDisposed checks if the error was raised by a disposed adapter
func IsDisposed(err error) bool {
	return Is(err, ErrDisposedSentinel)
}

// IsConfigError checks if the error is a configuration error
func IsConfigError(err error) bool {
	return Is(err, ErrConfigSentinel)
}
