package ct2

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by any operation on a handle after Close.
var ErrClosed = errors.New("ct2: engine handle is closed")

// modelLoadError signals that the model source could not produce a usable
// engine (bad files, unsupported architecture, unsupported device/compute
// combination). Fatal to the handle being constructed.
type modelLoadError struct{ msg string }

func (e modelLoadError) Error() string { return "model load: " + e.msg }

// ErrModelLoad constructs a model load error.
func ErrModelLoad(msg string) error { return modelLoadError{msg: msg} }

// IsModelLoad reports whether err is a model load failure.
func IsModelLoad(err error) bool {
	var e modelLoadError
	return errors.As(err, &e)
}

// invalidArgumentError signals a caller error detected before the native
// engine is invoked (length mismatch, out-of-range enum, malformed options).
type invalidArgumentError struct{ msg string }

func (e invalidArgumentError) Error() string { return "invalid argument: " + e.msg }

// ErrInvalidArgument constructs an invalid argument error.
func ErrInvalidArgument(msg string) error { return invalidArgumentError{msg: msg} }

// IsInvalidArgument reports whether err is a caller error.
func IsInvalidArgument(err error) bool {
	var e invalidArgumentError
	return errors.As(err, &e)
}

// nativeRuntimeError wraps a failure surfaced by the native engine during
// batch execution. Per-item failures carry the item index.
type nativeRuntimeError struct {
	item int // -1 when not item-scoped
	msg  string
}

func (e nativeRuntimeError) Error() string { return "engine: " + e.msg }

// ErrNativeRuntime constructs an engine execution error.
func ErrNativeRuntime(msg string) error { return nativeRuntimeError{item: -1, msg: msg} }

// IsNativeRuntime reports whether err came from the native engine.
func IsNativeRuntime(err error) bool {
	var e nativeRuntimeError
	return errors.As(err, &e)
}

// callbackError wraps a failure (panic) raised inside a caller-supplied step
// callback while running on a native worker thread. It is caught at the
// boundary and re-surfaced to the caller of the batch operation.
type callbackError struct{ cause any }

func (e callbackError) Error() string {
	return fmt.Sprintf("step callback panicked: %v", e.cause)
}

// IsCallback reports whether err originated inside a step callback.
func IsCallback(err error) bool {
	var e callbackError
	return errors.As(err, &e)
}

// dependencyUnavailableError signals that this binary was built without the
// native engine (no ct2 build tag) so engines cannot be constructed.
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependency-unavailable error.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing native runtime.
func IsDependencyUnavailable(err error) bool {
	var e dependencyUnavailableError
	return errors.As(err, &e)
}
