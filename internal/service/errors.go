package service

// tooBusyError signals queue timeout/overflow for 429 mapping.
type tooBusyError struct{ modelID string }

func (e tooBusyError) Error() string { return "too busy: " + e.modelID }

// ErrTooBusy constructs a tooBusyError for the given model id.
func ErrTooBusy(modelID string) error { return tooBusyError{modelID: modelID} }

// IsTooBusy reports whether err indicates backpressure (return 429).
func IsTooBusy(err error) bool {
	_, ok := err.(tooBusyError)
	return ok
}

// modelNotFoundError signals a requested model id not present in the registry.
type modelNotFoundError struct{ id string }

func (e modelNotFoundError) Error() string { return "model not found: " + e.id }

// ErrModelNotFound constructs a modelNotFoundError.
func ErrModelNotFound(id string) error { return modelNotFoundError{id: id} }

// IsModelNotFound reports whether the error indicates a missing model id.
func IsModelNotFound(err error) bool {
	_, ok := err.(modelNotFoundError)
	return ok
}

// wrongKindError signals a request routed at a model of another engine kind,
// e.g. POST /translate against a whisper model.
type wrongKindError struct{ id, want, got string }

func (e wrongKindError) Error() string {
	return "model " + e.id + " is a " + e.got + ", not a " + e.want
}

// ErrWrongKind constructs a wrongKindError.
func ErrWrongKind(id, want, got string) error { return wrongKindError{id: id, want: want, got: got} }

// IsWrongKind reports whether the error indicates a kind mismatch.
func IsWrongKind(err error) bool {
	_, ok := err.(wrongKindError)
	return ok
}

// closedError signals work submitted after Close.
type closedError struct{}

func (closedError) Error() string { return "service is shut down" }

// IsClosed reports whether the error indicates the service was shut down.
func IsClosed(err error) bool {
	_, ok := err.(closedError)
	return ok
}
