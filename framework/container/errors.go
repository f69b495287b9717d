package container

import "errors"

var (
	// ErrNoBinding is returned when an abstract has no registered binding.
	ErrNoBinding = errors.New("container: no binding registered")

	// ErrFrozen is raised when a binding is registered after Freeze.
	ErrFrozen = errors.New("container: frozen")

	// ErrCircularDependency is returned when a factory re-enters an abstract
	// that is still being built. The message carries the full chain.
	ErrCircularDependency = errors.New("container: circular dependency")

	// ErrTypeMismatch is returned by the generic helpers when the resolved
	// value is not of the requested type.
	ErrTypeMismatch = errors.New("container: type mismatch")
)
