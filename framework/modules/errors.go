package modules

import "errors"

// ErrInvalidConstructor is returned by Describe when a constructor does not
// have the shape func(deps...) T or func(deps...) (T, error).
var ErrInvalidConstructor = errors.New("modules: invalid constructor")

// ErrInvalidCapability is returned by Describe when a capability declared
// with As is not an interface the module implements.
var ErrInvalidCapability = errors.New("modules: invalid capability")
