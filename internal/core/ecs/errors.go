package ecs

import "errors"

var (
	// ErrCapacityExceeded is a configuration error: more kinds were registered
	// than the registry can index. Callers should abort startup.
	ErrCapacityExceeded = errors.New("type registry capacity exceeded")

	ErrEntityNotAlive   = errors.New("entity not alive")
	ErrComponentMissing = errors.New("component not present")
	ErrSystemExists     = errors.New("system already registered")
	ErrSystemNotFound   = errors.New("system not registered")
	ErrUnknownTag       = errors.New("unknown tag")
	ErrUnknownGroup     = errors.New("unknown group")
)
