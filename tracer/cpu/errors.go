package cpu

import "errors"

var (
	ErrNoSceneData       = errors.New("cpu tracer: no scene data uploaded")
	ErrNoIntersector     = errors.New("cpu tracer: no intersector attached")
	ErrNotInitialized    = errors.New("cpu tracer: tracer not initialized")
	ErrFrameSizeMismatch = errors.New("cpu tracer: block request does not match the frame buffer dimensions")
)
