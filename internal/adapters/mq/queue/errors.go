package queue

import "errors"

// Sentinel errors returned by Enqueue.
var (
	ErrClosed = errors.New("refresh queue closed")
	ErrFull   = errors.New("refresh queue full")
)
