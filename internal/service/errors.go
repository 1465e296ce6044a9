package service

import "errors"

// ErrEmptyMessage marks an inbound message whose body is empty or
// whitespace-only. The handler replies with a correction and nothing is
// written to storage.
var ErrEmptyMessage = errors.New("message body is empty")
