package gateway

import (
	"context"
	"errors"
	"strings"

	"github.com/user/nextgen/pkg/llm"
)

var errPanic = errors.New("backend panic")

// failure kinds recorded in logs when an attempt does not produce text.
const (
	failTimeout   = "timeout"
	failCanceled  = "canceled"
	failEmpty     = "empty"
	failAuth      = "auth"
	failTransport = "transport"
	failPanic     = "panic"
	failOther     = "other"
)

// classify buckets err by its message for logging. Every kind leads to the
// same unavailable outcome.
func classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return failTimeout
	case errors.Is(err, context.Canceled):
		return failCanceled
	case errors.Is(err, llm.ErrEmptyResponse):
		return failEmpty
	case errors.Is(err, errPanic):
		return failPanic
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline"):
		return failTimeout
	case strings.Contains(msg, "401"),
		strings.Contains(msg, "403"),
		strings.Contains(msg, "unauthorized"),
		strings.Contains(msg, "forbidden"),
		strings.Contains(msg, "api key"):
		return failAuth
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "eof"):
		return failTransport
	}
	return failOther
}
