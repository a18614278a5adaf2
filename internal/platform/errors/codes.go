// Package errors provides structured error codes shared by the realtime
// transports (websocket, REST, gRPC).
package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unclassified error.
	CodeUnknown Code = "UNKNOWN"

	// CodeInvalidInput covers empty bodies, missing ids, and malformed payloads.
	CodeInvalidInput Code = "INVALID_INPUT"
	// CodeUnauthorized covers failed identity checks and room joins without membership.
	CodeUnauthorized Code = "UNAUTHORIZED"
	// CodeForbidden covers sends and reads by non-members.
	CodeForbidden Code = "FORBIDDEN"
	// CodeNotFound covers absent messages and notifications.
	CodeNotFound Code = "NOT_FOUND"
	// CodeAlreadyDone is an idempotency signal; callers may treat it as success.
	CodeAlreadyDone Code = "ALREADY_DONE"
	// CodeConflict covers dedupe keys claimed by another sender.
	CodeConflict Code = "CONFLICT"
	// CodePersistenceFailure covers store errors; nothing is pushed after one.
	CodePersistenceFailure Code = "PERSISTENCE_FAILURE"
	// CodeRateLimited closes websocket connections that flood frames.
	CodeRateLimited Code = "RATE_LIMITED"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeInvalidInput:
		return codes.InvalidArgument
	case CodeUnauthorized, CodeForbidden:
		return codes.PermissionDenied
	case CodeNotFound:
		return codes.NotFound
	case CodeAlreadyDone, CodeConflict:
		return codes.AlreadyExists
	case CodePersistenceFailure:
		return codes.Unavailable
	case CodeRateLimited:
		return codes.ResourceExhausted
	default:
		return codes.Internal
	}
}

// HTTPStatus maps domain codes to REST status codes.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyDone:
		return http.StatusOK
	case CodeConflict:
		return http.StatusConflict
	case CodePersistenceFailure:
		return http.StatusServiceUnavailable
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
