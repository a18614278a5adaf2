package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("send: %w", Wrap(CodePersistenceFailure, "store unavailable", errors.New("disk full")))
	if !errors.Is(err, New(CodePersistenceFailure, "")) {
		t.Fatal("expected wrapped error to match by code")
	}
	if errors.Is(err, New(CodeNotFound, "")) {
		t.Fatal("expected different code not to match")
	}
	if got := GetCode(err); got != CodePersistenceFailure {
		t.Fatalf("GetCode = %q, want %q", got, CodePersistenceFailure)
	}
}

func TestGetCodeUnknownForPlainErrors(t *testing.T) {
	if got := GetCode(errors.New("boom")); got != CodeUnknown {
		t.Fatalf("GetCode = %q, want %q", got, CodeUnknown)
	}
	if got := PublicMessage(errors.New("boom")); got != "an unexpected error occurred" {
		t.Fatalf("PublicMessage = %q", got)
	}
}

func TestCodeMappings(t *testing.T) {
	tests := []struct {
		code Code
		grpc codes.Code
		http int
	}{
		{CodeInvalidInput, codes.InvalidArgument, http.StatusBadRequest},
		{CodeUnauthorized, codes.PermissionDenied, http.StatusUnauthorized},
		{CodeForbidden, codes.PermissionDenied, http.StatusForbidden},
		{CodeNotFound, codes.NotFound, http.StatusNotFound},
		{CodeAlreadyDone, codes.AlreadyExists, http.StatusOK},
		{CodeConflict, codes.AlreadyExists, http.StatusConflict},
		{CodePersistenceFailure, codes.Unavailable, http.StatusServiceUnavailable},
		{CodeRateLimited, codes.ResourceExhausted, http.StatusTooManyRequests},
		{CodeUnknown, codes.Internal, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := tc.code.GRPCCode(); got != tc.grpc {
			t.Fatalf("%s.GRPCCode() = %v, want %v", tc.code, got, tc.grpc)
		}
		if got := tc.code.HTTPStatus(); got != tc.http {
			t.Fatalf("%s.HTTPStatus() = %d, want %d", tc.code, got, tc.http)
		}
	}
}

func TestHandleErrorAttachesDetails(t *testing.T) {
	err := HandleError(WithMetadata(CodeForbidden, "club membership required", map[string]string{"club_id": "c1"}))
	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("expected gRPC status, got %v", err)
	}
	if st.Code() != codes.PermissionDenied {
		t.Fatalf("code = %v, want %v", st.Code(), codes.PermissionDenied)
	}
	var info *errdetails.ErrorInfo
	for _, detail := range st.Details() {
		if value, ok := detail.(*errdetails.ErrorInfo); ok {
			info = value
		}
	}
	if info == nil {
		t.Fatal("expected ErrorInfo detail")
	}
	if info.GetReason() != string(CodeForbidden) || info.GetMetadata()["club_id"] != "c1" {
		t.Fatalf("unexpected error info: %+v", info)
	}
}

func TestHandleErrorUnknown(t *testing.T) {
	if HandleError(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
	st, _ := status.FromError(HandleError(errors.New("boom")))
	if st.Code() != codes.Internal {
		t.Fatalf("code = %v, want %v", st.Code(), codes.Internal)
	}
}
