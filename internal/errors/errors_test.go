package errors

import (
	"net/http"
	"testing"
	"time"

	"pgregory.net/rapid"
)

// Every error response carries code, message, a valid RFC3339 timestamp and
// the request id, whatever error and request context produced it.
func TestNewErrorResponse_StandardFormat(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		codes := []ErrorCode{
			ErrInvalidRequest, ErrMissingIdentity, ErrUnauthorized,
			ErrClientResolutionFailed, ErrInternalServer, ErrStorage,
		}
		code := codes[rapid.IntRange(0, len(codes)-1).Draw(rt, "codeIdx")]
		message := rapid.StringMatching(`[a-zA-Z0-9 .,]{5,80}`).Draw(rt, "message")
		requestID := rapid.StringMatching(`[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}`).Draw(rt, "requestID")

		apiErr := &APIError{
			Code:       code,
			Message:    message,
			HTTPStatus: http.StatusBadRequest,
		}

		resp := NewErrorResponse(apiErr, requestID, "/webhook-checkin/x/y", http.MethodPost)

		if resp.Error.Code == "" {
			rt.Fatal("error response must have a code")
		}
		if resp.Error.Message != message {
			rt.Fatalf("message = %q, want %q", resp.Error.Message, message)
		}
		if resp.RequestID != requestID {
			rt.Fatalf("request id = %q, want %q", resp.RequestID, requestID)
		}
		if _, err := time.Parse(time.RFC3339, resp.Error.Timestamp); err != nil {
			rt.Fatalf("timestamp %q is not RFC3339: %v", resp.Error.Timestamp, err)
		}
	})
}

func TestUnauthorizedRevealsNothing(t *testing.T) {
	if ErrUnauthorizedError.Message != "Unauthorized" {
		t.Errorf("unauthorized message = %q, must stay generic", ErrUnauthorizedError.Message)
	}
	if ErrUnauthorizedError.Details != nil {
		t.Error("unauthorized error must carry no details")
	}
	if ErrUnauthorizedError.HTTPStatus != http.StatusUnauthorized {
		t.Errorf("status = %d", ErrUnauthorizedError.HTTPStatus)
	}
}
