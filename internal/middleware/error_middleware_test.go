package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/osahq/conduct/internal/app/models/dto"
	"github.com/osahq/conduct/internal/pkg/apperrors"
)

func callHandleAPIError(t *testing.T, err error) (*httptest.ResponseRecorder, dto.APIResponse) {
	t.Helper()
	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(ctx, err)

	var resp dto.APIResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	if resp.Error == nil {
		t.Fatal("error response carries no error detail")
	}
	return recorder, resp
}

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"wrapped not found", fmt.Errorf("get student: %w", apperrors.ErrStudentNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"message not found", apperrors.ErrMessageNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"alert closed", apperrors.ErrAlertClosed, http.StatusConflict, dto.ErrorCodeInvalidTransition},
		{"invalid transition", apperrors.NewInvalidTransitionError("violation is resolved"), http.StatusConflict, dto.ErrorCodeInvalidTransition},
		{"letter already reviewed", apperrors.ErrApologyAlreadyReviewed, http.StatusConflict, dto.ErrorCodeInvalidTransition},
		{"duplicate student number", apperrors.ErrStudentIDAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"open alert exists", apperrors.ErrAlertAlreadyOpen, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"guarded update conflict", apperrors.NewConflictError("alert already closed"), http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"inactive violation type", apperrors.ErrViolationTypeInactive, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"wrapped invalid severity", fmt.Errorf("recording violation: %w", apperrors.ErrInvalidSeverity), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"unknown error", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder, resp := callHandleAPIError(t, tt.err)
			if recorder.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", recorder.Code, tt.wantStatus)
			}
			if resp.Error.Code != tt.wantCode {
				t.Errorf("error code = %s, want %s", resp.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestHandleAPIErrorStripsWrapChain(t *testing.T) {
	gin.SetMode(gin.TestMode)

	wrapped := fmt.Errorf("failed to get student with ID 42: %w", apperrors.ErrStudentNotFound)
	_, resp := callHandleAPIError(t, wrapped)

	if resp.Error.Message != "student not found" {
		t.Errorf("client message = %q, want the root sentinel text", resp.Error.Message)
	}
}

func TestHandleAPIErrorKeepsCustomMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	custom := apperrors.NewInvalidTransitionError("alert is resolved; meetings cannot be scheduled")
	_, resp := callHandleAPIError(t, custom)

	if resp.Error.Message != "alert is resolved; meetings cannot be scheduled" {
		t.Errorf("client message = %q, want the custom error text", resp.Error.Message)
	}
}

func TestHandleAPIErrorHidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder, resp := callHandleAPIError(t, errors.New("pq: relation violations does not exist"))

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusInternalServerError)
	}
	if resp.Error.Message != "Internal server error" {
		t.Errorf("client message = %q, internal error text must not leak", resp.Error.Message)
	}
}
