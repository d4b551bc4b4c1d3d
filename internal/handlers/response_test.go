package handlers

import (
  "encoding/json"
  "errors"
  "fmt"
  "net/http"
  "net/http/httptest"
  "testing"

  "github.com/gin-gonic/gin"

  "github.com/yungbote/storefront-backend/internal/platform/apierr"
)

func TestRespondServiceError(t *testing.T) {
  gin.SetMode(gin.TestMode)

  cases := []struct {
    name        string
    err         error
    wantStatus  int
    wantCode    string
    wantDetails []string
  }{
    {
      name:       "api_error",
      err:        apierr.New(http.StatusConflict, "MODULE_CONFLICT", fmt.Errorf("conflicting modules enabled")),
      wantStatus: http.StatusConflict,
      wantCode:   "MODULE_CONFLICT",
    },
    {
      name: "api_error_with_details",
      err: apierr.WithDetails(http.StatusConflict, "MISSING_DEPENDENCIES",
        fmt.Errorf("missing dependencies"), []string{"tax-codes"}),
      wantStatus:  http.StatusConflict,
      wantCode:    "MISSING_DEPENDENCIES",
      wantDetails: []string{"tax-codes"},
    },
    {
      name: "wrapped_api_error",
      err: fmt.Errorf("install failed: %w",
        apierr.New(http.StatusNotFound, "MODULE_NOT_FOUND", fmt.Errorf("no such module"))),
      wantStatus: http.StatusNotFound,
      wantCode:   "MODULE_NOT_FOUND",
    },
    {
      name:       "plain_error",
      err:        errors.New("boom"),
      wantStatus: http.StatusInternalServerError,
      wantCode:   "INTERNAL",
    },
  }

  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      recorder := httptest.NewRecorder()
      c, _ := gin.CreateTestContext(recorder)

      RespondServiceError(c, tc.err)

      if recorder.Code != tc.wantStatus {
        t.Fatalf("status = %d, want %d", recorder.Code, tc.wantStatus)
      }
      var envelope ErrorEnvelope
      if err := json.Unmarshal(recorder.Body.Bytes(), &envelope); err != nil {
        t.Fatalf("decode body: %v", err)
      }
      if envelope.Error.Code != tc.wantCode {
        t.Fatalf("code = %q, want %q", envelope.Error.Code, tc.wantCode)
      }
      if len(tc.wantDetails) > 0 {
        if len(envelope.Error.Details) != len(tc.wantDetails) || envelope.Error.Details[0] != tc.wantDetails[0] {
          t.Fatalf("details = %v, want %v", envelope.Error.Details, tc.wantDetails)
        }
      }
    })
  }
}
