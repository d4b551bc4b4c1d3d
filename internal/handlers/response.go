package handlers

import (
  "errors"
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/yungbote/storefront-backend/internal/platform/apierr"
)

type APIError struct {
  Message     string	`json:"message"`
  Code	      string	`json:"code,omitempty"`
  Details     []string	`json:"details,omitempty"`
}

type ErrorEnvelope struct {
  Error	      APIError	`json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
  msg := "unknown error"
  if err != nil {
    msg = err.Error()
  }
  c.JSON(status, ErrorEnvelope{
    Error: APIError{
      Message: msg,
      Code:    code,
    },
  })
}

// RespondServiceError maps service-layer errors onto the envelope. Anything
// that is not an apierr is reported as a bare 500.
func RespondServiceError(c *gin.Context, err error) {
  var apiErr *apierr.Error
  if errors.As(err, &apiErr) {
    c.JSON(apiErr.Status, ErrorEnvelope{
      Error: APIError{
        Message: apiErr.Error(),
        Code:    apiErr.Code,
        Details: apiErr.Details,
      },
    })
    return
  }
  RespondError(c, http.StatusInternalServerError, "INTERNAL", err)
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
  c.JSON(http.StatusCreated, payload)
}
