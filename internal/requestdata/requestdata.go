package requestdata

import (
  "context"
  "github.com/google/uuid"
)

var requestDataKey = struct{}{}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
  return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
  val := ctx.Value(requestDataKey)
  if rd, ok := val.(*RequestData); ok {
    return rd
  }
  return nil
}

// RequestData carries the resolved tenant and acting user for one request.
type RequestData struct {
  WorkspaceID       string
  UserID            uuid.UUID
  UserName          string
  Role              string
  TokenString       string
}

// CurrentWorkspace returns the active tenant id, empty when none resolved.
func CurrentWorkspace(ctx context.Context) string {
  rd := GetRequestData(ctx)
  if rd == nil {
    return ""
  }
  return rd.WorkspaceID
}
