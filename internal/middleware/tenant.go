package middleware

import (
  "fmt"
  "net/http"
  "strings"

  "github.com/gin-gonic/gin"
  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"

  "github.com/yungbote/storefront-backend/internal/logger"
  "github.com/yungbote/storefront-backend/internal/requestdata"
)

// WorkspaceHeader names the header tenants use to select the active
// workspace for a request.
const WorkspaceHeader = "X-Workspace-Id"

type TenantMiddleware struct {
  log    *logger.Logger
  secret []byte
}

func NewTenantMiddleware(log *logger.Logger, jwtSecret string) *TenantMiddleware {
  middlewareLogger := log.With("Middleware", "TenantMiddleware")
  if jwtSecret == "" {
    middlewareLogger.Warn("JWT secret not set, authenticated routes will reject all tokens")
  }
  return &TenantMiddleware{log: middlewareLogger, secret: []byte(jwtSecret)}
}

// RequireAuth validates the bearer token and resolves the acting user and
// active workspace into the request context. Workspace resolution is not
// required here; reads without one return empty results and writes fail in
// the service layer.
func (tm *TenantMiddleware) RequireAuth() gin.HandlerFunc {
  return func(c *gin.Context) {
    tokenString := extractToken(c)
    if tokenString == "" {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
      return
    }

    claims := jwt.MapClaims{}
    token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
      if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
        return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
      }
      return tm.secret, nil
    })
    if err != nil || !token.Valid {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
      return
    }

    userID, err := uuid.Parse(claimString(claims, "sub"))
    if err != nil {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
      return
    }

    workspaceID := strings.TrimSpace(c.GetHeader(WorkspaceHeader))
    if workspaceID == "" {
      workspaceID = claimString(claims, "workspace_id")
    }

    rd := &requestdata.RequestData{
      WorkspaceID: workspaceID,
      UserID:      userID,
      UserName:    claimString(claims, "name"),
      Role:        claimString(claims, "role"),
      TokenString: tokenString,
    }
    c.Request = c.Request.WithContext(requestdata.WithRequestData(c.Request.Context(), rd))
    c.Next()
  }
}

// RequireAdmin layers on RequireAuth for the catalog admin surface.
func (tm *TenantMiddleware) RequireAdmin() gin.HandlerFunc {
  return func(c *gin.Context) {
    rd := requestdata.GetRequestData(c.Request.Context())
    if rd == nil {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
      return
    }
    if rd.Role != "ADMIN" && rd.Role != "OWNER" {
      c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
      return
    }
    c.Next()
  }
}

func extractToken(c *gin.Context) string {
  authHeader := c.GetHeader("Authorization")
  if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
    return authHeader[7:]
  }
  if qToken := c.Query("token"); qToken != "" {
    return qToken
  }
  return ""
}

func claimString(claims jwt.MapClaims, key string) string {
  if raw, ok := claims[key]; ok {
    if s, ok := raw.(string); ok {
      return s
    }
  }
  return ""
}
