package middleware

import (
  "net/http"
  "net/http/httptest"
  "testing"
  "time"

  "github.com/gin-gonic/gin"
  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"

  "github.com/yungbote/storefront-backend/internal/logger"
  "github.com/yungbote/storefront-backend/internal/requestdata"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
  t.Helper()
  if _, ok := claims["exp"]; !ok {
    claims["exp"] = time.Now().Add(time.Hour).Unix()
  }
  token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
  signed, err := token.SignedString([]byte(testSecret))
  if err != nil {
    t.Fatalf("sign token: %v", err)
  }
  return signed
}

func newTestRouter(t *testing.T, capture *[]*requestdata.RequestData, admin bool) *gin.Engine {
  t.Helper()
  gin.SetMode(gin.TestMode)

  tm := NewTenantMiddleware(logger.NewNop(), testSecret)
  router := gin.New()
  group := router.Group("/")
  group.Use(tm.RequireAuth())
  if admin {
    group.Use(tm.RequireAdmin())
  }
  group.GET("/whoami", func(c *gin.Context) {
    *capture = append(*capture, requestdata.GetRequestData(c.Request.Context()))
    c.Status(http.StatusOK)
  })
  return router
}

func TestRequireAuthResolvesTenant(t *testing.T) {
  var captured []*requestdata.RequestData
  router := newTestRouter(t, &captured, false)

  userID := uuid.New()
  token := signToken(t, jwt.MapClaims{
    "sub":          userID.String(),
    "name":         "Dana",
    "workspace_id": "ws-from-claim",
  })

  req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
  req.Header.Set("Authorization", "Bearer "+token)
  req.Header.Set(WorkspaceHeader, "ws-from-header")
  recorder := httptest.NewRecorder()
  router.ServeHTTP(recorder, req)

  if recorder.Code != http.StatusOK {
    t.Fatalf("status = %d, want 200", recorder.Code)
  }
  if len(captured) != 1 || captured[0] == nil {
    t.Fatal("request data not captured")
  }
  rd := captured[0]
  if rd.UserID != userID {
    t.Fatalf("user id = %s, want %s", rd.UserID, userID)
  }
  // The header wins over the token claim.
  if rd.WorkspaceID != "ws-from-header" {
    t.Fatalf("workspace = %q, want header value", rd.WorkspaceID)
  }
  if rd.UserName != "Dana" {
    t.Fatalf("user name = %q", rd.UserName)
  }
}

func TestRequireAuthFallsBackToClaimWorkspace(t *testing.T) {
  var captured []*requestdata.RequestData
  router := newTestRouter(t, &captured, false)

  token := signToken(t, jwt.MapClaims{
    "sub":          uuid.New().String(),
    "workspace_id": "ws-from-claim",
  })
  req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
  req.Header.Set("Authorization", "Bearer "+token)
  recorder := httptest.NewRecorder()
  router.ServeHTTP(recorder, req)

  if recorder.Code != http.StatusOK {
    t.Fatalf("status = %d, want 200", recorder.Code)
  }
  if captured[0].WorkspaceID != "ws-from-claim" {
    t.Fatalf("workspace = %q, want claim value", captured[0].WorkspaceID)
  }
}

func TestRequireAuthRejections(t *testing.T) {
  var captured []*requestdata.RequestData
  router := newTestRouter(t, &captured, false)

  cases := []struct {
    name  string
    setup func(req *http.Request)
  }{
    {name: "no_token", setup: func(req *http.Request) {}},
    {
      name: "garbage_token",
      setup: func(req *http.Request) {
        req.Header.Set("Authorization", "Bearer not.a.token")
      },
    },
    {
      name: "wrong_secret",
      setup: func(req *http.Request) {
        token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
          "sub": uuid.New().String(),
          "exp": time.Now().Add(time.Hour).Unix(),
        })
        signed, _ := token.SignedString([]byte("other-secret"))
        req.Header.Set("Authorization", "Bearer "+signed)
      },
    },
    {
      name: "non_uuid_subject",
      setup: func(req *http.Request) {
        token := signToken(t, jwt.MapClaims{"sub": "not-a-uuid"})
        req.Header.Set("Authorization", "Bearer "+token)
      },
    },
  }

  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
      tc.setup(req)
      recorder := httptest.NewRecorder()
      router.ServeHTTP(recorder, req)
      if recorder.Code != http.StatusUnauthorized {
        t.Fatalf("status = %d, want 401", recorder.Code)
      }
    })
  }
}

func TestRequireAdmin(t *testing.T) {
  var captured []*requestdata.RequestData
  router := newTestRouter(t, &captured, true)

  employee := signToken(t, jwt.MapClaims{"sub": uuid.New().String(), "role": "EMPLOYEE"})
  req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
  req.Header.Set("Authorization", "Bearer "+employee)
  recorder := httptest.NewRecorder()
  router.ServeHTTP(recorder, req)
  if recorder.Code != http.StatusForbidden {
    t.Fatalf("employee status = %d, want 403", recorder.Code)
  }

  admin := signToken(t, jwt.MapClaims{"sub": uuid.New().String(), "role": "ADMIN"})
  req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
  req.Header.Set("Authorization", "Bearer "+admin)
  recorder = httptest.NewRecorder()
  router.ServeHTTP(recorder, req)
  if recorder.Code != http.StatusOK {
    t.Fatalf("admin status = %d, want 200", recorder.Code)
  }
}
