package handlers

import (
  "context"
  "net/http"
  "net/http/httptest"
  "testing"

  "github.com/gin-gonic/gin"
  "gorm.io/gorm"

  "github.com/yungbote/storefront-backend/internal/logger"
  "github.com/yungbote/storefront-backend/internal/services"
)

type recordingCatalogService struct {
  lastFilter services.CatalogFilter
}

func (s *recordingCatalogService) BuildCatalog(ctx context.Context, tx *gorm.DB, filter services.CatalogFilter) (*services.ModuleCatalog, error) {
  s.lastFilter = filter
  return &services.ModuleCatalog{}, nil
}

func TestGetCatalogQueryParams(t *testing.T) {
  gin.SetMode(gin.TestMode)

  cases := []struct {
    name string
    url  string
    want services.CatalogFilter
  }{
    {
      name: "defaults_to_enabled_only",
      url:  "/catalog",
      want: services.CatalogFilter{},
    },
    {
      name: "include_disabled",
      url:  "/catalog?include_disabled=true",
      want: services.CatalogFilter{IncludeDisabled: true},
    },
    {
      name: "category",
      url:  "/catalog?category=SALES_MANAGEMENT",
      want: services.CatalogFilter{Category: "SALES_MANAGEMENT"},
    },
  }

  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      service := &recordingCatalogService{}
      handler := NewCatalogHandler(logger.NewNop(), service)
      router := gin.New()
      router.GET("/catalog", handler.GetCatalog)

      w := httptest.NewRecorder()
      router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.url, nil))

      if w.Code != http.StatusOK {
        t.Fatalf("status = %d, want 200", w.Code)
      }
      if service.lastFilter != tc.want {
        t.Fatalf("filter = %+v, want %+v", service.lastFilter, tc.want)
      }
    })
  }
}
