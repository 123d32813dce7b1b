package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lebem/lebem-backend/internal/config"
	"github.com/lebem/lebem-backend/internal/handlers"
	"github.com/lebem/lebem-backend/internal/i18n"
	"github.com/lebem/lebem-backend/internal/models"
	"github.com/lebem/lebem-backend/internal/services"
	"github.com/lebem/lebem-backend/internal/utils"
)

type stubCatalog struct {
	handlers.CatalogReader
}

func (stubCatalog) FeaturedProducts(ctx context.Context) ([]models.Product, error) {
	return []models.Product{{Slug: "featured-divan"}}, nil
}

func (stubCatalog) GetProduct(ctx context.Context, slug string) (*models.Product, error) {
	return &models.Product{Slug: slug}, nil
}

type stubCoordinator struct {
	handlers.CatalogCoordinator
	calls int
}

func (s *stubCoordinator) DeactivateCategory(ctx context.Context, slug string, force bool) (*services.CategoryDeactivation, error) {
	s.calls++
	return &services.CategoryDeactivation{Slug: slug}, nil
}

type stubAdmins struct{}

func (stubAdmins) ActiveAdmin(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	return &models.AdminUser{BaseModel: models.BaseModel{ID: id}, IsActive: true}, nil
}

func testEngine(t *testing.T, coordinator *stubCoordinator) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, i18n.Initialize())

	catalog := stubCatalog{}
	h := Handlers{
		Category: handlers.NewCategoryHandler(catalog, coordinator, 20),
		Product:  handlers.NewProductHandler(catalog, coordinator, 20),
		Review:   handlers.NewReviewHandler(nil, 20),
		Contact:  handlers.NewContactHandler(nil, 20),
		Auth:     handlers.NewAuthHandler(nil),
		Admin:    handlers.NewAdminHandler(catalog, coordinator, nil, nil, nil, 20),
		Health:   handlers.NewHealthHandler(nil, version),
	}
	cfg := &config.Config{CORS: config.CORSConfig{AllowedOrigins: []string{"*"}}}
	r, err := New(cfg, h, Options{Admins: stubAdmins{}})
	require.NoError(t, err)
	return r
}

func TestNewRejectsInvalidTrustedProxies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{CORS: config.CORSConfig{AllowedOrigins: []string{"*"}}}
	cfg.Server.TrustedProxies = []string{"10.0.0.0/8", "not-an-ip"}

	h := Handlers{Health: handlers.NewHealthHandler(nil, version)}
	_, err := New(cfg, h, Options{Admins: stubAdmins{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trusted proxies")
}

func TestNewUsesTrustedProxiesForClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{CORS: config.CORSConfig{AllowedOrigins: []string{"*"}}}
	cfg.Server.TrustedProxies = []string{"10.0.0.0/8"}

	h := Handlers{Health: handlers.NewHealthHandler(nil, version)}
	r, err := New(cfg, h, Options{Admins: stubAdmins{}})
	require.NoError(t, err)

	var seen string
	r.GET("/ip", func(c *gin.Context) { seen = c.ClientIP() })

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.RemoteAddr = "10.1.2.3:4000"
	req.Header.Set("X-Forwarded-For", "198.51.100.9")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "198.51.100.9", seen)
}

func TestHealth(t *testing.T) {
	r := testEngine(t, &stubCoordinator{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestStaticSegmentsWinOverSlug(t *testing.T) {
	r := testEngine(t, &stubCoordinator{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/featured", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "featured-divan")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/oq-divan", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "oq-divan")
}

func TestPrivilegedRoutesRequireAdmin(t *testing.T) {
	coordinator := &stubCoordinator{}
	r := testEngine(t, coordinator)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodDelete, "/api/v1/categories/sofa"},
		{http.MethodDelete, "/api/v1/categories/sofa/force"},
		{http.MethodPost, "/api/v1/categories/bulk-delete"},
		{http.MethodDelete, "/api/v1/products/divan"},
		{http.MethodPost, "/api/v1/products/bulk-delete"},
		{http.MethodGet, "/api/v1/admin/reviews"},
		{http.MethodPost, "/api/v1/admin/reviews/bulk-status"},
		{http.MethodGet, "/api/v1/admin/dashboard"},
	}

	for _, route := range routes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(route.method, route.path, nil))
		assert.Equal(t, http.StatusForbidden, w.Code, route.method+" "+route.path)
	}
	assert.Zero(t, coordinator.calls)
}

func TestPrivilegedRouteWithToken(t *testing.T) {
	coordinator := &stubCoordinator{}
	r := testEngine(t, coordinator)

	utils.SetJWTSecret("router-test-secret")
	token, err := utils.GenerateJWT(uuid.New(), "root", 1)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/categories/sofa", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, coordinator.calls)
}
