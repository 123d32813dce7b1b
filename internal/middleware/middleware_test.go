package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/lebem/lebem-backend/internal/config"
	"github.com/lebem/lebem-backend/internal/i18n"
	"github.com/lebem/lebem-backend/internal/models"
	"github.com/lebem/lebem-backend/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := i18n.Initialize(); err != nil {
		panic(err)
	}
}

type stubLookup struct {
	err error
}

func (s stubLookup) ActiveAdmin(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.AdminUser{BaseModel: models.BaseModel{ID: id}, Username: "root", IsActive: true}, nil
}

func adminRouter(lookup AdminLookup) *gin.Engine {
	r := gin.New()
	r.Use(I18nMiddleware())
	r.GET("/admin/ping", AdminRequired(lookup), func(c *gin.Context) {
		adminID, _ := utils.GetAdminIDFromContext(c)
		c.String(http.StatusOK, adminID)
	})
	return r
}

func TestAdminRequired(t *testing.T) {
	utils.SetJWTSecret("middleware-test-secret")
	adminID := uuid.New()
	token, err := utils.GenerateJWT(adminID, "root", 1)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		lookup AdminLookup
		status int
	}{
		{"missing header", "", stubLookup{}, http.StatusForbidden},
		{"wrong scheme", "Basic " + token, stubLookup{}, http.StatusForbidden},
		{"garbage token", "Bearer not-a-jwt", stubLookup{}, http.StatusForbidden},
		{"disabled admin", "Bearer " + token, stubLookup{err: errors.New("record not found")}, http.StatusForbidden},
		{"valid admin", "Bearer " + token, stubLookup{}, http.StatusOK},
		{"lowercase scheme", "bearer " + token, stubLookup{}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			adminRouter(tt.lookup).ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, adminID.String(), w.Body.String())
			}
		})
	}
}

func TestAdminRequiredDenialIsGeneric(t *testing.T) {
	utils.SetJWTSecret("middleware-test-secret")
	token, err := utils.GenerateJWT(uuid.New(), "root", 1)
	require.NoError(t, err)

	bodies := make([]string, 0, 2)
	for _, header := range []string{"", "Bearer " + token + "x"} {
		req := httptest.NewRequest(http.MethodGet, "/admin/ping?lang=en", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		adminRouter(stubLookup{}).ServeHTTP(w, req)
		require.Equal(t, http.StatusForbidden, w.Code)
		bodies = append(bodies, w.Body.String())
	}
	assert.Equal(t, bodies[0], bodies[1])
}

func TestI18nMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(I18nMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, utils.GetLangFromContext(c)) })

	tests := []struct {
		name   string
		query  string
		header string
		want   string
	}{
		{"default", "", "", "uz"},
		{"query wins", "?lang=en", "ru-RU", "en"},
		{"header region", "", "ru-RU,ru;q=0.9", "ru"},
		{"first supported", "", "de-DE,en;q=0.5", "en"},
		{"unsupported falls back", "?lang=fr", "de", "uz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Accept-Language", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}

func TestRateLimiterRejectsBurst(t *testing.T) {
	rl := NewRateLimiter(rate.Every(time.Hour), 2)
	r := gin.New()
	r.Use(I18nMiddleware())
	r.POST("/reviews", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/reviews?lang=en", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			var resp utils.APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "RATE_LIMITED", resp.Error.Code)
		}
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)

	// Another client has its own bucket
	req := httptest.NewRequest(http.MethodPost, "/reviews", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRateLimiterEvictsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(rate.Every(time.Second), 1)
	rl.getVisitor("10.0.0.1")
	rl.evict(time.Now().Add(time.Hour))
	assert.Empty(t, rl.visitors)
}

func TestExtractResource(t *testing.T) {
	tests := []struct {
		path     string
		resource string
		key      string
	}{
		{"/api/v1/admin/categories/sofa", "categories", "sofa"},
		{"/api/v1/admin/categories/sofa/restore", "categories", "sofa"},
		{"/api/v1/admin/products/bulk/deactivate", "products", ""},
		{"/api/v1/admin/reviews", "reviews", ""},
		{"/api/v1/reviews", "reviews", ""},
	}
	for _, tt := range tests {
		resource, key := extractResource(tt.path)
		assert.Equal(t, tt.resource, resource, tt.path)
		assert.Equal(t, tt.key, key, tt.path)
	}
}

func TestRedactBody(t *testing.T) {
	out := redactBody([]byte(`{"username":"root","password":"hunter2"}`))
	var data map[string]string
	require.NoError(t, json.Unmarshal(out, &data))
	assert.Equal(t, "root", data["username"])
	assert.Equal(t, "***", data["password"])

	assert.Nil(t, redactBody(nil))
	assert.Nil(t, redactBody([]byte(`[1,2,3]`)))
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORS(config.CORSConfig{AllowedOrigins: []string{"https://lebem.uz"}}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://lebem.uz")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://lebem.uz", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
