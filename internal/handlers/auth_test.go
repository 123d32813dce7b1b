package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/lebem/lebem-backend/internal/i18n"
	"github.com/lebem/lebem-backend/internal/models"
	"github.com/lebem/lebem-backend/internal/services"
)

type fakeAuthenticator struct {
	err error
}

func (f *fakeAuthenticator) Login(ctx context.Context, req *services.LoginRequest) (*services.AuthResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &services.AuthResponse{
		Admin:       &models.AdminUser{Username: req.Username, IsActive: true},
		AccessToken: "signed-token",
		TokenType:   "Bearer",
		ExpiresIn:   86400,
	}, nil
}

type AuthTestSuite struct {
	suite.Suite
	auth   *fakeAuthenticator
	router *gin.Engine
}

func (suite *AuthTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(i18n.Initialize())
}

func (suite *AuthTestSuite) SetupTest() {
	suite.auth = &fakeAuthenticator{}
	suite.router = gin.New()

	auth := suite.router.Group("/auth")
	{
		auth.POST("/login", NewAuthHandler(suite.auth).Login)
	}
}

func (suite *AuthTestSuite) login(body interface{}) *httptest.ResponseRecorder {
	jsonData, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AuthTestSuite) TestLogin() {
	w := suite.login(map[string]interface{}{"username": "admin", "password": "TestPass123!"})
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
			ExpiresIn   int    `json:"expires_in"`
		} `json:"data"`
	}
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(suite.T(), response.Success)
	assert.Equal(suite.T(), "signed-token", response.Data.AccessToken)
	assert.Equal(suite.T(), "Bearer", response.Data.TokenType)
	assert.Equal(suite.T(), 86400, response.Data.ExpiresIn)
}

func (suite *AuthTestSuite) TestLoginBadCredentials() {
	suite.auth.err = services.ErrInvalidCredentials

	w := suite.login(map[string]interface{}{"username": "admin", "password": "wrong"})
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	assert.NotContains(suite.T(), w.Body.String(), "access_token")
}

func (suite *AuthTestSuite) TestLoginMalformedBody() {
	req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *AuthTestSuite) TestLoginStoreFailureIsHidden() {
	suite.auth.err = errors.New("dial tcp 10.0.0.5:5432: connection refused")

	w := suite.login(map[string]interface{}{"username": "admin", "password": "x"})
	assert.Equal(suite.T(), http.StatusInternalServerError, w.Code)
	assert.NotContains(suite.T(), w.Body.String(), "10.0.0.5")
}

func TestAuthSuite(t *testing.T) {
	suite.Run(t, new(AuthTestSuite))
}
