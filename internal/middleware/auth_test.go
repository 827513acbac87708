package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"courtbook/internal/domain"
	"courtbook/internal/pkg/jwt"
)

func TestAuth_ValidToken(t *testing.T) {
	jwtService := jwt.New("test-secret-123", 1*time.Hour)
	validToken, _ := jwtService.GenerateToken(42, domain.RoleCustomer)

	router := gin.New()
	router.Use(Auth(jwtService))
	router.GET("/protected", func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		role, _ := c.Get("role")
		c.JSON(http.StatusOK, gin.H{
			"user_id": userID,
			"role":    role,
		})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+validToken)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "42")
	assert.Contains(t, w.Body.String(), "customer")
}

func TestAuth_InvalidToken(t *testing.T) {
	jwtService := jwt.New("wrong-secret", 1*time.Hour)

	router := gin.New()
	router.Use(Auth(jwtService))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("handler should not be reached")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer invalid-jwt-here")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_MissingHeader(t *testing.T) {
	jwtService := jwt.New("test-secret-123", 1*time.Hour)

	router := gin.New()
	router.Use(Auth(jwtService))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("handler should not be reached")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole_Forbidden(t *testing.T) {
	jwtService := jwt.New("test-secret-123", 1*time.Hour)
	token, _ := jwtService.GenerateToken(7, domain.RoleCustomer)

	router := gin.New()
	router.Use(Auth(jwtService), AdminOnly())
	router.GET("/admin", func(c *gin.Context) {
		t.Fatal("handler should not be reached")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
