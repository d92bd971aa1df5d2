package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"bazario/api/internal/models"
	"bazario/api/internal/repository"
	"bazario/api/internal/security"
)

const testSecret = "test-secret"

type stubUserSource struct {
	user models.User
	err  error
}

func (s stubUserSource) GetByID(_ context.Context, _ string) (models.User, error) {
	if s.err != nil {
		return models.User{}, s.err
	}
	return s.user, nil
}

func authTestRouter(source UserSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/private", AuthenticateUser(testSecret, source), func(c *gin.Context) {
		userVal, _ := c.Get(ContextUser)
		user := userVal.(models.User)
		c.JSON(http.StatusOK, gin.H{"id": user.ID})
	})
	return router
}

func TestAuthenticateUserMissingCookie(t *testing.T) {
	router := authTestRouter(stubUserSource{user: models.User{ID: "u1"}})

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticateUserGarbageToken(t *testing.T) {
	router := authTestRouter(stubUserSource{user: models.User{ID: "u1"}})

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: UserCookie, Value: "garbage"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticateUserAccountGone(t *testing.T) {
	router := authTestRouter(stubUserSource{err: repository.ErrUserNotFound})

	token, err := security.IssueSessionToken(testSecret, "u1", "Ada", "customer", time.Hour)
	if err != nil {
		t.Fatalf("IssueSessionToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: UserCookie, Value: token})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 for verified token with missing account", rec.Code)
	}
}

func TestAuthenticateUserHappyPath(t *testing.T) {
	router := authTestRouter(stubUserSource{user: models.User{ID: "u1", Role: models.RoleCustomer}})

	token, err := security.IssueSessionToken(testSecret, "u1", "Ada", "customer", time.Hour)
	if err != nil {
		t.Fatalf("IssueSessionToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: UserCookie, Value: token})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
}

func TestAuthenticateUserExpiredToken(t *testing.T) {
	router := authTestRouter(stubUserSource{user: models.User{ID: "u1"}})

	token, err := security.IssueSessionToken(testSecret, "u1", "Ada", "customer", -time.Minute)
	if err != nil {
		t.Fatalf("IssueSessionToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: UserCookie, Value: token})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 for expired token", rec.Code)
	}
}
