package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"bazario/api/internal/models"
	"bazario/api/internal/security"
)

func roleTestRouter(source UserSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin",
		AuthenticateUser(testSecret, source),
		RequireRoles(models.RoleAdmin),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
	return router
}

func TestRequireRolesForbidsCustomer(t *testing.T) {
	router := roleTestRouter(stubUserSource{user: models.User{ID: "u1", Role: models.RoleCustomer}})

	token, err := security.IssueSessionToken(testSecret, "u1", "Ada", "customer", time.Hour)
	if err != nil {
		t.Fatalf("IssueSessionToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: UserCookie, Value: token})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 for non-admin", rec.Code)
	}
}

func TestRequireRolesAllowsAdmin(t *testing.T) {
	router := roleTestRouter(stubUserSource{user: models.User{ID: "u1", Role: models.RoleAdmin}})

	token, err := security.IssueSessionToken(testSecret, "u1", "Root", "admin", time.Hour)
	if err != nil {
		t.Fatalf("IssueSessionToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: UserCookie, Value: token})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for admin", rec.Code)
	}
}

func TestRequireRolesWithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin", RequireRoles(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 when no identity stage ran", rec.Code)
	}
}
