package rbac

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"devsecops-platform/internal/auth"

	"github.com/gin-gonic/gin"
)

// asPrincipal fakes the auth middleware by injecting a principal directly.
func asPrincipal(p auth.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

func adminRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append(mw, RequireAdmin(), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	r.GET("/admin", handlers...)
	return r
}

func TestRequire_NoPrincipalIs401(t *testing.T) {
	r := adminRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Missing Authorization Header") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestRequire_WrongRoleIs403(t *testing.T) {
	r := adminRouter(asPrincipal(auth.Principal{UserID: "u", Role: RoleUser}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Lack of Permission: require admin authorization") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestRequire_AdminPasses(t *testing.T) {
	r := adminRouter(asPrincipal(auth.Principal{UserID: "a", Role: RoleAdmin}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRequire_AdminSatisfiesUserRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/files",
		asPrincipal(auth.Principal{UserID: "a", Role: RoleAdmin}),
		Require(RequireRole(RoleUser)),
		func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) },
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}
