package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ratehub/authcore/identity"
)

func TestRequireRole(t *testing.T) {
	e := echo.New()
	handler := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }

	serve := func(ident *identity.Identity, required identity.Role) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if ident != nil {
			SetIdentity(c, ident)
		}

		err := RequireRole(required)(handler)(c)
		if err != nil {
			if he, ok := err.(*echo.HTTPError); ok {
				return he.Code
			}
			t.Fatalf("unexpected error type: %v", err)
		}
		return rec.Code
	}

	admin := &identity.Identity{ID: "1", Role: identity.RoleAdmin}

	if code := serve(admin, identity.RoleAdmin); code != http.StatusOK {
		t.Errorf("admin accessing admin route: got %d", code)
	}
	if code := serve(admin, identity.RoleStoreOwner); code != http.StatusForbidden {
		t.Errorf("admin accessing store-owner route: got %d", code)
	}
	if code := serve(nil, identity.RoleUser); code != http.StatusUnauthorized {
		t.Errorf("anonymous request: got %d", code)
	}
}
