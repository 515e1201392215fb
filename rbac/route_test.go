package rbac

import (
	"errors"
	"testing"

	"github.com/ratehub/authcore/identity"
)

func TestRoute(t *testing.T) {
	cases := []struct {
		role identity.Role
		view View
	}{
		{identity.RoleAdmin, AdminView},
		{identity.RoleUser, UserView},
		{identity.RoleStoreOwner, StoreOwnerView},
	}

	for _, c := range cases {
		view, err := Route(c.role)
		if err != nil {
			t.Errorf("Route(%q): unexpected error: %v", c.role, err)
		}
		if view != c.view {
			t.Errorf("Route(%q): got %q, want %q", c.role, view, c.view)
		}
	}
}

func TestRouteUnknownRole(t *testing.T) {
	_, err := Route(identity.Role("superuser"))
	if !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}
