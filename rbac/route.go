// Package rbac maps an authenticated identity's role to the dashboard view
// the caller must activate, and provides middleware gating handlers by role.
package rbac

import (
	"errors"
	"fmt"

	"github.com/ratehub/authcore/identity"
)

// View names the external dashboard collaborator for a role.
type View string

const (
	AdminView      View = "admin_dashboard"
	UserView       View = "user_dashboard"
	StoreOwnerView View = "store_owner_dashboard"
)

// ErrUnknownRole signals a contract violation: Role is a closed enumeration
// enforced at the data-model boundary, so this is a defect in the caller,
// not a recoverable runtime condition.
var ErrUnknownRole = errors.New("rbac: unknown role")

// Route returns the view for a role. It is total over the three defined
// roles; any other value yields ErrUnknownRole.
func Route(r identity.Role) (View, error) {
	switch r {
	case identity.RoleAdmin:
		return AdminView, nil
	case identity.RoleUser:
		return UserView, nil
	case identity.RoleStoreOwner:
		return StoreOwnerView, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, r)
}
