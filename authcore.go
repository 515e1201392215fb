// Package authcore is the identity and session-authority core of the
// store-rating platform. It wires the credential store, the session
// authority, and the role router together; the HTTP surface in api and the
// binary in cmd/authd build on these constructors.
package authcore

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/ratehub/authcore/authority"
	"github.com/ratehub/authcore/domain"
	"github.com/ratehub/authcore/identity"
	"github.com/ratehub/authcore/persistence"
)

// NewDefaultAuthority creates an Authority over a GORM-backed store with a
// JSON file session record.
func NewDefaultAuthority(db *gorm.DB, sessionFile string) *authority.Authority {
	repo := persistence.NewRepository(db)
	return authority.New(repo, authority.NewFileStore(sessionFile))
}

// demoAccount describes one provisioned platform account.
type demoAccount struct {
	id       string
	name     string
	email    string
	address  string
	role     identity.Role
	storeID  string
	password string
}

var demoAccounts = []demoAccount{
	{
		id:       "1",
		name:     "System Administrator Account",
		email:    "admin@admin.com",
		address:  "123 Admin Street, Admin City, Admin State 12345",
		role:     identity.RoleAdmin,
		password: "Admin123!",
	},
	{
		id:       "2",
		name:     "John Doe Regular User Account",
		email:    "user@user.com",
		address:  "456 User Avenue, User City, User State 67890",
		role:     identity.RoleUser,
		password: "User123!",
	},
	{
		id:       "3",
		name:     "Store Owner Business Account",
		email:    "store@store.com",
		address:  "789 Store Boulevard, Store City, Store State 54321",
		role:     identity.RoleStoreOwner,
		storeID:  "1",
		password: "Store123!",
	},
}

// SeedDemo provisions the platform's demo accounts (one per role) when they
// are not already present. Self-service signup can only create regular
// users; this is the administrative path that creates the admin and
// store-owner accounts.
func SeedDemo(ctx context.Context, store domain.IdentityStorage, hasher domain.Hasher) error {
	for _, acc := range demoAccounts {
		exists, err := store.ExistsByEmail(ctx, acc.email)
		if err != nil {
			return fmt.Errorf("seed: checking %s: %w", acc.email, err)
		}
		if exists {
			continue
		}

		secret, err := hasher.Hash(acc.password)
		if err != nil {
			return fmt.Errorf("seed: hashing credential for %s: %w", acc.email, err)
		}

		ident := &identity.Identity{
			ID:      acc.id,
			Name:    acc.name,
			Email:   acc.email,
			Address: acc.address,
			Role:    acc.role,
			StoreID: acc.storeID,
		}
		cred := &identity.Credential{
			IdentityID: ident.ID,
			Secret:     secret,
		}

		if err := store.Insert(ctx, ident, cred); err != nil {
			return fmt.Errorf("seed: inserting %s: %w", acc.email, err)
		}
	}
	return nil
}
