// Package identity provides the core identity types for the authcore module.
//
// This package defines the fundamental types for platform accounts,
// credentials, and sessions. An Identity is the public-facing profile of an
// account; the Credential holding its secret material is a separate type that
// never leaves the storage/authority boundary, so an Identity handed to a
// caller can never leak a secret by construction.
//
// # Roles
//
// Role is a closed enumeration:
//   - admin: platform administrator
//   - user: regular customer account
//   - store_owner: business account bound to a store
//
// Accounts created through self-service signup are always regular users;
// admin and store-owner accounts are provisioned administratively.
package identity

import (
	"fmt"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleUser       Role = "user"
	RoleStoreOwner Role = "store_owner"
)

// ParseRole converts a stored role string into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleUser, RoleStoreOwner:
		return Role(s), nil
	}
	return "", fmt.Errorf("identity: unknown role %q", s)
}

// Valid reports whether r is one of the three defined roles.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string { return string(r) }

// Identity represents a platform account's profile and role.
// It carries no secret material.
type Identity struct {
	ID      string `gorm:"primaryKey" json:"id"`
	Name    string `json:"name"`
	Email   string `gorm:"uniqueIndex" json:"email"`
	Address string `json:"address"`
	Role    Role   `gorm:"index" json:"role"`

	// StoreID references the owned store; set iff Role is store_owner.
	StoreID string `json:"store_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Identity) TableName() string { return "identities" }

// Credential is the secret material proving control of an Identity,
// associated 1:1 by identity id.
type Credential struct {
	IdentityID string    `gorm:"primaryKey" json:"identity_id"`
	Secret     string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Credential) TableName() string { return "credentials" }

// Session is the live binding between a client context and one Identity.
// The embedded Identity is a snapshot taken at establishment; later store
// mutations do not flow into an open session.
type Session struct {
	Identity      Identity  `json:"identity"`
	EstablishedAt time.Time `json:"established_at"`
}
