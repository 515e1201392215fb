// Package domain defines the ports the authority is wired with.
package domain

import (
	"context"
	"errors"

	"github.com/ratehub/authcore/identity"
)

var (
	// ErrNotFound is returned when no record matches a lookup.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned by Insert when the email is taken.
	ErrDuplicateEmail = errors.New("email already registered")
)

// IdentityStorage is the credential store: the source of truth for
// identity + credential pairs.
type IdentityStorage interface {
	// FindByEmail returns the identity and credential for an email,
	// or ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*identity.Identity, *identity.Credential, error)

	// ExistsByEmail reports whether an identity with the email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Insert stores a new identity with its credential. The uniqueness
	// check and the insert are atomic: of two concurrent inserts for the
	// same email exactly one succeeds, the other gets ErrDuplicateEmail.
	Insert(ctx context.Context, ident *identity.Identity, cred *identity.Credential) error

	// UpdateCredential replaces the secret for an identity, or ErrNotFound.
	UpdateCredential(ctx context.Context, identityID, secret string) error
}

// SessionStore persists the single current session for a client context.
// Only the authority writes it.
type SessionStore interface {
	// Load reads the persisted session. A missing or malformed record is
	// not an error: it returns (nil, nil).
	Load(ctx context.Context) (*identity.Session, error)

	// Save writes the session, replacing any previous record.
	Save(ctx context.Context, s *identity.Session) error

	// Clear removes the persisted record. Clearing an absent record is a
	// no-op.
	Clear(ctx context.Context) error
}

// Hasher defines the interface for password hashing and verification.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(password, hash string) bool
}

// IDGenerator produces a new unique identity id.
type IDGenerator func() string
