// Package authority implements the session authority: the single component
// permitted to mutate session state. It orchestrates login, signup, logout,
// and password rotation against an injected credential store, and owns the
// process-wide current session together with its persisted record.
package authority

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ratehub/authcore/domain"
	"github.com/ratehub/authcore/identity"
	"github.com/ratehub/authcore/validate"
)

var (
	// ErrAuthentication is returned for both an unknown email and a wrong
	// password. The two cases are deliberately indistinguishable so a
	// caller cannot enumerate accounts.
	ErrAuthentication = errors.New("invalid email or password")

	// ErrEmailTaken is returned by Signup when the email is registered.
	ErrEmailTaken = errors.New("email already exists")

	// ErrNotAuthenticated is returned by operations requiring a session.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Authority serializes all session-mutating operations: at most one login,
// signup, logout, or password update is in flight at a time, so an abandoned
// call can never leave the current session mid-transition.
type Authority struct {
	store    domain.IdentityStorage
	sessions domain.SessionStore
	hasher   domain.Hasher
	generate domain.IDGenerator
	lockout  *Lockout
	log      *zap.Logger

	mu      sync.Mutex
	current *identity.Session
}

// New constructs an Authority and restores the persisted session, if any.
// Restore is best-effort: a missing or malformed record leaves the
// authority anonymous, never an error.
func New(store domain.IdentityStorage, sessions domain.SessionStore) *Authority {
	a := &Authority{
		store:    store,
		sessions: sessions,
		hasher:   NewBcryptHasher(0),
		generate: uuid.NewString,
		log:      zap.NewNop(),
	}

	if s, err := sessions.Load(context.Background()); err == nil && s != nil {
		a.current = s
	}

	return a
}

// SetHasher replaces the default bcrypt hasher.
func (a *Authority) SetHasher(h domain.Hasher) { a.hasher = h }

// SetIDGenerator replaces the default UUID generator.
func (a *Authority) SetIDGenerator(g domain.IDGenerator) { a.generate = g }

// SetLogger replaces the default no-op logger.
func (a *Authority) SetLogger(l *zap.Logger) { a.log = l }

// SetLockout enables brute-force protection on Login.
func (a *Authority) SetLockout(l *Lockout) { a.lockout = l }

// Login verifies the credential for email and, on success, establishes and
// persists a new session. On failure the prior session, if any, is left
// unchanged.
func (a *Authority) Login(ctx context.Context, email, password string) (*identity.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.lockout != nil {
		if err := a.lockout.check(ctx, email); err != nil {
			return nil, err
		}
	}

	ident, cred, err := a.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.loginFailed(ctx, email)
			return nil, ErrAuthentication
		}
		return nil, err
	}

	if !a.hasher.Compare(password, cred.Secret) {
		a.loginFailed(ctx, email)
		return nil, ErrAuthentication
	}

	if a.lockout != nil {
		a.lockout.clear(ctx, email)
	}

	s := &identity.Session{Identity: *ident, EstablishedAt: time.Now()}
	if err := a.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	a.current = s

	a.log.Info("session established",
		zap.String("identity_id", ident.ID),
		zap.String("role", ident.Role.String()),
	)
	return s, nil
}

func (a *Authority) loginFailed(ctx context.Context, email string) {
	a.log.Info("authentication failed", zap.String("email", email))
	if a.lockout != nil {
		a.lockout.fail(ctx, email)
	}
}

// Signup validates all fields, creates a regular-user identity with its
// credential, and establishes a session. Any validation failure aborts with
// the full set of field errors and no mutation; a taken email aborts with
// ErrEmailTaken. The role is never caller-chosen through this path.
func (a *Authority) Signup(ctx context.Context, name, email, address, password string) (*identity.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := validate.Signup(name, email, address, password); err != nil {
		return nil, err
	}

	secret, err := a.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	ident := &identity.Identity{
		ID:      a.generate(),
		Name:    name,
		Email:   email,
		Address: address,
		Role:    identity.RoleUser,
	}
	cred := &identity.Credential{
		IdentityID: ident.ID,
		Secret:     secret,
	}

	if err := a.store.Insert(ctx, ident, cred); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s := &identity.Session{Identity: *ident, EstablishedAt: time.Now()}
	if err := a.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	a.current = s

	a.log.Info("identity registered", zap.String("identity_id", ident.ID))
	return s, nil
}

// Logout terminates the current session and clears the persisted record.
// It is idempotent: logging out while anonymous is a no-op.
func (a *Authority) Logout(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.current = nil
	return a.sessions.Clear(ctx)
}

// UpdatePassword rotates the current identity's credential. It requires an
// authenticated session and applies the signup password policy to the new
// password. The previous password is not re-verified.
func (a *Authority) UpdatePassword(ctx context.Context, newPassword string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current == nil {
		return ErrNotAuthenticated
	}

	return a.rotateCredential(ctx, a.current.Identity.ID, newPassword)
}

// UpdatePasswordFor rotates the credential of a specific identity, applying
// the same policy as UpdatePassword. It is for callers that authenticate
// each request on its own (e.g. a bearer token): the rotation targets the
// authenticated caller, never the process-wide current session.
func (a *Authority) UpdatePasswordFor(ctx context.Context, identityID, newPassword string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if identityID == "" {
		return ErrNotAuthenticated
	}

	return a.rotateCredential(ctx, identityID, newPassword)
}

func (a *Authority) rotateCredential(ctx context.Context, identityID, newPassword string) error {
	if err := validate.Password(newPassword); err != nil {
		return err
	}

	secret, err := a.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := a.store.UpdateCredential(ctx, identityID, secret); err != nil {
		return err
	}

	a.log.Info("credential rotated", zap.String("identity_id", identityID))
	return nil
}

// Current returns the current session, or nil when anonymous. The returned
// session is the snapshot taken at establishment.
func (a *Authority) Current() *identity.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}
