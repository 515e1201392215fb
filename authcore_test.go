package authcore

import (
	"context"
	"sync"
	"testing"

	"github.com/ratehub/authcore/domain"
	"github.com/ratehub/authcore/identity"
)

type seedStore struct {
	mu     sync.Mutex
	idents map[string]*identity.Identity
	creds  map[string]*identity.Credential
}

func newSeedStore() *seedStore {
	return &seedStore{
		idents: make(map[string]*identity.Identity),
		creds:  make(map[string]*identity.Credential),
	}
}

func (m *seedStore) FindByEmail(ctx context.Context, email string) (*identity.Identity, *identity.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ident, ok := m.idents[email]
	if !ok {
		return nil, nil, domain.ErrNotFound
	}
	return ident, m.creds[ident.ID], nil
}

func (m *seedStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.idents[email]
	return ok, nil
}

func (m *seedStore) Insert(ctx context.Context, ident *identity.Identity, cred *identity.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.idents[ident.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	m.idents[ident.Email] = ident
	m.creds[ident.ID] = cred
	return nil
}

func (m *seedStore) UpdateCredential(ctx context.Context, identityID, secret string) error {
	return nil
}

type noopHasher struct{}

func (noopHasher) Hash(password string) (string, error) { return "h:" + password, nil }
func (noopHasher) Compare(password, hash string) bool   { return hash == "h:"+password }

func TestSeedDemo(t *testing.T) {
	store := newSeedStore()
	ctx := context.Background()

	if err := SeedDemo(ctx, store, noopHasher{}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	ident, _, err := store.FindByEmail(ctx, "admin@admin.com")
	if err != nil {
		t.Fatalf("admin not seeded: %v", err)
	}
	if ident.Role != identity.RoleAdmin {
		t.Errorf("expected admin role, got %q", ident.Role)
	}

	owner, _, err := store.FindByEmail(ctx, "store@store.com")
	if err != nil {
		t.Fatalf("store owner not seeded: %v", err)
	}
	if owner.Role != identity.RoleStoreOwner || owner.StoreID != "1" {
		t.Errorf("unexpected store owner: %+v", owner)
	}

	// Seeding again is a no-op, not a duplicate error.
	if err := SeedDemo(ctx, store, noopHasher{}); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	if len(store.idents) != 3 {
		t.Errorf("expected 3 accounts, got %d", len(store.idents))
	}
}
