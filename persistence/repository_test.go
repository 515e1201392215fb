package persistence

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/ratehub/authcore/domain"
	"github.com/ratehub/authcore/identity"
)

func setupRepo(t *testing.T) domain.IdentityStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	repo, err := NewStorage("sqlite", dbPath, nil)
	if err != nil {
		t.Fatalf("failed to setup repo: %v", err)
	}
	return repo
}

func TestRepositoryInsertAndFind(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	ident := &identity.Identity{
		ID:      "1",
		Name:    "System Administrator Account",
		Email:   "admin@admin.com",
		Address: "123 Admin Street",
		Role:    identity.RoleAdmin,
	}
	cred := &identity.Credential{IdentityID: "1", Secret: "hashed"}

	if err := repo.Insert(ctx, ident, cred); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	exists, err := repo.ExistsByEmail(ctx, "admin@admin.com")
	if err != nil || !exists {
		t.Fatalf("expected email to exist, got %v %v", exists, err)
	}

	got, gotCred, err := repo.FindByEmail(ctx, "admin@admin.com")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if got.ID != "1" || got.Role != identity.RoleAdmin {
		t.Errorf("unexpected identity: %+v", got)
	}
	if gotCred.Secret != "hashed" {
		t.Errorf("unexpected credential: %+v", gotCred)
	}

	if _, _, err := repo.FindByEmail(ctx, "nobody@nowhere.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRepositoryDuplicateEmail(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	first := &identity.Identity{ID: "1", Name: "n", Email: "dup@test.com", Role: identity.RoleUser}
	second := &identity.Identity{ID: "2", Name: "n", Email: "dup@test.com", Role: identity.RoleUser}

	if err := repo.Insert(ctx, first, &identity.Credential{IdentityID: "1", Secret: "s"}); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	err := repo.Insert(ctx, second, &identity.Credential{IdentityID: "2", Secret: "s"})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestRepositoryCallerSuppliedHandle(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}

	repo := NewRepository(db)
	if !db.Config.TranslateError {
		t.Fatal("expected error translation on a caller-supplied handle")
	}
	if err := repo.AutoMigrate(); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	// A handle opened without error translation still has to surface
	// unique-index violations as ErrDuplicateEmail.
	ctx := context.Background()
	first := &identity.Identity{ID: "1", Name: "n", Email: "dup@test.com", Role: identity.RoleUser}
	second := &identity.Identity{ID: "2", Name: "n", Email: "dup@test.com", Role: identity.RoleUser}

	if err := repo.Insert(ctx, first, &identity.Credential{IdentityID: "1", Secret: "s"}); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	err = repo.Insert(ctx, second, &identity.Credential{IdentityID: "2", Secret: "s"})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestRepositoryUpdateCredential(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	ident := &identity.Identity{ID: "1", Name: "n", Email: "u@test.com", Role: identity.RoleUser}
	if err := repo.Insert(ctx, ident, &identity.Credential{IdentityID: "1", Secret: "old"}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if err := repo.UpdateCredential(ctx, "1", "new"); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	_, cred, err := repo.FindByEmail(ctx, "u@test.com")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if cred.Secret != "new" {
		t.Errorf("expected rotated secret, got %q", cred.Secret)
	}

	if err := repo.UpdateCredential(ctx, "missing", "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
