package persistence

import (
	"context"
	"errors"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ratehub/authcore/domain"
	"github.com/ratehub/authcore/identity"
)

// Repository implements domain.IdentityStorage on top of GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	// Insert maps unique-index violations through gorm.ErrDuplicatedKey,
	// which requires error translation regardless of how the handle was
	// opened.
	db.Config.TranslateError = true
	return &Repository{db: db}
}

func init() {
	Register("sqlite", sqlite.Open)
	Register("postgres", postgres.Open)
	Register("mysql", mysql.Open)
}

// DB exposes the underlying handle for callers that need to share it.
func (r *Repository) DB() *gorm.DB { return r.db }

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&identity.Identity{},
		&identity.Credential{},
	)
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*identity.Identity, *identity.Credential, error) {
	var ident identity.Identity
	if err := r.db.WithContext(ctx).First(&ident, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, err
	}

	var cred identity.Credential
	if err := r.db.WithContext(ctx).First(&cred, "identity_id = ?", ident.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, err
	}

	return &ident, &cred, nil
}

func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&identity.Identity{}).
		Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Insert runs the existence check and the two creates in one transaction.
// The unique index on identities.email backs the check: if a concurrent
// insert for the same email commits first, the create fails and is mapped
// to domain.ErrDuplicateEmail.
func (r *Repository) Insert(ctx context.Context, ident *identity.Identity, cred *identity.Credential) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&identity.Identity{}).Where("email = ?", ident.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrDuplicateEmail
		}
		if err := tx.Create(ident).Error; err != nil {
			return err
		}
		return tx.Create(cred).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateCredential(ctx context.Context, identityID, secret string) error {
	res := r.db.WithContext(ctx).Model(&identity.Credential{}).
		Where("identity_id = ?", identityID).
		Update("secret", secret)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
