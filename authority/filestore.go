package authority

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/ratehub/authcore/domain"
	"github.com/ratehub/authcore/identity"
)

// FileStore implements domain.SessionStore as a single JSON file per client
// context. The record carries the identity snapshot without secret material.
// A missing or malformed file is treated as no session.
type FileStore struct {
	path string
}

var _ domain.SessionStore = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// persistedSession is the on-disk schema.
type persistedSession struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Address       string    `json:"address"`
	Role          string    `json:"role"`
	StoreID       string    `json:"store_id,omitempty"`
	EstablishedAt time.Time `json:"established_at"`
}

func (f *FileStore) Load(ctx context.Context) (*identity.Session, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		// Missing file means anonymous; any other read error is treated
		// the same way so startup never fails on the session record.
		return nil, nil
	}

	var rec persistedSession
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, nil
	}

	role, err := identity.ParseRole(rec.Role)
	if err != nil || rec.ID == "" || rec.Email == "" {
		return nil, nil
	}

	return &identity.Session{
		Identity: identity.Identity{
			ID:      rec.ID,
			Name:    rec.Name,
			Email:   rec.Email,
			Address: rec.Address,
			Role:    role,
			StoreID: rec.StoreID,
		},
		EstablishedAt: rec.EstablishedAt,
	}, nil
}

func (f *FileStore) Save(ctx context.Context, s *identity.Session) error {
	rec := persistedSession{
		ID:            s.Identity.ID,
		Name:          s.Identity.Name,
		Email:         s.Identity.Email,
		Address:       s.Identity.Address,
		Role:          s.Identity.Role.String(),
		StoreID:       s.Identity.StoreID,
		EstablishedAt: s.EstablishedAt,
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	// Write through a temp file so a crash mid-write cannot leave a
	// half-written record behind.
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}

func (f *FileStore) Clear(ctx context.Context) error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
