package metadata

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/dirkeeper/internal/dbx"
)

const (
	KeyToken        = "token"
	KeyTokenSavedAt = "token_saved_at"
)

// TokenStore persists the single session token. Writes are last-write-wins;
// several console processes sharing one database need no coordination.
type TokenStore struct {
	db   *sql.DB
	now  func() time.Time
	repo func(dbx.DBTX) Repository
}

func NewTokenStore(db *sql.DB) *TokenStore {
	return &TokenStore{
		db:   db,
		now:  time.Now,
		repo: func(q dbx.DBTX) Repository { return NewSQLiteRepository(q) },
	}
}

// Load returns the persisted token, "" when none is stored.
func (s *TokenStore) Load(ctx context.Context) (string, error) {
	v, err := s.repo(s.db).Get(ctx, KeyToken)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// SavedAt reports when the current token was stored; zero if unknown.
func (s *TokenStore) SavedAt(ctx context.Context) (time.Time, error) {
	v, err := s.repo(s.db).Get(ctx, KeyTokenSavedAt)
	if err != nil || v == nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, string(v))
	if err != nil {
		return time.Time{}, nil
	}
	return t, nil
}

// Save stores token together with its save time in one transaction.
func (s *TokenStore) Save(ctx context.Context, token string) error {
	savedAt := s.now().UTC().Format(time.RFC3339Nano)
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Set(ctx, KeyToken, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, KeyTokenSavedAt, []byte(savedAt))
	})
}

// Clear removes the token. Clearing an absent token is not an error.
func (s *TokenStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Delete(ctx, KeyToken); err != nil {
			return err
		}
		return repo.Delete(ctx, KeyTokenSavedAt)
	})
}
