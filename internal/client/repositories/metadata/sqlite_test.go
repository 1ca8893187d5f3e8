package metadata

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/dirkeeper/internal/client/storage"
	"github.com/dmitrijs2005/dirkeeper/internal/dbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "meta.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSetAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k1", []byte{0x01, 0x02}))

	v, err := r.Get(ctx, "k1")
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02}, v)
}

func TestGet_MissingKeyIsNilNil(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestSet_Upserts(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("old")))
	require.NoError(t, r.Set(ctx, "k", []byte("new")))

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), v)
}

func TestDelete_RemovesKeyAndIsIdempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte{0xAA}))
	require.NoError(t, r.Set(ctx, "b", []byte{0xBB}))

	require.NoError(t, r.Delete(ctx, "a"))
	require.NoError(t, r.Delete(ctx, "a"))

	v, err := r.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = r.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xBB}, v)
}

func TestRepository_ClosedDBErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get metadata[k]")
	require.ErrorContains(t, r.Set(ctx, "k", nil), "failed to set metadata[k]")
	require.ErrorContains(t, r.Delete(ctx, "k"), "failed to delete metadata[k]")
}

func TestTokenStore_RoundTripAndClear(t *testing.T) {
	db := setupDB(t)
	s := NewTokenStore(db)
	fixed := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	ctx := context.Background()

	tok, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, s.Save(ctx, "QpwL5tke4Pnpja7X4"))
	tok, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "QpwL5tke4Pnpja7X4", tok)

	at, err := s.SavedAt(ctx)
	require.NoError(t, err)
	assert.True(t, fixed.Equal(at))

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))
	tok, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	at, err = s.SavedAt(ctx)
	require.NoError(t, err)
	assert.True(t, at.IsZero())
}

func TestTokenStore_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "console.db")

	db, err := storage.InitDatabase(ctx, path)
	require.NoError(t, err)
	require.NoError(t, NewTokenStore(db).Save(ctx, "persisted"))
	require.NoError(t, db.Close())

	db, err = storage.InitDatabase(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	tok, err := NewTokenStore(db).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "persisted", tok)
}

// failingRepo fails writes to one key and delegates everything else.
type failingRepo struct {
	Repository
	key string
}

func (f failingRepo) Set(ctx context.Context, key string, value []byte) error {
	if key == f.key {
		return errors.New("disk full")
	}
	return f.Repository.Set(ctx, key, value)
}

func TestTokenStore_SaveIsAtomic(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	s := NewTokenStore(db)
	require.NoError(t, s.Save(ctx, "old"))

	s.repo = func(q dbx.DBTX) Repository {
		return failingRepo{Repository: NewSQLiteRepository(q), key: KeyTokenSavedAt}
	}
	require.ErrorContains(t, s.Save(ctx, "new"), "disk full")

	tok, err := NewTokenStore(db).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "old", tok, "token write is rolled back with the failed timestamp write")
}
