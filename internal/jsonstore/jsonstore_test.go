package jsonstore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techshop-backend/internal/models"
)

func TestLoadMissingFile(t *testing.T) {
	store := New(t.TempDir())

	var products []models.Product
	err := store.Load("products", &products)

	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist), "missing file must surface as fs.ErrNotExist, got %v", err)
	assert.False(t, errors.Is(err, ErrCorrupt))
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.json"), []byte("{not json"), 0o644))

	store := New(dir)
	var products []models.Product
	err := store.Load("products", &products)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorrupt), "corrupt file must surface as ErrCorrupt, got %v", err)
}

func TestSaveThenLoad(t *testing.T) {
	store := New(t.TempDir())

	in := []models.Product{
		{ID: 1, Name: "Gaming Laptop", Price: 1299.99, Category: "Electronics", Stock: 15},
		{ID: 2, Name: "Coffee Mug", Price: 14.99, Category: "Home", Stock: 100},
	}
	require.NoError(t, store.Save("products", in))

	var out []models.Product
	require.NoError(t, store.Load("products", &out))
	require.Len(t, out, 2)
	assert.Equal(t, in[0].Name, out[0].Name)
	assert.Equal(t, in[1].Stock, out[1].Stock)
}

func TestSaveOverwritesWholeCollection(t *testing.T) {
	store := New(t.TempDir())

	require.NoError(t, store.Save("users", []models.User{{ID: 1, Email: "a@b.c"}, {ID: 2, Email: "d@e.f"}}))
	require.NoError(t, store.Save("users", []models.User{{ID: 3, Email: "g@h.i"}}))

	var users []models.User
	require.NoError(t, store.Load("users", &users))
	require.Len(t, users, 1)
	assert.Equal(t, int64(3), users[0].ID)
}
