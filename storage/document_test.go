package storage

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testRecord struct {
	Balance int64    `json:"balance"`
	Tags    []string `json:"tags,omitempty"`
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Load(ctx context.Context, name string) ([]byte, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockStore) Save(ctx context.Context, name string, data []byte) error {
	args := m.Called(ctx, name, data)
	return args.Error(0)
}

func TestDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("absent file starts empty", func(t *testing.T) {
		doc := OpenDocument[testRecord](ctx, NewFileStore(t.TempDir()), DocumentEconomy)
		assert.Equal(t, 0, doc.Len())
	})

	t.Run("empty file starts empty", func(t *testing.T) {
		store := NewFileStore(t.TempDir())
		require.NoError(t, os.WriteFile(store.Path(DocumentEconomy), nil, 0o644))

		doc := OpenDocument[testRecord](ctx, store, DocumentEconomy)
		assert.Equal(t, 0, doc.Len())
	})

	t.Run("corrupt file starts empty", func(t *testing.T) {
		store := NewFileStore(t.TempDir())
		require.NoError(t, os.WriteFile(store.Path(DocumentEconomy), []byte("{not json"), 0o644))

		doc := OpenDocument[testRecord](ctx, store, DocumentEconomy)
		assert.Equal(t, 0, doc.Len())
	})

	t.Run("put flushes and reload sees data", func(t *testing.T) {
		store := NewFileStore(t.TempDir())
		doc := OpenDocument[testRecord](ctx, store, DocumentEconomy)

		doc.Put(ctx, Key("g1", "u1"), testRecord{Balance: 100})
		doc.Put(ctx, Key("g1", "u2"), testRecord{Balance: 250, Tags: []string{"x"}})

		reloaded := OpenDocument[testRecord](ctx, store, DocumentEconomy)
		require.Equal(t, 2, reloaded.Len())
		rec, ok := reloaded.Get("g1-u2")
		require.True(t, ok)
		assert.Equal(t, int64(250), rec.Balance)
		assert.Equal(t, []string{"x"}, rec.Tags)
	})

	t.Run("delete reports existence and flushes", func(t *testing.T) {
		store := NewFileStore(t.TempDir())
		doc := OpenDocument[testRecord](ctx, store, DocumentMutes)
		doc.Put(ctx, "g1-u1", testRecord{})

		assert.True(t, doc.Delete(ctx, "g1-u1"))
		assert.False(t, doc.Delete(ctx, "g1-u1"))

		reloaded := OpenDocument[testRecord](ctx, store, DocumentMutes)
		assert.Equal(t, 0, reloaded.Len())
	})

	t.Run("scan filters by guild prefix", func(t *testing.T) {
		doc := OpenDocument[testRecord](ctx, NewFileStore(t.TempDir()), DocumentEconomy)
		doc.Put(ctx, "1-a", testRecord{Balance: 1})
		doc.Put(ctx, "12-b", testRecord{Balance: 2})
		doc.Put(ctx, "1-c", testRecord{Balance: 3})

		got := doc.Scan(Key("1", ""))
		assert.Len(t, got, 2)
		assert.Contains(t, got, "1-a")
		assert.Contains(t, got, "1-c")
		assert.Equal(t, []string{"1-a", "1-c", "12-b"}, doc.Keys())
	})

	t.Run("save failure keeps in-memory state", func(t *testing.T) {
		store := new(mockStore)
		store.On("Load", ctx, DocumentEconomy).Return(nil, ErrNotFound)
		store.On("Save", ctx, DocumentEconomy, mock.Anything).Return(errors.New("disk full"))

		doc := OpenDocument[testRecord](ctx, store, DocumentEconomy)
		doc.Put(ctx, "g-u", testRecord{Balance: 42})

		rec, ok := doc.Get("g-u")
		require.True(t, ok)
		assert.Equal(t, int64(42), rec.Balance)
		store.AssertExpectations(t)
	})

	t.Run("load failure starts empty", func(t *testing.T) {
		store := new(mockStore)
		store.On("Load", ctx, DocumentAudit).Return(nil, errors.New("permission denied"))

		doc := OpenDocument[testRecord](ctx, store, DocumentAudit)
		assert.Equal(t, 0, doc.Len())
	})
}
