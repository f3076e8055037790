package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.db

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestScopedKV(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	session := s.Session()
	local := s.Local()

	_, ok, err := session.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, session.Set(ctx, "k", "one"))
	require.NoError(t, local.Set(ctx, "k", "other"))

	v, ok, err := session.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "one", v)

	// Overwrite uses the upsert path.
	require.NoError(t, session.Set(ctx, "k", "two"))
	v, _, _ = session.Get(ctx, "k")
	assert.Equal(t, "two", v)

	require.NoError(t, session.Clear(ctx))
	_, ok, _ = session.Get(ctx, "k")
	assert.False(t, ok)

	v, ok, _ = local.Get(ctx, "k")
	assert.True(t, ok, "clearing one scope must not touch another")
	assert.Equal(t, "other", v)

	require.NoError(t, local.Remove(ctx, "k"))
	require.NoError(t, local.Remove(ctx, "k"))
	_, ok, _ = local.Get(ctx, "k")
	assert.False(t, ok)
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Local().Set(ctx, "history", "[]"))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.Local().Get(ctx, "history")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
}

func TestMemoryKV(t *testing.T) {
	ctx := context.Background()
	var m MemoryKV

	require.NoError(t, m.Set(ctx, "b", "2"))
	require.NoError(t, m.Set(ctx, "a", "1"))
	assert.Equal(t, []string{"a", "b"}, m.Keys())

	require.NoError(t, m.Remove(ctx, "a"))
	_, ok, _ := m.Get(ctx, "a")
	assert.False(t, ok)

	require.NoError(t, m.Clear(ctx))
	assert.Empty(t, m.Keys())
}

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

const pointSchema = `{
	"type": "object",
	"required": ["x", "y"],
	"properties": {
		"x": {"type": "integer"},
		"y": {"type": "integer"}
	}
}`

func TestSlotRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	slot := NewSlot[point]("test.point", pointSchema)

	_, ok, err := slot.Load(ctx, kv)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, slot.Save(ctx, kv, point{X: 3, Y: -4}))
	got, ok, err := slot.Load(ctx, kv)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, point{X: 3, Y: -4}, got)

	require.NoError(t, slot.Delete(ctx, kv))
	_, ok, _ = slot.Load(ctx, kv)
	assert.False(t, ok)
}

func TestSlotCorrupt(t *testing.T) {
	ctx := context.Background()
	slot := NewSlot[point]("test.point", pointSchema)

	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{oops"},
		{"missing field", `{"x": 1}`},
		{"wrong type", `{"x": "1", "y": 2}`},
		{"array", `[1, 2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := NewMemoryKV()
			require.NoError(t, kv.Set(ctx, slot.Key, tt.raw))

			_, ok, err := slot.Load(ctx, kv)
			assert.False(t, ok)
			var ce *CorruptError
			if !errors.As(err, &ce) {
				t.Fatalf("err = %v, want *CorruptError", err)
			}
			assert.Equal(t, slot.Key, ce.Key)
		})
	}
}
