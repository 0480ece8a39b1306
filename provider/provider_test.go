package provider

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/opdss/xltable/db"
	iter "github.com/opdss/xltable/iterator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type member struct {
	ID    uint
	Name  string
	Score float64
}

func openDB(t *testing.T) *gorm.DB {
	gdb, err := db.NewDB(zap.NewNop(), db.Config{Driver: db.Sqlite3, Dsn: filepath.Join(t.TempDir(), "members.db")})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&member{}))
	for i, name := range []string{"Ann", "Bob", "Cid", "Dee", "Eve"} {
		require.NoError(t, gdb.Create(&member{Name: name, Score: float64(i)}).Error)
	}
	return gdb
}

func TestGorm(t *testing.T) {
	gdb := openDB(t)
	g := NewGorm[member](gdb.Model(&member{}).Order("id"), WithLimit(2), WithFind())
	values, err := iter.Collect[any](g)
	require.NoError(t, err)
	require.Len(t, values, 5)
	assert.Equal(t, "Ann", values[0].(member).Name)
	assert.Equal(t, "Eve", values[4].(member).Name)
}

func TestMaps(t *testing.T) {
	gdb := openDB(t)
	g := NewMaps(gdb.Table("members").Select("name").Where("score >= ?", 3).Order("id"), WithLimit(1))
	var names []any
	for g.Next() {
		names = append(names, g.Typed()["name"])
	}
	require.NoError(t, g.Err())
	assert.Equal(t, []any{"Dee", "Eve"}, names)
}

func TestSQL(t *testing.T) {
	gdb := openDB(t)
	g := NewSQL[member](gdb, "SELECT id, name, score FROM members WHERE score < ? ORDER BY id", []any{4}, WithLimit(3))
	values, err := iter.Collect[any](g)
	require.NoError(t, err)
	assert.Len(t, values, 4)
}

func TestQueryError(t *testing.T) {
	gdb := openDB(t)
	g := NewSQL[member](gdb, "SELECT * FROM missing", nil)
	assert.False(t, g.Next())
	assert.True(t, ErrQuery.Has(g.Err()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g = NewGorm[member](gdb.Model(&member{}), WithContext(ctx))
	assert.False(t, g.Next())
	assert.Error(t, g.Err())
}

func TestCursor(t *testing.T) {
	gdb := openDB(t)
	g := NewCursor(gdb.Model(&member{}).Where("score > ?", 0), "id", func(m member) any { return m.ID },
		WithLimit(2), WithFind())
	var names []string
	for g.Next() {
		names = append(names, g.Typed().Name)
	}
	require.NoError(t, g.Err())
	assert.Equal(t, []string{"Bob", "Cid", "Dee", "Eve"}, names)
}

func TestSQLCursor(t *testing.T) {
	gdb := openDB(t)
	g := NewSQLCursor(gdb, "SELECT id, name FROM members WHERE name <> ?", []any{"Cid"}, "id", WithLimit(3))
	values, err := iter.Collect[any](g)
	require.NoError(t, err)
	require.Len(t, values, 4)
	assert.Equal(t, "Eve", values[3].(map[string]any)["name"])

	g = NewSQLCursor(gdb, "SELECT name FROM members", nil, "missing")
	assert.False(t, g.Next())
	assert.True(t, ErrQuery.Has(g.Err()))
}
