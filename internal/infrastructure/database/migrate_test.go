package database

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/migrations"
)

func Test_LoadMigrations_OrdersByVersionAndSkipsDown(t *testing.T) {
	fsys := fstest.MapFS{
		"000010_add_index.up.sql":   {Data: []byte("CREATE INDEX i ON t (c);")},
		"000002_books.up.sql":       {Data: []byte("CREATE TABLE books ();")},
		"000002_books.down.sql":     {Data: []byte("DROP TABLE books;")},
		"README.md":                 {Data: []byte("notes")},
		"000001_init.up.sql":        {Data: []byte("SELECT 1;")},
		"000001_init.down.sql":      {Data: []byte("SELECT 0;")},
		"000010_add_index.down.sql": {Data: []byte("DROP INDEX i;")},
	}

	got, err := LoadMigrations(fsys)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, uint64(1), got[0].Version)
	assert.Equal(t, "init", got[0].Name)
	assert.Equal(t, uint64(2), got[1].Version)
	assert.Equal(t, "CREATE TABLE books ();", got[1].SQL)
	assert.Equal(t, uint64(10), got[2].Version)
	assert.Equal(t, "add_index", got[2].Name)
}

func Test_LoadMigrations_RejectsBadNames(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{"no separator", fstest.MapFS{"init.up.sql": {}}},
		{"non numeric version", fstest.MapFS{"abc_init.up.sql": {}}},
		{"zero version", fstest.MapFS{"000000_init.up.sql": {}}},
		{"duplicate version", fstest.MapFS{"000001_a.up.sql": {}, "1_b.up.sql": {}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMigrations(tt.fsys)
			assert.Error(t, err)
		})
	}
}

func Test_LoadMigrations_EmbeddedSchema(t *testing.T) {
	got, err := LoadMigrations(migrations.FS())
	require.NoError(t, err)

	require.NotEmpty(t, got)
	assert.Equal(t, uint64(1), got[0].Version)
	assert.Contains(t, got[0].SQL, "CREATE TABLE IF NOT EXISTS loans")
	assert.Contains(t, got[0].SQL, "uq_loans_active_book_reader")
}
