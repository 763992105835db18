package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myblog/internal/logger"
	"myblog/internal/repository/sqlite"
)

func TestPgxURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@localhost:5432/blog?sslmode=disable", "pgx5://u:p@localhost:5432/blog?sslmode=disable"},
		{"postgresql://localhost/blog", "pgx5://localhost/blog"},
		{"pgx5://localhost/blog", "pgx5://localhost/blog"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, pgxURL(tt.in))
		})
	}
}

func TestSQLite_UpAndDown(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "blog.db") + "?_pragma=foreign_keys(1)"
	conn, err := sqlite.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	m, err := SQLite(conn)
	require.NoError(t, err)

	require.NoError(t, Up(m, logger.New("test")))
	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(4), version)
	assert.False(t, dirty)

	for _, table := range []string{"users", "posts", "followers"} {
		var name string
		err := conn.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}

	// Running again is a no-op.
	require.NoError(t, Up(m, logger.New("test")))

	require.NoError(t, Down(m))
	var count int
	require.NoError(t, conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'users'`).Scan(&count))
	assert.Zero(t, count)
}
