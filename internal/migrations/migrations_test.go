package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	names, err := fs.Glob(FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		b, err := fs.ReadFile(FS, name)
		require.NoError(t, err)
		body := string(b)
		assert.Contains(t, body, "-- +goose Up", name)
		assert.Contains(t, body, "-- +goose Down", name)
	}
}

func TestInitSchemaConstraints(t *testing.T) {
	b, err := fs.ReadFile(FS, "00001_init.sql")
	require.NoError(t, err)
	body := string(b)

	assert.True(t, strings.Contains(body, "UNIQUE KEY uq_users_username (username)"))
	assert.True(t, strings.Contains(body, "username      VARCHAR(255) COLLATE utf8mb4_bin NOT NULL"), "usernames must compare case-sensitively")
	assert.True(t, strings.Contains(body, "FOREIGN KEY (user_id) REFERENCES users (id)"))
	assert.True(t, strings.Contains(body, "CHAR_LENGTH(instructions) >= 50"))
}
