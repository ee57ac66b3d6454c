package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_Embedded(t *testing.T) {
	names, err := fs.Glob(Migrations, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	body, err := fs.ReadFile(Migrations, names[0])
	require.NoError(t, err)
	s := string(body)
	assert.True(t, strings.HasPrefix(s, "-- +goose Up"))
	assert.Contains(t, s, "-- +goose Down")
	for _, table := range []string{"users", "verification_tokens", "password_reset_tokens", "prompts"} {
		assert.Contains(t, s, "CREATE TABLE "+table+" (")
	}
}
