package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDriverURL(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{name: "postgres scheme", in: "postgres://u:p@localhost:5432/shop", want: "pgx5://u:p@localhost:5432/shop"},
		{name: "postgresql scheme", in: "postgresql://localhost/shop?sslmode=disable", want: "pgx5://localhost/shop?sslmode=disable"},
		{name: "already pgx5", in: "pgx5://localhost/shop", want: "pgx5://localhost/shop"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, driverURL(tc.in))
		})
	}
}

func TestEmbeddedFiles(t *testing.T) {
	// given
	entries, err := files.ReadDir(".")

	// then
	assert.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_init.up.sql")
	assert.Contains(t, names, "000001_init.down.sql")
}
