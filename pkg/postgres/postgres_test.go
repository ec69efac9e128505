package postgres

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDB_DSN(t *testing.T) {
	t.Parallel()
	cfg := DB{
		Host:     "db",
		Port:     "5432",
		Username: "lending",
		Password: "p@ss",
		NameDB:   "lending",
		SSLMode:  "disable",
	}
	require.Equal(t, "postgres://lending:p%40ss@db:5432/lending?sslmode=disable", cfg.DSN())
}
