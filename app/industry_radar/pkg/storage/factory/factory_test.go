package factory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/industry_radar/app/industry_radar/pkg/config"
)

func TestOpen_SQLite(t *testing.T) {
	s, err := Open(context.Background(), config.DBConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "r.db")})
	require.NoError(t, err)
	defer s.Close()

	reports, err := s.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DBConfig{Driver: "mongo"})
	assert.Error(t, err)
}
