package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLoadWritesDefaultConfigWhenMissing(t *testing.T) {
	logger := zerolog.Nop()
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, resolved, err := Load(&logger, path)
	require.NoError(t, err)
	require.Equal(t, path, resolved)
	require.Equal(t, Default().InviteCode, cfg.InviteCode)

	_, statErr := os.Stat(path)
	require.NoError(t, statErr, "default config should be written")
}

func TestLoadPrecedence(t *testing.T) {
	logger := zerolog.Nop()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9000\"\ninvite_code: FROMFILE\nsend_buffer: 8\n"), 0o600))

	t.Setenv("SHINEHUB_INVITE_CODE", "FROMENV")

	cfg, _, err := Load(&logger, path)
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.Addr)
	require.Equal(t, "FROMENV", cfg.InviteCode)
	require.Equal(t, 8, cfg.SendBuffer)
	require.Equal(t, Default().JWTTTL, cfg.JWTTTL)
}

func TestUpdateFromKeepsZeroValues(t *testing.T) {
	cfg := Default()
	cfg.UpdateFrom(Config{Addr: ":1", ShutdownTimeout: time.Minute})

	require.Equal(t, ":1", cfg.Addr)
	require.Equal(t, time.Minute, cfg.ShutdownTimeout)
	require.Equal(t, Default().DatabasePath, cfg.DatabasePath)
}
