package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/capex-close/internal/config"
)

func TestNewSession(t *testing.T) {
	testConfig(t)

	s, err := newSession()
	require.NoError(t, err)
	assert.Equal(t, "2026-01", s.Period())

	wells, err := s.Wells("all")
	require.NoError(t, err)
	assert.Len(t, wells, 18)
}

func TestNewSession_BadPeriod(t *testing.T) {
	testConfig(t)
	cfg.Close.Period = "January 2026"

	_, err := newSession()
	require.Error(t, err)
}

func TestInitStore(t *testing.T) {
	testConfig(t)
	cfg.Store = config.StoreConfig{Path: filepath.Join(t.TempDir(), "audit.db")}

	st, err := initStore(context.Background())
	require.NoError(t, err)
	require.NoError(t, st.Close())
}
