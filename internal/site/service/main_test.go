package service_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hearthside/homesite/internal/site/store"
	"github.com/hearthside/homesite/internal/site/store/drivers/sqlite"
	"github.com/hearthside/homesite/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "service-test-pepper")
	cryptox.SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

// newTestStore opens a throwaway on-disk database with migrations applied.
func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}
