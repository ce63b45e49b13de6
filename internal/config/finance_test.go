package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFinanceFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "finance.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFinanceConfigFile(t *testing.T) {
	path := writeFinanceFile(t, `
finance:
  businessName: "Wasa Studio"
  profitShare:
    wasaBasisPoints: 3500
    officeBasisPoints: 6500
`)

	holder, err := LoadFinanceConfigFile(path, zap.NewNop())
	require.NoError(t, err)

	cfg := holder.Get()
	assert.Equal(t, "Wasa Studio", cfg.BusinessName)
	assert.Equal(t, int64(3500), cfg.ProfitShare.WasaBasisPoints)
	assert.Equal(t, int64(6500), cfg.ProfitShare.OfficeBasisPoints)
}

func TestLoadFinanceConfigFileRejectsBadSplit(t *testing.T) {
	path := writeFinanceFile(t, `
finance:
  profitShare:
    wasaBasisPoints: 4000
    officeBasisPoints: 5000
`)

	_, err := LoadFinanceConfigFile(path, zap.NewNop())
	assert.Error(t, err)
}

func TestLoadFinanceConfigFileDefaultsBusinessName(t *testing.T) {
	path := writeFinanceFile(t, `
finance:
  profitShare:
    wasaBasisPoints: 4000
    officeBasisPoints: 6000
`)

	holder, err := LoadFinanceConfigFile(path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, DefaultFinanceConfig().BusinessName, holder.Get().BusinessName)
}

func TestValidateFinanceConfig(t *testing.T) {
	assert.NoError(t, ValidateFinanceConfig(DefaultFinanceConfig()))

	negative := DefaultFinanceConfig()
	negative.ProfitShare.WasaBasisPoints = -1
	negative.ProfitShare.OfficeBasisPoints = 10_001
	assert.Error(t, ValidateFinanceConfig(negative))
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "REDIS")
	t.Setenv("CACHE_TTL", "45s")
	t.Setenv("APP_TIMEZONE", "Not/AZone")

	cfg := Load()
	assert.Equal(t, CacheBackendRedis, cfg.Cache.Backend)
	assert.Equal(t, "45s", cfg.Cache.TTL.String())
	assert.Equal(t, DefaultTimezone, cfg.Location().String())
}
