package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_HappyPath(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	tempConfigsSubDir := filepath.Join(tempDir, "configs")
	err = os.Mkdir(tempConfigsSubDir, 0755)
	require.NoError(t, err)

	testAppName := "TestStore"
	testPort := 9090
	testLogLevel := "debug"
	testAdminEmail := "owner@store.test"

	envContent := fmt.Sprintf(
		"APP_NAME=%s\nSERVER_PORT=%d\nLOG_LEVEL=%s\nSTORE_ADMIN_EMAIL=%s\n",
		testAppName, testPort, testLogLevel, testAdminEmail,
	)
	envFilePath := filepath.Join(tempConfigsSubDir, "test_happy.env")
	err = os.WriteFile(envFilePath, []byte(envContent), 0644)
	require.NoError(t, err)

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	defer func() {
		_ = os.Chdir(originalWD)
	}()

	err = os.Chdir(tempDir)
	require.NoError(t, err)

	cfg, err := LoadConfig("test_happy")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, testAppName, cfg.Application.Name)
	assert.Equal(t, testPort, cfg.Server.Port)
	assert.Equal(t, testLogLevel, cfg.Logging.Level)
	assert.Equal(t, testAdminEmail, cfg.Store.AdminEmail)

	// Defaults fill everything the file does not set
	assert.Equal(t, "development", cfg.Application.Env)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 20, cfg.Store.LedgerRetention)
	assert.Equal(t, 900*time.Second, cfg.Store.PriceCacheTTL)
	assert.Equal(t, "0.01", cfg.Store.PriceTolerance)
	assert.Equal(t, 30*time.Second, cfg.Provider.Timeout)
	assert.True(t, cfg.Games.FreeFireLatamEnabled)
	assert.True(t, cfg.Games.FreeFireGlobalEnabled)
	assert.True(t, cfg.Games.BlockStrikerEnabled)
	assert.Equal(t, 10, cfg.WorkerPool.Size)
}

func TestLoadConfig_DefaultsOnly(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	defer func() {
		_ = os.Chdir(originalWD)
	}()

	err = os.Chdir(tempDir)
	require.NoError(t, err)

	// No file at all: defaults alone must produce a valid configuration
	cfg, err := LoadConfig("does_not_exist")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "admin@gmail.com", cfg.Store.AdminEmail)
	assert.Empty(t, cfg.Provider.FreeFireLatam.URL)
}

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server: ServerConfig{
				Port:            8080,
				ShutdownTimeout: time.Second,
				ReadTimeout:     time.Second,
				WriteTimeout:    time.Second,
				IdleTimeout:     time.Second,
			},
			Postgres: PostgresConfig{
				URL:             "postgres://localhost/db",
				MaxConns:        10,
				MinConns:        2,
				ConnMaxLifetime: time.Hour,
				ConnMaxIdleTime: time.Minute,
			},
			Store: StoreConfig{
				AdminEmail:      "admin@gmail.com",
				LedgerRetention: 20,
				PriceCacheTTL:   time.Minute,
				PriceTolerance:  "0.01",
			},
			Provider:   ProviderConfig{Timeout: time.Second},
			WorkerPool: WorkerPoolConfig{Size: 5},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, base().validate())
	})

	t.Run("missing admin email", func(t *testing.T) {
		cfg := base()
		cfg.Store.AdminEmail = ""
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "STORE_ADMIN_EMAIL")
	})

	t.Run("retention must be positive", func(t *testing.T) {
		cfg := base()
		cfg.Store.LedgerRetention = 0
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "STORE_LEDGER_RETENTION")
	})

	t.Run("provider url without credentials", func(t *testing.T) {
		cfg := base()
		cfg.Provider.FreeFireLatam = ProviderEndpoint{URL: "https://provider.test"}
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PROVIDER_FREEFIRE_LATAM_USERNAME")
	})

	t.Run("endpoint without url needs nothing", func(t *testing.T) {
		cfg := base()
		cfg.Provider.FreeFireGlobal = ProviderEndpoint{}
		assert.NoError(t, cfg.validate())
	})
}
