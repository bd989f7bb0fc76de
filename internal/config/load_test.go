package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = os.Chdir(originalWD)
	})

	require.NoError(t, os.Chdir(tempDir))
	return tempDir
}

func TestLoadConfig_HappyPath(t *testing.T) {
	tempDir := chdirTemp(t)

	configsDir := filepath.Join(tempDir, "configs")
	require.NoError(t, os.Mkdir(configsDir, 0755))

	envContent := fmt.Sprintf(
		"APP_NAME=%s\nSERVER_PORT=%d\nLOG_LEVEL=%s\nKAFKA_BROKERS=%s\nMARKETPLACE_ALLOW_REVERIFICATION=true\n",
		"TestMarketplace", 9090, "debug", "kafka1:9092",
	)
	require.NoError(t, os.WriteFile(filepath.Join(configsDir, "test_happy.env"), []byte(envContent), 0644))

	cfg, err := LoadConfig("test_happy")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "TestMarketplace", cfg.Application.Name)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "kafka1:9092", cfg.Kafka.Brokers)
	assert.True(t, cfg.Marketplace.AllowReverification)

	assert.Equal(t, "development", cfg.Application.Env)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "marketplace_events", cfg.Kafka.EventsTopic)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 12, cfg.Marketplace.DefaultPageSize)
	assert.Equal(t, 10, cfg.WorkerPool.Size)

	cfgWithName, err := LoadConfigWithName("configs/test_happy")
	require.NoError(t, err)
	assert.Equal(t, "TestMarketplace", cfgWithName.Application.Name)

	cfgWithNameAndType, err := LoadConfigWithNameAndType("configs/test_happy", "env")
	require.NoError(t, err)
	assert.Equal(t, "TestMarketplace", cfgWithNameAndType.Application.Name)
}

func TestLoadConfig_SharedEnvFile(t *testing.T) {
	tempDir := chdirTemp(t)

	secret := "shared-secret-from-dotenv-file-0123456789"
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, SharedEnvFile), []byte("AUTH_JWT_SECRET="+secret+"\n"), 0644))
	t.Cleanup(func() {
		_ = os.Unsetenv("AUTH_JWT_SECRET")
	})

	cfg, err := LoadConfig("missing_service")
	require.NoError(t, err)
	assert.Equal(t, secret, cfg.Auth.JWTSecret)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tempDir := chdirTemp(t)

	envContent := "SERVER_PORT=0\nAUTH_JWT_SECRET=short\nMARKETPLACE_MAX_PAGE_SIZE=5\n"
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "broken.env"), []byte(envContent), 0644))

	cfg, err := LoadConfig("broken")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "SERVER_PORT must be greater than 0")
	assert.Contains(t, err.Error(), "AUTH_JWT_SECRET must be at least 32 characters")
	assert.Contains(t, err.Error(), "MARKETPLACE_MAX_PAGE_SIZE must not be lower than MARKETPLACE_DEFAULT_PAGE_SIZE")
}

func TestConfig_Validate_Defaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := buildConfig(v)
	assert.NoError(t, cfg.validate(), "Default config should be valid")
}

func TestConfig_Validate_MissingRedis(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := buildConfig(v)
	cfg.Redis.Addr = ""
	cfg.Redis.CacheTTL = 0

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_ADDR is required")
	assert.Contains(t, err.Error(), "REDIS_CACHE_TTL must be greater than 0")
}
