package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chative-core-poc-v1/leadqual/internal/core"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "key")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, core.Development, cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, SinkMemory, cfg.LeadSink)
	assert.Equal(t, 10*time.Second, cfg.SinkTimeout)
	assert.Equal(t, "gemini-2.5-flash", cfg.Oracle.Model)
	assert.Equal(t, 30*time.Second, cfg.Oracle.Timeout)
	assert.Equal(t, 30*time.Minute, cfg.Conversation.TTL)
	assert.Equal(t, 5, cfg.Conversation.InterestWindow)
	assert.Equal(t, "Rachel", cfg.Persona.AgentName)
	assert.Equal(t, "Premium Properties", cfg.Persona.CompanyName)
	assert.Equal(t, "leads.saved", cfg.NATS.Subject)
	assert.Equal(t, "leadqual:", cfg.Redis.KeyPrefix)
	assert.True(t, cfg.MirrorTranscripts)
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GEMINI_API_KEY=from-file\nAGENT_NAME=Maya\n"), 0o600))
	// godotenv never overrides variables that are already set
	for _, k := range []string{"GEMINI_API_KEY", "AGENT_NAME"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.APIKey)
	assert.Equal(t, "Maya", cfg.Persona.AgentName)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("ORACLE_MODEL", "gemini-2.5-pro")
	t.Setenv("ORACLE_TIMEOUT", "5s")
	t.Setenv("LEAD_SINK", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("NATS_URL", "nats://localhost:4222")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, core.Production, cfg.Environment)
	assert.Equal(t, "gemini-2.5-pro", cfg.Oracle.Model)
	assert.Equal(t, 5*time.Second, cfg.Oracle.Timeout)
	assert.Equal(t, SinkRedis, cfg.LeadSink)
	assert.True(t, cfg.NATS.Enabled())
}

func TestValidate(t *testing.T) {
	cfg := AppConfig{HTTPPort: 8080, LeadSink: SinkPostgres, SinkTimeout: time.Second}
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "GEMINI_API_KEY")
	assert.ErrorContains(t, err, "DATABASE_URL")

	cfg = AppConfig{APIKey: "k", HTTPPort: 8080, LeadSink: "sheets", SinkTimeout: time.Second}
	assert.ErrorContains(t, cfg.Validate(), `unknown LEAD_SINK "sheets"`)

	cfg = AppConfig{APIKey: "k", HTTPPort: 8080, LeadSink: SinkMemory, SinkTimeout: time.Second}
	assert.NoError(t, cfg.Validate())
}
