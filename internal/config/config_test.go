package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/steelegbr/alldaydj-sub000/internal/config"
)

func TestPollIntervalDefault(t *testing.T) {
	t.Setenv("ALLDAYDJ_POLL_INTERVAL", "")
	require.Equal(t, 5000*time.Millisecond, config.New().GetPollInterval())
}

func TestPollIntervalFromEnv(t *testing.T) {
	t.Setenv("ALLDAYDJ_POLL_INTERVAL", "2500")
	require.Equal(t, 2500*time.Millisecond, config.New().GetPollInterval())
}

func TestPollIntervalInvalidFallsBack(t *testing.T) {
	for _, raw := range []string{"abc", "-1", "0"} {
		t.Setenv("ALLDAYDJ_POLL_INTERVAL", raw)
		require.Equal(t, 5000*time.Millisecond, config.New().GetPollInterval(), "value %q", raw)
	}
}

func TestAPIBaseURL(t *testing.T) {
	t.Setenv("ALLDAYDJ_API_URL", "")
	require.Equal(t, "http://localhost:8000", config.New().GetAPIBaseURL())

	t.Setenv("ALLDAYDJ_API_URL", "https://api.example.com")
	require.Equal(t, "https://api.example.com", config.New().GetAPIBaseURL())
}

func TestTokenFileOverride(t *testing.T) {
	t.Setenv("ALLDAYDJ_TOKEN_FILE", "/tmp/alldaydj-test-tokens.json")
	require.Equal(t, "/tmp/alldaydj-test-tokens.json", config.New().GetTokenFile())
}

func TestLogLevelDefault(t *testing.T) {
	t.Setenv("ALLDAYDJ_LOG_LEVEL", "")
	require.Equal(t, "info", config.New().GetLogLevel())
}
