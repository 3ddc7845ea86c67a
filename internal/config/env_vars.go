package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	apiURLEnvVar       = "ALLDAYDJ_API_URL"
	pollIntervalEnvVar = "ALLDAYDJ_POLL_INTERVAL"
	tokenFileEnvVar    = "ALLDAYDJ_TOKEN_FILE"
	logLevelEnvVar     = "ALLDAYDJ_LOG_LEVEL"

	defaultPollIntervalMs = 5000
)

type EnvVars struct{}

var _ Config = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv("ALLDAYDJ_APP_NAME", "AllDayDJ")
}

func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(apiURLEnvVar, "http://localhost:8000")
}

// GetPollInterval returns the session re-check interval. The environment
// variable is an integer number of milliseconds; unset, unparsable or
// non-positive values fall back to the 5000 ms default.
func (EnvVars) GetPollInterval() time.Duration {
	raw := GetEnv(pollIntervalEnvVar, "")
	if raw == "" {
		return defaultPollIntervalMs * time.Millisecond
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms <= 0 {
		return defaultPollIntervalMs * time.Millisecond
	}
	return time.Duration(ms) * time.Millisecond
}

// GetTokenFile returns the path of the durable token store, defaulting to
// ~/.alldaydj/tokens.json with a working-directory fallback when the home
// directory cannot be determined.
func (EnvVars) GetTokenFile() string {
	if path := GetEnv(tokenFileEnvVar, ""); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".alldaydj-tokens.json"
	}
	return filepath.Join(home, ".alldaydj", "tokens.json")
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelEnvVar, "info")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
