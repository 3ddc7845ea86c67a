package config

import "time"

type Config interface {
	GetAppName() string
	GetAPIBaseURL() string
	GetPollInterval() time.Duration
	GetTokenFile() string
	GetLogLevel() string
}

func New() Config {
	return EnvVars{}
}
