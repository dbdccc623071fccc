package config

import (
	"os"
)

type Config struct {
	Port     string
	DBPath   string
	LogLevel string
}

func ProcessEnvironmentVariables() (*Config, error) {
	env := Config{
		Port:     "8080",
		DBPath:   "loanledger.db",
		LogLevel: "info",
	}

	envPort := os.Getenv("PORT")
	envDBPath := os.Getenv("DB_PATH")
	envLogLevel := os.Getenv("LOG_LEVEL")

	if len(envPort) != 0 {
		env.Port = envPort
	}

	if len(envDBPath) != 0 {
		env.DBPath = envDBPath
	}

	if len(envLogLevel) != 0 {
		env.LogLevel = envLogLevel
	}

	return &env, nil
}
