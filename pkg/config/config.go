package config

import (
	"os"
	"strconv"
)

type Config struct {
	RedisAddr        string
	RedisDB          int
	RedisPassword    string
	DirectoryBackend string
	PolicyBackend    string
	AuditPath        string
	AuditSecret      string
	LogLevel         string
	DirectoryRate    float64
	DirectoryBurst   int
}

func Load() *Config {
	return &Config{
		RedisAddr:        getEnv("MINOS_REDIS_ADDR", "localhost:6379"),
		RedisDB:          GetEnvInt("MINOS_REDIS_DB", 0),
		RedisPassword:    getEnv("MINOS_REDIS_PASSWORD", ""),
		DirectoryBackend: getEnv("MINOS_DIRECTORY_BACKEND", "memory"),
		PolicyBackend:    getEnv("MINOS_POLICY_BACKEND", "memory"),
		AuditPath:        getEnv("MINOS_AUDIT_PATH", "/tmp/minos/audit.log"),
		AuditSecret:      getEnv("MINOS_AUDIT_SECRET", ""),
		LogLevel:         getEnv("MINOS_LOG_LEVEL", "INFO"),
		DirectoryRate:    GetEnvFloat("MINOS_DIRECTORY_RATE", 0),
		DirectoryBurst:   GetEnvInt("MINOS_DIRECTORY_BURST", 0),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func GetEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func GetEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}
