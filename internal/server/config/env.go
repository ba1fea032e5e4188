package config

import "os"

// parseEnv applies the variables a container deployment usually sets.
// Empty values are ignored.
func parseEnv(config *Config) {
	lookup := func(name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*dst = v
		}
	}

	lookup("ADDRESS", &config.EndpointAddrHTTP)
	lookup("DATABASE_DSN", &config.DatabaseDSN)
	lookup("ACCESS_TOKEN_SECRET", &config.SecretKey)
	lookup("BACKEND_BASE_URL", &config.BaseURL)
	lookup("REDIS_ADDR", &config.RedisAddr)
}
