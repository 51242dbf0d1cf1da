// Package config loads environment variables into typed structs with
// caarlos0/env, reading a .env file through godotenv on first use.
//
//	var cfg app.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// Each configuration type is parsed once and cached; later Load calls for
// the same type return the cached copy. Reset drops the cache.
package config
