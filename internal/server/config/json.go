package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/travelbook/internal/flagx"
	"github.com/dmitrijs2005/travelbook/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Pointer fields distinguish
// "absent" from zero values so a partial file only overrides what it names.
type JsonConfig struct {
	EndpointAddrHTTP            *string         `json:"endpoint_addr_http"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	BaseURL                     *string         `json:"base_url"`
	UploadDir                   *string         `json:"upload_dir"`
	AssetsDir                   *string         `json:"assets_dir"`
	MediaBackend                *string         `json:"media_backend"`
	MaxUploadSize               *int64          `json:"max_upload_size"`
	S3RootUser                  *string         `json:"s3_root_user"`
	S3RootPassword              *string         `json:"s3_root_password"`
	S3Bucket                    *string         `json:"s3_bucket"`
	S3Region                    *string         `json:"s3_region"`
	S3BaseEndpoint              *string         `json:"s3_base_endpoint"`
	RedisAddr                   *string         `json:"redis_addr"`
	RateLimitRPS                *float64        `json:"rate_limit_rps"`
	RateLimitBurst              *int            `json:"rate_limit_burst"`
	CORSOrigin                  *string         `json:"cors_origin"`
}

// parseJson overlays values from the file named by -c / -config.
// Nothing happens when neither flag is given. An unreadable file or invalid
// JSON panics: the server must not start on a half-read configuration.
func parseJson(config *Config) {
	path := flagx.ConfigFilePath(os.Args[1:])
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	setString(&config.BaseURL, c.BaseURL)
	setString(&config.UploadDir, c.UploadDir)
	setString(&config.AssetsDir, c.AssetsDir)
	setString(&config.MediaBackend, c.MediaBackend)
	if c.MaxUploadSize != nil {
		config.MaxUploadSize = *c.MaxUploadSize
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.RedisAddr, c.RedisAddr)
	if c.RateLimitRPS != nil {
		config.RateLimitRPS = *c.RateLimitRPS
	}
	if c.RateLimitBurst != nil {
		config.RateLimitBurst = *c.RateLimitBurst
	}
	setString(&config.CORSOrigin, c.CORSOrigin)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
