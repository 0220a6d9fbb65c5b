package config

import "time"

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	AccessTTL  time.Duration `mapstructure:"access_ttl"`
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"`
}

// SigningKey returns the HMAC key used for both token types.
func (c JWTConfig) SigningKey() []byte {
	return []byte(c.Secret)
}
