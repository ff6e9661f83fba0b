package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
)

type Config struct {
	Host     string `env:"RELAY_HOST"     envDefault:"0.0.0.0"`
	Port     uint16 `env:"RELAY_PORT"     envDefault:"8080" validate:"min=1,max=65535"`
	Scheme   string `env:"RELAY_SCHEME"   envDefault:"http" validate:"oneof=http https"`
	Resource string `env:"RELAY_RESOURCE" envDefault:"/socket.io"`

	// ServiceKey is the shared secret every privileged relay operation must
	// present. The web backend and the relay are configured with the same
	// value; there is no per-user credential.
	ServiceKey string `env:"RELAY_SERVICE_KEY" validate:"required"`

	SSLKeyPath  string `env:"RELAY_SSL_KEY_PATH"`
	SSLCertPath string `env:"RELAY_SSL_CERT_PATH"`
}

func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().Debug(".env file not found", zap.Error(err))
	}

	cfg := &Config{}
	// Parse config from environment variables
	if err = env.Parse(cfg); err != nil {
		zap.L().Error("config_load_failed", zap.Error(err))
		return nil, err
	}

	// Validate the config
	validate := validator.New()
	err = validate.Struct(cfg)
	if err != nil {
		zap.L().Error("config_validation_failed", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}

// TLSCredentials resolves the certificate/key pair for the https scheme,
// naming whichever credential is missing so a misconfigured deploy can be
// diagnosed from a single log line. For the http scheme both paths are empty.
func (c *Config) TLSCredentials() (certFile, keyFile string, err error) {
	if c.Scheme != SchemeHTTPS {
		return "", "", nil
	}
	if c.SSLCertPath == "" {
		return "", "", fmt.Errorf("scheme is https but RELAY_SSL_CERT_PATH is not set")
	}
	if c.SSLKeyPath == "" {
		return "", "", fmt.Errorf("scheme is https but RELAY_SSL_KEY_PATH is not set")
	}
	if _, statErr := os.Stat(c.SSLCertPath); statErr != nil {
		return "", "", fmt.Errorf("ssl certificate %s: %w", c.SSLCertPath, statErr)
	}
	if _, statErr := os.Stat(c.SSLKeyPath); statErr != nil {
		return "", "", fmt.Errorf("ssl key %s: %w", c.SSLKeyPath, statErr)
	}
	return c.SSLCertPath, c.SSLKeyPath, nil
}
