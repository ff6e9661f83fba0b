package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("RELAY_SERVICE_KEY", "k")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Host)
	require.Equal(t, uint16(8080), cfg.Port)
	require.Equal(t, SchemeHTTP, cfg.Scheme)
	require.Equal(t, "/socket.io", cfg.Resource)
	require.Equal(t, "k", cfg.ServiceKey)
}

func TestLoadConfigRejectsMissingServiceKey(t *testing.T) {
	t.Setenv("RELAY_SERVICE_KEY", "")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigRejectsBadScheme(t *testing.T) {
	t.Setenv("RELAY_SERVICE_KEY", "k")
	t.Setenv("RELAY_SCHEME", "gopher")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestTLSCredentials(t *testing.T) {
	dir := t.TempDir()
	certPath := filepath.Join(dir, "relay.crt")
	keyPath := filepath.Join(dir, "relay.key")
	require.NoError(t, os.WriteFile(certPath, []byte("cert"), 0o600))
	require.NoError(t, os.WriteFile(keyPath, []byte("key"), 0o600))

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "http needs nothing",
			cfg:  Config{Scheme: SchemeHTTP},
		},
		{
			name: "https with both files",
			cfg:  Config{Scheme: SchemeHTTPS, SSLCertPath: certPath, SSLKeyPath: keyPath},
		},
		{
			name:    "https without cert path",
			cfg:     Config{Scheme: SchemeHTTPS, SSLKeyPath: keyPath},
			wantErr: "RELAY_SSL_CERT_PATH",
		},
		{
			name:    "https without key path",
			cfg:     Config{Scheme: SchemeHTTPS, SSLCertPath: certPath},
			wantErr: "RELAY_SSL_KEY_PATH",
		},
		{
			name:    "https with missing key file",
			cfg:     Config{Scheme: SchemeHTTPS, SSLCertPath: certPath, SSLKeyPath: filepath.Join(dir, "gone.key")},
			wantErr: "ssl key",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cert, key, err := tt.cfg.TLSCredentials()
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.cfg.SSLCertPath, cert)
			require.Equal(t, tt.cfg.SSLKeyPath, key)
		})
	}
}
